package git

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// MaxDirtyFiles is the number of paths kept in a DirtyStatus summary.
const MaxDirtyFiles = 5

// DirtyStatus summarizes uncommitted changes in a worktree.
type DirtyStatus struct {
	Modified  int
	Untracked int
	Files     []string // first MaxDirtyFiles porcelain lines
}

// IsDirty reports whether the worktree has any uncommitted change.
func (d DirtyStatus) IsDirty() bool {
	return d.Modified+d.Untracked > 0
}

// Summary renders a short description like "2 modified, 1 untracked".
func (d DirtyStatus) Summary() string {
	if !d.IsDirty() {
		return "No uncommitted changes"
	}
	var parts []string
	if d.Modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", d.Modified))
	}
	if d.Untracked > 0 {
		parts = append(parts, fmt.Sprintf("%d untracked", d.Untracked))
	}
	return strings.Join(parts, ", ")
}

// ParseStatus parses `git status --porcelain` output.
func ParseStatus(output string) DirtyStatus {
	var st DirtyStatus
	// Leading spaces are significant in porcelain output, so only trim the end.
	for _, line := range strings.Split(strings.TrimRight(output, "\n\r\t "), "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "??") {
			st.Untracked++
		} else {
			st.Modified++
		}
		if len(st.Files) < MaxDirtyFiles {
			st.Files = append(st.Files, line)
		}
	}
	return st
}

// DirtyStatus probes the worktree at path. A path that no longer exists is
// reported clean, since there is nothing left on disk to lose.
func (s *GitService) DirtyStatus(ctx context.Context, path string) (DirtyStatus, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DirtyStatus{}, nil
	}
	out, err := s.run(ctx, "git.DirtyStatus", path, "status", "--porcelain")
	if err != nil {
		return DirtyStatus{}, err
	}
	return ParseStatus(out), nil
}
