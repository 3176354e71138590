package git

import (
	"context"
	"strings"

	rerrors "github.com/zhubert/rooms/internal/errors"
)

// Worktree is one entry of `git worktree list --porcelain`.
type Worktree struct {
	Path           string
	Head           string
	Branch         string // empty when HEAD is detached
	IsMain         bool   // first entry reported by git
	Prunable       bool
	PrunableReason string
	Locked         bool
	LockedReason   string
}

// Detached reports whether the worktree has no branch checked out.
func (w Worktree) Detached() bool {
	return w.Branch == ""
}

// ParsePorcelain parses the output of `git worktree list --porcelain`.
// Entries are separated by blank lines; the final entry may lack one.
// Entries missing a worktree or HEAD line are dropped.
func ParsePorcelain(output string) []Worktree {
	var (
		worktrees []Worktree
		cur       Worktree
		hasPath   bool
		hasHead   bool
	)

	flush := func() {
		if hasPath && hasHead {
			cur.IsMain = len(worktrees) == 0
			worktrees = append(worktrees, cur)
		}
		cur = Worktree{}
		hasPath, hasHead = false, false
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "worktree":
			cur.Path = value
			hasPath = true
		case "HEAD":
			cur.Head = value
			hasHead = true
		case "branch":
			cur.Branch = strings.TrimPrefix(value, "refs/heads/")
		case "detached":
			cur.Branch = ""
		case "prunable":
			cur.Prunable = true
			cur.PrunableReason = value
		case "locked":
			cur.Locked = true
			cur.LockedReason = value
		}
	}
	flush()

	return worktrees
}

// ListWorktrees returns every worktree of the repository at repoDir.
func (s *GitService) ListWorktrees(ctx context.Context, repoDir string) ([]Worktree, error) {
	out, err := s.run(ctx, "git.ListWorktrees", repoDir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return ParsePorcelain(out), nil
}

// AddWorktree creates a worktree at path.
//
// When the branch already exists it is checked out as is. Otherwise a new
// branch is created, starting from base when base is non-empty and from the
// current HEAD when it is not.
func (s *GitService) AddWorktree(ctx context.Context, repoDir, path, branch, base string) error {
	exists, err := s.BranchExists(ctx, repoDir, branch)
	if err != nil {
		return err
	}
	_, err = s.run(ctx, "git.AddWorktree", repoDir, AddWorktreeArgs(path, branch, base, exists)...)
	return err
}

// AddWorktreeArgs builds the argument list for `git worktree add`.
func AddWorktreeArgs(path, branch, base string, branchExists bool) []string {
	switch {
	case branchExists:
		return []string{"worktree", "add", path, branch}
	case base != "":
		return []string{"worktree", "add", "-b", branch, path, base}
	default:
		return []string{"worktree", "add", "-b", branch, path}
	}
}

// RemoveWorktree removes the worktree at path. The branch is never touched.
// A path git no longer considers a working tree counts as removed.
func (s *GitService) RemoveWorktree(ctx context.Context, repoDir, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	_, err := s.run(ctx, "git.RemoveWorktree", repoDir, args...)
	if err != nil && strings.Contains(gitStderr(err), "is not a working tree") {
		return nil
	}
	return err
}

// MoveWorktree moves the worktree at oldPath to newPath.
func (s *GitService) MoveWorktree(ctx context.Context, repoDir, oldPath, newPath string) error {
	_, err := s.run(ctx, "git.MoveWorktree", repoDir, "worktree", "move", oldPath, newPath)
	return err
}

// PruneWorktrees drops administrative data for worktrees whose directories
// are gone.
func (s *GitService) PruneWorktrees(ctx context.Context, repoDir string) error {
	_, err := s.run(ctx, "git.PruneWorktrees", repoDir, "worktree", "prune")
	return err
}

// BranchExists reports whether refs/heads/branch exists.
func (s *GitService) BranchExists(ctx context.Context, repoDir, branch string) (bool, error) {
	_, err := s.run(ctx, "git.BranchExists", repoDir, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch)
	if err == nil {
		return true, nil
	}
	// rev-parse --verify --quiet exits 1 without output for a missing ref.
	var gerr *rerrors.GitError
	if rerrors.As(err, &gerr) && gerr.ExitCode == 1 {
		return false, nil
	}
	return false, err
}

// BranchList returns the local branches matching pattern, as printed by
// `git branch --list`, with the current-branch marker stripped.
func (s *GitService) BranchList(ctx context.Context, repoDir, pattern string) ([]string, error) {
	args := []string{"branch", "--list"}
	if pattern != "" {
		args = append(args, pattern)
	}
	out, err := s.run(ctx, "git.BranchList", repoDir, args...)
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(strings.TrimLeft(line, "*+ "))
		if name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}
