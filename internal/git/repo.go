package git

import (
	"context"
	"path/filepath"
	"strings"

	rerrors "github.com/zhubert/rooms/internal/errors"
)

// RepoRoot returns the top-level directory of the working tree containing dir.
// Outside a repository it returns a KindInvalid error, which is fatal at startup.
func (s *GitService) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := s.run(ctx, "git.RepoRoot", dir, "rev-parse", "--show-toplevel")
	if err != nil {
		if strings.Contains(strings.ToLower(gitStderr(err)), "not a git repository") {
			return "", rerrors.GitNotRepo(dir, err)
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// PrimaryWorktree returns the path of the main worktree, derived from the
// common git directory so that it is correct from inside any linked worktree.
func (s *GitService) PrimaryWorktree(ctx context.Context, dir string) (string, error) {
	out, err := s.run(ctx, "git.PrimaryWorktree", dir, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		if strings.Contains(strings.ToLower(gitStderr(err)), "not a git repository") {
			return "", rerrors.GitNotRepo(dir, err)
		}
		return "", err
	}
	return primaryFromCommonDir(strings.TrimSpace(out)), nil
}

// primaryFromCommonDir strips the trailing .git component from a common dir.
// Bare repositories have no .git suffix and are returned unchanged.
func primaryFromCommonDir(commonDir string) string {
	commonDir = strings.TrimRight(commonDir, "/")
	if filepath.Base(commonDir) == ".git" {
		return filepath.Dir(commonDir)
	}
	return commonDir
}

// CurrentBranch returns the branch checked out in dir, or "HEAD" when detached.
func (s *GitService) CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := s.run(ctx, "git.CurrentBranch", dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
