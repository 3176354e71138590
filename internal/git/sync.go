package git

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SnapshotEntry is one worktree as seen by a single synchronization pass.
type SnapshotEntry struct {
	Path           string
	Branch         string // empty when detached
	Head           string
	IsPrimary      bool
	IsPrunable     bool
	PrunableReason string
	IsLocked       bool
}

// Name is the room name, the last element of the worktree path.
func (e SnapshotEntry) Name() string {
	return filepath.Base(e.Path)
}

// Synchronizer produces the ground-truth list of rooms from git.
type Synchronizer struct {
	git      *GitService
	repoDir  string
	roomsDir string
}

// NewSynchronizer returns a Synchronizer for the repository at repoDir.
// Only worktrees inside roomsDir, plus the primary worktree, are reported.
// An empty roomsDir reports every worktree.
func NewSynchronizer(svc *GitService, repoDir, roomsDir string) *Synchronizer {
	return &Synchronizer{git: svc, repoDir: repoDir, roomsDir: roomsDir}
}

// RepoDir returns the repository directory git commands run in.
func (s *Synchronizer) RepoDir() string { return s.repoDir }

// RoomsDir returns the directory new rooms are created in.
func (s *Synchronizer) RoomsDir() string { return s.roomsDir }

// Sync lists worktrees and probes the primary worktree concurrently, then
// folds both into snapshot entries.
func (s *Synchronizer) Sync(ctx context.Context) ([]SnapshotEntry, error) {
	var (
		worktrees []Worktree
		primary   string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		worktrees, err = s.git.ListWorktrees(gctx, s.repoDir)
		return err
	})
	g.Go(func() error {
		var err error
		primary, err = s.git.PrimaryWorktree(gctx, s.repoDir)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildSnapshot(worktrees, primary, s.roomsDir), nil
}

// BuildSnapshot filters worktrees to those inside roomsDir plus the primary
// worktree, and marks the primary by comparing paths with primary.
func BuildSnapshot(worktrees []Worktree, primary, roomsDir string) []SnapshotEntry {
	primaryCanon := canonicalPath(primary)
	roomsCanon := ""
	if roomsDir != "" {
		roomsCanon = canonicalPath(roomsDir)
	}

	entries := make([]SnapshotEntry, 0, len(worktrees))
	for _, wt := range worktrees {
		canon := canonicalPath(wt.Path)
		isPrimary := canon == primaryCanon || (primary == "" && wt.IsMain)

		if !isPrimary && roomsCanon != "" && !isWithin(canon, roomsCanon) {
			continue
		}

		entries = append(entries, SnapshotEntry{
			Path:           wt.Path,
			Branch:         wt.Branch,
			Head:           wt.Head,
			IsPrimary:      isPrimary,
			IsPrunable:     wt.Prunable,
			PrunableReason: wt.PrunableReason,
			IsLocked:       wt.Locked,
		})
	}
	return entries
}

// canonicalPath resolves symlinks when the path exists, and otherwise falls
// back to a cleaned absolute path. Prunable worktrees hit the fallback.
func canonicalPath(p string) string {
	if p == "" {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	} else if dir, derr := filepath.EvalSymlinks(filepath.Dir(p)); derr == nil {
		p = filepath.Join(dir, filepath.Base(p))
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.Clean(p)
}

func isWithin(path, dir string) bool {
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(dir, string(filepath.Separator))+string(filepath.Separator))
}
