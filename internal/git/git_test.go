package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/zhubert/rooms/internal/logger"
)

// svc creates a new GitService for testing (used by integration tests)
var svc = NewGitService()

// ctx is a background context for testing
var ctx = context.Background()

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)
	os.Exit(m.Run())
}

// createTestRepo creates a git repository with one commit inside a fresh
// temp directory and returns its path. Worktrees created as siblings of the
// returned path land in the same temp directory.
func createTestRepo(t *testing.T) string {
	t.Helper()

	repoDir := filepath.Join(t.TempDir(), "repo")
	if err := os.MkdirAll(repoDir, 0755); err != nil {
		t.Fatalf("Failed to create repo dir: %v", err)
	}

	runGit(t, repoDir, "init")
	runGit(t, repoDir, "config", "user.email", "test@example.com")
	runGit(t, repoDir, "config", "user.name", "Test User")

	testFile := filepath.Join(repoDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	runGit(t, repoDir, "add", ".")
	runGit(t, repoDir, "commit", "-m", "Initial commit")

	return repoDir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return string(out)
}

func TestRepoRoot(t *testing.T) {
	repo := createTestRepo(t)

	sub := filepath.Join(repo, "nested", "dir")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	root, err := svc.RepoRoot(ctx, sub)
	if err != nil {
		t.Fatalf("RepoRoot() error = %v", err)
	}
	if canonicalPath(root) != canonicalPath(repo) {
		t.Errorf("RepoRoot() = %q, want %q", root, repo)
	}
}

func TestRepoRoot_NotARepository(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	if _, err := svc.RepoRoot(ctx, dir); err == nil {
		t.Fatal("expected error outside a repository")
	}
}

func TestPrimaryWorktree_FromLinkedWorktree(t *testing.T) {
	repo := createTestRepo(t)
	linked := filepath.Join(filepath.Dir(repo), "linked")
	runGit(t, repo, "worktree", "add", "-b", "linked", linked)

	primary, err := svc.PrimaryWorktree(ctx, linked)
	if err != nil {
		t.Fatalf("PrimaryWorktree() error = %v", err)
	}
	if canonicalPath(primary) != canonicalPath(repo) {
		t.Errorf("PrimaryWorktree() = %q, want %q", primary, repo)
	}
}

func TestCurrentBranch(t *testing.T) {
	repo := createTestRepo(t)
	runGit(t, repo, "checkout", "-b", "feature-x")

	branch, err := svc.CurrentBranch(ctx, repo)
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if branch != "feature-x" {
		t.Errorf("CurrentBranch() = %q, want feature-x", branch)
	}
}

func TestAddWorktree_NewAndExistingBranch(t *testing.T) {
	repo := createTestRepo(t)
	parent := filepath.Dir(repo)

	// New branch from HEAD.
	first := filepath.Join(parent, "quick-fox-a1b2")
	if err := svc.AddWorktree(ctx, repo, first, "quick-fox-a1b2", ""); err != nil {
		t.Fatalf("AddWorktree(new) error = %v", err)
	}

	// Existing branch checked out as is.
	runGit(t, repo, "branch", "existing")
	second := filepath.Join(parent, "existing")
	if err := svc.AddWorktree(ctx, repo, second, "existing", ""); err != nil {
		t.Fatalf("AddWorktree(existing) error = %v", err)
	}

	// New branch from an explicit base.
	base, _ := svc.CurrentBranch(ctx, repo)
	third := filepath.Join(parent, "from-base")
	if err := svc.AddWorktree(ctx, repo, third, "from-base", base); err != nil {
		t.Fatalf("AddWorktree(base) error = %v", err)
	}

	wts, err := svc.ListWorktrees(ctx, repo)
	if err != nil {
		t.Fatalf("ListWorktrees() error = %v", err)
	}
	if len(wts) != 4 {
		t.Fatalf("expected 4 worktrees, got %d: %+v", len(wts), wts)
	}
	if !wts[0].IsMain {
		t.Error("first worktree should be the main worktree")
	}
	branches := map[string]bool{}
	for _, wt := range wts[1:] {
		branches[wt.Branch] = true
	}
	for _, want := range []string{"quick-fox-a1b2", "existing", "from-base"} {
		if !branches[want] {
			t.Errorf("expected worktree on branch %s", want)
		}
	}
}

func TestAddWorktree_DuplicatePathFails(t *testing.T) {
	repo := createTestRepo(t)
	path := filepath.Join(filepath.Dir(repo), "dup")

	if err := svc.AddWorktree(ctx, repo, path, "dup", ""); err != nil {
		t.Fatalf("first AddWorktree() error = %v", err)
	}
	if err := svc.AddWorktree(ctx, repo, path, "dup-2", ""); err == nil {
		t.Fatal("expected error adding a worktree over an existing path")
	}
}

// Deleting a room never deletes its branch.
func TestRemoveWorktree_PreservesBranch(t *testing.T) {
	repo := createTestRepo(t)
	path := filepath.Join(filepath.Dir(repo), "calm-bear-1f2c")
	if err := svc.AddWorktree(ctx, repo, path, "calm-bear-1f2c", ""); err != nil {
		t.Fatalf("AddWorktree() error = %v", err)
	}

	// Dirty the worktree; force removal must still succeed.
	if err := os.WriteFile(filepath.Join(path, "scratch.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := svc.RemoveWorktree(ctx, repo, path, true); err != nil {
		t.Fatalf("RemoveWorktree() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("worktree directory should be gone")
	}

	branches, err := svc.BranchList(ctx, repo, "calm-bear-1f2c")
	if err != nil {
		t.Fatalf("BranchList() error = %v", err)
	}
	if len(branches) != 1 || branches[0] != "calm-bear-1f2c" {
		t.Errorf("branch should survive removal, got %v", branches)
	}
}

func TestRemoveWorktree_DirtyWithoutForceFails(t *testing.T) {
	repo := createTestRepo(t)
	path := filepath.Join(filepath.Dir(repo), "dirty")
	if err := svc.AddWorktree(ctx, repo, path, "dirty", ""); err != nil {
		t.Fatalf("AddWorktree() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, "scratch.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := svc.RemoveWorktree(ctx, repo, path, false); err == nil {
		t.Fatal("expected error removing a dirty worktree without force")
	}
}

func TestMoveWorktree(t *testing.T) {
	repo := createTestRepo(t)
	parent := filepath.Dir(repo)
	oldPath := filepath.Join(parent, "quick-fox-a1b2")
	newPath := filepath.Join(parent, "calm-bear-1f2c")

	if err := svc.AddWorktree(ctx, repo, oldPath, "quick-fox-a1b2", ""); err != nil {
		t.Fatalf("AddWorktree() error = %v", err)
	}
	if err := svc.MoveWorktree(ctx, repo, oldPath, newPath); err != nil {
		t.Fatalf("MoveWorktree() error = %v", err)
	}

	wts, err := svc.ListWorktrees(ctx, repo)
	if err != nil {
		t.Fatalf("ListWorktrees() error = %v", err)
	}
	var found bool
	for _, wt := range wts {
		if canonicalPath(wt.Path) == canonicalPath(newPath) {
			found = true
			if wt.Branch != "quick-fox-a1b2" {
				t.Errorf("branch should be untouched by move, got %q", wt.Branch)
			}
		}
		if canonicalPath(wt.Path) == canonicalPath(oldPath) {
			t.Error("old path should no longer be listed")
		}
	}
	if !found {
		t.Error("moved worktree not listed at new path")
	}
}

func TestPrunableWorktreeAndPrune(t *testing.T) {
	repo := createTestRepo(t)
	path := filepath.Join(filepath.Dir(repo), "gone")
	if err := svc.AddWorktree(ctx, repo, path, "gone", ""); err != nil {
		t.Fatalf("AddWorktree() error = %v", err)
	}
	if err := os.RemoveAll(path); err != nil {
		t.Fatal(err)
	}

	wts, err := svc.ListWorktrees(ctx, repo)
	if err != nil {
		t.Fatalf("ListWorktrees() error = %v", err)
	}
	if len(wts) != 2 || !wts[1].Prunable {
		t.Fatalf("expected second worktree to be prunable, got %+v", wts)
	}

	if err := svc.PruneWorktrees(ctx, repo); err != nil {
		t.Fatalf("PruneWorktrees() error = %v", err)
	}
	wts, _ = svc.ListWorktrees(ctx, repo)
	if len(wts) != 1 {
		t.Errorf("expected only the main worktree after prune, got %d", len(wts))
	}
}

func TestBranchExists(t *testing.T) {
	repo := createTestRepo(t)
	runGit(t, repo, "branch", "present")

	ok, err := svc.BranchExists(ctx, repo, "present")
	if err != nil || !ok {
		t.Errorf("BranchExists(present) = %v, %v", ok, err)
	}
	ok, err = svc.BranchExists(ctx, repo, "absent")
	if err != nil || ok {
		t.Errorf("BranchExists(absent) = %v, %v", ok, err)
	}
}

func TestDirtyStatus(t *testing.T) {
	repo := createTestRepo(t)

	st, err := svc.DirtyStatus(ctx, repo)
	if err != nil {
		t.Fatalf("DirtyStatus() error = %v", err)
	}
	if st.IsDirty() {
		t.Errorf("fresh repo should be clean, got %+v", st)
	}

	os.WriteFile(filepath.Join(repo, "test.txt"), []byte("changed"), 0644)
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		os.WriteFile(filepath.Join(repo, name+".txt"), []byte(name), 0644)
	}

	st, err = svc.DirtyStatus(ctx, repo)
	if err != nil {
		t.Fatalf("DirtyStatus() error = %v", err)
	}
	if st.Modified != 1 || st.Untracked != 6 {
		t.Errorf("expected 1 modified and 6 untracked, got %+v", st)
	}
	if len(st.Files) != MaxDirtyFiles {
		t.Errorf("expected %d files in summary, got %d", MaxDirtyFiles, len(st.Files))
	}
}

func TestDirtyStatus_MissingPathIsClean(t *testing.T) {
	st, err := svc.DirtyStatus(ctx, filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("DirtyStatus() error = %v", err)
	}
	if st.IsDirty() {
		t.Error("missing path should be reported clean")
	}
}

func TestSynchronizer_Sync(t *testing.T) {
	repo := createTestRepo(t)
	roomsDir := filepath.Join(filepath.Dir(repo), "rooms")
	outside := filepath.Join(filepath.Dir(repo), "outside")

	if err := svc.AddWorktree(ctx, repo, filepath.Join(roomsDir, "quick-fox-a1b2"), "quick-fox-a1b2", ""); err != nil {
		t.Fatalf("AddWorktree() error = %v", err)
	}
	if err := svc.AddWorktree(ctx, repo, outside, "outside", ""); err != nil {
		t.Fatalf("AddWorktree() error = %v", err)
	}

	sync := NewSynchronizer(svc, repo, roomsDir)
	entries, err := sync.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected primary and one room, got %+v", entries)
	}
	if !entries[0].IsPrimary {
		t.Error("first entry should be the primary worktree")
	}
	if entries[1].Name() != "quick-fox-a1b2" || entries[1].Branch != "quick-fox-a1b2" {
		t.Errorf("unexpected room entry %+v", entries[1])
	}
	if entries[1].IsPrimary {
		t.Error("linked worktree should not be primary")
	}
}
