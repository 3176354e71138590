package cmd

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhubert/rooms/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)
	os.Exit(m.Run())
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

// createTestRepo creates a repository with one commit and returns its
// resolved path. Rooms go next to it.
func createTestRepo(t *testing.T) string {
	t.Helper()
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	repoDir := filepath.Join(base, "repo")
	if err := os.MkdirAll(repoDir, 0755); err != nil {
		t.Fatalf("Failed to create repo dir: %v", err)
	}
	runGit(t, repoDir, "init")
	runGit(t, repoDir, "config", "user.email", "test@example.com")
	runGit(t, repoDir, "config", "user.name", "Test User")
	if err := os.WriteFile(filepath.Join(repoDir, "README"), []byte("rooms\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	runGit(t, repoDir, "add", ".")
	runGit(t, repoDir, "commit", "-m", "Initial commit")
	return repoDir
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"lowercase y", "y\n", true},
		{"uppercase Y", "Y\n", true},
		{"lowercase yes", "yes\n", true},
		{"mixed case Yes", "Yes\n", true},
		{"lowercase n", "n\n", false},
		{"empty input", "\n", false},
		{"random text", "maybe\n", false},
		{"y with spaces", "  y  \n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := confirm(strings.NewReader(tt.input), io.Discard, "Test?")
			if result != tt.expected {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestConfirm_EOF(t *testing.T) {
	if confirm(strings.NewReader(""), io.Discard, "Test?") {
		t.Error("confirm(EOF) = true, want false")
	}
}

func TestConfirm_ErrorReader(t *testing.T) {
	if confirm(&errorReader{}, io.Discard, "Test?") {
		t.Error("confirm(error) = true, want false")
	}
}

// errorReader is a reader that always returns an error
type errorReader struct{}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

// staleRepo returns a repository with one room whose directory was removed.
func staleRepo(t *testing.T) (*repoContext, string) {
	t.Helper()
	dir := createTestRepo(t)
	stale := filepath.Join(filepath.Dir(dir), "gone")
	runGit(t, dir, "worktree", "add", "-b", "gone", stale)
	if err := os.RemoveAll(stale); err != nil {
		t.Fatal(err)
	}
	repo, err := loadRepo(context.Background(), dir)
	if err != nil {
		t.Fatalf("loadRepo: %v", err)
	}
	return repo, stale
}

func TestPruneRooms_Confirmed(t *testing.T) {
	repo, stale := staleRepo(t)

	var out strings.Builder
	if err := pruneRooms(context.Background(), strings.NewReader("y\n"), &out, repo, false, false); err != nil {
		t.Fatalf("pruneRooms: %v", err)
	}
	if !strings.Contains(out.String(), stale) {
		t.Errorf("output does not list %s:\n%s", stale, out.String())
	}
	if !strings.Contains(out.String(), "1 stale worktree(s) pruned") {
		t.Errorf("output:\n%s", out.String())
	}
	if list := runGit(t, repo.primary, "worktree", "list"); strings.Contains(list, stale) {
		t.Errorf("stale worktree still registered:\n%s", list)
	}
	if branches := runGit(t, repo.primary, "branch", "--list", "gone"); !strings.Contains(branches, "gone") {
		t.Error("prune removed the branch")
	}
}

func TestPruneRooms_Aborted(t *testing.T) {
	repo, stale := staleRepo(t)

	var out strings.Builder
	if err := pruneRooms(context.Background(), strings.NewReader("n\n"), &out, repo, false, false); err != nil {
		t.Fatalf("pruneRooms: %v", err)
	}
	if !strings.Contains(out.String(), "Aborted.") {
		t.Errorf("output:\n%s", out.String())
	}
	if list := runGit(t, repo.primary, "worktree", "list"); !strings.Contains(list, stale) {
		t.Error("aborted prune removed the worktree record")
	}
}

func TestPruneRooms_NothingToDo(t *testing.T) {
	dir := createTestRepo(t)
	repo, err := loadRepo(context.Background(), dir)
	if err != nil {
		t.Fatalf("loadRepo: %v", err)
	}

	var out strings.Builder
	if err := pruneRooms(context.Background(), strings.NewReader(""), &out, repo, false, false); err != nil {
		t.Fatalf("pruneRooms: %v", err)
	}
	if strings.TrimSpace(out.String()) != "Nothing to prune." {
		t.Errorf("output = %q", out.String())
	}
}
