package git

import (
	"context"
	"strings"
	"testing"
	"time"

	rerrors "github.com/zhubert/rooms/internal/errors"
	rexec "github.com/zhubert/rooms/internal/exec"
)

func TestRun_NonZeroExitBecomesGitError(t *testing.T) {
	mock := rexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"worktree", "add"}, rexec.MockResponse{
		Stderr: []byte("fatal: '/r/feat' already exists\n"),
		Err:    &rexec.MockExitError{Code: 128},
	})
	s := NewGitServiceWithExecutor(mock)

	_, err := s.run(ctx, "git.AddWorktree", "/repo", "worktree", "add", "-b", "feat", "/r/feat")
	if !rerrors.Is(err, rerrors.KindGit) {
		t.Fatalf("expected KindGit error, got %v", err)
	}

	var gerr *rerrors.GitError
	if !rerrors.As(err, &gerr) {
		t.Fatal("expected *GitError in chain")
	}
	if gerr.Command != "git worktree add -b feat /r/feat" {
		t.Errorf("unexpected command %q", gerr.Command)
	}
	if gerr.ExitCode != 128 {
		t.Errorf("expected exit code 128, got %d", gerr.ExitCode)
	}
	if gerr.Stderr != "fatal: '/r/feat' already exists" {
		t.Errorf("stderr should be trimmed, got %q", gerr.Stderr)
	}
	if !strings.Contains(rerrors.Hint(err), "different name") {
		t.Errorf("expected an already-exists hint, got %q", rerrors.Hint(err))
	}
}

// blockingExecutor never finishes until its context is cancelled.
type blockingExecutor struct{}

func (blockingExecutor) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	<-ctx.Done()
	return nil, nil, ctx.Err()
}

func (blockingExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRun_WatchdogTimeout(t *testing.T) {
	s := NewGitServiceWithExecutor(blockingExecutor{}).WithTimeout(20 * time.Millisecond)

	_, err := s.ListWorktrees(ctx, "/repo")
	if !rerrors.Is(err, rerrors.KindTimeout) {
		t.Fatalf("expected KindTimeout error, got %v", err)
	}
	if !strings.Contains(err.Error(), "git worktree list --porcelain") {
		t.Errorf("timeout should name the command, got %q", err.Error())
	}
}

func TestRemoveWorktree_NotAWorkingTreeIsSuccess(t *testing.T) {
	mock := rexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"worktree", "remove"}, rexec.MockResponse{
		Stderr: []byte("fatal: '/r/gone' is not a working tree"),
		Err:    &rexec.MockExitError{Code: 128},
	})
	s := NewGitServiceWithExecutor(mock)

	if err := s.RemoveWorktree(ctx, "/repo", "/r/gone", true); err != nil {
		t.Errorf("expected success, got %v", err)
	}

	calls := mock.GetCalls()
	want := []string{"worktree", "remove", "--force", "/r/gone"}
	if len(calls) != 1 || strings.Join(calls[0].Args, " ") != strings.Join(want, " ") {
		t.Errorf("unexpected calls %+v", calls)
	}
}

func TestRemoveWorktree_OtherFailurePropagates(t *testing.T) {
	mock := rexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"worktree", "remove"}, rexec.MockResponse{
		Stderr: []byte("fatal: cannot remove a locked working tree"),
		Err:    &rexec.MockExitError{Code: 128},
	})
	s := NewGitServiceWithExecutor(mock)

	err := s.RemoveWorktree(ctx, "/repo", "/r/held", true)
	if !rerrors.Is(err, rerrors.KindGit) {
		t.Fatalf("expected KindGit error, got %v", err)
	}
}

func TestAddWorktree_ChoosesFormByBranchExistence(t *testing.T) {
	mock := rexec.NewMockExecutor(nil)
	mock.AddExactMatch("git", []string{"rev-parse", "--verify", "--quiet", "refs/heads/existing"}, rexec.MockResponse{
		Stdout: []byte("abc123\n"),
	})
	mock.AddPrefixMatch("git", []string{"rev-parse", "--verify"}, rexec.MockResponse{
		Err: &rexec.MockExitError{Code: 1},
	})
	s := NewGitServiceWithExecutor(mock)

	if err := s.AddWorktree(ctx, "/repo", "/r/existing", "existing", "main"); err != nil {
		t.Fatalf("AddWorktree(existing) error = %v", err)
	}
	if err := s.AddWorktree(ctx, "/repo", "/r/fresh", "fresh", "main"); err != nil {
		t.Fatalf("AddWorktree(fresh) error = %v", err)
	}

	var adds []string
	for _, c := range mock.GetCalls() {
		if len(c.Args) > 1 && c.Args[1] == "add" {
			adds = append(adds, strings.Join(c.Args, " "))
		}
	}
	want := []string{
		"worktree add /r/existing existing",
		"worktree add -b fresh /r/fresh main",
	}
	if strings.Join(adds, "|") != strings.Join(want, "|") {
		t.Errorf("add calls = %v, want %v", adds, want)
	}
}

func TestBranchExists_UnexpectedFailure(t *testing.T) {
	mock := rexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"rev-parse"}, rexec.MockResponse{
		Stderr: []byte("fatal: not a git repository"),
		Err:    &rexec.MockExitError{Code: 128},
	})
	s := NewGitServiceWithExecutor(mock)

	if _, err := s.BranchExists(ctx, "/tmp", "x"); err == nil {
		t.Error("expected error for exit code other than 1")
	}
}

func TestPrimaryWorktree_NotARepository(t *testing.T) {
	mock := rexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"rev-parse"}, rexec.MockResponse{
		Stderr: []byte("fatal: not a git repository (or any of the parent directories): .git"),
		Err:    &rexec.MockExitError{Code: 128},
	})
	s := NewGitServiceWithExecutor(mock)

	_, err := s.PrimaryWorktree(ctx, "/tmp")
	if !rerrors.Is(err, rerrors.KindInvalid) {
		t.Errorf("expected KindInvalid for a non-repository, got %v", err)
	}
}

func TestSynchronizer_SyncWithMock(t *testing.T) {
	mock := rexec.NewMockExecutor(nil)
	mock.AddExactMatch("git", []string{"worktree", "list", "--porcelain"}, rexec.MockResponse{
		Stdout: []byte("worktree /nonexistent/repo\nHEAD 1\nbranch refs/heads/main\n\nworktree /nonexistent/rooms/a\nHEAD 2\nbranch refs/heads/a\n"),
	})
	mock.AddPrefixMatch("git", []string{"rev-parse", "--path-format=absolute"}, rexec.MockResponse{
		Stdout: []byte("/nonexistent/repo/.git\n"),
	})

	entries, err := NewSynchronizer(NewGitServiceWithExecutor(mock), "/nonexistent/repo", "/nonexistent/rooms").Sync(ctx)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(entries) != 2 || !entries[0].IsPrimary || entries[1].IsPrimary {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestSynchronizer_SyncFailure(t *testing.T) {
	mock := rexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"worktree"}, rexec.MockResponse{
		Stderr: []byte("fatal: boom"),
		Err:    &rexec.MockExitError{Code: 128},
	})
	mock.AddPrefixMatch("git", []string{"rev-parse"}, rexec.MockResponse{Stdout: []byte("/r/.git\n")})

	_, err := NewSynchronizer(NewGitServiceWithExecutor(mock), "/r", "").Sync(ctx)
	if !rerrors.Is(err, rerrors.KindGit) {
		t.Errorf("expected KindGit error, got %v", err)
	}
}
