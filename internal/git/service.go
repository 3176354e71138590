package git

import (
	"context"
	"strings"
	"time"

	rerrors "github.com/zhubert/rooms/internal/errors"
	rexec "github.com/zhubert/rooms/internal/exec"
	"github.com/zhubert/rooms/internal/logger"
)

// DefaultTimeout bounds every git subprocess. A hung git (for example one
// blocked on an index.lock) is killed and reported as a timeout error.
const DefaultTimeout = 30 * time.Second

// GitService runs git commands through an injectable executor.
type GitService struct {
	executor rexec.CommandExecutor
	timeout  time.Duration
}

// NewGitService creates a new GitService with the default real executor.
func NewGitService() *GitService {
	return &GitService{executor: rexec.NewRealExecutor(), timeout: DefaultTimeout}
}

// NewGitServiceWithExecutor creates a new GitService with a custom executor.
// This is primarily used for testing where a mock executor is needed.
func NewGitServiceWithExecutor(exec rexec.CommandExecutor) *GitService {
	return &GitService{executor: exec, timeout: DefaultTimeout}
}

// WithTimeout returns a copy of s using d as the per-command watchdog.
func (s *GitService) WithTimeout(d time.Duration) *GitService {
	cp := *s
	cp.timeout = d
	return &cp
}

// run executes git with args in dir. A non-zero exit is turned into a
// GitError carrying the command line, exit code and trimmed stderr.
func (s *GitService) run(ctx context.Context, op rerrors.Op, dir string, args ...string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := logger.ComponentLogger("git")
	command := "git " + strings.Join(args, " ")
	start := time.Now()

	stdout, stderr, err := s.executor.Run(ctx, dir, "git", args...)
	log.Debug("ran command", "cmd", command, "dir", dir, "duration", time.Since(start), "error", err)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			log.Warn("command timed out", "cmd", command, "timeout", s.timeout)
			return "", rerrors.Timeout(op, command)
		}
		return string(stdout), rerrors.Git(op, &rerrors.GitError{
			Command:  command,
			ExitCode: rexec.ExitCode(err),
			Stderr:   strings.TrimSpace(string(stderr)),
		})
	}
	return string(stdout), nil
}

// gitStderr returns the stderr recorded in err's GitError, or "".
func gitStderr(err error) string {
	var gerr *rerrors.GitError
	if rerrors.As(err, &gerr) {
		return gerr.Stderr
	}
	return ""
}
