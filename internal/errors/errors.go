// Package errors provides structured error types for rooms.
// These errors carry the operation that failed, a category, and enough
// context to show the user what to do next.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindPermission
	KindIO
	KindConfig
	KindGit
	KindTimeout
	KindBusy
	KindExhausted
	KindHook
	KindSession
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindPermission:
		return "permission denied"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindGit:
		return "git error"
	case KindTimeout:
		return "timeout"
	case KindBusy:
		return "busy"
	case KindExhausted:
		return "exhausted"
	case KindHook:
		return "hook error"
	case KindSession:
		return "session error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for rooms.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// As is errors.As, re-exported so callers importing this package under the
// errors name keep access to it.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New is errors.New.
func New(text string) error {
	return errors.New(text)
}

// GitError describes a git invocation that could not run or exited non-zero.
type GitError struct {
	Command  string // e.g. "git worktree add -b feat ../feat"
	ExitCode int    // -1 when the process never ran
	Stderr   string
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("%s failed (exit %d)", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// HookError describes a hook line that could not be delivered to a shell.
type HookError struct {
	Command string
	Output  string
}

func (e *HookError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("hook %q failed", e.Command)
	}
	return fmt.Sprintf("hook %q failed: %s", e.Command, e.Output)
}

// ErrNameGenerationExhausted is returned when every generated room name collided.
var ErrNameGenerationExhausted = errors.New("could not generate a unique room name")

// Git wraps a GitError for the given operation.
func Git(op Op, gerr *GitError) error {
	return E(op, KindGit, gerr)
}

// Validation reports a rejected name, branch or destination.
func Validation(op Op, reason string) error {
	return E(op, KindInvalid, reason)
}

// NameExhausted reports that the retry budget for generated names ran out.
func NameExhausted(attempts int) error {
	return E(Op("room.GenerateUnique"), KindExhausted, fmt.Sprintf("%d attempts", attempts), ErrNameGenerationExhausted)
}

// Hook wraps a HookError.
func Hook(command, output string) error {
	return E(Op("terminal.RunHooks"), KindHook, &HookError{Command: command, Output: output})
}

// Session reports an operation on a closed or missing session.
func Session(op Op, path string) error {
	return E(op, KindSession, fmt.Sprintf("no active session for %s", path))
}

// Busy reports that a room already has an operation in flight.
func Busy(op Op, name string) error {
	return E(op, KindBusy, fmt.Sprintf("room %s is busy with another operation", name))
}

// ConfigInvalid reports a malformed configuration file.
func ConfigInvalid(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("invalid configuration in %s", path), err)
}

// GitNotRepo reports that rooms was started outside a repository.
func GitNotRepo(path string, err error) error {
	return E(Op("git.RepoRoot"), KindInvalid, fmt.Sprintf("%s is not a git repository", path), err)
}

// Timeout reports a git subprocess killed by the watchdog.
func Timeout(op Op, command string) error {
	return E(op, KindTimeout, fmt.Sprintf("%s did not finish in time", command))
}

// Hint returns a remediation suggestion for err, or "" when there is none.
func Hint(err error) string {
	if err == nil {
		return ""
	}
	var gerr *GitError
	if errors.As(err, &gerr) {
		stderr := strings.ToLower(gerr.Stderr)
		switch {
		case strings.Contains(stderr, "contains modified or untracked files"):
			return "worktree has uncommitted changes, commit or discard before retrying"
		case strings.Contains(stderr, "already exists"):
			return "choose a different name or remove the existing path"
		case strings.Contains(stderr, "is already checked out"), strings.Contains(stderr, "is already used by worktree"):
			return "the branch is checked out in another worktree, pick another branch"
		case strings.Contains(stderr, "invalid reference"), strings.Contains(stderr, "not a valid"):
			return "check that the base branch exists locally"
		case strings.Contains(stderr, "locked"):
			return "the worktree is locked, run 'git worktree unlock' first"
		case strings.Contains(stderr, "not a git repository"):
			return "run rooms from inside a git repository"
		}
		return "run the git command by hand to see the full error"
	}
	switch GetKind(err) {
	case KindBusy:
		return "wait for the current operation to finish"
	case KindExhausted:
		return "create the room interactively with an explicit name"
	case KindTimeout:
		return "check for a hung git process or a lock file in .git"
	case KindConfig:
		return "fix the configuration file or remove it to use defaults"
	case KindHook:
		return "check the hook commands in the configuration file"
	}
	return ""
}

// UserMessage formats err for display, with its remediation hint appended.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if hint := Hint(err); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}
