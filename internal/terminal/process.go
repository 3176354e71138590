package terminal

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// DefaultShell is used when $SHELL is unset.
const DefaultShell = "/bin/sh"

// closeGrace is how long Close waits for the shell to exit after SIGHUP
// before killing it.
const closeGrace = 2 * time.Second

// Process is a shell attached to a pseudo-terminal. Read returns the shell's
// output and Write delivers keyboard input.
type Process interface {
	io.ReadWriteCloser
	Resize(cols, rows int) error
	// Wait blocks until the shell exits. It is safe to call more than once.
	Wait() error
}

// Spawner starts a shell in dir on a new PTY of the given size.
type Spawner func(dir string, cols, rows int) (Process, error)

// ShellPath returns the user's shell.
func ShellPath() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return DefaultShell
}

// ptyProcess is the creack/pty backed Process.
type ptyProcess struct {
	cmd  *exec.Cmd
	ptmx *os.File

	// setSize is pty.Setsize, swappable in tests.
	setSize func(*os.File, *pty.Winsize) error

	waitOnce sync.Once
	waitDone chan struct{}
	waitErr  error
}

// SpawnShell starts ShellPath() as an interactive shell in dir.
func SpawnShell(dir string, cols, rows int) (Process, error) {
	cmd := exec.Command(ShellPath())
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color", "ROOMS=1")

	ptmx, err := pty.StartWithSize(cmd, winsize(cols, rows))
	if err != nil {
		return nil, err
	}
	return &ptyProcess{
		cmd:      cmd,
		ptmx:     ptmx,
		setSize:  pty.Setsize,
		waitDone: make(chan struct{}),
	}, nil
}

func winsize(cols, rows int) *pty.Winsize {
	cols, rows = clampSize(cols, rows)
	return &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}
}

func (p *ptyProcess) Read(b []byte) (int, error)  { return p.ptmx.Read(b) }
func (p *ptyProcess) Write(b []byte) (int, error) { return p.ptmx.Write(b) }

// Resize sets the kernel window size, which also delivers SIGWINCH to the
// shell's foreground process group.
func (p *ptyProcess) Resize(cols, rows int) error {
	return p.setSize(p.ptmx, winsize(cols, rows))
}

func (p *ptyProcess) Wait() error {
	p.waitOnce.Do(func() {
		p.waitErr = p.cmd.Wait()
		close(p.waitDone)
	})
	<-p.waitDone
	return p.waitErr
}

// Close hangs up the shell and releases the PTY. The shell is killed if it
// ignores SIGHUP.
func (p *ptyProcess) Close() error {
	err := p.ptmx.Close()
	if p.cmd.Process == nil {
		return err
	}
	_ = p.cmd.Process.Signal(syscall.SIGHUP)

	go p.Wait()
	select {
	case <-p.waitDone:
	case <-time.After(closeGrace):
		_ = p.cmd.Process.Kill()
		<-p.waitDone
	}
	return err
}
