package terminal

import (
	"errors"
	"strings"
	"testing"

	rerrors "github.com/zhubert/rooms/internal/errors"
)

func TestRunHooks_SendsLinesInOrder(t *testing.T) {
	proc := newFakeProcess()
	if err := RunHooks(proc, []string{"npm install", "direnv allow"}); err != nil {
		t.Fatalf("RunHooks failed: %v", err)
	}
	if got := proc.Input(); got != "npm install\rdirenv allow\r" {
		t.Errorf("shell received %q", got)
	}
}

func TestRunHooks_FailFast(t *testing.T) {
	proc := newFakeProcess()
	proc.failOn = "failing-cmd"

	err := RunHooks(proc, []string{"ok-cmd", "failing-cmd", "unreached-cmd"})
	if !rerrors.Is(err, rerrors.KindHook) {
		t.Fatalf("expected hook error, got %v", err)
	}

	var herr *rerrors.HookError
	if !errors.As(err, &herr) {
		t.Fatal("expected *HookError in chain")
	}
	if herr.Command != "failing-cmd" {
		t.Errorf("failing command = %q, want failing-cmd", herr.Command)
	}
	if !strings.Contains(herr.Output, "input/output error") {
		t.Errorf("output = %q, want the write error", herr.Output)
	}

	input := proc.Input()
	if !strings.Contains(input, "ok-cmd\r") {
		t.Errorf("first command not sent: %q", input)
	}
	if strings.Contains(input, "unreached-cmd") {
		t.Errorf("command after the failure was dispatched: %q", input)
	}
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }

func TestRunHooks_ShortWrite(t *testing.T) {
	err := RunHooks(shortWriter{}, []string{"make"})
	if !rerrors.Is(err, rerrors.KindHook) {
		t.Errorf("expected hook error on short write, got %v", err)
	}
}

func TestRunHooks_NoSession(t *testing.T) {
	if err := RunHooks(nil, []string{"make"}); err != nil {
		t.Errorf("nil writer: expected no-op, got %v", err)
	}
	var s *Session
	if err := RunHooks(s, []string{"make"}); err != nil {
		t.Errorf("nil session: expected no-op, got %v", err)
	}
}

func TestRunHooks_ThroughSession(t *testing.T) {
	m, spawner := newTestManager(t)
	s, _ := m.Open("/rooms/a", 80, 24)
	s.SetScrollOffset(5)

	if err := RunHooks(s, []string{"echo hi"}); err != nil {
		t.Fatalf("RunHooks failed: %v", err)
	}
	if got := spawner.last("/rooms/a").Input(); got != "echo hi\r" {
		t.Errorf("shell received %q", got)
	}

	m.Close("/rooms/a")
	if err := RunHooks(s, []string{"echo again"}); !rerrors.Is(err, rerrors.KindHook) {
		t.Errorf("closed session: expected hook error, got %v", err)
	}
}
