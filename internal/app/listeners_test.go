package app

import (
	"strings"
	"testing"
	"time"

	"github.com/zhubert/rooms/internal/terminal"
)

func TestSessionOutput_RedrawsOnTick(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	proc := enterRoom(t, env, "render")

	proc.emit(t, "rendered text")
	msg := nextSessionEvent(t, m, terminal.EventOutput)
	_, next := m.Update(msg)
	if next == nil {
		t.Error("listener not re-armed after output")
	}
	if !m.paneDirty {
		t.Fatal("output for the selected room should mark the pane dirty")
	}

	_, tick := m.Update(renderTickMsg(time.Now()))
	if tick == nil {
		t.Error("render tick not rescheduled")
	}
	if m.paneDirty {
		t.Error("tick did not redraw")
	}
	if !strings.Contains(m.pane.Snapshot().Text(), "rendered text") {
		t.Errorf("pane shows %q", m.pane.Snapshot().Text())
	}
}

func TestSessionOutput_OtherRoomNotDirty(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	proc := enterRoom(t, env, "background")
	env.addRoom(t, "foreground")
	env.selectRoom(t, "foreground")

	proc.emit(t, "noise")
	m.Update(nextSessionEvent(t, m, terminal.EventOutput))
	if m.paneDirty {
		t.Error("output from an unselected room marked the pane dirty")
	}
}

func TestSessionExit_StaleEventIgnored(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.m
	proc := enterRoom(t, env, "stale")

	m.Update(SessionEventMsg{Event: terminal.Event{Kind: terminal.EventExited, Path: proc.dir, SessionID: "old"}})
	if m.sessions.Get(proc.dir) == nil {
		t.Error("an exit for another session reaped the live one")
	}
}
