// Package events appends lifecycle events to the rooms event log.
//
// Each event is one line:
//
//	2026-01-02 15:04:05 UTC | roomcreated | calm-bear-1f2c | -
package events

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zhubert/rooms/internal/logger"
)

// FileName is the event log file inside the rooms directory.
const FileName = "events.log"

// Type identifies an event.
type Type string

const (
	RoomCreated         Type = "roomcreated"
	RoomDeleted         Type = "roomdeleted"
	RoomRenamed         Type = "roomrenamed"
	PostCreateStarted   Type = "postcreatstarted"
	PostCreateCompleted Type = "postcreatcompleted"
	PostCreateFailed    Type = "postcreatfailed"
	Error               Type = "error"
)

// Event is a single log entry.
type Event struct {
	Time    time.Time
	Type    Type
	Room    string
	Details string
}

// Format renders e as a log line without the trailing newline.
func (e Event) Format() string {
	return fmt.Sprintf("%s | %s | %s | %s",
		e.Time.UTC().Format("2006-01-02 15:04:05")+" UTC",
		e.Type,
		orDash(e.Room),
		orDash(e.Details),
	)
}

func orDash(s string) string {
	// Multi-line details (git stderr) would break the one-line format.
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "-"
	}
	return s
}

// Log is an append-only event sink. A nil *Log discards events.
type Log struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New returns a Log appending to path.
func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Path returns the file events are appended to.
func (l *Log) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes e, creating the file and its directory as needed. Write
// failures are reported to the debug log and otherwise ignored: the event
// log never fails an operation.
func (l *Log) Append(typ Type, room, details string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Event{Time: l.now(), Type: typ, Room: room, Details: details}
	if err := l.write(e.Format() + "\n"); err != nil {
		logger.Warn("events: failed to append %s to %s: %v", typ, l.path, err)
	}
}

func (l *Log) write(line string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RoomCreated logs a successful git worktree add.
func (l *Log) RoomCreated(room string) { l.Append(RoomCreated, room, "") }

// RoomDeleted logs a removed worktree.
func (l *Log) RoomDeleted(room string) { l.Append(RoomDeleted, room, "") }

// RoomRenamed logs a moved worktree under its new name.
func (l *Log) RoomRenamed(oldName, newName string) {
	l.Append(RoomRenamed, newName, oldName+" -> "+newName)
}

// PostCreateStarted logs the start of the post_create hooks.
func (l *Log) PostCreateStarted(room string, commands int) {
	l.Append(PostCreateStarted, room, fmt.Sprintf("%d command(s)", commands))
}

// PostCreateCompleted logs that every post_create hook was delivered.
func (l *Log) PostCreateCompleted(room string) { l.Append(PostCreateCompleted, room, "") }

// PostCreateFailed logs a post_create hook failure.
func (l *Log) PostCreateFailed(room string, err error) {
	l.Append(PostCreateFailed, room, errString(err))
}

// Error logs a failed operation. room may be empty.
func (l *Log) Error(room string, err error) {
	l.Append(Error, room, errString(err))
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
