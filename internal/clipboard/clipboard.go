// Package clipboard reads and writes text on the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/rooms/internal/logger"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init initializes the clipboard. Must be called before other functions.
// This is safe to call multiple times; only the first call does any work.
func Init() error {
	initOnce.Do(func() {
		log := logger.ComponentLogger("clipboard")
		if err := clipboard.Init(); err != nil {
			log.Warn("failed to initialize", "error", err)
			initErr = fmt.Errorf("failed to initialize clipboard: %w", err)
			return
		}
		log.Debug("initialized")
	})
	return initErr
}

// ReadText reads text from the clipboard. An empty clipboard is not an error.
func ReadText() (string, error) {
	if err := Init(); err != nil {
		return "", err
	}
	textBytes := clipboard.Read(clipboard.FmtText)
	if textBytes == nil {
		return "", nil
	}
	return string(textBytes), nil
}

// WriteText writes text to the clipboard.
func WriteText(text string) error {
	if err := Init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	logger.ComponentLogger("clipboard").Debug("wrote text", "bytes", len(text))
	return nil
}

// Clipboard is the text clipboard as seen by the UI.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// System is the Clipboard backed by the operating system.
type System struct{}

func (System) ReadText() (string, error)   { return ReadText() }
func (System) WriteText(text string) error { return WriteText(text) }

// Memory is an in-process Clipboard, used in tests and when no system
// clipboard is available.
type Memory struct {
	mu   sync.Mutex
	text string
	Err  error
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.text, nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	return nil
}

var (
	_ Clipboard = System{}
	_ Clipboard = (*Memory)(nil)
)
