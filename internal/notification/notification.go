// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/zhubert/rooms/internal/logger"
)

// Title is the notification title used for every rooms notification.
const Title = "rooms"

var (
	mu       sync.Mutex
	notifier = beeep.Notify
)

// SetNotifier replaces the function used to deliver notifications.
// Tests use it to avoid touching the desktop.
func SetNotifier(fn func(title, message string, icon any) error) {
	mu.Lock()
	defer mu.Unlock()
	notifier = fn
}

// ResetNotifier restores the beeep notifier.
func ResetNotifier() {
	SetNotifier(beeep.Notify)
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	log := logger.ComponentLogger("notification")
	log.Debug("sending notification", "title", title, "message", message)

	mu.Lock()
	fn := notifier
	mu.Unlock()

	// Empty icon: beeep picks the platform default.
	err := fn(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// OperationFinished reports the end of a background room operation such as
// "create" or "delete".
func OperationFinished(op, room string, err error) error {
	if err != nil {
		return Send(Title, op+" "+room+" failed: "+err.Error())
	}
	return Send(Title, op+" "+room+" finished")
}
