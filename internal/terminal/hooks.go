package terminal

import (
	"io"

	rerrors "github.com/zhubert/rooms/internal/errors"
	"github.com/zhubert/rooms/internal/logger"
)

// InputWriter is where hook lines are typed. *Session implements it.
type InputWriter interface {
	io.Writer
}

// RunHooks types each command into w followed by a carriage return, in
// order. It stops at the first line that cannot be delivered and returns a
// HookError naming it; later commands are not sent. A nil writer means no
// session is open and nothing runs.
//
// Hooks are keystrokes, so a command that fails inside the shell is not
// detected here.
func RunHooks(w InputWriter, commands []string) error {
	if w == nil || isNilSession(w) {
		return nil
	}
	log := logger.ComponentLogger("hooks")
	for i, cmd := range commands {
		line := []byte(cmd + "\r")
		n, err := w.Write(line)
		if err == nil && n < len(line) {
			err = io.ErrShortWrite
		}
		if err != nil {
			log.Warn("hook not delivered", "index", i, "command", cmd, "error", err)
			return rerrors.Hook(cmd, err.Error())
		}
		log.Debug("hook sent", "index", i, "command", cmd)
	}
	return nil
}

func isNilSession(w InputWriter) bool {
	s, ok := w.(*Session)
	return ok && s == nil
}
