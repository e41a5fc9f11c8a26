//go:build !windows

package terminal

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
)

// SetCbreak switches the terminal on f to cbreak mode: characters are
// delivered as they are typed and not echoed, signals like Ctrl+C still
// work. The returned function restores the previous mode.
func SetCbreak(f *os.File) (func(), error) {
	var orig syscall.Termios
	if err := termios.Tcgetattr(f.Fd(), &orig); err != nil {
		return nil, errors.Wrap(err, "Tcgetattr failed")
	}

	attr := orig
	termios.Cfmakecbreak(&attr)
	if err := termios.Tcsetattr(f.Fd(), termios.TCSANOW, &attr); err != nil {
		// well, try to restore as it was if it errors
		_ = termios.Tcsetattr(f.Fd(), termios.TCSANOW, &orig)
		return nil, errors.Wrap(err, "Tcsetattr failed")
	}

	return func() {
		_ = termios.Tcsetattr(f.Fd(), termios.TCSANOW, &orig)
	}, nil
}
