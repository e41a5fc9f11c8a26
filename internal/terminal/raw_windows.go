package terminal

import (
	"os"

	"github.com/pkg/errors"
)

// SetCbreak is not supported on Windows.
func SetCbreak(*os.File) (func(), error) {
	return nil, errors.New("terminal mode is not supported on windows")
}
