package writers

import (
	"errors"
	"io"
	"syscall"
)

// IgnoreBrokenPipe drops EPIPE and closed-pipe errors, as when `head`
// stops reading stdout early. Other errors pass through.
func IgnoreBrokenPipe(err error) error {
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) {
		return nil
	}
	return err
}
