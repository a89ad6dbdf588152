//go:build unix

package app

import (
	"os"
	"os/signal"
	"syscall"

	"probekit/internal/batch"
)

// watchPause toggles ctrl on every SIGUSR1 until stop is called.
func watchPause(ctrl *batch.Control) (stop func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGUSR1)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case <-sig:
				if ctrl.Paused() {
					ctrl.Resume()
				} else {
					ctrl.Pause()
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sig)
		close(done)
		<-exited
	}
}
