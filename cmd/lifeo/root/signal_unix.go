//go:build !windows

package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// notifyResetSignal calls reset on every SIGUSR1 until ctx is done or the
// returned stop is called.
func notifyResetSignal(ctx context.Context, reset func()) func() {
	usr := make(chan os.Signal, 1)
	signal.Notify(usr, syscall.SIGUSR1)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-usr:
				reset()
			}
		}
	}()
	return func() {
		signal.Stop(usr)
		close(done)
	}
}
