//go:build windows

package root

import "context"

// notifyResetSignal is a no-op on Windows, which has no SIGUSR1; use
// "lifeo reset" instead.
func notifyResetSignal(context.Context, func()) func() {
	return func() {}
}
