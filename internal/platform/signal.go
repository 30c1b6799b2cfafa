package platform

import (
	"context"
	"os/signal"
)

// NotifyContext returns a context that is canceled when the process receives
// one of the termination signals for this platform.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, terminationSignals...)
}
