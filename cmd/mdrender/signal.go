package main

import (
	"context"
	"os/signal"
)

// notifyContext returns a context canceled on the first shutdown signal,
// which stops a build between documents. Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
