package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// setupContext returns a context cancelled on the first interrupt or
// termination signal.
func setupContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
