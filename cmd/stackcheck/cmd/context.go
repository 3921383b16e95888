package cmd

import (
	"context"

	"github.com/cirisai/stackcheck/internal/common/app"
)

// commandContext returns a context that is cancelled on SIGINT/SIGTERM.
// Ensures benchmark polling stops on ctrl-C.
func commandContext() (context.Context, context.CancelFunc) {
	return app.CreateContextWithShutdown(context.Background())
}
