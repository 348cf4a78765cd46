package httpapi

import (
	"context"
	"net/http"
)

// shutdownCtx is cancelled when serve starts shutting down.
var shutdownCtx = context.Background()

// SetShutdownContext installs the context serve cancels on SIGINT/SIGTERM.
// A nil ctx restores the default, which is never cancelled.
func SetShutdownContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx = ctx
}

// generationContext bounds one /generate call: it ends when the client goes
// away or the server shuts down, whichever comes first.
func generationContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	stop := context.AfterFunc(shutdownCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
