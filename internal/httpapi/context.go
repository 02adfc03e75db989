package httpapi

import (
	"context"
)

// serverBaseCtx is canceled on shutdown. Handlers that start engine work join
// it with the request context.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers. Nil
// resets it to Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// joinContexts derives a context from req that is also canceled when base is
// done. It keeps req's values (request id) and reports base's cause.
func joinContexts(base, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(req)
	stop := context.AfterFunc(base, func() { cancel(context.Cause(base)) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}
