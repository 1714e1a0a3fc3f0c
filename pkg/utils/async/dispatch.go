package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs handler in a new goroutine, detached from the caller's
// cancellation but keeping its logger. Panics are recovered and logged so a
// bad run can never take down the dispatcher; errors are logged because
// nobody is left to receive them.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := detach(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("error in async handler", "error", err)
		}
	}()
}

// detach returns a background context carrying the logger of ctx
func detach(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}
