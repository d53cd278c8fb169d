package wrap

import (
	"context"
	"errors"
)

// Error wraps an error with the current LogCtx from the context.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	c, _ := ctx.Value(LogCtxKey).(LogCtx)

	// Already wrapped: refresh the captured context only.
	var e *errorWithLogCtx
	if errors.As(err, &e) {
		e.logCtx = c
		return err
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: c,
	}
}
