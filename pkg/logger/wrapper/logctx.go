package wrap

import (
	"context"
	"strconv"
)

type (
	// LogCtx holds contextual information for logging
	LogCtx struct {
		Action    string
		UserID    string
		RequestID string
		RescueID  string
	}

	logCtxKeyStruct struct{}
)

// LogCtxKey is the key for log context values
var LogCtxKey = &logCtxKeyStruct{}

// WithLogCtx returns a new context with the provided LogCtx merged over the existing one.
func WithLogCtx(ctx context.Context, newLc LogCtx) context.Context {
	if lc, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		if newLc.Action == "" {
			newLc.Action = lc.Action
		}
		if newLc.UserID == "" {
			newLc.UserID = lc.UserID
		}
		if newLc.RequestID == "" {
			newLc.RequestID = lc.RequestID
		}
		if newLc.RescueID == "" {
			newLc.RescueID = lc.RescueID
		}
	}
	return context.WithValue(ctx, LogCtxKey, newLc)
}

// WithUserID adds or updates the UserID in the LogCtx within the context
func WithUserID(ctx context.Context, userID int64) context.Context {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	lc.UserID = strconv.FormatInt(userID, 10)
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRequestID adds or updates the RequestID in the LogCtx within the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	lc.RequestID = requestID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRescueID adds or updates the RescueID in the LogCtx within the context
func WithRescueID(ctx context.Context, rescueID int64) context.Context {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	lc.RescueID = strconv.FormatInt(rescueID, 10)
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithAction adds or updates the Action in the LogCtx within the context
func WithAction(ctx context.Context, action string) context.Context {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	lc.Action = action
	return context.WithValue(ctx, LogCtxKey, lc)
}

// RequestID returns request id stored in the context, if any.
func RequestID(ctx context.Context) string {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	return lc.RequestID
}
