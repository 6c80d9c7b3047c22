package core

import (
	"context"

	"github.com/google/uuid"
)

type runIDKey struct{}

// WithRunID attaches a run id to the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id if present.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// EnsureRunID ensures a run id exists in the context.
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if id, ok := RunID(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRunID(ctx, id), id
}

// EnsureTaskRunID keeps a run id already on the context (for example one
// set from a request header) and otherwise derives it from the task.
func EnsureTaskRunID(ctx context.Context, req TaskRequest) (context.Context, string) {
	if id, ok := RunID(ctx); ok {
		return ctx, id
	}
	id := req.RunID()
	return WithRunID(ctx, id), id
}
