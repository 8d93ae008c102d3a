package bandit

import "context"

type traceKey struct{}

// ContextWithTraceID attaches the id that run logs are tagged with.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// TraceIDFromContext returns the attached trace id, or "" when there is none.
func TraceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}
