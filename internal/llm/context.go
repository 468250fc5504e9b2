package llm

import "context"

type operationKey struct{}

// WithOperation tags the context with the operation kind being executed.
// The Gemini client ignores it; the fake client uses it to pick a stub body.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// OperationFrom returns the operation kind tagged on the context, if any.
func OperationFrom(ctx context.Context) string {
	if v, ok := ctx.Value(operationKey{}).(string); ok {
		return v
	}
	return ""
}
