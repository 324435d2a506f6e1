package services

import "context"

// persistentContext detaches a request context so post-commit side
// effects survive the client disconnecting.
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
