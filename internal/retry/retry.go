// Package retry runs an operation a bounded number of times.
package retry

import (
	"context"
	"log/slog"
)

// WithFallback calls fn up to attempts times and returns the first success.
// When every attempt fails, or ctx is done, fallback is returned instead; the
// caller never sees an error. attempts < 1 is treated as 1.
func WithFallback[T any](ctx context.Context, attempts int, fallback T, fn func(ctx context.Context) (T, error)) T {
	if attempts < 1 {
		attempts = 1
	}
	for i := 1; i <= attempts; i++ {
		if ctx.Err() != nil {
			break
		}
		v, err := fn(ctx)
		if err == nil {
			return v
		}
		slog.WarnContext(ctx, "attempt failed", "attempt", i, "of", attempts, "error", err)
	}
	return fallback
}
