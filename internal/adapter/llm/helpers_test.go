package llm_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/charlietlamb/openai-hack/internal/port/inference"
)

func sprintf(format string, args ...any) string { return fmt.Sprintf(format, args...) }

// stubProvider answers with fn and counts calls.
type stubProvider struct {
	name  string
	calls atomic.Int32
	fn    func(ctx context.Context, req inference.Request) (string, error)
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, req inference.Request) (string, error) {
	s.calls.Add(1)
	return s.fn(ctx, req)
}
