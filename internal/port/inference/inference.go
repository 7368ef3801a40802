package inference

import (
	"context"

	"github.com/charlietlamb/openai-hack/internal/domain/poll"
)

//go:generate mockgen -destination=../../mocks/mock_inference.go -package=mocks -mock_names=Client=MockInferenceClient,Provider=MockProvider . Client,Provider

// Client turns a persona and a question into a structured verdict.
// [DIP] The poll orchestrator depends on this interface, not on a provider SDK.
type Client interface {
	// Converse runs the two-stage exchange. Every failure wraps poll.ErrInference.
	Converse(ctx context.Context, persona, introduction, question string) (poll.Verdict, error)
}

// Schema asks the provider for JSON conforming to Definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request is one prompt sent to a text-generation provider.
type Request struct {
	Prompt      string
	Schema      *Schema // nil = free text
	MaxTokens   int
	Temperature float64
}

// Provider performs a single remote completion.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}
