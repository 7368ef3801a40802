package state

import (
	"context"
	"errors"

	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
)

//go:generate mockgen -destination=../../mocks/mock_state.go -package=mocks -mock_names=Store=MockStateStore . Store

// ErrNotFound is returned by Get for an agent with no persisted state.
var ErrNotFound = errors.New("agent state not found")

// Store is the shared key/value store holding per-agent state and the active question.
// [LSP] Memory, Redis and Postgres implementations are all valid substitutes.
//
// Every call is atomic on its own against the backing store. Callers must not assume
// atomicity across calls: a reader may see a new transcript before the matching verdict.
type Store interface {
	// Initialize writes the default state for id, overwriting whatever was there.
	Initialize(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (domainagent.State, error)

	SetConversation(ctx context.Context, id int, text string) error
	SetVerdict(ctx context.Context, id int, verdict bool) error
	SetIntensity(ctx context.Context, id int, intensity float64) error

	// GetAll returns every persisted agent state ordered by id.
	GetAll(ctx context.Context) ([]domainagent.State, error)
	// ClearAll removes every agent record. The question is left untouched.
	ClearAll(ctx context.Context) error

	SetQuestion(ctx context.Context, question string) error
	// GetQuestion returns "" when no question was ever set.
	GetQuestion(ctx context.Context) (string, error)
}
