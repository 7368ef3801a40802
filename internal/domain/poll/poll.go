package poll

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrRegistryLoad is fatal at startup: polls must not run against an incomplete registry.
	ErrRegistryLoad = errors.New("registry load failed")
	// ErrUnknownAgent is returned for ids outside the registry.
	ErrUnknownAgent = errors.New("unknown agent")
	// ErrInference covers provider errors, timeouts and non-conforming structured output.
	ErrInference = errors.New("inference failed")
	// ErrStoreWrite marks a state write that failed after a successful inference call.
	ErrStoreWrite = errors.New("store write failed")
	// ErrInvalidPopulation rejects polls with population < 1.
	ErrInvalidPopulation = errors.New("population must be at least 1")
)

// DefaultMaxConcurrency caps the number of agent tasks in flight.
const DefaultMaxConcurrency = 500

// Phase is the lifecycle of a single poll.
type Phase string

const (
	PhaseNotStarted  Phase = "not_started"
	PhaseDispatching Phase = "dispatching"
	PhaseCollecting  Phase = "collecting"
	PhaseSettled     Phase = "settled"
)

// Verdict is the structured answer of one agent.
type Verdict struct {
	Response  string  `json:"response"`
	Verdict   bool    `json:"verdict"`
	Intensity float64 `json:"intensity"`
}

// Outcome is the terminal result of one agent task. Err is nil on success.
type Outcome struct {
	AgentID int
	Verdict Verdict
	Err     error
}

func (o Outcome) Succeeded() bool { return o.Err == nil }

// Summary is the aggregate returned once every task has settled.
type Summary struct {
	PollID           uuid.UUID `json:"poll_id"`
	Question         string    `json:"question"`
	YesCount         int       `json:"yes_count"`
	NoCount          int       `json:"no_count"`
	Total            int       `json:"total"`
	AverageIntensity float64   `json:"average_intensity"`
}

// Reply is the answer of a single agent asked directly.
type Reply struct {
	AgentID int     `json:"character_id"`
	Message string  `json:"message"`
	Verdict Verdict `json:"verdict"`
}

// Tally aggregates settled outcomes over total dispatched tasks.
//
// Failed tasks count as "no" and contribute nothing to the intensity sum, while
// the mean is still taken over total. This under-reports the mean when tasks fail
// and is kept on purpose: it is the published tallying policy.
func Tally(outcomes []Outcome, total int) (yes, no int, avg float64) {
	var sum float64
	for _, o := range outcomes {
		if o.Succeeded() {
			sum += o.Verdict.Intensity
			if o.Verdict.Verdict {
				yes++
				continue
			}
		}
		no++
	}
	if total > 0 {
		avg = sum / float64(total)
	}
	return yes, no, avg
}
