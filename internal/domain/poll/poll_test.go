package poll_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/charlietlamb/openai-hack/internal/domain/poll"
)

func ok(id int, verdict bool, intensity float64) Outcome {
	return Outcome{AgentID: id, Verdict: Verdict{Verdict: verdict, Intensity: intensity}}
}

func failed(id int) Outcome {
	return Outcome{AgentID: id, Err: ErrInference}
}

func TestTally(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		total    int
		wantYes  int
		wantNo   int
		wantAvg  float64
	}{
		{
			name: "all succeed",
			outcomes: []Outcome{
				ok(1, true, 0.9), ok(2, true, 0.1), ok(3, false, 0.5), ok(4, true, 0.7), ok(5, false, 0.2),
			},
			total:   5,
			wantYes: 3, wantNo: 2, wantAvg: 0.48,
		},
		{
			// Failed agent counts as "no" and is left out of the sum, denominator stays 5.
			name: "one failure keeps denominator",
			outcomes: []Outcome{
				ok(1, true, 0.9), ok(2, true, 0.1), failed(3), ok(4, true, 0.7), ok(5, false, 0.2),
			},
			total:   5,
			wantYes: 3, wantNo: 2, wantAvg: 0.38,
		},
		{
			name:     "all fail",
			outcomes: []Outcome{failed(1), failed(2)},
			total:    2,
			wantYes:  0, wantNo: 2, wantAvg: 0,
		},
		{
			name:  "zero total",
			total: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yes, no, avg := Tally(tt.outcomes, tt.total)
			assert.Equal(t, tt.wantYes, yes)
			assert.Equal(t, tt.wantNo, no)
			assert.InDelta(t, tt.wantAvg, avg, 1e-9)
			assert.Equal(t, len(tt.outcomes), yes+no, "yes and no must cover every outcome")
		})
	}
}

func TestOutcome_Succeeded(t *testing.T) {
	assert.True(t, ok(1, false, 0).Succeeded())
	assert.False(t, Outcome{Err: errors.Join(ErrStoreWrite, errors.New("conn reset"))}.Succeeded())
}
