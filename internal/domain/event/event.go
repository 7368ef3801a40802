package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePollStarted   Type = "poll_started"
	TypeAgentAnswered Type = "agent_answered"
	TypeAgentFailed   Type = "agent_failed"
	TypePollSettled   Type = "poll_settled"
	TypeAgentsReset   Type = "agents_reset"
)

// Channel is a domain-scoped notification channel.
// All event types within a domain share one LISTEN connection.
type Channel string

const (
	ChannelPoll  Channel = "poll"
	ChannelAgent Channel = "agent"
)

var typeToChannel = map[Type]Channel{
	TypePollStarted:   ChannelPoll,
	TypeAgentAnswered: ChannelPoll,
	TypeAgentFailed:   ChannelPoll,
	TypePollSettled:   ChannelPoll,
	TypeAgentsReset:   ChannelAgent,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state from the state store.
type Event struct {
	Type      Type      `json:"type"`
	PollID    uuid.UUID `json:"poll_id"`
	AgentID   int       `json:"agent_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType Type, pollID uuid.UUID) Event {
	return Event{
		Type:      eventType,
		PollID:    pollID,
		Timestamp: time.Now().UTC(),
	}
}

// ForAgent is New scoped to one agent of the poll.
func ForAgent(eventType Type, pollID uuid.UUID, agentID int) Event {
	e := New(eventType, pollID)
	e.AgentID = agentID
	return e
}
