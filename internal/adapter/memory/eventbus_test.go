package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlietlamb/openai-hack/internal/adapter/memory"
	"github.com/charlietlamb/openai-hack/internal/domain/event"
)

func TestEventBus_DeliversByChannel(t *testing.T) {
	ctx := context.Background()
	bus := memory.NewEventBus()

	var pollEvents, agentEvents []event.Event
	_, err := bus.Subscribe(ctx, event.ChannelPoll, func(_ context.Context, e event.Event) {
		pollEvents = append(pollEvents, e)
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, event.ChannelAgent, func(_ context.Context, e event.Event) {
		agentEvents = append(agentEvents, e)
	})
	require.NoError(t, err)

	pollID := uuid.New()
	require.NoError(t, bus.Publish(ctx, event.New(event.TypePollStarted, pollID)))
	require.NoError(t, bus.Publish(ctx, event.ForAgent(event.TypeAgentAnswered, pollID, 4)))
	require.NoError(t, bus.Publish(ctx, event.New(event.TypeAgentsReset, uuid.Nil)))

	require.Len(t, pollEvents, 2)
	assert.Equal(t, 4, pollEvents[1].AgentID)
	require.Len(t, agentEvents, 1)
	assert.Equal(t, event.TypeAgentsReset, agentEvents[0].Type)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	bus := memory.NewEventBus()

	calls := 0
	sub, err := bus.Subscribe(ctx, event.ChannelPoll, func(context.Context, event.Event) { calls++ })
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, event.New(event.TypePollStarted, uuid.New())))
	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, bus.Publish(ctx, event.New(event.TypePollSettled, uuid.New())))

	assert.Equal(t, 1, calls)
}
