//go:build integration

package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgeventbus "github.com/charlietlamb/openai-hack/internal/adapter/postgres/eventbus"
	"github.com/charlietlamb/openai-hack/internal/domain/event"
	"github.com/charlietlamb/openai-hack/internal/testutil"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	ctx := context.Background()
	bus := pgeventbus.New(testutil.SetupTestDB(t))

	got := make(chan event.Event, 1)
	sub, err := bus.Subscribe(ctx, event.ChannelPoll, func(_ context.Context, e event.Event) {
		got <- e
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	pollID := uuid.New()
	require.NoError(t, bus.Publish(ctx, event.ForAgent(event.TypeAgentAnswered, pollID, 12)))

	select {
	case e := <-got:
		assert.Equal(t, event.TypeAgentAnswered, e.Type)
		assert.Equal(t, pollID, e.PollID)
		assert.Equal(t, 12, e.AgentID)
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
}
