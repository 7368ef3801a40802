//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterredis "github.com/charlietlamb/openai-hack/internal/adapter/redis"
	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	portstate "github.com/charlietlamb/openai-hack/internal/port/state"
	"github.com/charlietlamb/openai-hack/internal/testutil"
)

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := adapterredis.New(testutil.SetupTestRedis(t))

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, portstate.ErrNotFound)

	for id := 1; id <= 3; id++ {
		require.NoError(t, store.Initialize(ctx, id))
	}
	got, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.True(t, got.IsDefault())

	require.NoError(t, store.SetConversation(ctx, 2, "Aye, build it."))
	require.NoError(t, store.SetVerdict(ctx, 2, true))
	require.NoError(t, store.SetIntensity(ctx, 2, 0.75))

	got, err = store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domainagent.State{ID: 2, Transcript: "Aye, build it.", Verdict: true, Intensity: 0.75}, got)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, st := range all {
		assert.Equal(t, i+1, st.ID)
	}

	require.NoError(t, store.ClearAll(ctx))
	all, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_SetterCreatesRecord(t *testing.T) {
	ctx := context.Background()
	store := adapterredis.New(testutil.SetupTestRedis(t))

	require.NoError(t, store.SetVerdict(ctx, 9, true))
	got, err := store.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, got.ID)
	assert.True(t, got.Verdict)
}

func TestStore_Question(t *testing.T) {
	ctx := context.Background()
	store := adapterredis.New(testutil.SetupTestRedis(t))

	q, err := store.GetQuestion(ctx)
	require.NoError(t, err)
	assert.Empty(t, q)

	require.NoError(t, store.SetQuestion(ctx, "Should we dig a well?"))
	require.NoError(t, store.ClearAll(ctx))

	q, err = store.GetQuestion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Should we dig a well?", q)
}
