package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/charlietlamb/openai-hack/internal/adapter/memory"
	"github.com/charlietlamb/openai-hack/internal/adapter/registry"
	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	"github.com/charlietlamb/openai-hack/internal/domain/event"
	"github.com/charlietlamb/openai-hack/internal/domain/poll"
	"github.com/charlietlamb/openai-hack/internal/mocks"
	portlocker "github.com/charlietlamb/openai-hack/internal/port/locker"
	portstate "github.com/charlietlamb/openai-hack/internal/port/state"
	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func profiles(n int) []domainagent.Agent {
	out := make([]domainagent.Agent, n)
	for i := range out {
		out[i] = domainagent.Agent{ID: i + 1, Name: "villager", Persona: "p"}
	}
	return out
}

func newAgentSvc(t *testing.T) (*agentsvc.Service, *mocks.MockRegistry, *mocks.MockStateStore, *mocks.MockEventBus) {
	t.Helper()
	ctrl := gomock.NewController(t)
	reg := mocks.NewMockRegistry(ctrl)
	store := mocks.NewMockStateStore(ctrl)
	bus := mocks.NewMockEventBus(ctrl)
	return agentsvc.NewService(reg, store, bus, memory.NewLocker()), reg, store, bus
}

func matchEventType(et event.Type) gomock.Matcher {
	return eventTypeMatcher{et}
}

type eventTypeMatcher struct{ want event.Type }

func (m eventTypeMatcher) Matches(x interface{}) bool {
	e, ok := x.(event.Event)
	return ok && e.Type == m.want
}
func (m eventTypeMatcher) String() string { return "event.Type=" + string(m.want) }

// ── GetState ──────────────────────────────────────────────────────────────────

func TestGetState_Success(t *testing.T) {
	svc, _, store, _ := newAgentSvc(t)
	want := domainagent.State{ID: 3, Transcript: "aye", Verdict: true, Intensity: 0.4}
	store.EXPECT().Get(gomock.Any(), 3).Return(want, nil)

	got, err := svc.GetState(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetState_NotFound(t *testing.T) {
	svc, _, store, _ := newAgentSvc(t)
	store.EXPECT().Get(gomock.Any(), 42).Return(domainagent.State{}, portstate.ErrNotFound)

	_, err := svc.GetState(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, portstate.ErrNotFound)
	assert.Contains(t, err.Error(), "get agent state")
}

// ── ListStates ────────────────────────────────────────────────────────────────

func TestListStates(t *testing.T) {
	svc, _, store, _ := newAgentSvc(t)
	want := []domainagent.State{domainagent.DefaultState(1), domainagent.DefaultState(2)}
	store.EXPECT().GetAll(gomock.Any()).Return(want, nil)

	got, err := svc.ListStates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListStates_Error(t *testing.T) {
	svc, _, store, _ := newAgentSvc(t)
	store.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("redis down"))

	_, err := svc.ListStates(context.Background())
	assert.ErrorContains(t, err, "list agent states")
}

// ── ResetAll ──────────────────────────────────────────────────────────────────

func TestResetAll_InitializesEveryAgent(t *testing.T) {
	svc, reg, store, bus := newAgentSvc(t)
	reg.EXPECT().List().Return(profiles(3))
	reg.EXPECT().Size().Return(3).AnyTimes()

	gomock.InOrder(
		store.EXPECT().ClearAll(gomock.Any()).Return(nil),
		store.EXPECT().Initialize(gomock.Any(), 1).Return(nil),
		store.EXPECT().Initialize(gomock.Any(), 2).Return(nil),
		store.EXPECT().Initialize(gomock.Any(), 3).Return(nil),
		store.EXPECT().SetQuestion(gomock.Any(), "").Return(nil),
	)
	bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeAgentsReset)).Return(nil)

	require.NoError(t, svc.ResetAll(context.Background()))
}

func TestResetAll_StoreError(t *testing.T) {
	svc, _, store, _ := newAgentSvc(t)
	store.EXPECT().ClearAll(gomock.Any()).Return(errors.New("boom"))

	err := svc.ResetAll(context.Background())
	assert.ErrorContains(t, err, "reset agents")
}

func TestResetAll_ThenListYieldsDefaults(t *testing.T) {
	ctx := context.Background()
	reg, err := registry.New(profiles(5))
	require.NoError(t, err)
	store := memory.NewStore()
	svc := agentsvc.NewService(reg, store, memory.NewEventBus(), memory.NewLocker())

	require.NoError(t, store.SetConversation(ctx, 2, "old answer"))
	require.NoError(t, store.SetVerdict(ctx, 2, true))
	require.NoError(t, store.SetIntensity(ctx, 9, 0.9))
	require.NoError(t, store.SetQuestion(ctx, "old question"))

	require.NoError(t, svc.ResetAll(ctx))

	states, err := svc.ListStates(ctx)
	require.NoError(t, err)
	require.Len(t, states, 5)
	for i, st := range states {
		assert.Equal(t, domainagent.DefaultState(i+1), st)
	}

	q, err := svc.Question(ctx)
	require.NoError(t, err)
	assert.Empty(t, q)
}

func TestResetAll_WaitsForPollLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	locker := mocks.NewMockAdvisoryLocker(ctrl)
	locker.EXPECT().WithLock(gomock.Any(), portlocker.PollKey, gomock.Any()).Return(errors.New("lock timeout"))

	svc := agentsvc.NewService(mocks.NewMockRegistry(ctrl), mocks.NewMockStateStore(ctrl), mocks.NewMockEventBus(ctrl), locker)
	assert.ErrorContains(t, svc.ResetAll(context.Background()), "lock timeout")
}

// ── Profiles ──────────────────────────────────────────────────────────────────

func TestProfiles(t *testing.T) {
	svc, reg, _, _ := newAgentSvc(t)
	reg.EXPECT().List().Return(profiles(2))
	reg.EXPECT().Size().Return(2)

	assert.Len(t, svc.Profiles(), 2)
	assert.Equal(t, 2, svc.Population())
}

func TestProfile_Unknown(t *testing.T) {
	svc, reg, _, _ := newAgentSvc(t)
	reg.EXPECT().Get(7).Return(domainagent.Agent{}, poll.ErrUnknownAgent)

	_, err := svc.Profile(7)
	assert.ErrorIs(t, err, poll.ErrUnknownAgent)
}

// ── Question ──────────────────────────────────────────────────────────────────

func TestQuestion(t *testing.T) {
	svc, _, store, _ := newAgentSvc(t)
	store.EXPECT().GetQuestion(gomock.Any()).Return("Build a bridge?", nil)

	q, err := svc.Question(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Build a bridge?", q)
}
