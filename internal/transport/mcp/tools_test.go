package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/charlietlamb/openai-hack/internal/adapter/memory"
	"github.com/charlietlamb/openai-hack/internal/adapter/registry"
	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	"github.com/charlietlamb/openai-hack/internal/domain/poll"
	"github.com/charlietlamb/openai-hack/internal/mocks"
	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
	pollsvc "github.com/charlietlamb/openai-hack/internal/service/poll"
)

// ── helpers ───────────────────────────────────────────────────────────────────

type toolsDeps struct {
	client *mocks.MockInferenceClient
	store  *memory.Store
}

func newToolsDeps(t *testing.T, size int) (*pollsvc.Service, *agentsvc.Service, toolsDeps) {
	t.Helper()
	agents := make([]domainagent.Agent, size)
	for i := range agents {
		agents[i] = domainagent.Agent{ID: i + 1, Name: fmt.Sprintf("villager-%d", i+1), Persona: fmt.Sprintf("persona-%d", i+1)}
	}
	reg, err := registry.New(agents)
	require.NoError(t, err)

	d := toolsDeps{
		client: mocks.NewMockInferenceClient(gomock.NewController(t)),
		store:  memory.NewStore(),
	}
	bus := memory.NewEventBus()
	locker := memory.NewLocker()
	pSvc := pollsvc.NewService(reg, d.store, d.client, bus, locker, pollsvc.Config{MaxConcurrency: 2}, nil)
	aSvc := agentsvc.NewService(reg, d.store, bus, locker)
	return pSvc, aSvc, d
}

func makeReq(args map[string]any) mcpmcp.CallToolRequest {
	var req mcpmcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(r *mcpmcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	b, _ := json.Marshal(r.Content[0])
	var m map[string]interface{}
	json.Unmarshal(b, &m) //nolint:errcheck
	if t, ok := m["text"].(string); ok {
		return t
	}
	return ""
}

// ── askVillageHandler ─────────────────────────────────────────────────────────

func TestAskVillageHandler(t *testing.T) {
	tests := []struct {
		name         string
		args         map[string]any
		setup        func(d toolsDeps)
		wantContains string
		wantSummary  *poll.Summary
	}{
		{
			name: "default population",
			args: map[string]any{"question": "Build a bridge?"},
			setup: func(d toolsDeps) {
				d.client.EXPECT().Converse(gomock.Any(), gomock.Any(), gomock.Any(), "Build a bridge?").
					Return(poll.Verdict{Response: "Aye", Verdict: true, Intensity: 0.6}, nil).Times(3)
			},
			wantSummary: &poll.Summary{Question: "Build a bridge?", YesCount: 3, Total: 3, AverageIntensity: 0.6},
		},
		{
			name: "explicit population",
			args: map[string]any{"question": "Build a bridge?", "population": 1},
			setup: func(d toolsDeps) {
				d.client.EXPECT().Converse(gomock.Any(), "persona-1", gomock.Any(), gomock.Any()).
					Return(poll.Verdict{Response: "Nay"}, nil)
			},
			wantSummary: &poll.Summary{Question: "Build a bridge?", NoCount: 1, Total: 1},
		},
		{
			name:         "missing question",
			args:         map[string]any{},
			setup:        func(toolsDeps) {},
			wantContains: "error: question is required",
		},
		{
			name:         "invalid population",
			args:         map[string]any{"question": "q", "population": 0},
			setup:        func(toolsDeps) {},
			wantContains: "error:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pSvc, _, d := newToolsDeps(t, 3)
			tt.setup(d)

			res, err := askVillageHandler(pSvc, 3)(context.Background(), makeReq(tt.args))
			require.NoError(t, err)
			text := resultText(res)

			if tt.wantContains != "" {
				assert.Contains(t, text, tt.wantContains)
				return
			}
			var got poll.Summary
			require.NoError(t, json.Unmarshal([]byte(text), &got))
			assert.Equal(t, tt.wantSummary.Question, got.Question)
			assert.Equal(t, tt.wantSummary.YesCount, got.YesCount)
			assert.Equal(t, tt.wantSummary.NoCount, got.NoCount)
			assert.Equal(t, tt.wantSummary.Total, got.Total)
			assert.InDelta(t, tt.wantSummary.AverageIntensity, got.AverageIntensity, 1e-9)
		})
	}
}

// ── askAgentHandler ───────────────────────────────────────────────────────────

func TestAskAgentHandler_Success(t *testing.T) {
	pSvc, _, d := newToolsDeps(t, 3)
	d.client.EXPECT().Converse(gomock.Any(), "persona-2", gomock.Any(), "Hello?").
		Return(poll.Verdict{Response: "Greetings", Verdict: true, Intensity: 0.2}, nil)

	res, err := askAgentHandler(pSvc)(context.Background(), makeReq(map[string]any{"character_id": 2, "message": "Hello?"}))
	require.NoError(t, err)

	var got poll.Reply
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
	assert.Equal(t, 2, got.AgentID)
	assert.Equal(t, "Greetings", got.Verdict.Response)

	st, err := d.store.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, st.Verdict)
}

func TestAskAgentHandler_Errors(t *testing.T) {
	pSvc, _, d := newToolsDeps(t, 3)
	d.client.EXPECT().Converse(gomock.Any(), "persona-1", gomock.Any(), gomock.Any()).
		Return(poll.Verdict{}, fmt.Errorf("%w: timeout", poll.ErrInference))

	h := askAgentHandler(pSvc)

	res, err := h(context.Background(), makeReq(map[string]any{"character_id": 1}))
	require.NoError(t, err)
	assert.Equal(t, "error: message is required", resultText(res))

	res, err = h(context.Background(), makeReq(map[string]any{"character_id": 9, "message": "hi"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(res), poll.ErrUnknownAgent.Error())

	res, err = h(context.Background(), makeReq(map[string]any{"character_id": 1, "message": "hi"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(res), poll.ErrInference.Error())
}

// ── state tools ───────────────────────────────────────────────────────────────

func TestStateTools(t *testing.T) {
	_, aSvc, d := newToolsDeps(t, 2)
	ctx := context.Background()

	res, err := listAgentStatesHandler(aSvc)(ctx, makeReq(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", resultText(res))

	res, err = getAgentStateHandler(aSvc)(ctx, makeReq(map[string]any{"character_id": 1}))
	require.NoError(t, err)
	assert.Contains(t, resultText(res), "error:")

	res, err = resetAgentsHandler(aSvc)(ctx, makeReq(nil))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resultText(res))

	require.NoError(t, d.store.SetVerdict(ctx, 2, true))

	res, err = getAgentStateHandler(aSvc)(ctx, makeReq(map[string]any{"character_id": 2}))
	require.NoError(t, err)
	var st domainagent.State
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &st))
	assert.Equal(t, domainagent.State{ID: 2, Verdict: true}, st)

	res, err = listAgentStatesHandler(aSvc)(ctx, makeReq(nil))
	require.NoError(t, err)
	var states []domainagent.State
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &states))
	assert.Len(t, states, 2)
}

// ── watchPollsHandler ─────────────────────────────────────────────────────────

func TestWatchPollsHandler_NoSession(t *testing.T) {
	res, err := watchPollsHandler(NewWatchers())(context.Background(), makeReq(nil))
	require.NoError(t, err)
	assert.Equal(t, "error: no session", resultText(res))
}

// ── characterPromptHandler ────────────────────────────────────────────────────

func TestCharacterPromptHandler(t *testing.T) {
	_, aSvc, _ := newToolsDeps(t, 2)
	h := characterPromptHandler(aSvc, " [intro]")

	var req mcpmcp.GetPromptRequest
	req.Params.Arguments = map[string]string{"character_id": "2"}
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	text, ok := res.Messages[0].Content.(mcpmcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "persona-2 [intro]", text.Text)

	req.Params.Arguments = map[string]string{"character_id": "x"}
	_, err = h(context.Background(), req)
	assert.Error(t, err)

	req.Params.Arguments = map[string]string{"character_id": "3"}
	_, err = h(context.Background(), req)
	assert.ErrorIs(t, err, poll.ErrUnknownAgent)
}

func TestNew_ExposesHandler(t *testing.T) {
	pSvc, aSvc, _ := newToolsDeps(t, 1)
	s := New(pSvc, aSvc, Config{Population: 1})
	assert.NotNil(t, s.Handler())
	assert.NotNil(t, s.MCPServer())
	assert.NotNil(t, s.Watchers())
}
