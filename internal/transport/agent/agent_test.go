package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/charlietlamb/openai-hack/internal/adapter/memory"
	"github.com/charlietlamb/openai-hack/internal/adapter/registry"
	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	"github.com/charlietlamb/openai-hack/internal/mocks"
	portstate "github.com/charlietlamb/openai-hack/internal/port/state"
	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
	transportagent "github.com/charlietlamb/openai-hack/internal/transport/agent"
)

func init() { gin.SetMode(gin.TestMode) }

func newRegistry(t *testing.T, n int) *registry.Registry {
	t.Helper()
	agents := make([]domainagent.Agent, n)
	for i := range agents {
		agents[i] = domainagent.Agent{ID: i + 1, Name: "villager", Persona: "p"}
	}
	reg, err := registry.New(agents)
	require.NoError(t, err)
	return reg
}

func newRouter(svc *agentsvc.Service) *gin.Engine {
	r := gin.New()
	transportagent.Register(r.Group("/api"), svc)
	return r
}

func newAgentSvc(t *testing.T) (*agentsvc.Service, *mocks.MockStateStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStateStore(ctrl)
	return agentsvc.NewService(newRegistry(t, 3), store, memory.NewEventBus(), memory.NewLocker()), store
}

func do(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

// ── GET /characters ───────────────────────────────────────────────────────────

func TestListStates_Success(t *testing.T) {
	svc, store := newAgentSvc(t)
	store.EXPECT().GetAll(gomock.Any()).Return([]domainagent.State{{ID: 1}, {ID: 2, Verdict: true}}, nil)

	w := do(newRouter(svc), http.MethodGet, "/api/characters")

	assert.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Success    bool                `json:"success"`
		Count      int                 `json:"count"`
		Characters []domainagent.State `json:"characters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, 2, got.Count)
	assert.Len(t, got.Characters, 2)
}

func TestListStates_EmptyIsArray(t *testing.T) {
	svc, store := newAgentSvc(t)
	store.EXPECT().GetAll(gomock.Any()).Return(nil, nil)

	w := do(newRouter(svc), http.MethodGet, "/api/characters")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"characters":[]`)
}

func TestListStates_StoreError(t *testing.T) {
	svc, store := newAgentSvc(t)
	store.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("connection refused"))

	w := do(newRouter(svc), http.MethodGet, "/api/characters")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ── GET /characters/:id ───────────────────────────────────────────────────────

func TestGetState(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		setup    func(store *mocks.MockStateStore)
		wantCode int
	}{
		{
			name: "found",
			path: "/api/characters/2",
			setup: func(store *mocks.MockStateStore) {
				store.EXPECT().Get(gomock.Any(), 2).Return(domainagent.State{ID: 2, Transcript: "aye"}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "not found",
			path: "/api/characters/9",
			setup: func(store *mocks.MockStateStore) {
				store.EXPECT().Get(gomock.Any(), 9).Return(domainagent.State{}, portstate.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "store failure",
			path: "/api/characters/2",
			setup: func(store *mocks.MockStateStore) {
				store.EXPECT().Get(gomock.Any(), 2).Return(domainagent.State{}, errors.New("timeout"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "invalid id",
			path:     "/api/characters/abc",
			setup:    func(*mocks.MockStateStore) {},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newAgentSvc(t)
			tt.setup(store)
			w := do(newRouter(svc), http.MethodGet, tt.path)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

// ── POST /characters/reset ────────────────────────────────────────────────────

func TestResetAll_Success(t *testing.T) {
	svc, store := newAgentSvc(t)
	gomock.InOrder(
		store.EXPECT().ClearAll(gomock.Any()).Return(nil),
		store.EXPECT().Initialize(gomock.Any(), 1).Return(nil),
		store.EXPECT().Initialize(gomock.Any(), 2).Return(nil),
		store.EXPECT().Initialize(gomock.Any(), 3).Return(nil),
		store.EXPECT().SetQuestion(gomock.Any(), "").Return(nil),
	)

	w := do(newRouter(svc), http.MethodPost, "/api/characters/reset")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"count":3}`, w.Body.String())
}

func TestResetAll_StoreError(t *testing.T) {
	svc, store := newAgentSvc(t)
	store.EXPECT().ClearAll(gomock.Any()).Return(errors.New("read-only replica"))

	w := do(newRouter(svc), http.MethodPost, "/api/characters/reset")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ── GET /profiles ─────────────────────────────────────────────────────────────

func TestProfiles(t *testing.T) {
	svc, _ := newAgentSvc(t)
	r := newRouter(svc)

	w := do(r, http.MethodGet, "/api/profiles")
	assert.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Count    int                 `json:"count"`
		Profiles []domainagent.Agent `json:"profiles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, 1, got.Profiles[0].ID)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/profiles/3").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/profiles/4").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/profiles/x").Code)
}

// ── GET /question, /health ────────────────────────────────────────────────────

func TestCurrentQuestion(t *testing.T) {
	svc, store := newAgentSvc(t)
	store.EXPECT().GetQuestion(gomock.Any()).Return("Should we build a bridge?", nil)

	w := do(newRouter(svc), http.MethodGet, "/api/question")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"question":"Should we build a bridge?"}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	svc, _ := newAgentSvc(t)

	w := do(newRouter(svc), http.MethodGet, "/api/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","characters":3}`, w.Body.String())
}
