package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/charlietlamb/openai-hack/internal/domain/event"
)

// Watchers is the in-memory set of MCP sessions that asked for poll progress.
// Events are forwarded as notifications/message to each of them.
//
// [SRP] Session bookkeeping and notification dispatch only.
type Watchers struct {
	mu       sync.RWMutex
	sessions map[string]struct{}

	// mcpSrv is set after the MCP server is constructed (avoids circular init dependency).
	mcpMu  sync.RWMutex
	mcpSrv *mcpserver.MCPServer
}

func NewWatchers() *Watchers {
	return &Watchers{sessions: make(map[string]struct{})}
}

// SetMCPServer injects the mcp-go server after construction (breaks the init cycle).
func (w *Watchers) SetMCPServer(s *mcpserver.MCPServer) {
	w.mcpMu.Lock()
	w.mcpSrv = s
	w.mcpMu.Unlock()
}

// Watch subscribes a session. Called by the watch_polls tool.
func (w *Watchers) Watch(sessionID string) {
	w.mu.Lock()
	w.sessions[sessionID] = struct{}{}
	w.mu.Unlock()
}

// Unwatch removes a session when it closes. Reports whether it was watching.
func (w *Watchers) Unwatch(sessionID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.sessions[sessionID]; !ok {
		return false
	}
	delete(w.sessions, sessionID)
	return true
}

func (w *Watchers) Watching(sessionID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.sessions[sessionID]
	return ok
}

// Notify forwards e to every watching session. It returns the last send error.
func (w *Watchers) Notify(_ context.Context, e event.Event) error {
	w.mu.RLock()
	targets := make([]string, 0, len(w.sessions))
	for id := range w.sessions {
		targets = append(targets, id)
	}
	w.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	w.mcpMu.RLock()
	srv := w.mcpSrv
	w.mcpMu.RUnlock()

	if srv == nil {
		return fmt.Errorf("mcp server not initialized")
	}

	params, err := toParams(e)
	if err != nil {
		return fmt.Errorf("serialize notification: %w", err)
	}

	var lastErr error
	for _, id := range targets {
		if err := srv.SendNotificationToSpecificClient(id, "notifications/message", params); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func toParams(e event.Event) (map[string]any, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, err
	}
	return params, nil
}
