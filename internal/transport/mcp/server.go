package mcp

import (
	"context"
	"log/slog"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
	pollsvc "github.com/charlietlamb/openai-hack/internal/service/poll"
)

// Config holds the defaults tools fall back to.
type Config struct {
	// Population is the poll size ask_village uses when none is given.
	Population int
	// Introduction is the scene text served by the character prompt.
	Introduction string
}

// Server wraps the mark3labs/mcp-go MCPServer and its StreamableHTTPServer.
// [SRP] HTTP server lifecycle only (start, stop, session open/close).
//
//	Tools are registered in tools.go, prompts in prompts.go, watcher state in registry.go.
//
// [OCP] Adding new tools or prompts never requires changes to this file.
type Server struct {
	httpSrv  *mcpserver.StreamableHTTPServer
	mcpSrv   *mcpserver.MCPServer
	watchers *Watchers
}

// New creates the MCP transport server. Forward poll events to Watchers() to
// reach sessions that called watch_polls.
func New(pollSvc *pollsvc.Service, agentSvc *agentsvc.Service, cfg Config) *Server {
	s := &Server{watchers: NewWatchers()}

	hooks := &mcpserver.Hooks{}
	hooks.OnUnregisterSession = append(hooks.OnUnregisterSession, s.onSessionClose)

	s.mcpSrv = mcpserver.NewMCPServer(
		"village-poll",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithHooks(hooks),
	)

	// Inject the mcp-go server into the watcher set (breaks the init cycle).
	s.watchers.SetMCPServer(s.mcpSrv)

	RegisterTools(s.mcpSrv, s.watchers, pollSvc, agentSvc, cfg.Population)
	RegisterPrompts(s.mcpSrv, agentSvc, cfg.Introduction)

	s.httpSrv = mcpserver.NewStreamableHTTPServer(s.mcpSrv)
	return s
}

// Handler returns an http.Handler that serves the MCP streamable HTTP endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpSrv
}

func (s *Server) Watchers() *Watchers {
	return s.watchers
}

// MCPServer exposes the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpSrv
}

func (s *Server) onSessionClose(ctx context.Context, session mcpserver.ClientSession) {
	if s.watchers.Unwatch(session.SessionID()) {
		slog.InfoContext(ctx, "mcp: watcher session closed", "session_id", session.SessionID())
	}
}
