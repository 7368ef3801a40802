package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlietlamb/openai-hack/internal/domain/event"
	porteventbus "github.com/charlietlamb/openai-hack/internal/port/eventbus"
	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
	pollsvc "github.com/charlietlamb/openai-hack/internal/service/poll"

	agenthandler "github.com/charlietlamb/openai-hack/internal/transport/agent"
	pollhandler "github.com/charlietlamb/openai-hack/internal/transport/poll"
	wshandler "github.com/charlietlamb/openai-hack/internal/transport/ws"
)

// Options carries the non-service pieces mounted next to the API.
type Options struct {
	// Population is the poll size used when a request does not name one.
	Population int
	// Metrics is served at /metrics when set.
	Metrics http.Handler
	// MCP is served at /mcp when set.
	MCP http.Handler
}

func NewRouter(
	ctx context.Context,
	pollSvc *pollsvc.Service,
	agentSvc *agentsvc.Service,
	eventBus porteventbus.EventBus,
	opts Options,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	api := r.Group("/api")

	pollhandler.Register(api, pollSvc, agentSvc, opts.Population)
	agenthandler.Register(api, agentSvc)

	hub := wshandler.NewHub()
	hub.Register(api.Group("/ws"))

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	if opts.MCP != nil {
		r.Any("/mcp", gin.WrapH(opts.MCP))
	}

	// One subscription per domain channel; event.Type in the payload lets the
	// client filter.
	for _, ch := range []event.Channel{event.ChannelPoll, event.ChannelAgent} {
		if _, err := eventBus.Subscribe(ctx, ch, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", ch, "error", err)
		}
	}

	return r
}
