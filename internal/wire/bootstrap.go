package wire

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charlietlamb/openai-hack/internal/domain/event"
	porteventbus "github.com/charlietlamb/openai-hack/internal/port/eventbus"
	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
	mcptransport "github.com/charlietlamb/openai-hack/internal/transport/mcp"
)

// bootstrap resets every character so a restarted process never serves state
// left over from a previous run.
func bootstrap(ctx context.Context, agents *agentsvc.Service) error {
	if err := agents.ResetAll(ctx); err != nil {
		return fmt.Errorf("startup reset: %w", err)
	}
	slog.Info("startup reset complete", "characters", agents.Population())
	return nil
}

// forwardToWatchers relays poll progress to MCP sessions that called watch_polls.
func forwardToWatchers(ctx context.Context, bus porteventbus.EventBus, watchers *mcptransport.Watchers) {
	if _, err := bus.Subscribe(ctx, event.ChannelPoll, func(ctx context.Context, e event.Event) {
		if err := watchers.Notify(ctx, e); err != nil {
			slog.Warn("mcp: notify watchers failed", "type", e.Type, "poll_id", e.PollID, "error", err)
		}
	}); err != nil {
		slog.Error("failed to subscribe MCP watchers to poll channel", "error", err)
	}
}
