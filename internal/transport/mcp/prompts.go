package mcp

import (
	"context"
	"fmt"
	"strconv"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/charlietlamb/openai-hack/internal/domain/prompt"
	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
)

// RegisterPrompts exposes the opening prompt of each character, so an MCP client
// can role-play a villager with the same text the poll sends.
func RegisterPrompts(s *mcpserver.MCPServer, agentSvc *agentsvc.Service, introduction string) {
	s.AddPrompt(
		mcpmcp.NewPrompt("character",
			mcpmcp.WithPromptDescription("Opening prompt for one village character: persona followed by the scene introduction."),
			mcpmcp.WithArgument("character_id",
				mcpmcp.ArgumentDescription("Character id, 1..population."),
				mcpmcp.RequiredArgument(),
			),
		),
		characterPromptHandler(agentSvc, introduction),
	)
}

func characterPromptHandler(agentSvc *agentsvc.Service, introduction string) mcpserver.PromptHandlerFunc {
	return func(_ context.Context, req mcpmcp.GetPromptRequest) (*mcpmcp.GetPromptResult, error) {
		id, err := strconv.Atoi(req.Params.Arguments["character_id"])
		if err != nil {
			return nil, fmt.Errorf("invalid character_id: %w", err)
		}

		a, err := agentSvc.Profile(id)
		if err != nil {
			return nil, fmt.Errorf("character prompt %d: %w", id, err)
		}

		return mcpmcp.NewGetPromptResult(
			fmt.Sprintf("Opening prompt for %s", a.Name),
			[]mcpmcp.PromptMessage{
				mcpmcp.NewPromptMessage(
					mcpmcp.RoleUser,
					mcpmcp.TextContent{
						Type: "text",
						Text: prompt.Opening(a.PersonaText(), introduction),
					},
				),
			},
		), nil
	}
}
