package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
	pollsvc "github.com/charlietlamb/openai-hack/internal/service/poll"
)

// RegisterTools registers all MCP tools on the server.
// [SRP] Tool registration only.
// [OCP] Add a new tool by adding a new AddTool call; server.go never changes.
func RegisterTools(
	s *mcpserver.MCPServer,
	watchers *Watchers,
	pollSvc *pollsvc.Service,
	agentSvc *agentsvc.Service,
	population int,
) {
	s.AddTool(mcpmcp.NewTool("ask_village",
		mcpmcp.WithDescription("Ask every character the same yes/no question and return the tally: yes_count, no_count, total and average_intensity. Blocks until every character has answered or failed."),
		mcpmcp.WithString("question", mcpmcp.Required(), mcpmcp.Description("Question put to the village")),
		mcpmcp.WithNumber("population", mcpmcp.Description(fmt.Sprintf("Number of characters to ask, starting at id 1. Defaults to %d.", population))),
	), askVillageHandler(pollSvc, population))

	s.AddTool(mcpmcp.NewTool("ask_agent",
		mcpmcp.WithDescription("Ask one character directly. Returns its in-character response, verdict and intensity. The answer is stored like a poll answer."),
		mcpmcp.WithNumber("character_id", mcpmcp.Required(), mcpmcp.Description("Character id")),
		mcpmcp.WithString("message", mcpmcp.Required(), mcpmcp.Description("Message or question for the character")),
	), askAgentHandler(pollSvc))

	s.AddTool(mcpmcp.NewTool("get_agent_state",
		mcpmcp.WithDescription("Return the stored transcript, verdict and intensity of one character."),
		mcpmcp.WithNumber("character_id", mcpmcp.Required(), mcpmcp.Description("Character id")),
	), getAgentStateHandler(agentSvc))

	s.AddTool(mcpmcp.NewTool("list_agent_states",
		mcpmcp.WithDescription("Return the stored state of every character, ordered by id."),
	), listAgentStatesHandler(agentSvc))

	s.AddTool(mcpmcp.NewTool("reset_agents",
		mcpmcp.WithDescription("Reset every character to its default state and clear the current question. Waits for a running poll to finish."),
	), resetAgentsHandler(agentSvc))

	s.AddTool(mcpmcp.NewTool("watch_polls",
		mcpmcp.WithDescription("Subscribe this session to poll progress. Each poll_started, agent_answered, agent_failed and poll_settled event arrives as a notifications/message."),
	), watchPollsHandler(watchers))
}

func askVillageHandler(pollSvc *pollsvc.Service, population int) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		question := mcpmcp.ParseString(req, "question", "")
		if question == "" {
			return mcpmcp.NewToolResultText("error: question is required"), nil
		}
		n := mcpmcp.ParseInt(req, "population", population)

		summary, err := pollSvc.RunPoll(ctx, question, n)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(summary)
	}
}

func askAgentHandler(pollSvc *pollsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id := mcpmcp.ParseInt(req, "character_id", 0)
		message := mcpmcp.ParseString(req, "message", "")
		if message == "" {
			return mcpmcp.NewToolResultText("error: message is required"), nil
		}

		reply, err := pollSvc.Converse(ctx, id, message)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(reply)
	}
}

func getAgentStateHandler(agentSvc *agentsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id := mcpmcp.ParseInt(req, "character_id", 0)

		st, err := agentSvc.GetState(ctx, id)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(st)
	}
}

func listAgentStatesHandler(agentSvc *agentsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		states, err := agentSvc.ListStates(ctx)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		if len(states) == 0 {
			return mcpmcp.NewToolResultText("[]"), nil
		}
		return jsonResult(states)
	}
}

func resetAgentsHandler(agentSvc *agentsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		if err := agentSvc.ResetAll(ctx); err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return mcpmcp.NewToolResultText(`{"ok":true}`), nil
	}
}

func watchPollsHandler(watchers *Watchers) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		session := mcpserver.ClientSessionFromContext(ctx)
		if session == nil {
			return mcpmcp.NewToolResultText("error: no session"), nil
		}
		watchers.Watch(session.SessionID())
		return mcpmcp.NewToolResultText(`{"ok":true}`), nil
	}
}

func jsonResult(v any) (*mcpmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcpmcp.NewToolResultText(string(data)), nil
}
