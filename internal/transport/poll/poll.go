package poll

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	"github.com/charlietlamb/openai-hack/internal/domain/poll"
	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
	pollsvc "github.com/charlietlamb/openai-hack/internal/service/poll"
)

// DefaultCharacterID is asked when a conversation request names no character.
const DefaultCharacterID = 1

func Register(rg *gin.RouterGroup, svc *pollsvc.Service, agents *agentsvc.Service, population int) {
	rg.POST("/question", askQuestion(svc, agents, population))
	rg.POST("/conversation", converse(svc, agents))
}

type questionReq struct {
	Question   string `json:"question" binding:"required"`
	Population *int   `json:"population"`
}

func askQuestion(svc *pollsvc.Service, agents *agentsvc.Service, population int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req questionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		n := population
		if req.Population != nil {
			n = *req.Population
		}

		summary, err := svc.RunPoll(c.Request.Context(), req.Question, n)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		states, err := agents.ListStates(c.Request.Context())
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to list states after poll", "poll_id", summary.PollID, "error", err)
		}
		if states == nil {
			states = []domainagent.State{}
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"question":   summary.Question,
			"results":    summary,
			"characters": states,
		})
	}
}

type conversationReq struct {
	Message     string `json:"message" binding:"required"`
	CharacterID *int   `json:"character_id"`
}

func converse(svc *pollsvc.Service, agents *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req conversationReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id := DefaultCharacterID
		if req.CharacterID != nil {
			id = *req.CharacterID
		}

		reply, err := svc.Converse(c.Request.Context(), id, req.Message)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		cached, err := agents.GetState(c.Request.Context(), id)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to read back agent state", "agent_id", id, "error", err)
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"character_id": reply.AgentID,
			"message":      reply.Message,
			"response":     reply.Verdict.Response,
			"answer":       reply.Verdict.Verdict,
			"intensity":    reply.Verdict.Intensity,
			"cached_data":  cached,
		})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, poll.ErrInvalidPopulation):
		return http.StatusBadRequest
	case errors.Is(err, poll.ErrUnknownAgent):
		return http.StatusNotFound
	case errors.Is(err, poll.ErrInference):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
