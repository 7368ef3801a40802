package agent

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	"github.com/charlietlamb/openai-hack/internal/domain/poll"
	portstate "github.com/charlietlamb/openai-hack/internal/port/state"
	agentsvc "github.com/charlietlamb/openai-hack/internal/service/agent"
)

func Register(rg *gin.RouterGroup, svc *agentsvc.Service) {
	rg.GET("/characters", listStates(svc))
	rg.GET("/characters/:id", getState(svc))
	rg.POST("/characters/reset", resetAll(svc))
	rg.GET("/profiles", listProfiles(svc))
	rg.GET("/profiles/:id", getProfile(svc))
	rg.GET("/question", currentQuestion(svc))
	rg.GET("/health", health(svc))
}

func listStates(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		states, err := svc.ListStates(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if states == nil {
			states = []domainagent.State{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(states), "characters": states})
	}
}

func getState(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		st, err := svc.GetState(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, portstate.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "character": st})
	}
}

func resetAll(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ResetAll(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": svc.Population()})
	}
}

func listProfiles(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		profiles := svc.Profiles()
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(profiles), "profiles": profiles})
	}
}

func getProfile(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		a, err := svc.Profile(id)
		if err != nil {
			if errors.Is(err, poll.ErrUnknownAgent) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func currentQuestion(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := svc.Question(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "question": q})
	}
}

func health(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "characters": svc.Population()})
	}
}
