package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aescanero/blockqueue/internal/application/orchestrator"
	"github.com/aescanero/blockqueue/internal/application/runloop"
	"github.com/aescanero/blockqueue/pkg/adapters/actor/walker"
)

// SessionResponse represents the session view
type SessionResponse struct {
	Session *orchestrator.View `json:"session"`
	Walker  *walker.State      `json:"walker,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	loopStatus, lastTask := s.loop.Status()

	checks := gin.H{
		"loop":           string(loopStatus),
		"loop_last_task": lastTask,
	}

	healthy := loopStatus != runloop.StatusStopped
	if s.health != nil {
		status := s.health.GetStatus()
		checks["watchdog"] = status
		healthy = healthy && status.Healthy
	}

	code := http.StatusOK
	state := "healthy"
	if !healthy {
		code = http.StatusServiceUnavailable
		state = "unhealthy"
	}

	c.JSON(code, gin.H{
		"status":    state,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}

// handleGetSession returns a copy of the engine state
func (s *Server) handleGetSession(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	var resp SessionResponse
	err := s.loop.Do(ctx, func() {
		resp.Session = s.session.View()
		if s.actor != nil {
			state := s.actor.State()
			resp.Walker = &state
		}
	})
	if err != nil {
		s.logger.Error("failed to read session", zap.Error(err))

		code := http.StatusServiceUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			code = http.StatusGatewayTimeout
		}
		c.JSON(code, ErrorResponse{
			Error: ErrorDetail{
				Code:    "LOOP_UNAVAILABLE",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
