package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/haroai/haro/internal/auth"
	"github.com/haroai/haro/internal/observability"
	"github.com/haroai/haro/internal/orchestrator"
	"github.com/haroai/haro/internal/speech"
	"github.com/haroai/haro/usecase"
)

// Server exposes the assistant's status and text console over HTTP.
type Server struct {
	session *usecase.Session
	queue   *speech.Queue
	orch    *orchestrator.Orchestrator
	auth    *auth.Authenticator
	logger  *zap.Logger
}

// NewServer creates the HTTP surface.
func NewServer(session *usecase.Session, queue *speech.Queue, orch *orchestrator.Orchestrator, authenticator *auth.Authenticator, logger *zap.Logger) *Server {
	return &Server{
		session: session,
		queue:   queue,
		orch:    orch,
		auth:    authenticator,
		logger:  logger,
	}
}

// RegisterRoutes wires all endpoints onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.health)
	e.GET("/status", s.status)
	e.GET("/metrics", echo.WrapHandler(observability.MetricsHandler()))

	v1 := e.Group("/api/v1")
	v1.POST("/console/token", s.consoleToken)

	e.GET("/ws/console", s.consoleWithAuth)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "haro",
	})
}

func (s *Server) status(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		State:      string(s.orch.State()),
		Session:    s.session.Summary(),
		QueueBusy:  s.queue.IsBusy(),
		QueueDepth: s.queue.Depth(),
	})
}

// consoleToken exchanges the shared secret for a bearer token.
func (s *Server) consoleToken(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Error("Failed to bind token request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if !s.auth.Enabled() {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "auth_disabled",
			Message: "No console secret is configured",
		})
	}
	if !s.auth.Matches(req.Secret) {
		s.logger.Warn("Console token request with wrong secret")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid secret",
		})
	}

	clientID := req.ClientID
	if clientID == "" {
		clientID = "console"
	}
	token, err := s.auth.GenerateConsoleToken(clientID)
	if err != nil {
		s.logger.Error("Failed to generate console token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
}

// consoleWithAuth gates the websocket console behind a bearer token when a
// secret is configured.
func (s *Server) consoleWithAuth(c echo.Context) error {
	if s.auth.Enabled() {
		var token string
		authHeader := c.Request().Header.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
		if token == "" {
			s.logger.Warn("Console connection rejected: missing token")
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "missing_token",
				Message: "JWT token is required in Authorization header",
			})
		}

		claims, err := s.auth.ValidateToken(token)
		if err != nil {
			s.logger.Warn("Console connection rejected: invalid token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_token",
				Message: "Invalid or expired JWT token",
			})
		}
		if claims.Role != "console" {
			s.logger.Warn("Console connection rejected: invalid role", zap.String("role", claims.Role))
			return c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "invalid_role",
				Message: "Only console tokens may open the console",
			})
		}
	}

	return s.handleConsole(c)
}
