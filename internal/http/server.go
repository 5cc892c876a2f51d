// Package http provides the HTTP API for boardroomd.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/boardroomlabs/boardroomd/internal/auth"
	"github.com/boardroomlabs/boardroomd/internal/chat"
	"github.com/boardroomlabs/boardroomd/internal/document"
	"github.com/boardroomlabs/boardroomd/internal/logging"
	"github.com/boardroomlabs/boardroomd/internal/store"
	"github.com/boardroomlabs/boardroomd/internal/strategy"
)

// Server provides the HTTP API.
type Server struct {
	echo   *echo.Echo
	logger *logging.Logger
	config *Config

	store     *store.Store
	tokens    *auth.TokenManager
	chat      *chat.Service
	documents *document.Service
	strategy  *strategy.Service
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Deps bundles the services the server exposes.
type Deps struct {
	Store     *store.Store
	Tokens    *auth.TokenManager
	Chat      *chat.Service
	Documents *document.Service
	Strategy  *strategy.Service
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg *Config, deps Deps, logger *logging.Logger) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogging(logger))

	metrics := NewHTTPMetrics(logger.Underlying())
	e.Use(metrics.Middleware())

	s := &Server{
		echo:      e,
		logger:    logger,
		config:    cfg,
		store:     deps.Store,
		tokens:    deps.Tokens,
		chat:      deps.Chat,
		documents: deps.Documents,
		strategy:  deps.Strategy,
	}
	s.registerRoutes()
	return s, nil
}

// requestLogging logs each request and threads the request ID into the
// context for downstream log correlation.
func requestLogging(logger *logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logging.WithRequestID(c.Request().Context(), requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			start := time.Now()
			err := next(c)

			logger.Info(ctx, "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", responseStatus(c, err)),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		}
	}
}

// responseStatus resolves the status a request will be answered with. When a
// handler returns an error the response is not yet written at middleware
// time, so the status comes from the error, not the response.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/auth/register", s.handleRegister)
	v1.POST("/auth/login", s.handleLogin)

	api := v1.Group("", auth.Middleware(s.tokens))
	api.GET("/me", s.handleMe)

	api.POST("/workspaces", s.handleCreateWorkspace)
	api.GET("/workspaces", s.handleListWorkspaces)
	api.GET("/workspaces/:id", s.handleGetWorkspace)
	api.PUT("/workspaces/:id", s.handleUpdateWorkspace)
	api.DELETE("/workspaces/:id", s.handleDeleteWorkspace)

	api.GET("/workspaces/:id/canvas", s.handleGetCanvas)

	api.POST("/workspaces/:id/nodes", s.handleCreateNode)
	api.GET("/workspaces/:id/nodes", s.handleListNodes)
	api.PUT("/workspaces/:id/nodes/:nodeID", s.handleUpdateNode)
	api.DELETE("/workspaces/:id/nodes/:nodeID", s.handleDeleteNode)

	api.POST("/workspaces/:id/edges", s.handleCreateEdge)
	api.GET("/workspaces/:id/edges", s.handleListEdges)
	api.DELETE("/workspaces/:id/edges/:edgeID", s.handleDeleteEdge)

	api.POST("/workspaces/:id/conversations", s.handleCreateConversation)
	api.GET("/workspaces/:id/conversations", s.handleListConversations)
	api.GET("/workspaces/:id/conversations/:convID/messages", s.handleListMessages)
	api.POST("/workspaces/:id/conversations/:convID/messages", s.handleSendMessage)
	api.DELETE("/workspaces/:id/conversations/:convID", s.handleDeleteConversation)

	api.POST("/workspaces/:id/documents", s.handleUploadDocument)
	api.GET("/workspaces/:id/documents", s.handleListDocuments)
	api.GET("/workspaces/:id/documents/search", s.handleSearchDocuments)
	api.DELETE("/workspaces/:id/documents/:docID", s.handleDeleteDocument)

	api.POST("/workspaces/:id/summaries", s.handleGenerateSummary)
	api.GET("/workspaces/:id/summaries", s.handleListSummaries)
	api.GET("/workspaces/:id/summaries/:summaryID", s.handleGetSummary)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// requireWorkspace loads the workspace named in the path and verifies the
// caller owns it.
func (s *Server) requireWorkspace(c echo.Context) (*store.Workspace, error) {
	ws, err := s.store.GetWorkspace(c.Request().Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		return nil, mapStoreError(err)
	}
	return ws, nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
