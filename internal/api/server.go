package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/service"
)

// Server is the HTTP presentation shell over the intake core. The core
// never depends on it; everything here is transport.
type Server struct {
	logger    *logrus.Logger
	cfg       *domain.Config
	router    *gin.Engine
	server    *http.Server
	sessions  *service.SessionManager
	intake    *service.IntakeService
	suggester *service.Suggester
}

// NewServer creates a new HTTP server instance.
func NewServer(logger *logrus.Logger, cfg *domain.Config, sessions *service.SessionManager, intake *service.IntakeService, suggester *service.Suggester) *Server {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())
	if cfg.RateLimit.Enabled {
		router.Use(rateLimitMiddleware(logger, cfg.RateLimit))
	}

	s := &Server{
		logger:    logger,
		cfg:       cfg,
		router:    router,
		sessions:  sessions,
		intake:    intake,
		suggester: suggester,
	}
	s.setupRoutes()
	return s
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.cfg.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/sessions", s.handleCreateSession)
		v1.GET("/sessions/:id", s.handleGetSession)
		v1.POST("/sessions/:id/messages", s.handleMessage)
		v1.POST("/sessions/:id/reset", s.handleResetSession)
		v1.GET("/sessions/:id/chat", s.handleChat)
		v1.GET("/suggest", s.handleSuggest)
	}
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"sessions":  s.sessions.Count(),
		"timestamp": time.Now().UTC(),
	})
}
