package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/TermDeck/backend/internal/api/http"
	"github.com/GriffinCanCode/TermDeck/backend/internal/api/middleware"
	"github.com/GriffinCanCode/TermDeck/backend/internal/api/ws"
	"github.com/GriffinCanCode/TermDeck/backend/internal/domain/terminal"
	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/tracing"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router   *gin.Engine
	registry *terminal.Registry
	hub      *ws.Hub
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// New creates a server instance.
func New(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing TermDeck backend",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("termdeck", logger.Logger)

	// The hub is the event sink: session readers push straight to it.
	hub := ws.NewHub(logger).WithMetrics(metrics)

	registry := terminal.NewRegistry(hub, logger).
		WithOptions(terminal.Options{
			Shell:   cfg.Terminal.Shell,
			WorkDir: cfg.Terminal.WorkDir,
			Cols:    cfg.Terminal.Cols,
			Rows:    cfg.Terminal.Rows,
		}).
		WithMetrics(metrics)

	handlers := apihttp.NewHandlers(registry, logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Session lifecycle
	router.POST("/terminal/sessions", handlers.SpawnSession)
	router.POST("/terminal/sessions/:id/input", handlers.WriteSession)
	router.POST("/terminal/sessions/:id/resize", handlers.ResizeSession)
	router.DELETE("/terminal/sessions/:id", handlers.CloseSession)
	router.GET("/terminal/sessions", handlers.ListSessions)
	router.GET("/terminal/sessions/:id", handlers.GetSession)

	// Event channel to the UI
	router.GET("/events", hub.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		registry: registry,
		hub:      hub,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close tears down all sessions and flushes the logger.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...",
		zap.Int("sessions", s.registry.Count()),
	)
	s.registry.CloseAll()
	s.logger.Sync()
	return nil
}
