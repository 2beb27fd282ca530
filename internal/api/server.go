package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hoodsync/internal/api/handlers"
	"hoodsync/internal/api/middleware"
	"hoodsync/internal/app"
	"hoodsync/internal/config"
	"hoodsync/internal/logger"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	app    *app.App
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, a *app.App) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())

	// Initialize handlers
	syncHandler := handlers.NewSyncHandler(a.Orchestrator, logger)

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Hood sync is running",
			"status":  "healthy",
		})
	}
	router.GET("/", health)
	router.GET("/healthz", health)
	router.GET("/metrics", gin.WrapH(a.Metrics.Handler()))

	// Routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/sync", syncHandler.Trigger)
		v1.POST("/sync", syncHandler.Trigger)

		// Run history
		if a.Store != nil {
			runHandler := handlers.NewRunHandler(a.Store, logger)
			issueHandler := handlers.NewIssueHandler(a.Store.DB(), logger)

			runs := v1.Group("/runs")
			{
				runs.GET("", runHandler.List)
				runs.GET("/:id", runHandler.Get)
			}
			v1.GET("/issues", issueHandler.List)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		app:    a,
		router: router,
	}
}

// NewInvocationRouter serves the single serverless entry point: every GET or
// POST runs one sync.
func NewInvocationRouter(logger *logger.Logger, runner handlers.Runner) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())

	syncHandler := handlers.NewSyncHandler(runner, logger)
	router.GET("/*path", syncHandler.Trigger)
	router.POST("/*path", syncHandler.Trigger)

	return router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// a sync over a large feed can take minutes
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
