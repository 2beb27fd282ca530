package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"hoodsync/internal/api"
	"hoodsync/internal/api/handlers"
	"hoodsync/internal/api/middleware"
	"hoodsync/internal/app"
	"hoodsync/internal/config"
	"hoodsync/internal/logger"
)

// Handler is the serverless entry point. Each invocation loads the
// configuration, runs one sync and answers with the JSON summary.
func Handler(w http.ResponseWriter, r *http.Request) {
	cfg, err := config.Load()
	if err != nil {
		fail(w, r, logger.New("info"), err)
		return
	}
	log := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	a, err := app.New(cfg, log, app.Options{Trigger: "http"})
	if err != nil {
		fail(w, r, log, err)
		return
	}
	defer a.Close()

	api.NewInvocationRouter(log, a.Orchestrator).ServeHTTP(w, r)
}

// fail answers with the standard failure body, CORS headers included.
func fail(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	log.Error("Sync setup failed: %v", err)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.CORS())
	router.NoRoute(func(c *gin.Context) { handlers.Fail(c, err) })
	router.ServeHTTP(w, r)
}
