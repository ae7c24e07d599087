package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/skyplan/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		sky := api.Group("/sky")
		sky.POST("/position", handler.Position)
		sky.POST("/window", handler.Window)
		sky.POST("/series", handler.Series)
		sky.POST("/moon", handler.Moon)
		sky.POST("/sun", handler.Sun)

		api.POST("/recommendations", handler.Recommend)
		api.GET("/recommenders", handler.Recommenders)

		api.GET("/targets", handler.ListTargets)
		api.GET("/targets/near", handler.NearTargets)
		api.GET("/targets/:id", handler.GetTarget)
		api.POST("/targets/import", handler.ImportTargets)

		api.GET("/observers", handler.ListObservers)
		api.POST("/observers", handler.SaveObserver)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, retryConfig(cfg.HTTP.Retry), handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

// retryConfig never replays catalog imports.
func retryConfig(cfg config.RetryConfig) config.RetryConfig {
	out := cfg
	out.Exclude = append(append([]string(nil), cfg.Exclude...), "/api/v1/targets/import")
	return out
}
