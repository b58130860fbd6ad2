package main

import (
	"context"
	"net/http"
	"time"

	"rex-crm-client/internal/handlers"
	"rex-crm-client/internal/middleware"
	"rex-crm-client/pkg/cache"
	"rex-crm-client/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	a.setupHealthCheck()
	a.setupAPIRoutes()
}

// setupHealthCheck configures health check endpoint
func (a *App) setupHealthCheck() {
	a.Router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":       "ok",
			"rex_base_url": a.Client.BaseURL(),
			"rex_session":  a.Client.HasToken(),
			"redis":        "disabled",
		}

		if a.Redis != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()

			if err := cache.Ping(ctx, a.Redis); err != nil {
				logger.GlobalLogger.Printf("Redis ping failed: %v", err)
				body["status"] = "error"
				body["redis"] = "unavailable"
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
			body["redis"] = "ok"
		}

		c.JSON(http.StatusOK, body)
	})
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	api := a.Router.Group("/api")
	{
		api.POST("/login", a.SessionHandler.Login)
		api.POST("/logout", a.SessionHandler.Logout)
		api.GET("/location", handlers.PointToLocation)

		api.GET("/services", a.ServiceHandler.ListServices)
		api.GET("/services/:service/describe", a.ServiceHandler.Describe)

		// Routes that need a Rex session
		protected := api.Group("/services")
		protected.Use(middleware.RequireSession(a.Client))
		{
			protected.GET("/:service", a.ServiceHandler.Search)
			protected.GET("/:service/:id", a.ServiceHandler.Read)
		}
	}
}
