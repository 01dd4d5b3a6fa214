package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"manifest-analyzer/internal/shared/middleware"
	"manifest-analyzer/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupManifestRoutes(v1, c)
		setupValuationRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.Refresh)
	}

	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.Me)
	}
}

func setupManifestRoutes(v1 *gin.RouterGroup, c *container.Container) {
	manifests := v1.Group("/manifests")
	manifests.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		manifests.POST("", c.ManifestHandler.Upload)
		manifests.POST("/validate", c.ManifestHandler.Validate)
		manifests.GET("", c.ManifestHandler.List)
		manifests.GET("/:id", c.ManifestHandler.GetByID)
		manifests.GET("/:id/quality", c.ManifestHandler.GetQuality)
		manifests.GET("/:id/file", c.ManifestHandler.DownloadFile)
		manifests.DELETE("/:id", c.ManifestHandler.Delete)
	}
}

func setupValuationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	valuations := v1.Group("/valuations")
	valuations.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		valuations.POST("", c.ValuationHandler.Evaluate)
	}
}

func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		// admins list and inspect manifests across all users
		admin.GET("/manifests", c.ManifestHandler.List)
		admin.GET("/manifests/:id", c.ManifestHandler.GetByID)
		admin.DELETE("/manifests/:id", c.ManifestHandler.Delete)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			} else if stats, err := appCtx.DB.Stats(); err == nil {
				health["pool"] = gin.H{
					"total_conns":    stats.TotalConns,
					"idle_conns":     stats.IdleConns,
					"acquired_conns": stats.AcquiredConns,
					"max_conns":      stats.MaxConns,
				}
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
