package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/pkg/container"
)

// SetupRouter assembles the gin engine: global middleware, health
// endpoint, and every domain's routes under /api/v1.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.ClientIPMiddleware(),
	)

	authRequired := middleware.AuthMiddleware(c.Config.JWT.Secret)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		c.UserHandler.RegisterRoutes(v1, authRequired)
		c.ShopHandler.RegisterRoutes(v1, authRequired)
		c.CategoryHandler.RegisterRoutes(v1, authRequired)
		c.ProductHandler.RegisterRoutes(v1, authRequired)
		c.CouponHandler.RegisterRoutes(v1, authRequired)
		c.OrderHandler.RegisterRoutes(v1, authRequired)
		c.ReviewHandler.RegisterRoutes(v1, authRequired)
	}

	return router
}

// =====================================================
// HEALTH CHECK
// =====================================================

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"service":   appCtx.Config.App.Name,
			"version":   appCtx.Config.App.Version,
			"timestamp": time.Now().Format(time.RFC3339),
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
			}
		}

		// Redis being down degrades caching only, never availability.
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
