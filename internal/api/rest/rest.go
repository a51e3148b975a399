package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/veridrive/veridrive/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/v1")
	{
		// Trust surface (public read access)
		v1.GET("/vehicles/:id/trust", handler.GetTrustScore)
		v1.GET("/vehicles/:id/trust/history", handler.GetTrustHistory)

		// Batch surface (public read access)
		v1.GET("/vehicles/:id/batches", handler.ListBatches)

		// Consolidation (requires authentication)
		v1.POST("/vehicles/:id/consolidate", middleware.Auth(authCfg), handler.Consolidate)

		// Administrative trust operations (API key only)
		v1.POST("/vehicles/:id/trust/seed", middleware.APIKeyAuth(authCfg), handler.SeedTrustScore)
		v1.POST("/vehicles/:id/trust/recompute", middleware.APIKeyAuth(authCfg), handler.RecomputeTrustScore)
	}
}
