package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	router.GET("/metrics", gin.WrapH(metrics))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Prediction endpoints
		v1.POST("/predict", handler.Predict)            // POST /api/v1/predict
		v1.POST("/predict/batch", handler.PredictBatch) // POST /api/v1/predict/batch
		v1.GET("/diseases", handler.ListDiseases)       // GET /api/v1/diseases

		// Chat endpoints
		chatGroup := v1.Group("/chat")
		{
			chatGroup.POST("", handler.Chat)             // POST /api/v1/chat
			chatGroup.GET("/status", handler.ChatStatus) // GET /api/v1/chat/status
		}

		// Cache endpoints
		cacheGroup := v1.Group("/cache")
		{
			cacheGroup.GET("/stats", handler.CacheStats)  // GET /api/v1/cache/stats
			cacheGroup.POST("/clear", handler.CacheClear) // POST /api/v1/cache/clear
		}

		// Statistics endpoints
		stats := v1.Group("/stats")
		{
			stats.GET("", handler.GetStats)                    // GET /api/v1/stats
			stats.GET("/recent", handler.GetRecentPredictions) // GET /api/v1/stats/recent
		}

		// Model health endpoints
		v1.GET("/models/health", handler.ModelsHealth) // GET /api/v1/models/health
	}
}
