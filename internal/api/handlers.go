package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/preventia/risk-api/internal/cache"
	"github.com/preventia/risk-api/internal/chat"
	"github.com/preventia/risk-api/internal/database"
	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/logging"
	"github.com/preventia/risk-api/internal/prediction"
	"github.com/preventia/risk-api/internal/telemetry"
)

const defaultRecentLimit = 20

// StatsReader serves the stats endpoints from prediction history. A nil
// reader means history is disabled and the endpoints return empty stats.
type StatsReader interface {
	GetStats(ctx context.Context) (*database.PredictionStats, error)
	RecentByDisease(ctx context.Context, disease string, limit int) ([]domain.PredictionRecord, error)
}

// Handler handles HTTP requests for the risk API.
type Handler struct {
	service       *prediction.Service
	batch         *prediction.BatchProcessor
	responder     *chat.Responder
	advisoryCache *cache.TTLCache
	chatCache     *cache.TTLCache
	stats         StatsReader
	telemetry     *telemetry.Provider
	logger        logging.Logger
	serviceName   string
	version       string
}

// NewHandler creates a new API handler.
func NewHandler(
	service *prediction.Service,
	batch *prediction.BatchProcessor,
	responder *chat.Responder,
	advisoryCache *cache.TTLCache,
	chatCache *cache.TTLCache,
	stats StatsReader,
	tp *telemetry.Provider,
	logger logging.Logger,
	serviceName, version string,
) *Handler {
	return &Handler{
		service:       service,
		batch:         batch,
		responder:     responder,
		advisoryCache: advisoryCache,
		chatCache:     chatCache,
		stats:         stats,
		telemetry:     tp,
		logger:        logger,
		serviceName:   serviceName,
		version:       version,
	}
}

// Predict handles POST /api/v1/predict.
func (h *Handler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid predict request", logging.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.Predict(c.Request.Context(), req.Disease, req.Input)
	if err != nil {
		status, code := predictionErrorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("prediction failed",
				logging.String("disease", req.Disease),
				logging.String("code", code),
				logging.Error(err),
			)
		} else {
			h.logger.Warn("prediction rejected",
				logging.String("disease", req.Disease),
				logging.String("code", code),
				logging.Error(err),
			)
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	h.telemetry.RecordCacheLookup(c.Request.Context(), "advisory",
		result.AdviceSource == domain.AdviceSourceCached)

	c.JSON(http.StatusOK, result)
}

// PredictBatch handles POST /api/v1/predict/batch.
func (h *Handler) PredictBatch(c *gin.Context) {
	var req BatchPredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid batch predict request", logging.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	results := h.batch.Process(c.Request.Context(), req.Items)

	success := 0
	for _, r := range results {
		if r.Error == "" {
			success++
		}
	}

	c.JSON(http.StatusOK, BatchPredictResponse{
		Results: results,
		Total:   len(results),
		Success: success,
		Failed:  len(results) - success,
	})
}

// ListDiseases handles GET /api/v1/diseases.
func (h *Handler) ListDiseases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"diseases": h.service.Diseases()})
}

// Chat handles POST /api/v1/chat.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", logging.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	reply := h.responder.Respond(c.Request.Context(), req.Message)

	h.telemetry.RecordChatTurn(c.Request.Context(), reply.Sentiment.Label, reply.Crisis)
	h.telemetry.RecordCacheLookup(c.Request.Context(), "chat", reply.FromCache)

	c.JSON(http.StatusOK, reply)
}

// ChatStatus handles GET /api/v1/chat/status.
func (h *Handler) ChatStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.responder.ChatStatus())
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, CacheStatsResponse{
		Advisory: h.advisoryCache.Stats(),
		Chat:     h.chatCache.Stats(),
	})
}

// CacheClear handles POST /api/v1/cache/clear.
func (h *Handler) CacheClear(c *gin.Context) {
	h.advisoryCache.Clear()
	h.chatCache.Clear()

	h.logger.Info("caches cleared")

	c.JSON(http.StatusOK, gin.H{"message": "caches cleared"})
}

// ModelsHealth handles GET /api/v1/models/health.
func (h *Handler) ModelsHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ModelsHealth(c.Request.Context()))
}

// GetStats handles GET /api/v1/stats.
func (h *Handler) GetStats(c *gin.Context) {
	if h.stats == nil {
		c.JSON(http.StatusOK, emptyStats())
		return
	}

	stats, err := h.stats.GetStats(c.Request.Context())
	if err != nil {
		// Empty stats instead of an error keeps dashboards alive.
		h.logger.Error("failed to get prediction stats", logging.Error(err))
		c.JSON(http.StatusOK, emptyStats())
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentPredictions handles GET /api/v1/stats/recent.
func (h *Handler) GetRecentPredictions(c *gin.Context) {
	disease := c.Query("disease")
	if disease == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "disease query parameter is required"})
		return
	}

	limit := defaultRecentLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	if h.stats == nil {
		c.JSON(http.StatusOK, gin.H{"predictions": []domain.PredictionRecord{}})
		return
	}

	records, err := h.stats.RecentByDisease(c.Request.Context(), disease, limit)
	if err != nil {
		h.logger.Error("failed to get recent predictions",
			logging.String("disease", disease),
			logging.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load predictions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"predictions": records})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.serviceName,
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready.
func (h *Handler) ReadyCheck(c *gin.Context) {
	history := "disabled"
	if h.stats != nil {
		history = "ok"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": gin.H{
			"models":  len(h.service.Diseases()),
			"history": history,
			"chat":    h.responder.ChatStatus().Provider,
		},
	})
}

func emptyStats() *database.PredictionStats {
	return &database.PredictionStats{
		ByDisease: map[string]database.DiseaseStats{},
	}
}
