package api

import (
	"errors"
	"net/http"

	"github.com/preventia/risk-api/internal/cache"
	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/prediction"
)

// PredictRequest is the body of POST /api/v1/predict.
type PredictRequest struct {
	Disease string         `json:"disease" binding:"required"`
	Input   map[string]any `json:"input"   binding:"required"`
}

// BatchPredictRequest is the body of POST /api/v1/predict/batch.
type BatchPredictRequest struct {
	Items []prediction.BatchItem `json:"items" binding:"required,min=1,max=50"`
}

// BatchPredictResponse reports per-item outcomes with batch counts.
type BatchPredictResponse struct {
	Results []prediction.BatchResult `json:"results"`
	Total   int                      `json:"total"`
	Success int                      `json:"success"`
	Failed  int                      `json:"failed"`
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// CacheStatsResponse reports both caches for GET /api/v1/cache/stats.
type CacheStatsResponse struct {
	Advisory cache.Stats `json:"advisory"`
	Chat     cache.Stats `json:"chat"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// predictionErrorStatus maps pipeline errors to HTTP status and a stable
// error code. Client faults are 4xx; a missing model is 503 so callers can
// distinguish it from a broken pipeline.
func predictionErrorStatus(err error) (int, string) {
	var (
		validation  *domain.ValidationError
		unsupported *domain.UnsupportedDiseaseError
		unavailable *domain.ModelUnavailableError
		mismatch    *domain.FeatureMismatchError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, "validation"
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, "unsupported_disease"
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, "model_unavailable"
	case errors.As(err, &mismatch):
		return http.StatusInternalServerError, "feature_mismatch"
	default:
		return http.StatusInternalServerError, "predict_failed"
	}
}
