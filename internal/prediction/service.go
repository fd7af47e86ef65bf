// Package prediction orchestrates the full risk pipeline: extraction,
// scoring, explanation, advisory, and history recording.
package prediction

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/preventia/risk-api/internal/advisory"
	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/explain"
	"github.com/preventia/risk-api/internal/logging"
	"github.com/preventia/risk-api/internal/model"
	"github.com/preventia/risk-api/internal/risk"
	"github.com/preventia/risk-api/internal/schema"
	"github.com/preventia/risk-api/internal/telemetry"
)

// HistoryWriter records completed predictions. A nil writer disables
// history.
type HistoryWriter interface {
	Create(ctx context.Context, record *domain.PredictionRecord) error
}

// healthDetailer is implemented by model clients that can report sidecar
// health.
type healthDetailer interface {
	HealthDetail(ctx context.Context) (reachable bool, latencyMs int64, modelVersion string, err error)
}

// ModelHealth is one model's health snapshot for the models health
// endpoint.
type ModelHealth struct {
	Configured   bool   `json:"configured"`
	Reachable    bool   `json:"reachable"`
	LatencyMs    int64  `json:"latency_ms,omitempty"`
	ModelVersion string `json:"model_version,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Service runs predictions end to end.
type Service struct {
	registry  *schema.Registry
	extractor *schema.Extractor
	scorer    *risk.Scorer
	explainer *explain.Engine
	advisor   *advisory.Generator
	models    map[string]model.Model
	history   HistoryWriter
	telemetry *telemetry.Provider
	logger    logging.Logger
	topK      int
}

// NewService wires the pipeline. models maps disease identifiers to their
// clients; a disease without an entry fails scoring with
// ModelUnavailableError.
func NewService(
	registry *schema.Registry,
	models map[string]model.Model,
	advisor *advisory.Generator,
	history HistoryWriter,
	tp *telemetry.Provider,
	logger logging.Logger,
	topK int,
) *Service {
	if topK <= 0 {
		topK = explain.DefaultTopK
	}
	return &Service{
		registry:  registry,
		extractor: schema.NewExtractor(registry),
		scorer:    risk.NewScorer(registry, logger),
		explainer: explain.NewEngine(logger),
		advisor:   advisor,
		models:    models,
		history:   history,
		telemetry: tp,
		logger:    logger,
		topK:      topK,
	}
}

// Predict runs the full pipeline for one request. Scoring failures abort
// the prediction; explanation, advisory, and history failures degrade
// without failing it.
func (s *Service) Predict(ctx context.Context, disease string, payload map[string]any) (*domain.PredictionResult, error) {
	startTime := time.Now()

	ctx, span := s.telemetry.StartSpan(ctx, "prediction.predict",
		attribute.String("disease", disease))
	defer span.End()

	spec, err := s.registry.Get(disease)
	if err != nil {
		s.telemetry.RecordPredictionFailure(ctx, disease, errorCode(err))
		return nil, err
	}

	features, err := s.extractor.Extract(disease, payload)
	if err != nil {
		s.telemetry.RecordPredictionFailure(ctx, disease, errorCode(err))
		return nil, err
	}

	m := s.models[disease]
	result, scored, err := s.scorer.Score(ctx, disease, m, features)
	if err != nil {
		s.telemetry.RecordPredictionFailure(ctx, disease, errorCode(err))
		return nil, err
	}

	contributions, heuristic := s.explainer.Explain(ctx, m, scored, s.topK)
	if heuristic {
		s.telemetry.RecordExplanationDegraded(ctx)
	}

	advice, adviceSource := s.advisor.Advise(ctx, spec, result, contributions)
	s.telemetry.RecordAdvice(ctx, adviceSource)

	processingMs := time.Since(startTime).Milliseconds()
	s.recordHistory(ctx, disease, result, adviceSource, processingMs)
	s.telemetry.RecordPrediction(ctx, disease, string(result.Tier), time.Since(startTime))

	s.logger.Info("prediction complete",
		logging.String("disease", disease),
		logging.Float64("probability", result.Probability),
		logging.String("tier", string(result.Tier)),
		logging.String("advice_source", adviceSource),
		logging.Bool("heuristic_explanation", heuristic),
		logging.Int64("processing_time_ms", processingMs),
	)

	return &domain.PredictionResult{
		Disease:          disease,
		DiseaseName:      spec.DisplayName,
		Probability:      result.Probability,
		Tier:             result.Tier,
		Explanation:      contributions,
		Advice:           advice,
		AdviceSource:     adviceSource,
		InputFeatures:    features.Map(),
		ProcessingTimeMs: processingMs,
	}, nil
}

// recordHistory persists the prediction trace. Failures are logged only;
// history never fails a request.
func (s *Service) recordHistory(ctx context.Context, disease string, result domain.RiskResult, adviceSource string, processingMs int64) {
	if s.history == nil {
		return
	}
	record := &domain.PredictionRecord{
		Disease:          disease,
		Probability:      result.Probability,
		Tier:             string(result.Tier),
		AdviceSource:     adviceSource,
		ProcessingTimeMs: processingMs,
	}
	if err := s.history.Create(ctx, record); err != nil {
		s.logger.Warn("failed to record prediction history",
			logging.String("disease", disease),
			logging.Error(err),
		)
	}
}

// Diseases returns the supported disease identifiers.
func (s *Service) Diseases() []string {
	return s.registry.Diseases()
}

// ModelsHealth reports per-disease model sidecar health.
func (s *Service) ModelsHealth(ctx context.Context) map[string]ModelHealth {
	out := make(map[string]ModelHealth, len(s.registry.Diseases()))
	for _, disease := range s.registry.Diseases() {
		m, ok := s.models[disease]
		if !ok || m == nil {
			out[disease] = ModelHealth{}
			continue
		}

		health := ModelHealth{Configured: true}
		if hd, canCheck := m.(healthDetailer); canCheck {
			reachable, latencyMs, version, err := hd.HealthDetail(ctx)
			health.Reachable = reachable
			health.LatencyMs = latencyMs
			health.ModelVersion = version
			if err != nil {
				health.Error = err.Error()
			}
		} else {
			// In-process models have no sidecar to probe.
			health.Reachable = true
		}
		out[disease] = health
	}
	return out
}

// errorCode maps pipeline errors to the metric label.
func errorCode(err error) string {
	var (
		validation  *domain.ValidationError
		unsupported *domain.UnsupportedDiseaseError
		unavailable *domain.ModelUnavailableError
		mismatch    *domain.FeatureMismatchError
	)
	switch {
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &unsupported):
		return "unsupported_disease"
	case errors.As(err, &unavailable):
		return "model_unavailable"
	case errors.As(err, &mismatch):
		return "feature_mismatch"
	default:
		return "predict_failed"
	}
}
