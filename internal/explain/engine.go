package explain

import (
	"context"
	"math"
	"sort"

	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/logging"
	"github.com/preventia/risk-api/internal/model"
)

// DefaultTopK is the number of contributions returned when the caller does
// not ask for a specific count.
const DefaultTopK = 5

// Engine produces per-feature contributions for a scored prediction.
// Explanation is best effort: any failure degrades to the heuristic proxy
// rather than failing the prediction.
type Engine struct {
	logger logging.Logger
}

// NewEngine creates an explanation engine.
func NewEngine(logger logging.Logger) *Engine {
	return &Engine{logger: logger}
}

// Explain returns the topK features ranked by absolute attribution. It asks
// the model for attributions, falling through a calibration wrapper when the
// outer model cannot attribute, and finally to the heuristic proxy.
// Heuristic reports whether the proxy was used.
func (e *Engine) Explain(
	ctx context.Context,
	m model.Model,
	features domain.FeatureVector,
	topK int,
) (contributions []domain.Contribution, heuristic bool) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	values, err := e.attribute(ctx, m, features)
	if err != nil {
		e.logger.Warn("attribution failed, using heuristic proxy", logging.Error(err))
		return topContributions(features, heuristicProxy(features), topK), true
	}
	return topContributions(features, values, topK), false
}

// attribute asks the model for per-feature attribution values. When the
// model wraps an underlying estimator, a failure triggers exactly one retry
// against the unwrapped model.
func (e *Engine) attribute(ctx context.Context, m model.Model, features domain.FeatureVector) ([]float64, error) {
	values, err := attributeOne(ctx, m, features)
	if err == nil {
		return values, nil
	}

	if unwrapper, ok := m.(model.Unwrapper); ok {
		if inner := unwrapper.Unwrap(); inner != nil {
			e.logger.Debug("retrying attribution against unwrapped model", logging.Error(err))
			if values, innerErr := attributeOne(ctx, inner, features); innerErr == nil {
				return values, nil
			}
		}
	}
	return nil, err
}

// attributeOne runs a single attribution attempt against one model.
func attributeOne(ctx context.Context, m model.Model, features domain.FeatureVector) ([]float64, error) {
	attributor, ok := m.(model.Attributor)
	if !ok {
		return nil, errNoAttributor
	}

	raw, err := attributor.Attribute(ctx, features)
	if err != nil {
		return nil, err
	}

	shape, err := classifyShape(raw, features.Len())
	if err != nil {
		return nil, err
	}
	return shape.positiveClass(features.Len())
}

// heuristicProxy approximates attributions from the raw feature values when
// no explainer output is available. The squashing keeps large-magnitude
// inputs from dominating the ranking outright.
func heuristicProxy(features domain.FeatureVector) []float64 {
	out := make([]float64, features.Len())
	for i, v := range features.Values {
		out[i] = v / (math.Abs(v) + 1)
	}
	return out
}

// topContributions pairs features with their attributions and returns the
// topK by absolute attribution. The sort is stable so equal magnitudes keep
// their feature order.
func topContributions(features domain.FeatureVector, values []float64, topK int) []domain.Contribution {
	all := make([]domain.Contribution, features.Len())
	for i, name := range features.Names {
		all[i] = domain.Contribution{
			Feature:     name,
			Value:       features.Values[i],
			Attribution: values[i],
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return math.Abs(all[i].Attribution) > math.Abs(all[j].Attribution)
	})

	if len(all) > topK {
		all = all[:topK]
	}
	return all
}

type explainError string

func (e explainError) Error() string { return string(e) }

const errNoAttributor = explainError("model does not support attribution")
