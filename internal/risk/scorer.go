// Package risk turns model probabilities into tiered risk results.
package risk

import (
	"context"
	"fmt"

	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/logging"
	"github.com/preventia/risk-api/internal/model"
	"github.com/preventia/risk-api/internal/schema"
)

// Scorer runs a model over an extracted feature vector and maps the
// resulting probability to a risk tier.
type Scorer struct {
	registry *schema.Registry
	logger   logging.Logger
}

// NewScorer creates a scorer over the given registry.
func NewScorer(registry *schema.Registry, logger logging.Logger) *Scorer {
	return &Scorer{registry: registry, logger: logger}
}

// Score predicts the probability for features and derives the tier from the
// disease's threshold table. It returns the feature vector actually sent to
// the model, reindexed to the model's declared order when it has one, so
// downstream attribution sees the same layout the model saw.
func (s *Scorer) Score(
	ctx context.Context,
	disease string,
	m model.Model,
	features domain.FeatureVector,
) (domain.RiskResult, domain.FeatureVector, error) {
	if m == nil {
		return domain.RiskResult{}, features, &domain.ModelUnavailableError{Disease: disease}
	}

	spec, err := s.registry.Get(disease)
	if err != nil {
		return domain.RiskResult{}, features, err
	}

	if order := m.FeatureOrder(); len(order) > 0 {
		if !sameFeatureSet(order, features.Names) {
			return domain.RiskResult{}, features, &domain.FeatureMismatchError{
				Expected: order,
				Got:      features.Names,
			}
		}
		features = features.Reindex(order)
	}

	p, err := m.PredictProbability(ctx, features)
	if err != nil {
		return domain.RiskResult{}, features, fmt.Errorf("predict %s: %w", disease, err)
	}

	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	if spec.Invert {
		p = 1 - p
	}

	result := domain.RiskResult{Probability: p, Tier: spec.TierFor(p)}
	s.logger.Debug("scored prediction",
		logging.String("disease", disease),
		logging.Float64("probability", p),
		logging.String("tier", string(result.Tier)),
	)
	return result, features, nil
}

// sameFeatureSet reports whether two name lists contain exactly the same
// names, ignoring order.
func sameFeatureSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, n := range a {
		seen[n] = struct{}{}
	}
	for _, n := range b {
		if _, ok := seen[n]; !ok {
			return false
		}
	}
	return true
}
