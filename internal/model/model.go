// Package model defines the inference model abstraction and its HTTP client.
package model

import (
	"context"
	"encoding/json"

	"github.com/preventia/risk-api/internal/domain"
)

// Model produces a positive-class probability for a feature vector.
// FeatureOrder returns the order the model was trained on, or nil when
// the model does not declare one.
type Model interface {
	PredictProbability(ctx context.Context, features domain.FeatureVector) (float64, error)
	FeatureOrder() []string
}

// Attributor is implemented by models that can report per-feature
// attribution values. The payload is left raw because sidecars emit
// several shapes; callers normalize it.
type Attributor interface {
	Attribute(ctx context.Context, features domain.FeatureVector) (json.RawMessage, error)
}

// Unwrapper is implemented by models that wrap an underlying estimator,
// such as a calibration layer around a tree model. Attribution callers
// fall through to the unwrapped model when the outer one cannot attribute.
type Unwrapper interface {
	Unwrap() Model
}
