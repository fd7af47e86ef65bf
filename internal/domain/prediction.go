// Package domain defines the core types shared across the risk-api service.
package domain

import "time"

// Tier is the discrete risk category derived from a continuous probability.
type Tier string

// Risk tiers, ordered from lowest to highest.
const (
	TierLow      Tier = "Low"
	TierModerate Tier = "Moderate"
	TierHigh     Tier = "High"
)

// FeatureVector is an ordered set of named numeric features for one request.
// It is built once by the extractor and never mutated afterwards.
type FeatureVector struct {
	Names  []string
	Values []float64
}

// Len returns the number of features in the vector.
func (v FeatureVector) Len() int {
	return len(v.Names)
}

// Value returns the value for the named feature and whether it exists.
func (v FeatureVector) Value(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Reindex returns a new vector with the same values arranged in the given
// order. Every name in order must exist in the vector; the caller is expected
// to have verified set equality first.
func (v FeatureVector) Reindex(order []string) FeatureVector {
	out := FeatureVector{
		Names:  make([]string, len(order)),
		Values: make([]float64, len(order)),
	}
	for i, name := range order {
		out.Names[i] = name
		out.Values[i], _ = v.Value(name)
	}
	return out
}

// Map returns the vector as a name-to-value map, for JSON echoing.
func (v FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.Names))
	for i, n := range v.Names {
		out[n] = v.Values[i]
	}
	return out
}

// RiskResult holds the scored probability and its derived tier.
type RiskResult struct {
	Probability float64 `json:"probability"`
	Tier        Tier    `json:"risk_tier"`
}

// Contribution is one feature's signed contribution to a model's output.
type Contribution struct {
	Feature     string  `json:"feature"`
	Value       float64 `json:"value"`
	Attribution float64 `json:"attribution"`
}

// PredictionResult is the full pipeline output returned to the transport layer.
type PredictionResult struct {
	Disease          string             `json:"disease"`
	DiseaseName      string             `json:"disease_name"`
	Probability      float64            `json:"probability"`
	Tier             Tier               `json:"risk_tier"`
	Explanation      []Contribution     `json:"explanation"`
	Advice           string             `json:"advice"`
	AdviceSource     string             `json:"advice_source"` // "generated", "cached", "fallback"
	InputFeatures    map[string]float64 `json:"input"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
}

// Advice source values.
const (
	AdviceSourceGenerated = "generated"
	AdviceSourceCached    = "cached"
	AdviceSourceFallback  = "fallback"
)

// PredictionRecord is the persisted trace of one completed prediction.
type PredictionRecord struct {
	ID               int       `db:"id"`
	Disease          string    `db:"disease"`
	Probability      float64   `db:"probability"`
	Tier             string    `db:"risk_tier"`
	AdviceSource     string    `db:"advice_source"`
	ProcessingTimeMs int64     `db:"processing_time_ms"`
	PredictedAt      time.Time `db:"predicted_at"`
}
