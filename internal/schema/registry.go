// Package schema holds the per-disease feature schemas and the extractor that
// turns raw request payloads into validated, ordered feature vectors.
package schema

import (
	"fmt"

	"github.com/preventia/risk-api/internal/domain"
)

// Kind is the coercion type of a schema field.
type Kind int

// Field coercion kinds. Continuous measurements coerce to float, categorical
// and boolean-coded fields to integer.
const (
	KindFloat Kind = iota
	KindInt
)

// FieldSpec declares one required input field.
type FieldSpec struct {
	Name  string
	Kind  Kind
	Label string // human-readable label used in advisory prompts
}

// Threshold maps a minimum probability to a tier. Tables are ordered from
// highest tier down; a probability below every entry is Low.
type Threshold struct {
	Min  float64
	Tier domain.Tier
}

// DiseaseSpec is the static, declarative schema for one supported disease.
type DiseaseSpec struct {
	ID          string
	DisplayName string
	Fields      []FieldSpec
	Thresholds  []Threshold
	// Invert flips the model probability (1-p) after extraction. It depends
	// on which class label the underlying model was trained against; a model
	// retrain can silently invalidate it, so it is declared here per disease
	// and never inferred.
	Invert bool
}

// FieldNames returns the schema's field names in canonical order.
func (s *DiseaseSpec) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// TierFor maps a probability to its tier. Boundary values belong to the
// higher tier.
func (s *DiseaseSpec) TierFor(p float64) domain.Tier {
	for _, t := range s.Thresholds {
		if p >= t.Min {
			return t.Tier
		}
	}
	return domain.TierLow
}

// LabelFor translates a feature name to its human-readable label. Unknown
// names pass through unchanged.
func (s *DiseaseSpec) LabelFor(feature string) string {
	for _, f := range s.Fields {
		if f.Name == feature {
			return f.Label
		}
	}
	return feature
}

// defaultThresholds is the standard tier table.
var defaultThresholds = []Threshold{
	{Min: 0.70, Tier: domain.TierHigh},
	{Min: 0.40, Tier: domain.TierModerate},
}

// hypertensionThresholds lowers the High boundary: the hypertension model is
// calibrated conservatively and under-reports the positive class.
var hypertensionThresholds = []Threshold{
	{Min: 0.60, Tier: domain.TierHigh},
	{Min: 0.40, Tier: domain.TierModerate},
}

// builtinSpecs declares the supported diseases.
var builtinSpecs = []DiseaseSpec{
	{
		ID:          "diabetes",
		DisplayName: "Diabetes",
		Fields: []FieldSpec{
			{Name: "age", Kind: KindFloat, Label: "age"},
			{Name: "bmi", Kind: KindFloat, Label: "body mass index"},
			{Name: "highbp", Kind: KindInt, Label: "high blood pressure"},
			{Name: "highchol", Kind: KindInt, Label: "high cholesterol"},
			{Name: "genhlth", Kind: KindInt, Label: "general health rating"},
			{Name: "diffwalk", Kind: KindInt, Label: "difficulty walking"},
		},
		Thresholds: defaultThresholds,
	},
	{
		ID:          "hypertension",
		DisplayName: "Hypertension",
		Fields: []FieldSpec{
			{Name: "age", Kind: KindFloat, Label: "age"},
			{Name: "sex", Kind: KindInt, Label: "sex"},
			{Name: "trestbps", Kind: KindFloat, Label: "resting blood pressure"},
			{Name: "chol", Kind: KindFloat, Label: "serum cholesterol"},
			{Name: "fbs", Kind: KindInt, Label: "fasting blood sugar over 120"},
			{Name: "restecg", Kind: KindInt, Label: "resting ECG result"},
			{Name: "exang", Kind: KindInt, Label: "exercise-induced angina"},
			{Name: "slope", Kind: KindInt, Label: "ST segment slope"},
		},
		Thresholds: hypertensionThresholds,
		Invert:     true,
	},
	{
		ID:          "stroke",
		DisplayName: "Stroke",
		Fields: []FieldSpec{
			{Name: "age", Kind: KindFloat, Label: "age"},
			{Name: "hypertension", Kind: KindInt, Label: "hypertension history"},
			{Name: "heart_disease", Kind: KindInt, Label: "heart disease history"},
			{Name: "avg_glucose_level", Kind: KindFloat, Label: "average glucose level"},
			{Name: "bmi", Kind: KindFloat, Label: "body mass index"},
			{Name: "ever_married", Kind: KindInt, Label: "ever married"},
			{Name: "work_type", Kind: KindInt, Label: "work type"},
			{Name: "smoking_status", Kind: KindInt, Label: "smoking status"},
		},
		Thresholds: defaultThresholds,
	},
}

// Registry maps disease identifiers to their schemas. It is built once at
// startup and read-only afterwards.
type Registry struct {
	specs map[string]*DiseaseSpec
	order []string
}

// ThresholdOverride replaces a disease's tier table from configuration.
type ThresholdOverride struct {
	Disease  string
	High     float64
	Moderate float64
}

// NewRegistry builds the registry from the built-in specs, applying any
// configured threshold overrides. It fails when a table is malformed so a
// misconfigured service refuses to start rather than mis-tier requests.
func NewRegistry(overrides ...ThresholdOverride) (*Registry, error) {
	r := &Registry{specs: make(map[string]*DiseaseSpec, len(builtinSpecs))}
	for i := range builtinSpecs {
		spec := builtinSpecs[i] // copy so overrides don't mutate the package table
		r.specs[spec.ID] = &spec
		r.order = append(r.order, spec.ID)
	}

	for _, o := range overrides {
		spec, ok := r.specs[o.Disease]
		if !ok {
			return nil, fmt.Errorf("threshold override for unknown disease %q", o.Disease)
		}
		spec.Thresholds = []Threshold{
			{Min: o.High, Tier: domain.TierHigh},
			{Min: o.Moderate, Tier: domain.TierModerate},
		}
	}

	for _, spec := range r.specs {
		if err := validateThresholds(spec); err != nil {
			return nil, fmt.Errorf("disease %q: %w", spec.ID, err)
		}
	}
	return r, nil
}

// validateThresholds checks that a tier table is strictly descending inside
// [0,1], so the tiers partition the probability range with no gap or overlap.
func validateThresholds(spec *DiseaseSpec) error {
	prev := 1.0
	for _, t := range spec.Thresholds {
		if t.Min <= 0 || t.Min > 1 {
			return fmt.Errorf("threshold %.2f outside (0,1]", t.Min)
		}
		if t.Min >= prev {
			return fmt.Errorf("thresholds not strictly descending at %.2f", t.Min)
		}
		prev = t.Min
	}
	return nil
}

// Get returns the schema for a disease, or an UnsupportedDiseaseError.
func (r *Registry) Get(disease string) (*DiseaseSpec, error) {
	spec, ok := r.specs[disease]
	if !ok {
		return nil, &domain.UnsupportedDiseaseError{Disease: disease}
	}
	return spec, nil
}

// Diseases returns the supported disease identifiers in declaration order.
func (r *Registry) Diseases() []string {
	return append([]string(nil), r.order...)
}
