package schema

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/preventia/risk-api/internal/domain"
)

// Extractor turns raw request payloads into validated feature vectors.
type Extractor struct {
	registry *Registry
}

// NewExtractor creates an extractor over the given registry.
func NewExtractor(registry *Registry) *Extractor {
	return &Extractor{registry: registry}
}

// Extract validates payload against the disease's schema and returns the
// ordered, fully coerced feature vector. Fields beyond the schema are
// ignored so extraneous payload content never reaches the model.
func (e *Extractor) Extract(disease string, payload map[string]any) (domain.FeatureVector, error) {
	spec, err := e.registry.Get(disease)
	if err != nil {
		return domain.FeatureVector{}, err
	}

	vec := domain.FeatureVector{
		Names:  make([]string, 0, len(spec.Fields)),
		Values: make([]float64, 0, len(spec.Fields)),
	}
	for _, field := range spec.Fields {
		raw, ok := payload[field.Name]
		if !ok || raw == nil {
			return domain.FeatureVector{}, &domain.ValidationError{Field: field.Name}
		}
		val, err := coerce(raw, field.Kind)
		if err != nil {
			return domain.FeatureVector{}, &domain.ValidationError{Field: field.Name, Reason: err.Error()}
		}
		vec.Names = append(vec.Names, field.Name)
		vec.Values = append(vec.Values, val)
	}
	return vec, nil
}

// coerce converts a decoded JSON value to the field's numeric type.
// Integer-kind fields are truncated toward zero, matching how boolean-coded
// categorical inputs are encoded upstream.
func coerce(raw any, kind Kind) (float64, error) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, errNotNumeric
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errNotNumeric
		}
		f = parsed
	case bool:
		if v {
			f = 1
		}
	default:
		return 0, errNotNumeric
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumeric
	}
	if kind == KindInt {
		f = math.Trunc(f)
	}
	return f, nil
}

type coercionError string

func (e coercionError) Error() string { return string(e) }

const errNotNumeric = coercionError("value is not numeric")
