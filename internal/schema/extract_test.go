package schema_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/schema"
)

func newExtractor(t *testing.T) *schema.Extractor {
	t.Helper()
	reg, err := schema.NewRegistry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return schema.NewExtractor(reg)
}

func diabetesPayload() map[string]any {
	return map[string]any{
		"age":      54.0,
		"bmi":      27.3,
		"highbp":   1,
		"highchol": 0,
		"genhlth":  3,
		"diffwalk": 0,
	}
}

func TestExtract_OrdersAndCoerces(t *testing.T) {
	ex := newExtractor(t)

	vec, err := ex.Extract("diabetes", diabetesPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantNames := []string{"age", "bmi", "highbp", "highchol", "genhlth", "diffwalk"}
	if len(vec.Names) != len(wantNames) {
		t.Fatalf("expected %d features, got %d", len(wantNames), len(vec.Names))
	}
	for i, name := range wantNames {
		if vec.Names[i] != name {
			t.Errorf("feature[%d] = %s, want %s", i, vec.Names[i], name)
		}
	}
	if vec.Values[0] != 54 || vec.Values[1] != 27.3 {
		t.Errorf("unexpected values: %v", vec.Values)
	}
}

func TestExtract_MissingFieldNamesIt(t *testing.T) {
	ex := newExtractor(t)

	payload := map[string]any{
		"age": 61.0, "sex": 1, "trestbps": 140.0, "chol": 260.0,
		"fbs": 0, "restecg": 1, "exang": 0,
		// slope omitted
	}
	_, err := ex.Extract("hypertension", payload)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "slope" {
		t.Errorf("expected missing field slope, got %s", verr.Field)
	}
	if !strings.Contains(err.Error(), "slope") {
		t.Errorf("error message should mention the field: %v", err)
	}
}

func TestExtract_NilValueIsMissing(t *testing.T) {
	ex := newExtractor(t)

	payload := diabetesPayload()
	payload["bmi"] = nil
	_, err := ex.Extract("diabetes", payload)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "bmi" {
		t.Errorf("expected field bmi, got %s", verr.Field)
	}
}

func TestExtract_IgnoresExtraFields(t *testing.T) {
	ex := newExtractor(t)

	payload := diabetesPayload()
	payload["favorite_color"] = "blue"
	vec, err := ex.Extract("diabetes", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vec.Len() != 6 {
		t.Errorf("expected 6 features, got %d", vec.Len())
	}
}

func TestExtract_Coercion(t *testing.T) {
	ex := newExtractor(t)

	tests := []struct {
		name    string
		value   any
		field   string
		want    float64
		wantErr bool
	}{
		{"numeric string", "27.5", "bmi", 27.5, false},
		{"json number", json.Number("42"), "age", 42, false},
		{"bool true", true, "highbp", 1, false},
		{"int kind truncates", 1.9, "highbp", 1, false},
		{"float kind keeps fraction", 27.9, "bmi", 27.9, false},
		{"non-numeric string", "abc", "bmi", 0, true},
		{"nan rejected", math.NaN(), "bmi", 0, true},
		{"inf rejected", math.Inf(1), "age", 0, true},
		{"object rejected", map[string]any{}, "age", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := diabetesPayload()
			payload[tt.field] = tt.value

			vec, err := ex.Extract("diabetes", payload)
			if tt.wantErr {
				var verr *domain.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if verr.Field != tt.field {
					t.Errorf("expected field %s, got %s", tt.field, verr.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok := vec.Value(tt.field)
			if !ok {
				t.Fatalf("field %s not present in vector", tt.field)
			}
			if got != tt.want {
				t.Errorf("Value(%s) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestExtract_UnsupportedDisease(t *testing.T) {
	ex := newExtractor(t)

	_, err := ex.Extract("asthma", map[string]any{})
	var unsupported *domain.UnsupportedDiseaseError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedDiseaseError, got %v", err)
	}
}
