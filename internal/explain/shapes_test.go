//nolint:testpackage // Exercises the unexported shape classifier
package explain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestClassifyShape(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		nFeatures int
		wantKind  shapeKind
		wantErr   bool
	}{
		{"flat", `[0.1,-0.2,0.3]`, 3, shapeFlat, false},
		{"flat wrong length", `[0.1,-0.2]`, 3, 0, true},
		{"matrix feature by class", `[[-0.1,0.1],[-0.2,0.2],[-0.3,0.3]]`, 3, shapeMatrix, false},
		{"matrix wrong rows", `[[-0.1,0.1],[-0.2,0.2]]`, 3, 0, true},
		{"cube sample feature class", `[[[-0.1,0.1],[-0.2,0.2],[-0.3,0.3]]]`, 3, shapeCube, false},
		{"class pair list", `[[[0.1,0.2,0.3]],[[-0.1,-0.2,-0.3]]]`, 3, shapeClassPairs, false},
		{"no matching dimension", `[[[0.1,0.2]],[[0.3,0.4]]]`, 3, 0, true},
		{"not numeric arrays", `{"a":1}`, 3, 0, true},
		{"empty payload", `[[[]]]`, 3, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, err := classifyShape(json.RawMessage(tt.raw), tt.nFeatures)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got kind %d", shape.Kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if shape.Kind != tt.wantKind {
				t.Errorf("kind = %d, want %d", shape.Kind, tt.wantKind)
			}
		})
	}
}

func TestPositiveClass_SelectsLastColumn(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []float64
	}{
		{"flat passes through", `[0.1,-0.2,0.3]`, []float64{0.1, -0.2, 0.3}},
		{"matrix takes last class", `[[-0.1,0.1],[-0.2,0.2],[-0.3,0.3]]`, []float64{0.1, 0.2, 0.3}},
		{"cube takes last class of first sample", `[[[-0.1,0.1],[-0.2,0.2],[-0.3,0.3]]]`, []float64{0.1, 0.2, 0.3}},
		{"class pairs take last class first sample", `[[[0.9,0.8,0.7]],[[-0.1,-0.2,-0.3]]]`, []float64{-0.1, -0.2, -0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, err := classifyShape(json.RawMessage(tt.raw), 3)
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			got, err := shape.positiveClass(3)
			if err != nil {
				t.Fatalf("positiveClass: %v", err)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("value[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSanitize_ZeroesNonFinite(t *testing.T) {
	shape := attributionShape{Kind: shapeFlat, Flat: []float64{0.5, math.NaN(), math.Inf(1)}}
	got, err := shape.positiveClass(3)
	if err != nil {
		t.Fatalf("positiveClass: %v", err)
	}
	if got[0] != 0.5 || got[1] != 0 || got[2] != 0 {
		t.Errorf("expected non-finite values zeroed, got %v", got)
	}
}
