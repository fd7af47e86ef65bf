// Package explain normalizes raw model attribution output and produces
// top-K feature contributions, with a heuristic fallback when the model
// cannot attribute.
package explain

import (
	"encoding/json"
	"fmt"
	"math"
)

// shapeKind tags the layout a sidecar used for its attribution payload.
// Explainers disagree on this, so the boundary classifies the payload once
// and everything downstream works on a plain per-feature slice.
type shapeKind int

const (
	// shapeFlat is one value per feature.
	shapeFlat shapeKind = iota
	// shapeMatrix is [feature][class].
	shapeMatrix
	// shapeCube is [sample][feature][class].
	shapeCube
	// shapeClassPairs is a per-class list of [sample][feature] arrays.
	shapeClassPairs
)

// attributionShape is the classified payload. Exactly one of the data
// fields is set, matching Kind.
type attributionShape struct {
	Kind   shapeKind
	Flat   []float64
	Matrix [][]float64
	Cube   [][][]float64
}

// classifyShape decodes raw into a tagged shape, using the feature count to
// tell the three-dimensional layouts apart. It fails rather than guess when
// no dimension lines up with nFeatures.
func classifyShape(raw json.RawMessage, nFeatures int) (attributionShape, error) {
	var flat []float64
	if err := json.Unmarshal(raw, &flat); err == nil {
		if len(flat) != nFeatures {
			return attributionShape{}, fmt.Errorf("flat attribution has %d values for %d features", len(flat), nFeatures)
		}
		return attributionShape{Kind: shapeFlat, Flat: flat}, nil
	}

	var matrix [][]float64
	if err := json.Unmarshal(raw, &matrix); err == nil {
		if len(matrix) != nFeatures {
			return attributionShape{}, fmt.Errorf("matrix attribution has %d rows for %d features", len(matrix), nFeatures)
		}
		return attributionShape{Kind: shapeMatrix, Matrix: matrix}, nil
	}

	var cube [][][]float64
	if err := json.Unmarshal(raw, &cube); err != nil {
		return attributionShape{}, fmt.Errorf("unrecognized attribution payload: %w", err)
	}
	if len(cube) == 0 {
		return attributionShape{}, fmt.Errorf("empty attribution payload")
	}

	// [sample][feature][class] has the feature count in the middle
	// dimension; a per-class list of [sample][feature] arrays has it
	// innermost. Check the middle first: a two-feature binary layout
	// satisfies both, and sidecars that emit cubes are the common case.
	if len(cube[0]) == nFeatures {
		return attributionShape{Kind: shapeCube, Cube: cube}, nil
	}
	if len(cube[0]) > 0 && len(cube[0][0]) == nFeatures {
		return attributionShape{Kind: shapeClassPairs, Cube: cube}, nil
	}
	return attributionShape{}, fmt.Errorf("no attribution dimension matches %d features", nFeatures)
}

// positiveClass reduces the shape to one value per feature for the positive
// class. Binary explainers put the positive class last; flat payloads are
// already reduced.
func (s attributionShape) positiveClass(nFeatures int) ([]float64, error) {
	switch s.Kind {
	case shapeFlat:
		return sanitize(s.Flat), nil

	case shapeMatrix:
		out := make([]float64, nFeatures)
		for i, row := range s.Matrix {
			if len(row) == 0 {
				return nil, fmt.Errorf("matrix attribution row %d is empty", i)
			}
			out[i] = row[len(row)-1]
		}
		return sanitize(out), nil

	case shapeCube:
		sample := s.Cube[0]
		out := make([]float64, nFeatures)
		for i, classes := range sample {
			if len(classes) == 0 {
				return nil, fmt.Errorf("cube attribution feature %d has no classes", i)
			}
			out[i] = classes[len(classes)-1]
		}
		return sanitize(out), nil

	case shapeClassPairs:
		positive := s.Cube[len(s.Cube)-1]
		if len(positive) == 0 {
			return nil, fmt.Errorf("positive class attribution has no samples")
		}
		return sanitize(positive[0]), nil
	}
	return nil, fmt.Errorf("unknown attribution shape %d", s.Kind)
}

// sanitize replaces NaN and infinite values with zero in place.
func sanitize(values []float64) []float64 {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			values[i] = 0
		}
	}
	return values
}
