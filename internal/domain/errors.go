package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError indicates a required input field is missing or malformed.
// It is a client fault, local to one request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("missing required field %q", e.Field)
}

// UnsupportedDiseaseError indicates an unknown disease identifier.
type UnsupportedDiseaseError struct {
	Disease string
}

func (e *UnsupportedDiseaseError) Error() string {
	return fmt.Sprintf("unsupported disease %q", e.Disease)
}

// ModelUnavailableError indicates the required model is not configured or not
// loaded. This is a server fault: an unscored request must never silently
// produce a plausible-looking number.
type ModelUnavailableError struct {
	Disease string
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("no model available for disease %q", e.Disease)
}

// FeatureMismatchError indicates the extracted feature set disagrees with the
// model's declared expectations. Both sets are included so operators can
// diagnose schema drift.
type FeatureMismatchError struct {
	Expected []string
	Got      []string
}

func (e *FeatureMismatchError) Error() string {
	exp := append([]string(nil), e.Expected...)
	got := append([]string(nil), e.Got...)
	sort.Strings(exp)
	sort.Strings(got)
	return fmt.Sprintf("feature set mismatch: model expects [%s], extractor produced [%s]",
		strings.Join(exp, ", "), strings.Join(got, ", "))
}
