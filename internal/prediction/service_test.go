//nolint:testpackage // Exercises the unexported error code mapping
package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/preventia/risk-api/internal/advisory"
	"github.com/preventia/risk-api/internal/cache"
	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/logging"
	"github.com/preventia/risk-api/internal/model"
	"github.com/preventia/risk-api/internal/schema"
	"github.com/preventia/risk-api/internal/telemetry"
)

// fakeModel is a scripted model with optional attribution.
type fakeModel struct {
	probability float64
	attribution string
}

func (m *fakeModel) PredictProbability(context.Context, domain.FeatureVector) (float64, error) {
	return m.probability, nil
}

func (m *fakeModel) FeatureOrder() []string { return nil }

func (m *fakeModel) Attribute(context.Context, domain.FeatureVector) (json.RawMessage, error) {
	if m.attribution == "" {
		return nil, errors.New("no explainer")
	}
	return json.RawMessage(m.attribution), nil
}

// memoryHistory collects records in memory.
type memoryHistory struct {
	records []*domain.PredictionRecord
	err     error
}

func (h *memoryHistory) Create(_ context.Context, record *domain.PredictionRecord) error {
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, record)
	return nil
}

func newService(t *testing.T, models map[string]model.Model, history HistoryWriter) *Service {
	t.Helper()
	reg, err := schema.NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	advisor := advisory.NewGenerator(nil, cache.New(time.Hour), logging.NewNop())
	return NewService(reg, models, advisor, history, telemetry.NewProvider(), logging.NewNop(), 0)
}

func diabetesPayload() map[string]any {
	return map[string]any{
		"age": 54.0, "bmi": 31.2, "highbp": 1, "highchol": 1, "genhlth": 4, "diffwalk": 0,
	}
}

func TestPredict_FullPipeline(t *testing.T) {
	history := &memoryHistory{}
	m := &fakeModel{probability: 0.82, attribution: `[0.1,0.8,0.3,0.2,0.1,0.05]`}
	s := newService(t, map[string]model.Model{"diabetes": m}, history)

	got, err := s.Predict(context.Background(), "diabetes", diabetesPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Disease != "diabetes" || got.DiseaseName != "Diabetes" {
		t.Errorf("unexpected identity: %s/%s", got.Disease, got.DiseaseName)
	}
	if got.Probability != 0.82 || got.Tier != domain.TierHigh {
		t.Errorf("unexpected scoring: %v/%s", got.Probability, got.Tier)
	}
	if len(got.Explanation) != 5 {
		t.Errorf("expected 5 contributions, got %d", len(got.Explanation))
	}
	if got.Explanation[0].Feature != "bmi" {
		t.Errorf("expected bmi as top contribution, got %s", got.Explanation[0].Feature)
	}
	if got.Advice == "" || got.AdviceSource != domain.AdviceSourceFallback {
		t.Errorf("expected fallback advice, got source=%s", got.AdviceSource)
	}
	if got.InputFeatures["bmi"] != 31.2 {
		t.Errorf("expected input echo, got %v", got.InputFeatures)
	}

	if len(history.records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(history.records))
	}
	rec := history.records[0]
	if rec.Disease != "diabetes" || rec.Tier != "High" || rec.AdviceSource != domain.AdviceSourceFallback {
		t.Errorf("unexpected history record: %+v", rec)
	}
}

func TestPredict_UnsupportedDisease(t *testing.T) {
	s := newService(t, nil, nil)

	_, err := s.Predict(context.Background(), "asthma", map[string]any{})
	var unsupported *domain.UnsupportedDiseaseError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedDiseaseError, got %v", err)
	}
}

func TestPredict_ValidationError(t *testing.T) {
	s := newService(t, map[string]model.Model{"diabetes": &fakeModel{probability: 0.5}}, nil)

	payload := diabetesPayload()
	delete(payload, "genhlth")
	_, err := s.Predict(context.Background(), "diabetes", payload)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "genhlth" {
		t.Errorf("expected field genhlth, got %s", verr.Field)
	}
}

func TestPredict_ModelUnavailable(t *testing.T) {
	s := newService(t, map[string]model.Model{}, nil)

	_, err := s.Predict(context.Background(), "diabetes", diabetesPayload())
	var unavailable *domain.ModelUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ModelUnavailableError, got %v", err)
	}
}

func TestPredict_HistoryFailureDoesNotFailRequest(t *testing.T) {
	history := &memoryHistory{err: errors.New("db down")}
	m := &fakeModel{probability: 0.5}
	s := newService(t, map[string]model.Model{"diabetes": m}, history)

	if _, err := s.Predict(context.Background(), "diabetes", diabetesPayload()); err != nil {
		t.Fatalf("history failure must not fail prediction: %v", err)
	}
}

func TestPredict_ExplainerFailureDegrades(t *testing.T) {
	m := &fakeModel{probability: 0.5} // attribution errors out
	s := newService(t, map[string]model.Model{"diabetes": m}, nil)

	got, err := s.Predict(context.Background(), "diabetes", diabetesPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Explanation) != 5 {
		t.Errorf("heuristic explanation should still rank features, got %d", len(got.Explanation))
	}
}

func TestModelsHealth(t *testing.T) {
	s := newService(t, map[string]model.Model{"diabetes": &fakeModel{probability: 0.5}}, nil)

	health := s.ModelsHealth(context.Background())
	if len(health) != 3 {
		t.Fatalf("expected health for every disease, got %d", len(health))
	}
	if !health["diabetes"].Configured || !health["diabetes"].Reachable {
		t.Errorf("in-process model should be configured and reachable: %+v", health["diabetes"])
	}
	if health["stroke"].Configured {
		t.Errorf("unconfigured disease should report so: %+v", health["stroke"])
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&domain.ValidationError{Field: "age"}, "validation"},
		{&domain.UnsupportedDiseaseError{Disease: "x"}, "unsupported_disease"},
		{&domain.ModelUnavailableError{Disease: "x"}, "model_unavailable"},
		{&domain.FeatureMismatchError{}, "feature_mismatch"},
		{errors.New("boom"), "predict_failed"},
	}
	for _, tt := range tests {
		if got := errorCode(tt.err); got != tt.want {
			t.Errorf("errorCode(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
