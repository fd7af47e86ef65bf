//nolint:testpackage // Shares the service test fixtures
package prediction

import (
	"context"
	"testing"

	"github.com/preventia/risk-api/internal/logging"
	"github.com/preventia/risk-api/internal/model"
)

func TestBatchProcess_MixedOutcomes(t *testing.T) {
	svc := newService(t, map[string]model.Model{
		"diabetes": &fakeModel{probability: 0.5},
	}, nil)
	batch := NewBatchProcessor(svc, 2, logging.NewNop())

	items := []BatchItem{
		{Disease: "diabetes", Input: diabetesPayload()},
		{Disease: "gout", Input: diabetesPayload()},
		{Disease: "diabetes", Input: map[string]any{"age": 54.0}},
		{Disease: "diabetes", Input: diabetesPayload()},
	}

	results := batch.Process(context.Background(), items)

	if len(results) != len(items) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(items))
	}
	if results[0].Error != "" || results[0].Result == nil {
		t.Errorf("results[0] = %+v, want success", results[0])
	}
	if results[1].Error == "" {
		t.Error("results[1].Error empty, want unsupported disease error")
	}
	if results[2].Error == "" {
		t.Error("results[2].Error empty, want validation error")
	}
	if results[3].Result == nil || results[3].Result.Disease != "diabetes" {
		t.Errorf("results[3] = %+v, want diabetes result in original position", results[3])
	}
}

func TestBatchProcess_Empty(t *testing.T) {
	svc := newService(t, nil, nil)
	batch := NewBatchProcessor(svc, 0, logging.NewNop())

	results := batch.Process(context.Background(), nil)
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0", len(results))
	}
}

func TestBatchProcess_CancelledContext(t *testing.T) {
	svc := newService(t, map[string]model.Model{
		"diabetes": &fakeModel{probability: 0.5},
	}, nil)
	batch := NewBatchProcessor(svc, 1, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := batch.Process(ctx, []BatchItem{
		{Disease: "diabetes", Input: diabetesPayload()},
	})
	if results[0].Error == "" {
		t.Error("results[0].Error empty, want context cancellation error")
	}
}
