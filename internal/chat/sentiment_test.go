//nolint:testpackage // Testing internal client requires same package access
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preventia/risk-api/internal/domain"
)

func TestHTTPClassifier_Classify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sentiment" {
			t.Errorf("expected /sentiment, got %s", r.URL.Path)
		}

		var req sentimentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "rough day" {
			t.Errorf("unexpected text: %q", req.Text)
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"label":"NEGATIVE","score":0.97}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer srv.Close()

	got, err := NewHTTPClassifier(srv.URL).Classify(context.Background(), "rough day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != domain.SentimentNegative {
		t.Errorf("expected normalized negative label, got %q", got.Label)
	}
	if got.Score != 0.97 {
		t.Errorf("expected score 0.97, got %v", got.Score)
	}
}

func TestHTTPClassifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewHTTPClassifier(srv.URL).Classify(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"POSITIVE", domain.SentimentPositive},
		{"neg", domain.SentimentNegative},
		{"LABEL_0", domain.SentimentNegative},
		{"LABEL_2", domain.SentimentPositive},
		{"NEUTRAL", domain.SentimentNeutral},
		{"whatever", domain.SentimentNeutral},
	}
	for _, tt := range tests {
		if got := normalizeLabel(tt.in); got != tt.want {
			t.Errorf("normalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
