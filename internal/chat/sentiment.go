package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/preventia/risk-api/internal/domain"
)

// Classifier labels a message's sentiment.
type Classifier interface {
	Classify(ctx context.Context, text string) (domain.Sentiment, error)
}

const sentimentTimeout = 5 * time.Second

// HTTPClassifier calls an external sentiment sidecar.
type HTTPClassifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClassifier creates a sentiment client.
func NewHTTPClassifier(baseURL string) *HTTPClassifier {
	return &HTTPClassifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: sentimentTimeout},
	}
}

type sentimentRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends text to the sidecar and normalizes the returned label to
// lowercase positive, negative, or neutral.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	body, err := json.Marshal(sentimentRequest{Text: text})
	if err != nil {
		return domain.Sentiment{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sentiment", bytes.NewReader(body))
	if err != nil {
		return domain.Sentiment{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return domain.Sentiment{}, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.Sentiment{}, fmt.Errorf("sentiment service returned %d", resp.StatusCode)
	}

	var decoded sentimentResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&decoded); decodeErr != nil {
		return domain.Sentiment{}, fmt.Errorf("decode response: %w", decodeErr)
	}
	return domain.Sentiment{Label: normalizeLabel(decoded.Label), Score: decoded.Score}, nil
}

// normalizeLabel maps classifier label spellings to the three canonical
// values.
func normalizeLabel(label string) string {
	switch strings.ToLower(label) {
	case "positive", "pos", "label_2":
		return domain.SentimentPositive
	case "negative", "neg", "label_0":
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
