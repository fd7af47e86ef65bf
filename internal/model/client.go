package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/modeltransport"
)

// ErrUnavailable indicates the model sidecar is unreachable.
var ErrUnavailable = errors.New("model service unavailable")

// Client is an HTTP client for a model sidecar.
type Client struct {
	baseURL string
	unwrap  bool

	schemaOnce sync.Once
	order      []string
}

// NewClient creates a new model client.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// PredictProbability sends a prediction request to the model service.
func (c *Client) PredictProbability(ctx context.Context, features domain.FeatureVector) (float64, error) {
	req := &modeltransport.PredictRequest{Features: features.Map(), Order: features.Names}
	var result modeltransport.PredictResponse
	if _, _, err := modeltransport.DoPredict(ctx, c.baseURL, req, &result); err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	return result.Probability, nil
}

// FeatureOrder returns the feature order declared by the sidecar's schema
// endpoint, fetched once and cached. A sidecar without a schema endpoint
// yields nil, which callers treat as "no declared order".
func (c *Client) FeatureOrder() []string {
	c.schemaOnce.Do(func() {
		order, err := modeltransport.DoSchema(context.Background(), c.baseURL)
		if err != nil {
			return
		}
		c.order = order
	})
	return c.order
}

// Attribute requests per-feature attribution values from the sidecar.
func (c *Client) Attribute(ctx context.Context, features domain.FeatureVector) (json.RawMessage, error) {
	req := &modeltransport.AttributeRequest{
		Features: features.Map(),
		Order:    features.Names,
		Unwrap:   c.unwrap,
	}
	var result modeltransport.AttributeResponse
	if _, _, err := modeltransport.DoAttribute(ctx, c.baseURL, req, &result); err != nil {
		return nil, fmt.Errorf("attribute: %w", err)
	}
	return result.Attributions, nil
}

// Unwrap returns a client that asks the sidecar to attribute against the
// estimator underneath any calibration wrapper.
func (c *Client) Unwrap() Model {
	return &Client{baseURL: c.baseURL, unwrap: true}
}

// Health checks if the model service is healthy.
func (c *Client) Health(ctx context.Context) error {
	reachable, _, _, err := modeltransport.DoHealth(ctx, c.baseURL)
	if err != nil {
		if !reachable {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}
	return nil
}

// HealthDetail reports reachability, latency, and model version for status endpoints.
func (c *Client) HealthDetail(ctx context.Context) (reachable bool, latencyMs int64, modelVersion string, err error) {
	return modeltransport.DoHealth(ctx, c.baseURL)
}
