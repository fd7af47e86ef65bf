// Package modeltransport provides shared HTTP transport for model sidecar
// predict, attribute, schema, and health endpoints.
package modeltransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// PredictRequest is the common request body for POST /predict.
type PredictRequest struct {
	Features map[string]float64 `json:"features"`
	Order    []string           `json:"order,omitempty"`
}

// PredictResponse is the response body from POST /predict.
type PredictResponse struct {
	Probability  float64 `json:"probability"`
	ModelVersion string  `json:"model_version"`
}

// AttributeRequest is the request body for POST /attribute.
type AttributeRequest struct {
	Features map[string]float64 `json:"features"`
	Order    []string           `json:"order,omitempty"`
	Unwrap   bool               `json:"unwrap,omitempty"`
}

// AttributeResponse carries the raw attribution values from POST /attribute.
// Attributions is left undecoded because sidecars disagree on its shape.
type AttributeResponse struct {
	Attributions json.RawMessage `json:"attributions"`
}

// SchemaResponse is the response body from GET /schema.
type SchemaResponse struct {
	FeatureOrder []string `json:"feature_order"`
}

// healthResponse is the JSON shape returned by GET /health (model_version optional).
type healthResponse struct {
	ModelVersion string `json:"model_version"`
}

// DoPredict sends POST /predict to baseURL with req, decoding the response into respPtr.
// It returns the request latency in milliseconds and the response size in bytes.
func DoPredict(ctx context.Context, baseURL string, req *PredictRequest, respPtr any) (int64, int, error) {
	return doPost(ctx, baseURL+"/predict", req, respPtr)
}

// DoAttribute sends POST /attribute to baseURL with req, decoding the response into respPtr.
func DoAttribute(ctx context.Context, baseURL string, req *AttributeRequest, respPtr any) (int64, int, error) {
	return doPost(ctx, baseURL+"/attribute", req, respPtr)
}

// DoSchema calls GET /schema at baseURL and returns the declared feature order.
func DoSchema(ctx context.Context, baseURL string) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/schema", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	client := &http.Client{Timeout: defaultTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model service returned %d", resp.StatusCode)
	}

	var schemaResp SchemaResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&schemaResp); decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	return schemaResp.FeatureOrder, nil
}

// DoHealth calls GET /health at baseURL and returns reachable, latencyMs, model_version, and any error.
func DoHealth(ctx context.Context, baseURL string) (reachable bool, latencyMs int64, modelVersion string, err error) {
	start := time.Now()

	httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", http.NoBody)
	if reqErr != nil {
		return false, 0, "", fmt.Errorf("create request: %w", reqErr)
	}

	client := &http.Client{Timeout: defaultTimeout}
	resp, doErr := client.Do(httpReq)
	latencyMs = time.Since(start).Milliseconds()
	if doErr != nil {
		return false, latencyMs, "", fmt.Errorf("service unreachable: %w", doErr)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, latencyMs, "", fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}

	reachable = true
	var healthResp healthResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&healthResp); decodeErr == nil {
		modelVersion = healthResp.ModelVersion
	}
	return reachable, latencyMs, modelVersion, nil
}

func doPost(ctx context.Context, url string, req, respPtr any) (latencyMs int64, sizeBytes int, err error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, 0, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	client := &http.Client{Timeout: defaultTimeout}
	resp, err := client.Do(httpReq)
	latencyMs = time.Since(start).Milliseconds()
	if err != nil {
		return latencyMs, 0, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return latencyMs, 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return latencyMs, len(raw), fmt.Errorf("model service returned %d", resp.StatusCode)
	}

	if decodeErr := json.Unmarshal(raw, respPtr); decodeErr != nil {
		return latencyMs, len(raw), fmt.Errorf("decode response: %w", decodeErr)
	}
	return latencyMs, len(raw), nil
}
