package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/preventia/risk-api/internal/logging"
)

// Defaults for the provider client.
const (
	DefaultTimeout = 10 * time.Second
	DefaultRPS     = 2
)

// Config holds the provider connection settings.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
	// RPS bounds outgoing generation calls to protect the provider quota.
	RPS int
	// OnFailure, when set, is invoked once per failed generation attempt.
	OnFailure func(ctx context.Context)
}

// Client calls a generative-language REST API. One attempt per call, a
// bounded timeout, and a client-side rate limit; a failed or slow call is
// the caller's cue to fall back.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  logging.Logger
}

// NewClient creates a provider client from cfg.
func NewClient(cfg Config, logger logging.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultRPS
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
		logger:  logger,
	}
}

// generateRequest is the provider's generateContent request body.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the subset of the provider response we read.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends prompt to the provider and returns the first candidate's
// text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrDisabled
	}
	text, err := c.generate(ctx, prompt)
	if err != nil && c.cfg.OnFailure != nil {
		c.cfg.OnFailure(ctx)
	}
	return text, err
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, url.QueryEscape(c.cfg.APIKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("provider request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	var decoded generateResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&decoded); decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("provider returned no candidates")
	}

	text := strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text)
	c.logger.Debug("generated text",
		logging.Int("chars", len(text)),
		logging.Duration("latency", time.Since(start)),
	)
	return text, nil
}
