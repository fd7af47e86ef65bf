// Package genai provides the external text-generation provider used for
// advisories and chat replies.
package genai

import (
	"context"
	"errors"
)

// Generator produces free text for a prompt. Implementations make exactly
// one attempt; callers own the fallback decision.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrDisabled indicates generation is configured off, typically because no
// API key was provided.
var ErrDisabled = errors.New("text generation disabled")

// Disabled is a Generator that always reports ErrDisabled. It stands in
// when no provider is configured so callers need no nil checks.
type Disabled struct{}

// Generate always fails with ErrDisabled.
func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrDisabled
}
