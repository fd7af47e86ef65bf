// Package advisory produces the lifestyle advisory attached to a scored
// prediction, generated externally when possible and statically otherwise.
package advisory

import (
	"context"
	"errors"
	"strings"

	"github.com/preventia/risk-api/internal/cache"
	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/genai"
	"github.com/preventia/risk-api/internal/logging"
	"github.com/preventia/risk-api/internal/schema"
)

// minAdviceLength rejects degenerate provider output. Anything shorter is
// not an advisory.
const minAdviceLength = 30

// Generator orchestrates cache lookup, provider generation, validation, and
// static fallback. It never fails: every call yields usable advisory text.
type Generator struct {
	provider genai.Generator
	cache    *cache.TTLCache
	logger   logging.Logger
}

// NewGenerator creates an advisory generator.
func NewGenerator(provider genai.Generator, c *cache.TTLCache, logger logging.Logger) *Generator {
	if provider == nil {
		provider = genai.Disabled{}
	}
	return &Generator{provider: provider, cache: c, logger: logger}
}

// Advise returns advisory text for a scored prediction along with its
// source: cached, generated, or fallback. Provider failures are logged and
// absorbed here; the prediction itself never fails on advisory problems.
func (g *Generator) Advise(
	ctx context.Context,
	spec *schema.DiseaseSpec,
	result domain.RiskResult,
	contributions []domain.Contribution,
) (text, source string) {
	key := cache.AdvisoryKey(spec.ID, result.Tier, contributions)
	if cached, ok := g.cache.Get(key); ok {
		return cached, domain.AdviceSourceCached
	}

	generated, err := g.provider.Generate(ctx, buildPrompt(spec, result, contributions))
	if err != nil {
		if errors.Is(err, genai.ErrDisabled) {
			g.logger.Debug("advisory provider disabled, using fallback")
		} else {
			g.logger.Warn("advisory generation failed, using fallback",
				logging.String("disease", spec.ID),
				logging.Error(err),
			)
		}
		return fallbackAdvice(spec, result.Tier), domain.AdviceSourceFallback
	}

	generated = strings.TrimSpace(generated)
	if len(generated) < minAdviceLength {
		g.logger.Warn("advisory too short, using fallback",
			logging.String("disease", spec.ID),
			logging.Int("length", len(generated)),
		)
		return fallbackAdvice(spec, result.Tier), domain.AdviceSourceFallback
	}

	g.cache.Set(key, generated)
	return generated, domain.AdviceSourceGenerated
}
