package chat

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/preventia/risk-api/internal/cache"
	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/genai"
	"github.com/preventia/risk-api/internal/logging"
)

// DefaultBotName identifies the responder in replies.
const DefaultBotName = "Companion"

// Status reports which reply path the responder is using, for the chat
// status endpoint.
type Status struct {
	Provider string `json:"provider"`
	Enabled  bool   `json:"enabled"`
}

// Responder runs one chat turn: sentiment, reply generation with cache and
// rule-based fallback, crisis handling, and activity suggestions.
type Responder struct {
	classifier Classifier
	provider   genai.Generator
	cache      *cache.TTLCache
	rules      *RuleSet
	crisis     *CrisisDetector
	logger     logging.Logger
	botName    string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponder creates a chat responder. A nil classifier yields neutral
// sentiment; a nil provider means rule-based replies only.
func NewResponder(
	classifier Classifier,
	provider genai.Generator,
	c *cache.TTLCache,
	logger logging.Logger,
	botName string,
) *Responder {
	if provider == nil {
		provider = genai.Disabled{}
	}
	if botName == "" {
		botName = DefaultBotName
	}
	crisis := NewCrisisDetector()
	return &Responder{
		classifier: classifier,
		provider:   provider,
		cache:      c,
		rules:      NewRuleSet(crisis),
		crisis:     crisis,
		logger:     logger,
		botName:    botName,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // activity shuffling
	}
}

// Respond produces the full chat reply for a message.
func (r *Responder) Respond(ctx context.Context, message string) domain.ChatReply {
	sentiment := r.classifySentiment(ctx, message)

	reply, fromCache := r.generate(ctx, message, sentiment.Label)

	var activities []string
	if sentiment.Label == domain.SentimentNegative {
		activities = r.suggestActivities(sentiment.Label)
		if len(activities) > 0 {
			var b strings.Builder
			b.WriteString(reply)
			b.WriteString("\n\nHere are a few gentle ideas that might help a little:\n")
			for _, a := range activities {
				fmt.Fprintf(&b, "- %s\n", a)
			}
			reply = b.String()
		}
	}

	return domain.ChatReply{
		BotName:             r.botName,
		Sentiment:           sentiment,
		Reply:               reply,
		SuggestedActivities: activities,
		FromCache:           fromCache,
		Crisis:              r.crisis.Detect(message),
	}
}

// ChatStatus reports whether replies are provider-generated or rule-based.
func (r *Responder) ChatStatus() Status {
	if _, disabled := r.provider.(genai.Disabled); disabled {
		return Status{Provider: "fallback", Enabled: false}
	}
	return Status{Provider: "generated", Enabled: true}
}

// classifySentiment labels the message, degrading to neutral when the
// classifier is missing or fails.
func (r *Responder) classifySentiment(ctx context.Context, message string) domain.Sentiment {
	if r.classifier == nil {
		return domain.Sentiment{Label: domain.SentimentNeutral}
	}
	sentiment, err := r.classifier.Classify(ctx, message)
	if err != nil {
		r.logger.Warn("sentiment classification failed, assuming neutral", logging.Error(err))
		return domain.Sentiment{Label: domain.SentimentNeutral}
	}
	return sentiment
}

// generate returns the base reply text, consulting the cache and falling
// back to the rule set on any provider failure. Replies served from cache
// report fromCache true.
func (r *Responder) generate(ctx context.Context, message, sentiment string) (reply string, fromCache bool) {
	key := cache.ChatKey(sentiment, message)
	if cached, ok := r.cache.Get(key); ok {
		return cached, true
	}

	generated, err := r.provider.Generate(ctx, buildChatPrompt(r.botName, message, sentiment))
	if err != nil {
		return r.rules.Reply(message, sentiment), false
	}

	generated = strings.TrimSpace(generated)
	if generated == "" {
		r.logger.Warn("provider returned empty chat reply, using rules")
		return r.rules.Reply(message, sentiment), false
	}

	if r.crisis.Detect(message) {
		generated += safetyNotice
	}
	r.cache.Set(key, generated)
	return generated, false
}

// suggestActivities samples mood-lifting suggestions under the lock that
// guards the shared rng.
func (r *Responder) suggestActivities(sentiment string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sampleActivities(sentiment, r.rng)
}

// buildChatPrompt renders the provider prompt for a chat turn.
func buildChatPrompt(botName, message, sentiment string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a compassionate, empathetic mental health support companion.\n\n", botName)
	b.WriteString("Your role:\n")
	b.WriteString("- Listen carefully and without judgment.\n")
	b.WriteString("- Validate the user's feelings.\n")
	b.WriteString("- Provide gentle emotional support and simple coping strategies.\n")
	b.WriteString("- Remind the user you are not a replacement for a therapist or doctor.\n\n")
	fmt.Fprintf(&b, "User's detected sentiment: %s\n", sentiment)
	fmt.Fprintf(&b, "User's message: %s\n\n", message)
	b.WriteString("Respond in two to four short, warm sentences. Avoid medical diagnosis ")
	b.WriteString("or clinical labels. If the message sounds like a crisis, gently suggest ")
	b.WriteString("reaching out to a professional or local emergency services.\n")
	fmt.Fprintf(&b, "Now respond as %s.", botName)
	return b.String()
}
