// Package chat implements the supportive chat responder: sentiment-aware
// reply generation with a rule-based fallback and crisis-language detection.
package chat

import (
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// rule pairs a keyword group with its canned reply. Rules are evaluated in
// declaration order; the first group with a hit wins.
type rule struct {
	name     string
	keywords []string
	reply    string
}

// fallbackRules are the keyword-triggered replies used when no provider is
// available. Matching is substring-based over normalized text.
var fallbackRules = []rule{
	{
		name:     "greeting",
		keywords: []string{"hello", "hi", "hey", "greetings"},
		reply: "Hi there. I'm here to listen and support you. " +
			"How are you feeling right now?",
	},
	{
		name:     "sadness",
		keywords: []string{"sad", "depressed", "down", "unhappy", "crying", "tears"},
		reply: "I'm really sorry that you're feeling this way. Your feelings are valid, " +
			"and you don't have to go through this alone. If you'd like, tell me a bit " +
			"more about what's weighing on your mind.",
	},
	{
		name:     "anxiety",
		keywords: []string{"anxious", "worried", "stress", "stressed", "nervous", "panic", "overwhelm"},
		reply: "It sounds like you're feeling really overwhelmed, and that can be exhausting. " +
			"Let's take this one small step at a time. What's the biggest thought or worry " +
			"on your mind right now?",
	},
	{
		name:     "loneliness",
		keywords: []string{"lonely", "alone", "isolated", "nobody"},
		reply: "Feeling lonely can be very painful. Even though it might not feel like it, " +
			"you matter and your feelings matter. Would you like to share what this " +
			"loneliness has been like for you?",
	},
	{
		name:     "anger",
		keywords: []string{"angry", "mad", "frustrated", "annoyed", "furious", "rage"},
		reply: "It's completely okay to feel angry or frustrated. Those emotions are valid too. " +
			"If you'd like, tell me what happened and we can look at it together in a calmer way.",
	},
}

// Sentiment-level default replies when no keyword group matches.
const (
	positiveDefaultReply = "I'm really glad you're feeling positive today! " +
		"What's been going well for you or bringing you a bit of joy lately?"
	negativeDefaultReply = "It sounds like things have been tough for you. I'm here to listen " +
		"and support you without judgment. If you'd like, share a bit more about " +
		"what's been bothering you."
	neutralDefaultReply = "Thank you for sharing that with me. I'm here as a listening ear. " +
		"How would you describe your mood in this moment?"
)

// RuleSet matches messages against the fallback rules with one automaton
// pass over the normalized text.
type RuleSet struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	// keyword index -> rule index
	kwToRule []int
	crisis   *CrisisDetector
}

// NewRuleSet builds the fallback rule matcher.
func NewRuleSet(crisis *CrisisDetector) *RuleSet {
	rs := &RuleSet{crisis: crisis}
	for i, r := range fallbackRules {
		for _, kw := range r.keywords {
			rs.keywords = append(rs.keywords, strings.ToLower(strings.TrimSpace(kw)))
			rs.kwToRule = append(rs.kwToRule, i)
		}
	}
	rs.matcher = ahocorasick.NewStringMatcher(rs.keywords)
	return rs
}

// Reply picks the fallback reply for a message: the first keyword group
// with a hit, then crisis guidance, then the sentiment default.
func (rs *RuleSet) Reply(message, sentiment string) string {
	text := normalizeText(message)

	hits := rs.matcher.Match([]byte(text))
	best := len(fallbackRules)
	for _, hit := range hits {
		if hit < len(rs.kwToRule) && rs.kwToRule[hit] < best {
			best = rs.kwToRule[hit]
		}
	}
	if best < len(fallbackRules) {
		return fallbackRules[best].reply
	}

	if rs.crisis != nil && rs.crisis.Detect(message) {
		return crisisFallbackReply
	}

	switch strings.ToLower(sentiment) {
	case "positive":
		return positiveDefaultReply
	case "negative":
		return negativeDefaultReply
	default:
		return neutralDefaultReply
	}
}

// normalizeText lowercases and replaces non-alphanumeric runes with spaces
// so keyword matching sees word boundaries.
func normalizeText(text string) string {
	text = strings.ToLower(text)

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else {
			result.WriteByte(' ')
		}
	}
	return result.String()
}
