package chat

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// crisisKeywords flag potentially serious language. This is a nudge toward
// professional support, not a diagnosis.
var crisisKeywords = []string{
	"suicide", "kill myself", "end my life", "self harm",
	"self-harm", "cutting", "hurt myself", "can't go on",
	"want to die", "ending it all",
}

// safetyNotice is appended to generated replies when crisis language is
// detected. It never alters the cache key and never blocks generation.
const safetyNotice = "\n\nI'm really glad you shared this with me. " +
	"I'm not a crisis service, but if you feel in immediate danger or " +
	"overwhelmed, please consider contacting local emergency services, " +
	"a trusted person, or a professional helpline in your area."

// crisisFallbackReply is the rule-based reply when crisis language is the
// only signal in the message.
const crisisFallbackReply = "Thank you for opening up about something this heavy. " +
	"What you're feeling is important, and you deserve support. I'm here to listen, " +
	"but I'm not a crisis service. If you feel at risk of harming yourself or in " +
	"immediate danger, please reach out to local emergency services, a trusted " +
	"person, or a professional helpline in your area."

// CrisisDetector checks messages for crisis language with a single
// automaton pass.
type CrisisDetector struct {
	matcher *ahocorasick.Matcher
}

// NewCrisisDetector builds the detector from the fixed keyword list.
func NewCrisisDetector() *CrisisDetector {
	return &CrisisDetector{matcher: ahocorasick.NewStringMatcher(crisisKeywords)}
}

// Detect reports whether the message contains crisis language.
func (d *CrisisDetector) Detect(message string) bool {
	return len(d.matcher.Match([]byte(strings.ToLower(message)))) > 0
}
