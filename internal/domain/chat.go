package domain

// Sentiment is the label and confidence produced by the sentiment classifier.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Sentiment labels. The classifier may emit uppercase variants; callers
// normalize before comparison.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// ChatReply is the chat endpoint's response payload.
type ChatReply struct {
	BotName             string    `json:"bot_name"`
	Sentiment           Sentiment `json:"sentiment"`
	Reply               string    `json:"reply"`
	SuggestedActivities []string  `json:"suggested_activities"`
	FromCache           bool      `json:"-"`
	Crisis              bool      `json:"-"`
}
