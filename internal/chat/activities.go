package chat

import "math/rand"

// maxSuggestedActivities caps how many activity suggestions a reply carries.
const maxSuggestedActivities = 3

// moodActivities are the per-sentiment suggestion pools. Unknown sentiment
// labels fall back to the neutral pool.
var moodActivities = map[string][]string{
	"negative": {
		"Take a 10-minute walk outside; gentle movement and fresh air can help.",
		"Try a 5-minute breathing exercise: breathe in for 4, hold for 4, out for 4.",
		"Listen to a comforting playlist or podcast that you enjoy.",
		"Reach out to someone you trust and share a bit about how you're feeling.",
		"Write down 3 small things that went okay today, even if they feel minor.",
		"Do some light stretching or simple yoga poses.",
		"Watch a short, light-hearted or funny video.",
		"Take a warm shower or wash your face with cool water.",
		"Do something creative: doodling, coloring, writing, or crafting.",
		"Try a short guided mindfulness or grounding exercise.",
	},
	"neutral": {
		"Try a new recipe or snack you've been curious about.",
		"Organize a small area of your room or desk; a tidy space can feel refreshing.",
		"Learn something new: watch a short tutorial or read a quick article.",
		"Do a quick home workout or dance to a song you like.",
		"Spend a few minutes with plants or in nature if possible.",
		"Spend some time on a hobby you enjoy, even for 10 to 15 minutes.",
		"Set one small, realistic goal for today and gently work toward it.",
	},
	"positive": {
		"Share your good mood with someone: send a kind message or compliment.",
		"Celebrate your positive feelings by doing a favorite activity.",
		"Try something new you've been putting off, while your energy is good.",
		"Support someone else; sometimes helping others deepens our own joy.",
		"Write down what's going well so you can revisit it on tougher days.",
		"Plan a small treat or fun activity for later in the week.",
	},
}

// sampleActivities picks up to maxSuggestedActivities random entries from
// the sentiment's pool without repetition.
func sampleActivities(sentiment string, rng *rand.Rand) []string {
	pool, ok := moodActivities[sentiment]
	if !ok {
		pool = moodActivities["neutral"]
	}

	n := maxSuggestedActivities
	if n > len(pool) {
		n = len(pool)
	}

	out := make([]string, 0, n)
	for _, idx := range rng.Perm(len(pool))[:n] {
		out = append(out, pool[idx])
	}
	return out
}
