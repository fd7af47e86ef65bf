package cache

import (
	"crypto/md5" //nolint:gosec // fingerprint key, not a security boundary
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/preventia/risk-api/internal/domain"
)

// advisoryKeyFeatures caps how many contributions enter the advisory key.
// Keeping it below the contribution count returned to clients makes the key
// deliberately coarse, so near-identical risk profiles share one advisory.
const advisoryKeyFeatures = 3

// chatKeyWords caps how many message keywords enter the chat key.
const chatKeyWords = 5

// chatKeyMinWordLen drops short filler words from the chat key.
const chatKeyMinWordLen = 4

// AdvisoryKey fingerprints a scored prediction for advisory lookup. The key
// covers the disease, the tier, and the strongest contributions with their
// input values rounded to one decimal.
func AdvisoryKey(disease string, tier domain.Tier, contributions []domain.Contribution) string {
	parts := make([]string, 0, 2+advisoryKeyFeatures)
	parts = append(parts, disease, string(tier))
	for i, c := range contributions {
		if i == advisoryKeyFeatures {
			break
		}
		parts = append(parts, fmt.Sprintf("%s:%.1f", c.Feature, c.Value))
	}
	return digest(strings.Join(parts, "|"))
}

// ChatKey fingerprints a chat turn by sentiment label and message keywords.
// Keywords are folded, lowercased, filtered to words of at least four
// letters, capped at five, and sorted so word order does not fragment
// the cache.
func ChatKey(sentiment, message string) string {
	words := keywords(message)
	return digest(sentiment + "|" + strings.Join(words, ","))
}

// keywords extracts the normalized keyword set used by ChatKey.
func keywords(message string) []string {
	folded := foldDiacritics(strings.ToLower(message))

	var words []string
	for _, w := range strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) >= chatKeyMinWordLen {
			words = append(words, w)
		}
		if len(words) == chatKeyWords {
			break
		}
	}
	sort.Strings(words)
	return words
}

// foldDiacritics strips combining marks so accented and unaccented spellings
// of the same word produce the same key.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func digest(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // fingerprint key, not a security boundary
	return hex.EncodeToString(sum[:])
}
