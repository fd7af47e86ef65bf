//nolint:testpackage // Keyword extraction is unexported
package cache

import (
	"testing"

	"github.com/preventia/risk-api/internal/domain"
)

func contributions() []domain.Contribution {
	return []domain.Contribution{
		{Feature: "bmi", Value: 27.34, Attribution: 0.8},
		{Feature: "age", Value: 54, Attribution: 0.5},
		{Feature: "highbp", Value: 1, Attribution: 0.3},
		{Feature: "genhlth", Value: 3, Attribution: 0.2},
		{Feature: "diffwalk", Value: 0, Attribution: 0.1},
	}
}

func TestAdvisoryKey_IgnoresWeakContributions(t *testing.T) {
	base := AdvisoryKey("diabetes", domain.TierHigh, contributions())

	changed := contributions()
	changed[4].Value = 1 // beyond the key's top three
	if got := AdvisoryKey("diabetes", domain.TierHigh, changed); got != base {
		t.Error("contributions past the top three should not change the key")
	}

	changed = contributions()
	changed[0].Value = 31.0
	if got := AdvisoryKey("diabetes", domain.TierHigh, changed); got == base {
		t.Error("changing a top-three value should change the key")
	}
}

func TestAdvisoryKey_RoundsValuesToOneDecimal(t *testing.T) {
	a := contributions()
	b := contributions()
	b[0].Value = 27.29 // rounds to the same 27.3

	if AdvisoryKey("diabetes", domain.TierHigh, a) != AdvisoryKey("diabetes", domain.TierHigh, b) {
		t.Error("values rounding to the same decimal should share a key")
	}
}

func TestAdvisoryKey_DistinguishesDiseaseAndTier(t *testing.T) {
	base := AdvisoryKey("diabetes", domain.TierHigh, contributions())
	if AdvisoryKey("stroke", domain.TierHigh, contributions()) == base {
		t.Error("different diseases should not share a key")
	}
	if AdvisoryKey("diabetes", domain.TierLow, contributions()) == base {
		t.Error("different tiers should not share a key")
	}
}

func TestChatKey_WordOrderInsensitive(t *testing.T) {
	a := ChatKey("negative", "feeling tired and hopeless today")
	b := ChatKey("negative", "today feeling hopeless and tired")
	if a != b {
		t.Error("word order should not fragment the cache")
	}
}

func TestChatKey_SentimentSeparatesKeys(t *testing.T) {
	a := ChatKey("negative", "feeling tired today")
	b := ChatKey("positive", "feeling tired today")
	if a == b {
		t.Error("sentiment should separate keys")
	}
}

func TestChatKey_FoldsDiacritics(t *testing.T) {
	a := ChatKey("neutral", "feeling tired")
	b := ChatKey("neutral", "féeling tïred")
	if a != b {
		t.Error("accented spellings should share a key")
	}
}

func TestKeywords_FiltersAndSorts(t *testing.T) {
	got := keywords("I am so very Tired, and a bit sad today honestly truly deeply")
	// Short words drop, first five survivors kept, then sorted.
	want := []string{"honestly", "tired", "today", "truly", "very"}
	if len(got) != len(want) {
		t.Fatalf("keywords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keywords[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
