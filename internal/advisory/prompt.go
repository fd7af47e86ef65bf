package advisory

import (
	"fmt"
	"strings"

	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/schema"
)

// promptContributions caps how many factors the prompt names. Matches the
// advisory cache key so one cached advisory covers every profile that would
// have produced the same prompt.
const promptContributions = 3

// buildPrompt renders the provider prompt for a scored prediction. Feature
// names pass through the schema's label table so the provider sees readable
// factor names.
func buildPrompt(spec *schema.DiseaseSpec, result domain.RiskResult, contributions []domain.Contribution) string {
	factors := make([]string, 0, promptContributions)
	for i, c := range contributions {
		if i == promptContributions {
			break
		}
		factors = append(factors, fmt.Sprintf("%s (%.1f)", spec.LabelFor(c.Feature), c.Value))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A preventive health screening assessed %s risk as %s (probability %.0f%%).\n",
		spec.DisplayName, strings.ToLower(string(result.Tier)), result.Probability*100)
	if len(factors) > 0 {
		fmt.Fprintf(&b, "The strongest contributing factors were: %s.\n", strings.Join(factors, ", "))
	}
	b.WriteString("Write a short, supportive advisory of three to four sentences with practical lifestyle guidance. ")
	b.WriteString("Do not diagnose, do not recommend medication, and do not repeat the probability.")
	return b.String()
}
