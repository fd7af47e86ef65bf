package advisory

import (
	"fmt"

	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/schema"
)

// fallbackTemplates are the static advisories used when generation is
// unavailable. Keyed by tier, parameterized by disease display name only.
var fallbackTemplates = map[domain.Tier]string{
	domain.TierLow: "Your %s screening suggests a low risk level. Keep up your current habits: " +
		"regular physical activity, a balanced diet, and routine checkups help keep it that way.",
	domain.TierModerate: "Your %s screening suggests a moderate risk level. Small consistent changes " +
		"such as more daily movement, better sleep, and cutting back on processed food can make a " +
		"real difference. Consider discussing the result at your next checkup.",
	domain.TierHigh: "Your %s screening suggests an elevated risk level. This is not a diagnosis, " +
		"but it is worth acting on: please schedule a visit with a healthcare professional to review " +
		"it together and agree on next steps.",
}

// fallbackAdvice returns the static tier-keyed advisory. It cannot fail and
// makes no outbound calls.
func fallbackAdvice(spec *schema.DiseaseSpec, tier domain.Tier) string {
	tpl, ok := fallbackTemplates[tier]
	if !ok {
		tpl = fallbackTemplates[domain.TierModerate]
	}
	return fmt.Sprintf(tpl, spec.DisplayName)
}
