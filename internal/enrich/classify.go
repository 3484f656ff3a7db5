package enrich

import (
	"strings"

	"pipeline_portal_backend/internal/pipeline/domain"
	"pipeline_portal_backend/platform/phone"
)

// nonUSNANPAreaCodes are +1 area codes outside the US (Canadian plus
// Caribbean/Atlantic territories). Numbers in these codes share the US
// numbering plan but cannot receive calls through the outbound call channel.
var nonUSNANPAreaCodes = map[string]struct{}{
	// Canada
	"204": {}, "226": {}, "236": {}, "249": {}, "250": {}, "263": {},
	"289": {}, "306": {}, "343": {}, "354": {}, "365": {}, "367": {},
	"368": {}, "382": {}, "403": {}, "416": {}, "418": {}, "428": {},
	"431": {}, "437": {}, "438": {}, "450": {}, "460": {}, "468": {},
	"474": {}, "506": {}, "514": {}, "519": {}, "548": {}, "579": {},
	"581": {}, "584": {}, "587": {}, "604": {}, "613": {}, "639": {},
	"647": {}, "672": {}, "683": {}, "705": {}, "709": {}, "742": {},
	"753": {}, "778": {}, "780": {}, "782": {}, "807": {}, "819": {},
	"825": {}, "867": {}, "873": {}, "879": {}, "902": {}, "905": {},
	// Caribbean / Atlantic +1 territories
	"242": {}, "246": {}, "268": {}, "284": {}, "340": {}, "345": {},
	"441": {}, "473": {}, "649": {}, "664": {}, "721": {}, "758": {},
	"767": {}, "784": {}, "809": {}, "829": {}, "849": {}, "868": {},
	"869": {}, "876": {},
}

// nonNANPIntlPrefixes are dial prefixes outside the +1 numbering plan that
// appear in the pipeline.
var nonNANPIntlPrefixes = []string{"+41", "+44"}

// infoFields is the ordered set of custom fields required for quoting.
var infoFields = []string{"artwork", "sizes", "quantity", "project_details"}

// artworkPendingPhrases mark project descriptions where artwork is promised
// but not yet attached.
var artworkPendingPhrases = []string{"will provide", "new logo"}

// budgetTiers maps the explicit budget bracket labels to value tiers.
var budgetTiers = map[string]domain.Tier{
	"$0 - $149":     domain.TierLow,
	"$150 - $499":   domain.TierStandard,
	"$500 - $999":   domain.TierStandard,
	"$1,000+":       domain.TierHigh,
}

// Monetary fallback thresholds when no budget bracket was selected.
const (
	standardTierMinValue = 150
	highTierMinValue     = 1000
)

// IsInternational reports whether outbound calls to the number would fail.
// Empty or absent phone numbers are not international.
func IsInternational(rawPhone string) bool {
	if rawPhone == "" {
		return false
	}
	normalized := phone.StripSeparators(rawPhone)
	for _, prefix := range nonNANPIntlPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	if strings.HasPrefix(normalized, "+1") && len(normalized) >= 5 {
		areaCode := normalized[2:5]
		_, nonUS := nonUSNANPAreaCodes[areaCode]
		return nonUS
	}
	return false
}

// ValueTier buckets a lead by its budget bracket, falling back to the
// numeric opportunity value.
func ValueTier(lead domain.Lead) domain.Tier {
	if tier, ok := budgetTiers[lead.Budget]; ok {
		return tier
	}
	switch {
	case lead.MonetaryValue >= highTierMinValue:
		return domain.TierHigh
	case lead.MonetaryValue >= standardTierMinValue:
		return domain.TierStandard
	default:
		return domain.TierLow
	}
}

// MissingInfo returns the quoting-required fields the lead has not filled
// in, in the fixed field order.
func MissingInfo(lead domain.Lead) []string {
	missing := []string{}
	for _, field := range infoFields {
		if fieldEmpty(lead, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func fieldEmpty(lead domain.Lead, field string) bool {
	switch field {
	case "artwork":
		return len(lead.Artwork) == 0
	case "sizes":
		return lead.Sizes == ""
	case "quantity":
		return lead.Quantity == ""
	case "project_details":
		return lead.ProjectDetails == ""
	default:
		return false
	}
}

// WaitingOnArtwork reports whether the project details suggest artwork is
// forthcoming.
func WaitingOnArtwork(lead domain.Lead) bool {
	details := strings.ToLower(lead.ProjectDetails)
	for _, phrase := range artworkPendingPhrases {
		if strings.Contains(details, phrase) {
			return true
		}
	}
	return false
}
