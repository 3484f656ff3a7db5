package enrich

import (
	"fmt"

	"pipeline_portal_backend/internal/pipeline/domain"
)

// Cooldown thresholds in business days.
const (
	cooldownFullPress = 3 // after call + email/SMS landed together
	cooldownCall      = 3 // before recommending another call
	cooldownEmail     = 2 // before recommending another email
)

// cooldownBypassActions are never suppressed: a reply is owed, first
// outreach has no history to cool down from, and a move sends nothing.
var cooldownBypassActions = map[domain.Action]struct{}{
	domain.ActionReply:    {},
	domain.ActionOutreach: {},
	domain.ActionMove:     {},
}

// Call-class and email-class actions for per-channel cooldowns.
var callClassActions = map[domain.Action]struct{}{
	domain.ActionCall:              {},
	domain.ActionHighValueFollowup: {},
}

var emailClassActions = map[domain.Action]struct{}{
	domain.ActionFollowUpEmail:     {},
	domain.ActionFinalAttemptEmail: {},
}

// ApplyCooldown post-processes a decision, suppressing or downgrading it
// based on recent per-channel outreach. It never escalates: the result's
// priority is at most the input's.
func ApplyCooldown(lead domain.EnrichedLead, decision domain.Decision) domain.Decision {
	if _, bypass := cooldownBypassActions[decision.Action]; bypass {
		return decision
	}

	daysCall := lead.DaysSinceLastCall
	daysSms := lead.DaysSinceLastSms
	daysEmail := lead.DaysSinceLastEmail

	// 1. Full press: call + (email or SMS) within 1 bday of each other,
	// and the more recent one under the extended cooldown.
	if daysCall != nil && (daysSms != nil || daysEmail != nil) {
		other := minNonNil(daysSms, daysEmail)
		if abs(*daysCall-other) <= 1 {
			mostRecent := *daysCall
			if other < mostRecent {
				mostRecent = other
			}
			if mostRecent < cooldownFullPress {
				return domain.Decision{
					Action:   domain.ActionNone,
					Priority: domain.PriorityNone,
					Hint: fmt.Sprintf("Cooldown: full press %d bday(s) ago, wait %d more bday(s)",
						mostRecent, cooldownFullPress-mostRecent),
				}
			}
		}
	}

	// 2. Call cooldown: called recently, so downgrade to email or suppress.
	if _, isCall := callClassActions[decision.Action]; isCall && daysCall != nil && *daysCall < cooldownCall {
		if daysEmail == nil || *daysEmail >= cooldownEmail {
			return domain.Decision{
				Action:   domain.ActionFollowUpEmail,
				Priority: decision.Priority,
				Hint:     fmt.Sprintf("Cooldown: called %d bday(s) ago - email instead", *daysCall),
			}
		}
		return domain.Decision{
			Action:   domain.ActionNone,
			Priority: domain.PriorityNone,
			Hint: fmt.Sprintf("Cooldown: called %d bday(s) ago, emailed %d bday(s) ago - wait",
				*daysCall, *daysEmail),
		}
	}

	// 3. Email cooldown: emailed recently, so suppress email actions.
	if _, isEmail := emailClassActions[decision.Action]; isEmail && daysEmail != nil && *daysEmail < cooldownEmail {
		return domain.Decision{
			Action:   domain.ActionNone,
			Priority: domain.PriorityNone,
			Hint: fmt.Sprintf("Cooldown: emailed %d bday(s) ago, wait %d more bday(s)",
				*daysEmail, cooldownEmail-*daysEmail),
		}
	}

	return decision
}

func minNonNil(a, b *int) int {
	switch {
	case a == nil:
		return *b
	case b == nil:
		return *a
	case *a < *b:
		return *a
	default:
		return *b
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
