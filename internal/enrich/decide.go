package enrich

import (
	"fmt"

	"pipeline_portal_backend/internal/pipeline/domain"
)

// tierThresholds are the days-since-contact boundaries for one value tier.
// hvExtra of 0 means the tier has no extra-attempt window.
type tierThresholds struct {
	call     int
	followup int
	final    int
	hvExtra  int
	move     int
}

var thresholdsByTier = map[domain.Tier]tierThresholds{
	domain.TierHigh:     {call: 1, followup: 3, final: 6, hvExtra: 10, move: 14},
	domain.TierStandard: {call: 1, followup: 3, final: 6, hvExtra: 0, move: 10},
	domain.TierLow:      {call: 1, followup: 2, final: 5, hvExtra: 0, move: 7},
}

// Quote Sent gets tight windows regardless of tier: money is on the table.
var quoteSentThresholds = tierThresholds{call: 1, followup: 2, final: 5, hvExtra: 0, move: 7}

// Minimum outbound attempts before a move-to-cold recommendation.
const (
	minAttemptsHighValue = 4
	minAttemptsDefault   = 3
)

// decisionInput carries the precomputed signals a rule guard may read.
type decisionInput struct {
	lead        domain.EnrichedLead
	tier        domain.Tier
	bdays       int
	t           tierThresholds
	minAttempts int
}

// A decisionRule is one guarded step of the tree. It returns ok=false when
// its guard does not match and evaluation should continue.
type decisionRule struct {
	name string
	eval func(in decisionInput) (domain.Decision, bool)
}

// decisionRules is evaluated in order; the first matching rule wins.
var decisionRules = []decisionRule{
	{name: "needs_reply", eval: ruleNeedsReply},
	{name: "first_outreach", eval: ruleFirstOutreach},
	{name: "needs_attention", eval: ruleNeedsAttention},
	{name: "quote_sent", eval: ruleQuoteSent},
	{name: "high_value_extra", eval: ruleHighValueExtra},
	{name: "move_stale", eval: ruleMoveStale},
	{name: "final_attempt", eval: ruleFinalAttempt},
	{name: "followup_email", eval: ruleFollowupEmail},
	{name: "first_call", eval: ruleFirstCall},
}

// Decide runs the priority-ordered rule list over one enriched lead.
// It is a pure function of its input.
func Decide(lead domain.EnrichedLead) domain.Decision {
	in := decisionInput{
		lead: lead,
		tier: ValueTier(lead.Lead),
	}

	// Primary timing signal: business days since last contact, or the
	// calendar-day approximation from time-in-stage when no conversation
	// timestamp exists.
	if lead.DaysSinceLastContact != nil {
		in.bdays = *lead.DaysSinceLastContact
	} else {
		in.bdays = ApproxBusinessDays(lead.DaysInStage)
	}

	in.minAttempts = minAttemptsDefault
	if in.tier == domain.TierHigh {
		in.minAttempts = minAttemptsHighValue
	}

	if lead.Stage == domain.StageQuoteSent {
		in.t = quoteSentThresholds
	} else if t, ok := thresholdsByTier[in.tier]; ok {
		in.t = t
	} else {
		in.t = thresholdsByTier[domain.TierStandard]
	}

	for _, rule := range decisionRules {
		if decision, ok := rule.eval(in); ok {
			return decision
		}
	}

	return domain.Decision{
		Action:   domain.ActionNone,
		Priority: domain.PriorityNone,
		Hint:     "Contacted recently, waiting for response",
	}
}

func ruleNeedsReply(in decisionInput) (domain.Decision, bool) {
	if !in.lead.NeedsReply {
		return domain.Decision{}, false
	}
	return domain.Decision{
		Action:   domain.ActionReply,
		Priority: domain.PriorityHigh,
		Hint:     "Inbound message waiting - reply needed",
	}, true
}

func ruleFirstOutreach(in decisionInput) (domain.Decision, bool) {
	if in.lead.Stage != domain.StageNewLead && in.lead.HasManualOutreach {
		return domain.Decision{}, false
	}
	label := "No manual outreach yet"
	if in.lead.Stage == domain.StageNewLead {
		label = "New lead"
	}
	return domain.Decision{
		Action:   domain.ActionOutreach,
		Priority: domain.PriorityHigh,
		Hint:     label + " - send personalized welcome",
	}, true
}

func ruleNeedsAttention(in decisionInput) (domain.Decision, bool) {
	if in.lead.Stage != domain.StageNeedsAttention {
		return domain.Decision{}, false
	}
	if in.bdays >= in.t.move && in.lead.OutboundCount >= in.minAttempts {
		return domain.Decision{
			Action:   domain.ActionMove,
			Priority: domain.PriorityHigh,
			Hint: fmt.Sprintf("Needs Attention but %d bdays, %d attempts - consider Cooled Off",
				in.bdays, in.lead.OutboundCount),
		}, true
	}
	if in.lead.IsInternational {
		return domain.Decision{
			Action:   domain.ActionFollowUpEmail,
			Priority: domain.PriorityHigh,
			Hint:     "Flagged for attention - international, email only",
		}, true
	}
	return domain.Decision{
		Action:   domain.ActionCall,
		Priority: domain.PriorityHigh,
		Hint:     "Flagged for attention - call or email",
	}, true
}

func ruleQuoteSent(in decisionInput) (domain.Decision, bool) {
	if in.lead.Stage != domain.StageQuoteSent {
		return domain.Decision{}, false
	}
	switch {
	case in.bdays >= in.t.move && in.lead.OutboundCount >= in.minAttempts:
		return domain.Decision{
			Action:   domain.ActionMove,
			Priority: domain.PriorityInfo,
			Hint: fmt.Sprintf("%d bdays since quote sent, %d attempts, no response - move to Cooled Off",
				in.bdays, in.lead.OutboundCount),
		}, true
	case in.bdays >= in.t.move:
		return domain.Decision{
			Action:   domain.ActionFollowUpEmail,
			Priority: domain.PriorityMedium,
			Hint: fmt.Sprintf("%d bdays since quote sent but only %d/%d attempts - follow up before closing",
				in.bdays, in.lead.OutboundCount, in.minAttempts),
		}, true
	case in.bdays >= in.t.final:
		return domain.Decision{
			Action:   domain.ActionFinalAttemptEmail,
			Priority: domain.PriorityMedium,
			Hint:     fmt.Sprintf("%d bdays since quote sent - final follow-up before closing", in.bdays),
		}, true
	case in.bdays >= in.t.followup:
		return domain.Decision{
			Action:   domain.ActionFollowUpEmail,
			Priority: domain.PriorityMedium,
			Hint:     fmt.Sprintf("%d bdays since quote sent - check if they have questions", in.bdays),
		}, true
	case in.bdays >= in.t.call:
		if in.lead.IsInternational {
			return domain.Decision{
				Action:   domain.ActionFollowUpEmail,
				Priority: domain.PriorityMedium,
				Hint:     fmt.Sprintf("%d bday(s) since quote sent, international - email follow-up", in.bdays),
			}, true
		}
		return domain.Decision{
			Action:   domain.ActionCall,
			Priority: domain.PriorityHigh,
			Hint:     fmt.Sprintf("%d bday(s) since quote sent - call to discuss", in.bdays),
		}, true
	default:
		return domain.Decision{
			Action:   domain.ActionNone,
			Priority: domain.PriorityNone,
			Hint:     "Quote sent recently, waiting for response",
		}, true
	}
}

func ruleHighValueExtra(in decisionInput) (domain.Decision, bool) {
	if in.tier != domain.TierHigh || in.t.hvExtra == 0 {
		return domain.Decision{}, false
	}
	if in.bdays < in.t.hvExtra || in.bdays >= in.t.move {
		return domain.Decision{}, false
	}
	return domain.Decision{
		Action:   domain.ActionHighValueFollowup,
		Priority: domain.PriorityHigh,
		Hint:     fmt.Sprintf("High-value lead at %d bdays - extra attempt before closing out", in.bdays),
	}, true
}

func ruleMoveStale(in decisionInput) (domain.Decision, bool) {
	if in.bdays < in.t.move {
		return domain.Decision{}, false
	}
	if in.lead.OutboundCount >= in.minAttempts {
		return domain.Decision{
			Action:   domain.ActionMove,
			Priority: domain.PriorityInfo,
			Hint: fmt.Sprintf("%d bdays in %s, %d attempts, no response - move to Cooled Off",
				in.bdays, in.lead.Stage, in.lead.OutboundCount),
		}, true
	}
	return domain.Decision{
		Action:   domain.ActionFollowUpEmail,
		Priority: domain.PriorityMedium,
		Hint: fmt.Sprintf("%d bdays in %s but only %d/%d attempts - follow up before closing",
			in.bdays, in.lead.Stage, in.lead.OutboundCount, in.minAttempts),
	}, true
}

func ruleFinalAttempt(in decisionInput) (domain.Decision, bool) {
	if in.bdays < in.t.final {
		return domain.Decision{}, false
	}
	return domain.Decision{
		Action:   domain.ActionFinalAttemptEmail,
		Priority: domain.PriorityMedium,
		Hint:     fmt.Sprintf("%d bdays no response - final follow-up before moving to Cooled Off", in.bdays),
	}, true
}

func ruleFollowupEmail(in decisionInput) (domain.Decision, bool) {
	if in.bdays < in.t.followup {
		return domain.Decision{}, false
	}
	return domain.Decision{
		Action:   domain.ActionFollowUpEmail,
		Priority: domain.PriorityMedium,
		Hint:     fmt.Sprintf("%d bdays no response - follow-up email", in.bdays),
	}, true
}

func ruleFirstCall(in decisionInput) (domain.Decision, bool) {
	if in.bdays < in.t.call {
		return domain.Decision{}, false
	}
	if in.lead.IsInternational {
		return domain.Decision{
			Action:   domain.ActionFollowUpEmail,
			Priority: domain.PriorityMedium,
			Hint:     fmt.Sprintf("%d bday(s) no response, international - email only", in.bdays),
		}, true
	}
	return domain.Decision{
		Action:   domain.ActionCall,
		Priority: domain.PriorityHigh,
		Hint:     fmt.Sprintf("%d bday(s) no response, domestic - call them", in.bdays),
	}, true
}
