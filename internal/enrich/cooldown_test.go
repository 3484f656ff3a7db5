package enrich

import (
	"testing"

	"pipeline_portal_backend/internal/pipeline/domain"
)

func decision(a domain.Action, p domain.Priority) domain.Decision {
	return domain.Decision{Action: a, Priority: p, Hint: "test"}
}

func TestApplyCooldown_BypassActionsAreFixedPoints(t *testing.T) {
	// Aggressive recent outreach on every channel.
	lead := domain.EnrichedLead{
		DaysSinceLastCall:  intp(0),
		DaysSinceLastSms:   intp(0),
		DaysSinceLastEmail: intp(0),
	}

	for _, a := range []domain.Action{domain.ActionReply, domain.ActionOutreach, domain.ActionMove} {
		in := decision(a, domain.PriorityHigh)
		got := ApplyCooldown(lead, in)
		if got != in {
			t.Fatalf("expected %s to bypass cooldown, got %s/%s", a, got.Action, got.Priority)
		}
	}
}

func TestApplyCooldown_FullPressSuppresses(t *testing.T) {
	// Call 1 bday ago, SMS today: within 1 bday of each other, most
	// recent under the full-press window.
	lead := domain.EnrichedLead{
		DaysSinceLastCall: intp(1),
		DaysSinceLastSms:  intp(0),
	}

	got := ApplyCooldown(lead, decision(domain.ActionCall, domain.PriorityHigh))
	if got.Action != domain.ActionNone || got.Priority != domain.PriorityNone {
		t.Fatalf("expected none/none from full press, got %s/%s", got.Action, got.Priority)
	}
}

func TestApplyCooldown_FullPressNeedsChannelsCloseTogether(t *testing.T) {
	// Call 5 bdays ago, SMS today: not a full press, and the call is out
	// of its own cooldown, so the decision stands.
	lead := domain.EnrichedLead{
		DaysSinceLastCall: intp(5),
		DaysSinceLastSms:  intp(0),
	}

	in := decision(domain.ActionCall, domain.PriorityHigh)
	got := ApplyCooldown(lead, in)
	if got != in {
		t.Fatalf("expected decision unchanged, got %s/%s", got.Action, got.Priority)
	}
}

func TestApplyCooldown_FullPressExpiresAfterWindow(t *testing.T) {
	lead := domain.EnrichedLead{
		DaysSinceLastCall:  intp(3),
		DaysSinceLastEmail: intp(4),
	}

	in := decision(domain.ActionCall, domain.PriorityHigh)
	got := ApplyCooldown(lead, in)
	if got != in {
		t.Fatalf("expected decision unchanged after window, got %s/%s", got.Action, got.Priority)
	}
}

func TestApplyCooldown_CallDowngradesToEmail(t *testing.T) {
	lead := domain.EnrichedLead{
		DaysSinceLastCall: intp(1),
	}

	got := ApplyCooldown(lead, decision(domain.ActionCall, domain.PriorityHigh))
	if got.Action != domain.ActionFollowUpEmail {
		t.Fatalf("expected downgrade to follow_up_email, got %s", got.Action)
	}
	if got.Priority != domain.PriorityHigh {
		t.Fatalf("expected priority preserved on downgrade, got %s", got.Priority)
	}
}

func TestApplyCooldown_CallSuppressedWhenEmailAlsoRecent(t *testing.T) {
	// Channels two bdays apart, so full press does not apply, but both
	// per-channel cooldowns are active.
	lead := domain.EnrichedLead{
		DaysSinceLastCall:  intp(2),
		DaysSinceLastEmail: intp(0),
	}

	got := ApplyCooldown(lead, decision(domain.ActionHighValueFollowup, domain.PriorityHigh))
	if got.Action != domain.ActionNone || got.Priority != domain.PriorityNone {
		t.Fatalf("expected none/none, got %s/%s", got.Action, got.Priority)
	}
}

func TestApplyCooldown_EmailCooldownSuppressesEmailActions(t *testing.T) {
	lead := domain.EnrichedLead{
		DaysSinceLastEmail: intp(1),
	}

	for _, a := range []domain.Action{domain.ActionFollowUpEmail, domain.ActionFinalAttemptEmail} {
		got := ApplyCooldown(lead, decision(a, domain.PriorityMedium))
		if got.Action != domain.ActionNone || got.Priority != domain.PriorityNone {
			t.Fatalf("expected %s suppressed, got %s/%s", a, got.Action, got.Priority)
		}
	}
}

func TestApplyCooldown_EmailAllowedAfterCooldown(t *testing.T) {
	lead := domain.EnrichedLead{
		DaysSinceLastEmail: intp(2),
	}

	in := decision(domain.ActionFollowUpEmail, domain.PriorityMedium)
	got := ApplyCooldown(lead, in)
	if got != in {
		t.Fatalf("expected decision unchanged, got %s/%s", got.Action, got.Priority)
	}
}

func TestApplyCooldown_NeverEscalates(t *testing.T) {
	days := []*int{nil, intp(0), intp(1), intp(2), intp(3), intp(5)}
	actions := []domain.Action{
		domain.ActionReply, domain.ActionOutreach, domain.ActionCall,
		domain.ActionFollowUpEmail, domain.ActionFinalAttemptEmail,
		domain.ActionHighValueFollowup, domain.ActionMove, domain.ActionNone,
	}
	priorities := []domain.Priority{
		domain.PriorityHigh, domain.PriorityMedium, domain.PriorityInfo, domain.PriorityNone,
	}

	for _, call := range days {
		for _, sms := range days {
			for _, email := range days {
				lead := domain.EnrichedLead{
					DaysSinceLastCall:  call,
					DaysSinceLastSms:   sms,
					DaysSinceLastEmail: email,
				}
				for _, a := range actions {
					for _, p := range priorities {
						in := decision(a, p)
						got := ApplyCooldown(lead, in)
						if got.Priority.Rank() > in.Priority.Rank() {
							t.Fatalf("cooldown escalated %s/%s to %s/%s", a, p, got.Action, got.Priority)
						}
					}
				}
			}
		}
	}
}

func TestApplyCooldown_NoHistoryIsNoOp(t *testing.T) {
	in := decision(domain.ActionCall, domain.PriorityHigh)
	got := ApplyCooldown(domain.EnrichedLead{}, in)
	if got != in {
		t.Fatalf("expected decision unchanged with no outreach history, got %s/%s", got.Action, got.Priority)
	}
}
