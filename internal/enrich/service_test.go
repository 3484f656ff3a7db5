package enrich

import (
	"context"
	"testing"
	"time"

	"pipeline_portal_backend/internal/pipeline/domain"
)

var runNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC) // Tuesday

func TestRunAt_DegradedModeWithoutConversations(t *testing.T) {
	svc := New(nil, 4)
	pipeline := domain.PipelineSnapshot{
		Active: []domain.Lead{
			{ContactID: "c1", Stage: domain.StageNewLead},
			{ContactID: "c2", Stage: domain.StageInProgress, DaysInStage: 14},
		},
		InactiveSummary: map[string]int{domain.StageCooledOff: 3},
	}

	out, summary := svc.RunAt(context.Background(), runNow, pipeline, nil)

	if len(out.Leads) != 2 {
		t.Fatalf("expected 2 enriched leads, got %d", len(out.Leads))
	}
	for _, lead := range out.Leads {
		if !lead.NoConversation {
			t.Fatalf("expected noConversation=true for %s", lead.ContactID)
		}
	}
	if out.Leads[0].SuggestedAction != domain.ActionOutreach {
		t.Fatalf("expected outreach for new lead, got %s", out.Leads[0].SuggestedAction)
	}
	if summary.Leads != 2 {
		t.Fatalf("expected summary over 2 leads, got %d", summary.Leads)
	}
	if summary.InactiveSummary[domain.StageCooledOff] != 3 {
		t.Fatalf("expected inactive summary passthrough, got %v", summary.InactiveSummary)
	}
}

func TestRunAt_CancelledContextStopsFanOut(t *testing.T) {
	svc := New(nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pipeline := domain.PipelineSnapshot{
		Active: []domain.Lead{
			{ContactID: "c1", Stage: domain.StageNewLead},
			{ContactID: "c2", Stage: domain.StageNewLead},
		},
	}

	out, _ := svc.RunAt(ctx, runNow, pipeline, nil)

	if len(out.Leads) != 2 {
		t.Fatalf("expected slots for 2 leads, got %d", len(out.Leads))
	}
	for i, lead := range out.Leads {
		if lead.SuggestedAction != "" {
			t.Fatalf("lead %d enriched despite cancelled context: %s", i, lead.SuggestedAction)
		}
	}
}

func TestRunAt_PreservesLeadOrder(t *testing.T) {
	svc := New(nil, 8)
	var pipeline domain.PipelineSnapshot
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		pipeline.Active = append(pipeline.Active, domain.Lead{ContactID: id, Stage: domain.StageNewLead})
	}

	out, _ := svc.RunAt(context.Background(), runNow, pipeline, domain.ConversationSnapshot{})

	for i, lead := range out.Leads {
		if lead.ContactID != pipeline.Active[i].ContactID {
			t.Fatalf("lead order not preserved at index %d: got %s", i, lead.ContactID)
		}
	}
}

func TestRunAt_ExplicitAbsenceMarkerIsNotDegraded(t *testing.T) {
	svc := New(nil, 1)
	pipeline := domain.PipelineSnapshot{
		Active: []domain.Lead{{ContactID: "c1", Stage: domain.StageInProgress}},
	}
	convos := domain.ConversationSnapshot{"c1": nil}

	out, _ := svc.RunAt(context.Background(), runNow, pipeline, convos)

	if !out.Leads[0].NoConversation {
		t.Fatalf("expected noConversation for explicit nil entry")
	}
}

func TestEnrichLead_CooldownAppliedAfterDecision(t *testing.T) {
	// Quote sent 1 bday ago would be a call, but the call channel was
	// used 1 bday ago too, and email is free: downgrade to email.
	monday := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
	lead := domain.Lead{ContactID: "c1", Stage: domain.StageQuoteSent}
	meta := &domain.ConversationMeta{
		LastMessageDate:           domain.NewFlexTime(monday),
		LastOutboundMessageAction: domain.SourceManual,
		LastOutboundCallDate:      domain.NewFlexTime(monday),
		OutboundCount:             2,
	}

	got := EnrichLead(lead, meta, runNow)

	if got.SuggestedAction != domain.ActionFollowUpEmail {
		t.Fatalf("expected call downgraded to follow_up_email, got %s", got.SuggestedAction)
	}
	if got.SuggestedPriority != domain.PriorityHigh {
		t.Fatalf("expected priority preserved, got %s", got.SuggestedPriority)
	}
}

func TestEnrichLead_ReplyBypassesCooldown(t *testing.T) {
	lead := domain.Lead{ContactID: "c1", Stage: domain.StageQuoteSent}
	meta := &domain.ConversationMeta{
		UnreadCount:           1,
		LastMessageDirection:  domain.DirectionInbound,
		LastMessageDate:       domain.NewFlexTime(runNow),
		LastOutboundCallDate:  domain.NewFlexTime(runNow),
		LastOutboundSmsDate:   domain.NewFlexTime(runNow),
		LastOutboundEmailDate: domain.NewFlexTime(runNow),
	}

	got := EnrichLead(lead, meta, runNow)

	if got.SuggestedAction != domain.ActionReply || got.SuggestedPriority != domain.PriorityHigh {
		t.Fatalf("expected reply/high, got %s/%s", got.SuggestedAction, got.SuggestedPriority)
	}
}
