package enrich

import (
	"testing"

	"pipeline_portal_backend/internal/pipeline/domain"
)

func TestAggregate_CountsActionsAndPriorities(t *testing.T) {
	out := domain.Output{
		Leads: []domain.EnrichedLead{
			{SuggestedAction: domain.ActionCall, SuggestedPriority: domain.PriorityHigh},
			{SuggestedAction: domain.ActionCall, SuggestedPriority: domain.PriorityHigh},
			{SuggestedAction: domain.ActionFollowUpEmail, SuggestedPriority: domain.PriorityMedium},
			{SuggestedAction: domain.ActionNone, SuggestedPriority: domain.PriorityNone},
		},
	}

	got := Aggregate(out)

	if got.Leads != 4 {
		t.Fatalf("expected 4 leads, got %d", got.Leads)
	}
	if got.ActionCounts[domain.ActionCall] != 2 {
		t.Fatalf("expected 2 call actions, got %d", got.ActionCounts[domain.ActionCall])
	}
	if got.PriorityCounts[domain.PriorityHigh] != 2 || got.PriorityCounts[domain.PriorityNone] != 1 {
		t.Fatalf("unexpected priority counts: %v", got.PriorityCounts)
	}
}

func TestAggregate_ChannelTalliesSplitManualAutomated(t *testing.T) {
	out := domain.Output{
		Leads: []domain.EnrichedLead{
			{
				ConversationHistory: []domain.MessageEntry{
					{Direction: domain.DirectionOutbound, Channel: domain.ChannelEmail, Source: domain.SourceManual},
					{Direction: domain.DirectionOutbound, Channel: domain.ChannelEmail, Source: domain.SourceAutomated},
					{Direction: domain.DirectionOutbound, Channel: domain.ChannelSMS, Source: domain.SourceManual},
					{Direction: domain.DirectionInbound, Channel: domain.ChannelSMS},
					{Direction: domain.DirectionInbound, Channel: domain.ChannelEmail},
					// Unknown channels are ignored by the tally.
					{Direction: domain.DirectionOutbound, Channel: "facebook", Source: domain.SourceManual},
				},
			},
		},
	}

	got := Aggregate(out)

	email := got.Outbound[domain.ChannelEmail]
	if email.Manual != 1 || email.Automated != 1 || email.Total != 2 {
		t.Fatalf("unexpected email tally: %+v", email)
	}
	sms := got.Outbound[domain.ChannelSMS]
	if sms.Manual != 1 || sms.Total != 1 {
		t.Fatalf("unexpected sms tally: %+v", sms)
	}
	if got.Inbound[domain.ChannelSMS] != 1 || got.Inbound[domain.ChannelEmail] != 1 {
		t.Fatalf("unexpected inbound counts: %v", got.Inbound)
	}
}

func TestAggregate_PassesThroughInactiveSummary(t *testing.T) {
	out := domain.Output{
		InactiveSummary: map[string]int{domain.StageCooledOff: 7, domain.StageSale: 2},
	}

	got := Aggregate(out)

	if got.InactiveSummary[domain.StageCooledOff] != 7 || got.InactiveSummary[domain.StageSale] != 2 {
		t.Fatalf("expected inactive summary passed through, got %v", got.InactiveSummary)
	}
}
