package enrich

import (
	"time"

	"pipeline_portal_backend/internal/pipeline/domain"
)

// Merge combines one lead with its optional conversation metadata into an
// EnrichedLead. All conversation-derived fields take defined defaults when
// meta is nil, so the result is total over any structurally valid input.
// The decision fields are left unset; Decide and ApplyCooldown fill them.
func Merge(lead domain.Lead, meta *domain.ConversationMeta, now time.Time) domain.EnrichedLead {
	enriched := domain.EnrichedLead{
		Lead:              lead,
		IsInternational:   IsInternational(lead.Phone),
		MissingInfo:       MissingInfo(lead),
		WaitingOnArtwork:  WaitingOnArtwork(lead),
		HasArtwork:        len(lead.Artwork) > 0,
		HasQuantity:       lead.Quantity != "",
		HasSizes:          lead.Sizes != "",
		HasProjectDetails: lead.ProjectDetails != "",
		Notes:             []domain.NoteEntry{},
		ConversationHistory: []domain.MessageEntry{},
	}

	if meta == nil {
		enriched.NoConversation = true
		return enriched
	}

	enriched.NeedsReply = meta.UnreadCount > 0 &&
		meta.LastMessageDirection == domain.DirectionInbound
	enriched.HasManualOutreach = meta.LastOutboundMessageAction == domain.SourceManual
	enriched.OutboundCount = meta.OutboundCount
	enriched.ConversationID = meta.ConversationID
	if meta.Notes != nil {
		enriched.Notes = meta.Notes
	}
	if meta.Messages != nil {
		enriched.ConversationHistory = meta.Messages
	}

	lastContact := meta.LastMessageDate.Time
	if lastContact.IsZero() {
		lastContact = meta.LastManualMessageDate.Time
	}
	enriched.DaysSinceLastContact = businessDaysOrNil(lastContact, now)
	enriched.DaysSinceLastCall = businessDaysOrNil(meta.LastOutboundCallDate.Time, now)
	enriched.DaysSinceLastSms = businessDaysOrNil(meta.LastOutboundSmsDate.Time, now)
	enriched.DaysSinceLastEmail = businessDaysOrNil(meta.LastOutboundEmailDate.Time, now)

	return enriched
}

func businessDaysOrNil(t, now time.Time) *int {
	if t.IsZero() {
		return nil
	}
	days := BusinessDaysSince(t, now)
	return &days
}
