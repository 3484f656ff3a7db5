package domain

// EnrichedLead is a Lead augmented with classifier outputs, conversation
// derived fields, and the final recommendation. Built fresh each run and
// never mutated after the cooldown pass.
type EnrichedLead struct {
	Lead

	// Opportunity-derived classifier outputs.
	IsInternational   bool     `json:"isInternational"`
	MissingInfo       []string `json:"missingInfo"`
	WaitingOnArtwork  bool     `json:"waitingOnArtwork"`
	HasArtwork        bool     `json:"hasArtwork"`
	HasQuantity       bool     `json:"hasQuantity"`
	HasSizes          bool     `json:"hasSizes"`
	HasProjectDetails bool     `json:"hasProjectDetails"`

	// Conversation-derived fields. The days-since counters are business
	// days; nil means no usable timestamp existed.
	NeedsReply           bool           `json:"needsReply"`
	HasManualOutreach    bool           `json:"hasManualOutreach"`
	DaysSinceLastContact *int           `json:"daysSinceLastContact"`
	DaysSinceLastCall    *int           `json:"daysSinceLastCall"`
	DaysSinceLastSms     *int           `json:"daysSinceLastSms"`
	DaysSinceLastEmail   *int           `json:"daysSinceLastEmail"`
	OutboundCount        int            `json:"outboundCount"`
	NoConversation       bool           `json:"noConversation"`
	ConversationID       string         `json:"conversationId,omitempty"`
	Notes                []NoteEntry    `json:"notes"`
	ConversationHistory  []MessageEntry `json:"conversationHistory"`

	// Recommendation outputs.
	SuggestedAction   Action   `json:"suggestedAction"`
	SuggestedPriority Priority `json:"suggestedPriority"`
	Hint              string   `json:"hint"`
}

// Output is the enriched record set for one run.
type Output struct {
	Leads            []EnrichedLead    `json:"leads"`
	InactiveSummary  map[string]int    `json:"inactiveSummary"`
	InactiveContacts []InactiveContact `json:"inactiveContacts"`
}
