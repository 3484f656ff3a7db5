package domain

const (
	// StageUnknown is the label substituted for any pipeline stage ID that
	// is not present in the configured stage maps.
	StageUnknown = "Unknown"

	StageNewLead        = "New Lead"
	StageInProgress     = "In Progress"
	StageQuoteSent      = "Quote Sent"
	StageNeedsAttention = "Needs Attention"
	StageFollowUp       = "Follow Up"

	StageSale        = "Sale"
	StageCooledOff   = "Cooled Off"
	StageUnqualified = "Unqualified"
)

var knownStages = map[string]struct{}{
	StageNewLead:        {},
	StageInProgress:     {},
	StageQuoteSent:      {},
	StageNeedsAttention: {},
	StageFollowUp:       {},
	StageSale:           {},
	StageCooledOff:      {},
	StageUnqualified:    {},
}

func IsKnownStage(stage string) bool {
	_, ok := knownStages[stage]
	return ok
}
