package domain

// Action is the recommended next outreach step for a lead.
type Action string

const (
	ActionReply             Action = "reply"
	ActionOutreach          Action = "outreach"
	ActionCall              Action = "call"
	ActionFollowUpEmail     Action = "follow_up_email"
	ActionFinalAttemptEmail Action = "final_attempt_email"
	ActionHighValueFollowup Action = "high_value_followup"
	ActionMove              Action = "move"
	ActionNone              Action = "none"
)

// Priority ranks how urgently an action should be surfaced.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityInfo   Priority = "info"
	PriorityNone   Priority = "none"
)

var priorityRank = map[Priority]int{
	PriorityNone:   0,
	PriorityInfo:   1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// Rank returns the ordering position of a priority (none < info < medium < high).
func (p Priority) Rank() int {
	return priorityRank[p]
}

// Tier is the coarse value bucket controlling pursuit aggressiveness.
type Tier string

const (
	TierLow      Tier = "low"
	TierStandard Tier = "standard"
	TierHigh     Tier = "high"
)

// Decision is the (action, priority, reason) triple the decision tree and
// cooldown filter produce. Action and priority are always set as a pair.
type Decision struct {
	Action   Action
	Priority Priority
	Hint     string
}
