package enrich

import (
	"pipeline_portal_backend/internal/pipeline/domain"
)

// ChannelTally splits outbound message counts by origin.
type ChannelTally struct {
	Manual    int `json:"manual"`
	Automated int `json:"automated"`
	Total     int `json:"total"`
}

// Summary is the fold of one run's enriched leads: action and priority
// counts plus per-channel message totals. No decision logic lives here.
type Summary struct {
	Leads           int                     `json:"leads"`
	ActionCounts    map[domain.Action]int   `json:"actionCounts"`
	PriorityCounts  map[domain.Priority]int `json:"priorityCounts"`
	Outbound        map[string]*ChannelTally `json:"outbound"`
	Inbound         map[string]int          `json:"inbound"`
	InactiveSummary map[string]int          `json:"inactiveSummary"`
}

// Aggregate tallies actions, priorities, and per-channel message counts
// across all enriched leads, passing the upstream inactive summary through.
func Aggregate(out domain.Output) Summary {
	summary := Summary{
		Leads:          len(out.Leads),
		ActionCounts:   map[domain.Action]int{},
		PriorityCounts: map[domain.Priority]int{},
		Outbound: map[string]*ChannelTally{
			domain.ChannelEmail: {},
			domain.ChannelSMS:   {},
			domain.ChannelCall:  {},
		},
		Inbound: map[string]int{
			domain.ChannelEmail: 0,
			domain.ChannelSMS:   0,
			domain.ChannelCall:  0,
		},
		InactiveSummary: out.InactiveSummary,
	}

	for _, lead := range out.Leads {
		summary.ActionCounts[lead.SuggestedAction]++
		summary.PriorityCounts[lead.SuggestedPriority]++

		for _, msg := range lead.ConversationHistory {
			switch msg.Direction {
			case domain.DirectionOutbound:
				tally, ok := summary.Outbound[msg.Channel]
				if !ok {
					continue
				}
				tally.Total++
				if msg.Source == domain.SourceManual {
					tally.Manual++
				} else {
					tally.Automated++
				}
			case domain.DirectionInbound:
				if _, ok := summary.Inbound[msg.Channel]; ok {
					summary.Inbound[msg.Channel]++
				}
			}
		}
	}

	return summary
}
