// Package domain holds the pipeline data model shared by the collectors,
// the enrichment engine, and the dashboard.
package domain

// Lead is one pipeline opportunity, keyed by contact ID.
type Lead struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	ContactID     string  `json:"contactId"`
	Stage         string  `json:"stage"`
	StageID       string  `json:"stageId"`
	Source        string  `json:"source"`
	MonetaryValue float64 `json:"monetaryValue"`
	DaysCreated   int     `json:"days_created"`
	DaysInStage   int     `json:"days_in_stage"`

	// Quoting-relevant custom fields.
	Artwork        []string `json:"artwork,omitempty"`
	Quantity       string   `json:"quantity,omitempty"`
	ProjectDetails string   `json:"project_details,omitempty"`
	ServiceType    string   `json:"service_type,omitempty"`
	Budget         string   `json:"budget,omitempty"`
	Sizes          string   `json:"sizes,omitempty"`
}

// InactiveContact is a lead parked in an inactive stage, carried through
// the output for reporting only.
type InactiveContact struct {
	ContactID string `json:"contactId"`
	Name      string `json:"name"`
	Stage     string `json:"stage"`
}

// PipelineSnapshot is the point-in-time pipeline state produced by the
// opportunity collector.
type PipelineSnapshot struct {
	Active           []Lead            `json:"active"`
	InactiveSummary  map[string]int    `json:"inactive_summary"`
	InactiveContacts []InactiveContact `json:"inactive_contacts"`
}
