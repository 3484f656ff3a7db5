// Package transport defines the dashboard API request and response shapes.
package transport

import (
	"time"

	"pipeline_portal_backend/internal/pipeline/domain"
)

// ActionItem is one prioritized task on the operator's list.
type ActionItem struct {
	ID                  int                   `json:"id"`
	Priority            string                `json:"priority"`
	ActionType          string                `json:"actionType"`
	Label               string                `json:"label"`
	ContactID           string                `json:"contactId"`
	ContactName         string                `json:"contactName"`
	ContactEmail        string                `json:"contactEmail,omitempty"`
	ContactPhone        string                `json:"contactPhone,omitempty"`
	OpportunityID       string                `json:"opportunityId"`
	Stage               string                `json:"stage"`
	Context             string                `json:"context"`
	Recommendation      string                `json:"recommendation"`
	ConversationHistory []domain.MessageEntry `json:"conversationHistory"`
	Notes               []domain.NoteEntry    `json:"notes"`
	MessageType         string                `json:"messageType,omitempty"`
	TargetStageID       string                `json:"targetStageId,omitempty"`
}

// NoActionItem is a lead deliberately left alone this run.
type NoActionItem struct {
	ContactName string `json:"contactName"`
	Stage       string `json:"stage"`
	Reason      string `json:"reason"`
}

// DashboardData is the rendered action board for one run.
type DashboardData struct {
	Actions         []ActionItem   `json:"actions"`
	NoAction        []NoActionItem `json:"noAction"`
	InactiveSummary map[string]int `json:"inactiveSummary"`
	GeneratedAt     time.Time      `json:"generatedAt"`
}

// SendRequest overrides parts of the prepared outbound message.
type SendRequest struct {
	Type    string `json:"type" binding:"omitempty,msgtype"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	HTML    string `json:"html"`
}

// SendResponse reports the CRM message ID of a sent message.
type SendResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

// MoveRequest selects the stage an opportunity is moved to. Empty falls
// back to the action's own target stage.
type MoveRequest struct {
	TargetStageID string `json:"targetStageId"`
}

// NoteRequest carries the note body to attach to a contact.
type NoteRequest struct {
	Body string `json:"body" binding:"required"`
}

// StatusEntry records the operator's handling of one action.
type StatusEntry struct {
	Status string `json:"status"`
	TS     int64  `json:"ts"`
}
