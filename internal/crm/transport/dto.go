// Package transport defines the raw CRM API payload shapes. The API is
// loose about envelopes and timestamp encodings, so several types carry
// custom decoding.
package transport

import (
	"encoding/json"

	"pipeline_portal_backend/internal/pipeline/domain"
)

type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type FileValue struct {
	URL string `json:"url"`
}

type CustomField struct {
	ID              string      `json:"id"`
	FieldValueString string     `json:"fieldValueString"`
	FieldValueFiles []FileValue `json:"fieldValueFiles"`
}

type Opportunity struct {
	ID                 string          `json:"id"`
	Contact            Contact         `json:"contact"`
	PipelineStageID    string          `json:"pipelineStageId"`
	CreatedAt          domain.FlexTime `json:"createdAt"`
	LastStageChangeAt  domain.FlexTime `json:"lastStageChangeAt"`
	LastStatusChangeAt domain.FlexTime `json:"lastStatusChangeAt"`
	Source             string          `json:"source"`
	MonetaryValue      float64         `json:"monetaryValue"`
	CustomFields       []CustomField   `json:"customFields"`
}

// OpportunitySearchResponse tolerates both the flat and the data-wrapped
// envelope the search endpoint has been seen returning.
type OpportunitySearchResponse struct {
	Opportunities []Opportunity `json:"opportunities"`
	Data          struct {
		Opportunities []Opportunity `json:"opportunities"`
	} `json:"data"`
}

// All returns whichever envelope carried the opportunities.
func (r OpportunitySearchResponse) All() []Opportunity {
	if len(r.Opportunities) > 0 {
		return r.Opportunities
	}
	return r.Data.Opportunities
}

type Conversation struct {
	ID                        string          `json:"id"`
	UnreadCount               int             `json:"unreadCount"`
	LastMessageDirection      string          `json:"lastMessageDirection"`
	LastMessageDate           domain.FlexTime `json:"lastMessageDate"`
	LastMessageType           string          `json:"lastMessageType"`
	LastOutboundMessageAction string          `json:"lastOutboundMessageAction"`
	LastManualMessageDate     domain.FlexTime `json:"lastManualMessageDate"`
}

type ConversationSearchResponse struct {
	Conversations []Conversation `json:"conversations"`
}

type MessageMeta struct {
	Direction string `json:"direction"`
}

type Message struct {
	ID          string                 `json:"id"`
	Direction   string                 `json:"direction"`
	MessageType string                 `json:"messageType"`
	Type        string                 `json:"type"`
	Body        string                 `json:"body"`
	Message     string                 `json:"message"`
	Source      string                 `json:"source"`
	UserID      string                 `json:"userId"`
	DateAdded   domain.FlexTime        `json:"dateAdded"`
	CreatedAt   domain.FlexTime        `json:"createdAt"`
	Meta        map[string]MessageMeta `json:"meta"`
}

// ResolvedDirection returns the message direction, falling back to the
// per-channel meta blocks when the top-level field is absent.
func (m Message) ResolvedDirection() string {
	if m.Direction != "" {
		return m.Direction
	}
	for _, meta := range m.Meta {
		if meta.Direction != "" {
			return meta.Direction
		}
	}
	return ""
}

// Timestamp returns dateAdded, falling back to createdAt.
func (m Message) Timestamp() domain.FlexTime {
	if !m.DateAdded.IsZero() {
		return m.DateAdded
	}
	return m.CreatedAt
}

// MessageList decodes either a bare array or a nested {"messages": [...]}
// object, both of which the messages endpoint emits.
type MessageList []Message

func (l *MessageList) UnmarshalJSON(data []byte) error {
	var direct []Message
	if err := json.Unmarshal(data, &direct); err == nil {
		*l = direct
		return nil
	}
	var nested struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}
	*l = nested.Messages
	return nil
}

type MessagesResponse struct {
	Messages MessageList `json:"messages"`
	Data     MessageList `json:"data"`
}

// All returns whichever envelope carried the messages.
func (r MessagesResponse) All() []Message {
	if len(r.Messages) > 0 {
		return r.Messages
	}
	return r.Data
}

type Note struct {
	Body      string          `json:"body"`
	DateAdded domain.FlexTime `json:"dateAdded"`
}

type NotesResponse struct {
	Notes []Note `json:"notes"`
}

// EmailBodyResponse tolerates the body arriving wrapped or flat.
type EmailBodyResponse struct {
	Message struct {
		Body string `json:"body"`
	} `json:"message"`
	Body string `json:"body"`
}

// ResolvedBody returns whichever field carried the body.
func (r EmailBodyResponse) ResolvedBody() string {
	if r.Message.Body != "" {
		return r.Message.Body
	}
	return r.Body
}

type SendMessageRequest struct {
	Type      string `json:"type"`
	ContactID string `json:"contactId"`
	Subject   string `json:"subject,omitempty"`
	HTML      string `json:"html,omitempty"`
	Message   string `json:"message,omitempty"`
	EmailFrom string `json:"emailFrom,omitempty"`
}

type SendMessageResponse struct {
	MessageID string `json:"messageId"`
}

type MoveOpportunityRequest struct {
	PipelineStageID string `json:"pipelineStageId"`
}

type AddNoteRequest struct {
	Body string `json:"body"`
}

type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}
