package domain

// Message direction markers as emitted by the conversation collector.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Message source markers. Manual means a human sent it from the app;
// everything workflow-driven counts as automated.
const (
	SourceManual    = "manual"
	SourceAutomated = "automated"
	SourceAPI       = "api"
)

// Channel names for outreach media.
const (
	ChannelCall  = "call"
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// NoteEntry is one contact note, body already normalized to plain text.
type NoteEntry struct {
	Body      string   `json:"body"`
	DateAdded FlexTime `json:"dateAdded"`
}

// MessageEntry is one recent conversation message excerpt. Bodies are
// truncated and HTML-normalized by the collector.
type MessageEntry struct {
	Direction string   `json:"direction"`
	Channel   string   `json:"channel"`
	Source    string   `json:"source"`
	Body      string   `json:"body"`
	Date      FlexTime `json:"date"`
}

// ConversationMeta is the per-contact conversation summary produced by the
// conversation collector. Zero or one exists per contact; absence is a
// normal state and every derived computation must tolerate it.
type ConversationMeta struct {
	ConversationID            string   `json:"conversationId,omitempty"`
	UnreadCount               int      `json:"unreadCount"`
	LastMessageDirection      string   `json:"lastMessageDirection,omitempty"`
	LastMessageDate           FlexTime `json:"lastMessageDate"`
	LastMessageType           string   `json:"lastMessageType,omitempty"`
	LastOutboundMessageAction string   `json:"lastOutboundMessageAction,omitempty"`
	LastManualMessageDate     FlexTime `json:"lastManualMessageDate"`

	// Per-channel timestamp of the most recent outbound, non-automated
	// message. Zero when the channel was never used.
	LastOutboundCallDate  FlexTime `json:"lastOutboundCallDate"`
	LastOutboundSmsDate   FlexTime `json:"lastOutboundSmsDate"`
	LastOutboundEmailDate FlexTime `json:"lastOutboundEmailDate"`

	OutboundCount int            `json:"outboundCount"`
	Notes         []NoteEntry    `json:"notes"`
	Messages      []MessageEntry `json:"messages"`
}

// ConversationSnapshot maps contact ID to conversation metadata. A nil
// entry is an explicit absence marker; a nil snapshot means conversation
// data was entirely unavailable for the run.
type ConversationSnapshot map[string]*ConversationMeta
