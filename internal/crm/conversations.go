package crm

import (
	"context"
	"sort"
	"strings"

	"pipeline_portal_backend/internal/crm/transport"
	"pipeline_portal_backend/internal/pipeline/domain"
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"
	"pipeline_portal_backend/platform/sanitize"

	"golang.org/x/sync/errgroup"
)

const (
	// recentMessageLimit caps how many message excerpts each contact carries.
	recentMessageLimit = 20
	// emailBodyFetchLimit caps per-conversation email body lookups; email
	// search payloads omit bodies and each one costs an extra API call.
	emailBodyFetchLimit = 10
	excerptMaxLen       = 500
)

// ConversationCollector gathers per-contact conversation metadata for the
// active leads. Failures for one contact degrade to an absent entry rather
// than failing the run.
type ConversationCollector struct {
	client        *Client
	locationID    string
	maxConcurrent int
	log           *logger.Logger
}

// NewConversationCollector creates a conversation collector.
func NewConversationCollector(client *Client, cfg config.CRMConfig, log *logger.Logger) *ConversationCollector {
	maxConcurrent := cfg.GetCRMMaxConcurrent()
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &ConversationCollector{
		client:        client,
		locationID:    cfg.GetCRMLocationID(),
		maxConcurrent: maxConcurrent,
		log:           log,
	}
}

// Collect fetches conversation metadata for every lead with a contact ID.
// The returned snapshot has one entry per such lead; entries are nil when
// the contact has no usable conversation or its fetch failed.
func (c *ConversationCollector) Collect(ctx context.Context, leads []domain.Lead) (domain.ConversationSnapshot, error) {
	snap := make(domain.ConversationSnapshot, len(leads))
	results := make([]*domain.ConversationMeta, len(leads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	for i, lead := range leads {
		if lead.ContactID == "" {
			continue
		}
		g.Go(func() error {
			meta, err := c.collectContact(gctx, lead.ContactID, lead.Stage)
			if err != nil {
				c.log.WithContext(gctx).Warn("conversation fetch failed",
					"contactId", lead.ContactID, "error", err)
				return nil
			}
			results[i] = meta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, lead := range leads {
		if lead.ContactID == "" {
			continue
		}
		snap[lead.ContactID] = results[i]
	}
	return snap, nil
}

// collectContact builds the conversation metadata for one contact. When no
// conversation exists, notes still stand in for contacts past the New Lead
// stage so the engine has something to reason over.
func (c *ConversationCollector) collectContact(ctx context.Context, contactID, stage string) (*domain.ConversationMeta, error) {
	conversations, err := c.client.SearchConversations(ctx, contactID, c.locationID)
	if err != nil {
		return nil, err
	}

	if len(conversations) == 0 {
		if stage != domain.StageNewLead {
			notes := c.fetchNotes(ctx, contactID)
			if len(notes) > 0 {
				return &domain.ConversationMeta{
					Notes:    notes,
					Messages: []domain.MessageEntry{},
				}, nil
			}
		}
		return nil, nil
	}

	convo := conversations[0]
	meta := &domain.ConversationMeta{
		ConversationID:            convo.ID,
		UnreadCount:               convo.UnreadCount,
		LastMessageDirection:      convo.LastMessageDirection,
		LastMessageDate:           convo.LastMessageDate,
		LastMessageType:           convo.LastMessageType,
		LastOutboundMessageAction: convo.LastOutboundMessageAction,
		LastManualMessageDate:     convo.LastManualMessageDate,
		Notes:                     []domain.NoteEntry{},
		Messages:                  []domain.MessageEntry{},
	}

	if convo.ID != "" {
		c.scanMessages(ctx, convo.ID, meta)
	}
	if stage != domain.StageNewLead {
		meta.Notes = c.fetchNotes(ctx, contactID)
	}

	return meta, nil
}

// scanMessages walks the conversation's recent messages, counting outbound
// traffic, tracking the last human outbound touch per channel, and keeping
// a bounded set of text excerpts.
func (c *ConversationCollector) scanMessages(ctx context.Context, conversationID string, meta *domain.ConversationMeta) {
	messages, err := c.client.ConversationMessages(ctx, conversationID)
	if err != nil {
		c.log.WithContext(ctx).Warn("message scan failed",
			"conversationId", conversationID, "error", err)
		return
	}

	for _, m := range messages {
		if m.ResolvedDirection() != domain.DirectionOutbound {
			continue
		}
		meta.OutboundCount++
		// Automated touches do not reset the per-channel cadence clocks;
		// only a human reaching out counts as an attempt.
		if classifySource(m) == domain.SourceAutomated {
			continue
		}
		ts := m.Timestamp()
		if ts.IsZero() {
			continue
		}
		switch messageChannel(m) {
		case domain.ChannelCall:
			if ts.After(meta.LastOutboundCallDate.Time) {
				meta.LastOutboundCallDate = ts
			}
		case domain.ChannelSMS:
			if ts.After(meta.LastOutboundSmsDate.Time) {
				meta.LastOutboundSmsDate = ts
			}
		case domain.ChannelEmail:
			if ts.After(meta.LastOutboundEmailDate.Time) {
				meta.LastOutboundEmailDate = ts
			}
		}
	}

	emailFetches := 0
	limit := len(messages)
	if limit > recentMessageLimit {
		limit = recentMessageLimit
	}
	for _, m := range messages[:limit] {
		direction := m.ResolvedDirection()
		if direction == "" {
			direction = "unknown"
		}

		var text string
		if m.MessageType == "TYPE_EMAIL" && emailFetches < emailBodyFetchLimit {
			if m.ID != "" {
				if body, err := c.client.MessageBody(ctx, m.ID); err == nil {
					text = sanitize.StripReplyChain(sanitize.HTMLToText(body))
				}
			}
			emailFetches++
		} else {
			text = m.Body
			if text == "" {
				text = m.Message
			}
		}
		text = sanitize.Truncate(sanitize.CollapseWhitespace(text), excerptMaxLen)
		if text == "" {
			continue
		}

		var source string
		if direction == domain.DirectionOutbound {
			source = classifySource(m)
		}
		meta.Messages = append(meta.Messages, domain.MessageEntry{
			Direction: direction,
			Channel:   messageChannel(m),
			Source:    source,
			Body:      text,
			Date:      m.Timestamp(),
		})
	}
}

// fetchNotes returns the contact's notes newest-first. Note failures are
// non-fatal; the contact simply carries no notes.
func (c *ConversationCollector) fetchNotes(ctx context.Context, contactID string) []domain.NoteEntry {
	notes, err := c.client.ContactNotes(ctx, contactID)
	if err != nil {
		c.log.WithContext(ctx).Warn("notes fetch failed",
			"contactId", contactID, "error", err)
		return []domain.NoteEntry{}
	}
	out := make([]domain.NoteEntry, 0, len(notes))
	for _, n := range notes {
		out = append(out, domain.NoteEntry{
			Body:      sanitize.CollapseWhitespace(n.Body),
			DateAdded: n.DateAdded,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateAdded.After(out[j].DateAdded.Time)
	})
	return out
}

// classifySource decides whether a message was sent by a human, a
// workflow, or an API integration.
func classifySource(m transport.Message) string {
	switch strings.ToLower(m.Source) {
	case "workflow":
		return domain.SourceAutomated
	case "api":
		return domain.SourceAPI
	case "app", "ui":
		return domain.SourceManual
	}
	if m.UserID != "" {
		return domain.SourceManual
	}
	return domain.SourceAutomated
}

// messageChannel maps the CRM's message type names onto channel names.
func messageChannel(m transport.Message) string {
	mt := strings.ToUpper(m.MessageType)
	if mt == "" {
		mt = strings.ToUpper(m.Type)
	}
	switch {
	case strings.Contains(mt, "EMAIL"):
		return domain.ChannelEmail
	case strings.Contains(mt, "SMS"), strings.Contains(mt, "TEXT"):
		return domain.ChannelSMS
	case strings.Contains(mt, "CALL"):
		return domain.ChannelCall
	case strings.Contains(mt, "FB"), strings.Contains(mt, "FACEBOOK"):
		return "facebook"
	case strings.Contains(mt, "IG"), strings.Contains(mt, "INSTAGRAM"):
		return "instagram"
	case strings.Contains(mt, "LIVE_CHAT"), strings.Contains(mt, "WEBCHAT"):
		return "live_chat"
	default:
		return "other"
	}
}
