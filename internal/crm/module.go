package crm

import (
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Module wires the CRM client and its collectors.
type Module struct {
	client        *Client
	pipeline      *PipelineCollector
	conversations *ConversationCollector
}

// NewModule creates the CRM module. rdb may be nil, in which case OAuth
// token caching is unavailable and the static token is used.
func NewModule(cfg config.CRMConfig, rdb *redis.Client, log *logger.Logger) *Module {
	tokens := NewTokenProvider(cfg, rdb, log)
	client := NewClient(cfg, tokens, log)
	return &Module{
		client:        client,
		pipeline:      NewPipelineCollector(client, cfg, log),
		conversations: NewConversationCollector(client, cfg, log),
	}
}

// Client returns the raw CRM API client.
func (m *Module) Client() *Client { return m.client }

// Pipeline returns the opportunity collector.
func (m *Module) Pipeline() *PipelineCollector { return m.pipeline }

// Conversations returns the conversation collector.
func (m *Module) Conversations() *ConversationCollector { return m.conversations }
