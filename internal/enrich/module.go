package enrich

import (
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"
)

// Module wires the enrichment service.
type Module struct {
	service *Service
}

// NewModule creates a new enrichment module.
func NewModule(cfg config.EnrichConfig, log *logger.Logger) *Module {
	return &Module{service: New(log, cfg.GetEnrichMaxParallel())}
}

// Service returns the enrichment service.
func (m *Module) Service() *Service {
	return m.service
}
