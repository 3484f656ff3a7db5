// Package dashboard wires the action board: board building from enriched
// output, the operator-facing API, and the Redis status repository.
package dashboard

import (
	"pipeline_portal_backend/internal/dashboard/handler"
	"pipeline_portal_backend/internal/dashboard/repository"
	"pipeline_portal_backend/internal/dashboard/service"
	apphttp "pipeline_portal_backend/internal/http"
	"pipeline_portal_backend/internal/pipeline/domain"
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Module wires the dashboard service and its HTTP handler.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// Config is the configuration surface the dashboard module needs.
type Config interface {
	config.DashboardConfig
	GetStageID(stageName string) string
}

// NewModule creates the dashboard module.
func NewModule(cfg Config, store service.Store, crm service.CRMGateway, rdb *redis.Client, log *logger.Logger) *Module {
	repo := repository.New(rdb)
	svc := service.New(store, crm, repo, log,
		cfg.GetSendEmailFrom(),
		cfg.GetStageID(domain.StageInProgress),
		cfg.GetStageID(domain.StageCooledOff))
	return &Module{
		service: svc,
		handler: handler.New(svc),
	}
}

// Service returns the dashboard service.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetRefreshTrigger wires the manual refresh endpoint to the background
// scheduler.
func (m *Module) SetRefreshTrigger(trigger handler.RefreshTrigger) {
	m.handler.SetRefreshTrigger(trigger)
}

// Name implements apphttp.Module.
func (m *Module) Name() string { return "dashboard" }

// RegisterRoutes mounts the board endpoints behind authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/dashboard"))
}
