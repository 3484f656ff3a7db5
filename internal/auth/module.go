// Package auth wires the operator authentication module.
package auth

import (
	"pipeline_portal_backend/internal/auth/handler"
	"pipeline_portal_backend/internal/auth/service"
	apphttp "pipeline_portal_backend/internal/http"
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"
)

// Module wires the auth service and its HTTP handler.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule creates the auth module.
func NewModule(cfg config.AuthServiceConfig, log *logger.Logger) *Module {
	svc := service.New(cfg, log)
	return &Module{
		service: svc,
		handler: handler.New(svc),
	}
}

// Service returns the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// Name implements apphttp.Module.
func (m *Module) Name() string { return "auth" }

// RegisterRoutes mounts the login endpoints with the stricter auth rate
// limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)
}
