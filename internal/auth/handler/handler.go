package handler

import (
	"net/http"
	"time"

	"pipeline_portal_backend/internal/auth/service"
	"pipeline_portal_backend/internal/auth/transport"
	"pipeline_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const sessionCookieName = "session"

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request")
		return
	}

	token, expiresAt, err := h.svc.Login(req.Username, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", c.Request.TLS != nil, true)

	httpkit.OK(c, transport.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	httpkit.OK(c, gin.H{"success": true})
}
