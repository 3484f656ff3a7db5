package handler

import (
	"context"
	"net/http"

	"pipeline_portal_backend/internal/dashboard/service"
	"pipeline_portal_backend/internal/dashboard/transport"
	"pipeline_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// RefreshTrigger enqueues an out-of-band pipeline refresh.
type RefreshTrigger interface {
	TriggerRefresh(ctx context.Context, requestedBy string) error
}

type Handler struct {
	svc     *service.Service
	refresh RefreshTrigger
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// SetRefreshTrigger enables the manual refresh endpoint. Without it the
// route responds 503.
func (h *Handler) SetRefreshTrigger(trigger RefreshTrigger) {
	h.refresh = trigger
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pipeline", h.Pipeline)
	rg.GET("/actions", h.Actions)
	rg.GET("/status", h.Status)
	rg.POST("/status", h.UpdateStatus)
	rg.POST("/send/:id", h.Send)
	rg.POST("/move/:id", h.Move)
	rg.POST("/note/:id", h.Note)
	rg.POST("/dismiss/:id", h.Dismiss)
	rg.POST("/refresh", h.Refresh)
}

func (h *Handler) Refresh(c *gin.Context) {
	if h.refresh == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "refresh scheduling not configured")
		return
	}
	operator := httpkit.Operator(c)
	if operator == "" {
		operator = "operator"
	}
	if err := h.refresh.TriggerRefresh(c.Request.Context(), operator); err != nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "failed to schedule refresh")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

func (h *Handler) Pipeline(c *gin.Context) {
	out, err := h.svc.Pipeline(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, out)
}

func (h *Handler) Actions(c *gin.Context) {
	data, err := h.svc.Actions(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, data)
}

func (h *Handler) Status(c *gin.Context) {
	statuses, err := h.svc.Status(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, statuses)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var entries map[string]transport.StatusEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.svc.UpdateStatus(c.Request.Context(), entries); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}

func (h *Handler) Send(c *gin.Context) {
	var req transport.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	resp, err := h.svc.Send(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Move(c *gin.Context) {
	var req transport.MoveRequest
	// The body is optional; an empty move falls back to the action's
	// own target stage.
	_ = c.ShouldBindJSON(&req)

	if err := h.svc.Move(c.Request.Context(), c.Param("id"), req); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}

func (h *Handler) Note(c *gin.Context) {
	var req transport.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "note body required")
		return
	}
	if err := h.svc.Note(c.Request.Context(), c.Param("id"), req.Body); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}

func (h *Handler) Dismiss(c *gin.Context) {
	if err := h.svc.Dismiss(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}
