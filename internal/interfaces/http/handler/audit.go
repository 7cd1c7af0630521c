package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appaudit "github.com/pharmacy/backend/internal/application/audit"
	"github.com/pharmacy/backend/internal/interfaces/http/middleware"
)

// AuditHandler exposes the read-only audit log
type AuditHandler struct {
	BaseHandler
	service *appaudit.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service *appaudit.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// RegisterRoutes registers audit log routes
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit-logs", h.List)
}

// List returns audit entries, newest first
func (h *AuditHandler) List(c *gin.Context) {
	var filter appaudit.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, middleware.FormatBindingError(err))
		return
	}

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
