package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appinventory "github.com/pharmacy/backend/internal/application/inventory"
	"github.com/pharmacy/backend/internal/infrastructure/telemetry"
	"github.com/pharmacy/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/attribute"
)

// InventoryHandler exposes the inventory ledger read surface and the sale
// decrement boundary
type InventoryHandler struct {
	BaseHandler
	service *appinventory.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *appinventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("", h.List)
		inventory.GET("/:id", h.GetByID)
		inventory.POST("/:id/decrement", h.Decrement)
	}
}

// List returns inventory batches with filtering and pagination
func (h *InventoryHandler) List(c *gin.Context) {
	var filter appinventory.ListFilter
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

// GetByID returns one inventory batch
func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Decrement records a sale consuming stock from one batch
func (h *InventoryHandler) Decrement(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req appinventory.DecrementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatBindingError(err))
		return
	}

	ctx, span := telemetry.StartServiceSpan(c.Request.Context(), "inventory", "decrement",
		attribute.String(telemetry.SpanAttrBatchID, id.String()),
		attribute.Int64(telemetry.SpanAttrQuantity, req.Quantity),
	)
	defer span.End()

	resp, err := h.service.RecordSaleDecrement(ctx, id, req)
	if err != nil {
		telemetry.RecordError(span, err)
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
