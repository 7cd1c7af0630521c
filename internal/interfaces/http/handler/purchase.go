package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apppurchase "github.com/pharmacy/backend/internal/application/purchase"
	"github.com/pharmacy/backend/internal/infrastructure/telemetry"
	"github.com/pharmacy/backend/internal/interfaces/http/dto"
	"github.com/pharmacy/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/attribute"
)

// PurchaseHandler exposes the purchase reconciliation operations
type PurchaseHandler struct {
	BaseHandler
	service *apppurchase.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(service *apppurchase.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

// RegisterRoutes registers purchase routes
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.Create)
		purchases.GET("", h.List)
		purchases.GET("/:id", h.GetByID)
		purchases.PUT("/:id", h.Update)
		purchases.DELETE("/:id", h.Delete)
	}
}

// Create records a purchase and applies its receipts to the inventory ledger
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req apppurchase.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatBindingError(err))
		return
	}

	ctx, span := telemetry.StartServiceSpan(c.Request.Context(), "purchase", "create",
		attribute.String(telemetry.SpanAttrSupplierID, req.SupplierID.String()),
	)
	defer span.End()

	resp, err := h.service.Create(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update replaces a purchase's header and line items; the ledger absorbs the
// net difference against what was stored
func (h *PurchaseHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req apppurchase.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatBindingError(err))
		return
	}

	ctx, span := telemetry.StartServiceSpan(c.Request.Context(), "purchase", "update",
		attribute.String(telemetry.SpanAttrPurchaseID, id.String()),
	)
	defer span.End()

	resp, err := h.service.Update(ctx, id, req)
	if err != nil {
		telemetry.RecordError(span, err)
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a purchase after reversing its receipts from the ledger
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	ctx, span := telemetry.StartServiceSpan(c.Request.Context(), "purchase", "delete",
		attribute.String(telemetry.SpanAttrPurchaseID, id.String()),
	)
	defer span.End()

	if err := h.service.Delete(ctx, id, c.Query("performed_by")); err != nil {
		telemetry.RecordError(span, err)
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Purchase deleted"})
}

// GetByID returns one purchase with its lines
func (h *PurchaseHandler) GetByID(c *gin.Context) {
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

// List returns purchases with filtering and pagination
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter apppurchase.ListFilter
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
