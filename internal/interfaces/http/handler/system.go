package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pharmacy/backend/internal/interfaces/http/dto"
)

// Pinger reports whether the database connection is alive
type Pinger interface {
	Ping() error
}

// SystemHandler exposes health endpoints
type SystemHandler struct {
	serviceName string
	db          Pinger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(serviceName string, db Pinger) *SystemHandler {
	return &SystemHandler{serviceName: serviceName, db: db}
}

// RegisterRoutes registers health routes on the engine root
func (h *SystemHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}

// Health reports liveness
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: h.serviceName,
	})
}

// Ready reports readiness including database connectivity
func (h *SystemHandler) Ready(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:   "ok",
		Service:  h.serviceName,
		Database: "ok",
	}
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}
