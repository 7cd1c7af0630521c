package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
	"github.com/pharmacy/backend/internal/infrastructure/logger"
	"github.com/pharmacy/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// HandleError maps an error to the `{"detail": ...}` payload and the status
// implied by its domain code. Non-domain errors and invariant violations are
// logged at error level before the generic 500 goes out.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	status, resp := dto.FromError(err)
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, resp)
}

// BadRequest sends a 400 with the given detail
func (h *BaseHandler) BadRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}

// parseIDParam parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, shared.NewDomainErrorf(shared.CodeValidation, "Invalid ID %q", c.Param("id"))
	}
	return id, nil
}
