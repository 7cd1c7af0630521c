package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/pharmacy/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(shared.CodeNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(shared.CodeValidation))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(shared.CodeInsufficientStock))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(shared.CodeInvariantViolation))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("SOMETHING_ELSE"))
}

func TestFromError(t *testing.T) {
	status, resp := FromError(shared.NewDomainError(shared.CodeNotFound, "Supplier abc not found"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Supplier abc not found", resp.Detail)

	// Wrapped domain errors still map
	wrapped := fmt.Errorf("reconcile: %w", shared.NewDomainError(shared.CodeInsufficientStock, "Insufficient stock for LOT-001"))
	status, resp = FromError(wrapped)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Insufficient stock for LOT-001", resp.Detail)

	// Unexpected errors never leak their message
	status, resp = FromError(errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", resp.Detail)
}
