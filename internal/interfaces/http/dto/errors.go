package dto

import (
	"errors"
	"net/http"

	"github.com/pharmacy/backend/internal/domain/shared"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// INVARIANT_VIOLATION is a 500: it means a prior receipt vanished from the
// ledger, which is corruption, not a caller mistake.
var errorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeValidation:         http.StatusBadRequest,
	shared.CodeInsufficientStock:  http.StatusBadRequest,
	shared.CodeInvariantViolation: http.StatusInternalServerError,
	"ALREADY_EXISTS":              http.StatusConflict,
}

// HTTPStatus returns the HTTP status code for a domain error code.
// Unknown codes map to 500.
func HTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts an error into an HTTP status and error payload. Domain
// errors keep their message; anything else is reported as a generic internal
// error so internals never leak to clients.
func FromError(err error) (int, ErrorResponse) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return HTTPStatus(domainErr.Code), NewErrorResponse(domainErr.Message)
	}
	return http.StatusInternalServerError, NewErrorResponse("Internal server error")
}
