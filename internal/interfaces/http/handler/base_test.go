package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pharmacy/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	h := &BaseHandler{}
	router.GET("/", func(c *gin.Context) {
		h.HandleError(c, err)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestHandleError_DomainErrors(t *testing.T) {
	w := performError(t, shared.NewDomainError(shared.CodeNotFound, "Purchase xyz not found"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail": "Purchase xyz not found"}`, w.Body.String())

	w = performError(t, shared.NewDomainError(shared.CodeInsufficientStock, "Insufficient stock for LOT-001"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performError(t, shared.NewDomainError(shared.CodeInvariantViolation, "batch record no longer exists"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleError_UnexpectedError(t *testing.T) {
	w := performError(t, errors.New("dial tcp: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail": "Internal server error"}`, w.Body.String())
}

func TestParseIDParam(t *testing.T) {
	router := gin.New()
	router.GET("/:id", func(c *gin.Context) {
		id, err := parseIDParam(c)
		if err != nil {
			(&BaseHandler{}).HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id.String()})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ID")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/0c27d166-3a5f-4a48-9c10-1f0f25fb1a40", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSystemHandler_Health(t *testing.T) {
	router := gin.New()
	NewSystemHandler("pharmacy-backend", nil).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pharmacy-backend")
}

type failingPinger struct{}

func (failingPinger) Ping() error { return errors.New("down") }

func TestSystemHandler_ReadyDegraded(t *testing.T) {
	router := gin.New()
	NewSystemHandler("pharmacy-backend", failingPinger{}).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unreachable")
}
