package errorx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConvertToAPIError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("resolve: %w", cnst.ErrAccessDenied), http.StatusUnauthorized, "E2004"},
		{fmt.Errorf("resolve: %w", cnst.ErrForbidden), http.StatusForbidden, "E3001"},
		{cnst.ErrTenantNotFound, http.StatusNotFound, "E4002"},
		{fmt.Errorf("load job: %w", cnst.ErrNotFound), http.StatusNotFound, "E4001"},
		{cnst.ErrCrossTenantWrite, http.StatusBadRequest, "E1004"},
		{cnst.ErrCrossTenantReference, http.StatusBadRequest, "E1005"},
		{cnst.ErrImmutableRecord, http.StatusConflict, "E4093"},
		{ValidationError("title", "required"), http.StatusBadRequest, "E1001"},
		{errors.New("connection reset"), http.StatusInternalServerError, "E5001"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := ConvertToAPIError(tt.err)
			assert.Equal(t, tt.status, got.HTTPStatus)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestWithDetail_DoesNotMutateTemplate(t *testing.T) {
	e := ValidationError("title", "required")
	assert.Equal(t, "title", e.Details["field"])
	assert.Len(t, e.Suggestions, 2)
	assert.Nil(t, ErrInvalidInput.Details)
	assert.Len(t, ErrInvalidInput.Suggestions, 1)

	msg := ErrResourceNotFound.WithMessage("job 42 not found")
	assert.Equal(t, "job 42 not found", msg.Message)
	assert.Equal(t, "Requested resource not found", ErrResourceNotFound.Message)
}

func TestHandleError_WritesJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewErrorHandler(zap.NewNop())

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		h.HandleError(c, fmt.Errorf("lookup: %w", cnst.ErrForbidden))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Trace-Id", "trace-1")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	var body struct {
		Error APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "E3001", body.Error.Code)
	assert.Equal(t, "trace-1", body.Error.TraceID)
	assert.Empty(t, ErrForbidden.TraceID)
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewErrorHandler(zap.NewNop())

	r := gin.New()
	r.Use(h.RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "E5000")
}
