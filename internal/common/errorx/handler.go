package errorx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// sentinels maps domain errors to their API representation. Order matters:
// the first match wins.
var sentinels = []struct {
	err error
	api *APIError
}{
	{cnst.ErrAccessDenied, ErrAccessDenied},
	{cnst.ErrForbidden, ErrForbidden},
	{cnst.ErrTenantNotFound, ErrTenantNotFound},
	{cnst.ErrNotFound, ErrResourceNotFound},
	{cnst.ErrCrossTenantWrite, ErrCrossTenantWrite},
	{cnst.ErrCrossTenantReference, ErrCrossTenantReference},
	{cnst.ErrImmutableRecord, ErrImmutableRecord},
}

// ErrorHandler provides unified error handling capabilities
type ErrorHandler struct {
	logger *zap.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// HandleError converts any error to APIError and writes the JSON response
func (h *ErrorHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := ConvertToAPIError(err).clone()
	apiErr.TraceID = ExtractTraceID(c)
	apiErr.Timestamp = time.Now().UTC().Format(time.RFC3339)

	h.logError(c, apiErr, err)

	c.AbortWithStatusJSON(apiErr.HTTPStatus, gin.H{
		"error": apiErr,
	})
}

// ConvertToAPIError converts any error to APIError. Unknown errors become
// a generic internal error without leaking the original message.
func ConvertToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.api
		}
	}
	return ErrInternalServer
}

func (h *ErrorHandler) logError(c *gin.Context, apiErr *APIError, originalErr error) {
	fields := []zap.Field{
		zap.String("trace_id", apiErr.TraceID),
		zap.String("error_code", apiErr.Code),
		zap.String("category", string(apiErr.Category)),
		zap.Int("http_status", apiErr.HTTPStatus),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("client_ip", c.ClientIP()),
	}
	if originalErr != nil && originalErr.Error() != apiErr.Message {
		fields = append(fields, zap.Error(originalErr))
	}
	if len(apiErr.Details) > 0 {
		detailsJSON, _ := json.Marshal(apiErr.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}
	if apiErr.Severity == SeverityCritical {
		buf := make([]byte, 1024*4)
		n := runtime.Stack(buf, false)
		fields = append(fields, zap.String("stack_trace", string(buf[:n])))
	}

	switch apiErr.Severity {
	case SeverityInfo:
		h.logger.Info(apiErr.Message, fields...)
	case SeverityWarning:
		h.logger.Warn(apiErr.Message, fields...)
	default:
		h.logger.Error(apiErr.Message, fields...)
	}
}

// RecoveryMiddleware returns a gin middleware for panic recovery
func (h *ErrorHandler) RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		panicErr := &APIError{
			Code:       "E5000",
			Message:    "Server panic occurred",
			Category:   CategoryInternal,
			Severity:   SeverityCritical,
			HTTPStatus: http.StatusInternalServerError,
			Details: map[string]any{
				"panic": fmt.Sprintf("%v", err),
			},
		}
		h.HandleError(c, panicErr)
	})
}

// ValidationError creates a validation error with details
func ValidationError(field string, reason string) *APIError {
	return ErrInvalidInput.WithDetail("field", field).
		WithDetail("reason", reason).
		WithSuggestion(fmt.Sprintf("Fix the '%s' field and try again", field))
}

// ExtractTraceID prefers the active OpenTelemetry trace, then the
// X-Trace-Id header, and finally generates one.
func ExtractTraceID(c *gin.Context) string {
	if traceID := c.GetString("trace_id"); traceID != "" {
		return traceID
	}
	traceID := ""
	if sc := oteltrace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	} else if h := c.GetHeader("X-Trace-Id"); h != "" {
		traceID = h
	} else {
		traceID = uuid.New().String()
	}
	c.Set("trace_id", traceID)
	return traceID
}
