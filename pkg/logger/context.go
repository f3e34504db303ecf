package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

// FromContext retrieves the request logger, or a no-op logger when none is set
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if lg, ok := ctx.Value(contextKey{}).(*zap.Logger); ok && lg != nil {
			return lg
		}
	}
	return zap.NewNop()
}

// WithContext stores the logger on the context
func WithContext(ctx context.Context, lg *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, lg)
}

// WithTenant returns a context whose logger carries the tenant fields
func WithTenant(ctx context.Context, tenantID, role string) context.Context {
	lg := FromContext(ctx).With(zap.String("tenant_id", tenantID), zap.String("role", role))
	return WithContext(ctx, lg)
}
