package logging

import (
	"context"
	"log/slog"

	"bodywise/internal/services"
)

// ContextFields extracts the standardized session, pose, and request
// attributes carried on the context.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]Attr, 0, 3)
	if id, ok := services.SessionIDFromContext(ctx); ok {
		fields = append(fields, String(FieldSessionID, id))
	}
	if pose, ok := services.PoseFromContext(ctx); ok {
		fields = append(fields, String(FieldPose, pose))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, String(FieldRequestID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
