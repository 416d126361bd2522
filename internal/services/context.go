package services

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	poseKey      contextKey = "pose"
	requestIDKey contextKey = "request_id"
)

// WithSessionID annotates context with the capture session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPose annotates context with the active pose identifier.
func WithPose(ctx context.Context, poseID string) context.Context {
	if poseID == "" {
		return ctx
	}
	return context.WithValue(ctx, poseKey, poseID)
}

// PoseFromContext returns the active pose identifier if present.
func PoseFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(poseKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier for one
// analysis attempt.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
