// Package logging builds the slog loggers used across bodywise and defines
// the standardized attribute keys for session, pose, and phase context.
package logging
