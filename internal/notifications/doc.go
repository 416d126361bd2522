// Package notifications delivers session lifecycle push notifications via
// ntfy. When no topic is configured a noop implementation keeps callers
// unconditional.
package notifications
