package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransient marks failures expected to resolve on retry, such as the
	// analysis service reporting temporary unavailability.
	ErrTransient = errors.New("transient failure")
	// ErrValidation marks permanently malformed input or a permanent
	// rejection by a remote service.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks missing or unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnavailable marks an unreachable collaborator (network down,
	// endpoint gone). Not retried.
	ErrUnavailable = errors.New("unavailable")
	// ErrNotReady marks a source that has not produced valid output yet,
	// such as a camera stream without reported dimensions.
	ErrNotReady = errors.New("not ready")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTransient reports whether err carries the transient marker.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsNotReady reports whether err carries the not-ready marker.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}

// Classify returns a short label for an error suitable for logs and
// telemetry so transient exhaustion stays distinguishable from permanent
// rejections.
func Classify(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTransient):
		return "transient"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	default:
		return "unknown"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
