package feedback

import "bodywise/internal/poses"

// Severity grades toast messages for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ColorHint tells the overlay renderer how to color landmarks.
type ColorHint string

const (
	ColorNeutral    ColorHint = "neutral"
	ColorCorrect    ColorHint = "correct"
	ColorAdjustment ColorHint = "adjustment"
)

// Presenter consumes guidance output from the capture controller. All
// methods are fire-and-forget; the controller never waits on them.
type Presenter interface {
	// Announce surfaces spoken or printed instruction text.
	Announce(text string)
	// ShowOverlay renders detected landmarks with a correctness color hint.
	ShowOverlay(landmarks []poses.Landmark, hint ColorHint)
	// Toast displays a short transient message.
	Toast(title, message string, severity Severity)
}

// Noop discards all presentation calls.
type Noop struct{}

func (Noop) Announce(string)                         {}
func (Noop) ShowOverlay([]poses.Landmark, ColorHint) {}
func (Noop) Toast(string, string, Severity)          {}
