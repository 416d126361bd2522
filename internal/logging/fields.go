package logging

// Standardized attribute keys. Console output folds the component into the
// message prefix; everything else renders as key=value pairs.
const (
	FieldComponent = "component"
	FieldSessionID = "session_id"
	FieldPose      = "pose"
	FieldPhase     = "phase"
	FieldRequestID = "request_id"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldErrorKind = "error_kind"
)
