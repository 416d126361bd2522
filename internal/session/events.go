package session

import (
	"bodywise/internal/analysis"
	"bodywise/internal/frames"
	"bodywise/internal/photostore"
)

// event is the closed set of inputs the transition function accepts. Events
// originate from the public API, the scheduler, or finished async work.
type event interface {
	eventName() string
}

// prerequisitesEvaluated carries the outcome of a prerequisite check.
type prerequisitesEvaluated struct {
	cameraErr      error
	missingProfile []string
	advisorReady   bool
}

// beginRequested starts pose progression from the ready phase.
type beginRequested struct{}

// prepElapsed fires when the pose preparation delay completes.
type prepElapsed struct {
	epoch int
}

// tickFired is the periodic sampling tick. A tick outside the guiding phase
// is a no-op, which is what keeps at most one analysis in flight.
type tickFired struct{}

// sampleUnavailable reports that the frame source had no decodable frame.
type sampleUnavailable struct {
	epoch int
}

// analysisFinished carries the result or failure of one analysis round trip.
type analysisFinished struct {
	epoch  int
	frame  frames.Frame
	result analysis.Result
	err    error
}

// captureDwellElapsed fires after the capture flash dwell, carrying the
// record assembled from the confirmed frame.
type captureDwellElapsed struct {
	epoch  int
	record photostore.Record
}

// confirmDwellElapsed fires after the confirmation dwell and advances the
// session to the next pose or to completion.
type confirmDwellElapsed struct {
	epoch int
}

// pauseRequested suspends sampling and analysis.
type pauseRequested struct{}

// resumeRequested re-enters pose initialization for the current pose.
type resumeRequested struct{}

// retryPoseRequested clears the active pose's record and restarts it.
type retryPoseRequested struct{}

// retryPrerequisitesRequested resets the session and re-runs the
// prerequisite checks from scratch.
type retryPrerequisitesRequested struct{}

// cameraLost reports the capture device detaching mid-session.
type cameraLost struct {
	device string
}

// stopRequested tears the session down.
type stopRequested struct{}

func (prerequisitesEvaluated) eventName() string      { return "prerequisites_evaluated" }
func (beginRequested) eventName() string              { return "begin_requested" }
func (prepElapsed) eventName() string                 { return "prep_elapsed" }
func (tickFired) eventName() string                   { return "tick_fired" }
func (sampleUnavailable) eventName() string           { return "sample_unavailable" }
func (analysisFinished) eventName() string            { return "analysis_finished" }
func (captureDwellElapsed) eventName() string         { return "capture_dwell_elapsed" }
func (confirmDwellElapsed) eventName() string         { return "confirm_dwell_elapsed" }
func (pauseRequested) eventName() string              { return "pause_requested" }
func (resumeRequested) eventName() string             { return "resume_requested" }
func (retryPoseRequested) eventName() string          { return "retry_pose_requested" }
func (retryPrerequisitesRequested) eventName() string { return "retry_prerequisites_requested" }
func (cameraLost) eventName() string                  { return "camera_lost" }
func (stopRequested) eventName() string               { return "stop_requested" }
