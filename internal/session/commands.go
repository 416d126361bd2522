package session

import (
	"time"

	"bodywise/internal/feedback"
	"bodywise/internal/photostore"
	"bodywise/internal/poses"
)

// command is a side effect requested by the transition function. The
// controller executes commands after the state swap; the transition function
// itself performs no I/O.
type command interface {
	commandName() string
}

type cmdAnnounce struct {
	text string
}

type cmdOverlay struct {
	landmarks []poses.Landmark
	hint      feedback.ColorHint
}

// cmdShowGuide renders the advisory guide template for a pose, when one is
// available.
type cmdShowGuide struct {
	spec poses.Spec
}

type cmdToast struct {
	title    string
	message  string
	severity feedback.Severity
}

type cmdStartTicker struct {
	interval time.Duration
}

type cmdStopTicker struct{}

// cmdAfter schedules next to be delivered after delay.
type cmdAfter struct {
	delay time.Duration
	next  event
}

// cmdBeginAnalysis samples a frame and runs one analysis round trip
// asynchronously, reporting back via analysisFinished or sampleUnavailable.
type cmdBeginAnalysis struct {
	epoch int
	spec  poses.Spec
}

type cmdAbortAnalysis struct{}

type cmdPersistRecord struct {
	record photostore.Record
}

type cmdResetRecord struct {
	poseID string
}

type cmdEvaluatePrerequisites struct{}

type cmdNotifySessionStarted struct {
	poseCount int
}

type cmdNotifyPoseConfirmed struct {
	poseName string
	index    int
	total    int
}

type cmdNotifySessionCompleted struct {
	poseCount int
}

type cmdNotifyError struct {
	err     error
	context string
}

func (cmdAnnounce) commandName() string               { return "announce" }
func (cmdOverlay) commandName() string                { return "overlay" }
func (cmdShowGuide) commandName() string              { return "show_guide" }
func (cmdToast) commandName() string                  { return "toast" }
func (cmdStartTicker) commandName() string            { return "start_ticker" }
func (cmdStopTicker) commandName() string             { return "stop_ticker" }
func (cmdAfter) commandName() string                  { return "after" }
func (cmdBeginAnalysis) commandName() string          { return "begin_analysis" }
func (cmdAbortAnalysis) commandName() string          { return "abort_analysis" }
func (cmdPersistRecord) commandName() string          { return "persist_record" }
func (cmdResetRecord) commandName() string            { return "reset_record" }
func (cmdEvaluatePrerequisites) commandName() string  { return "evaluate_prerequisites" }
func (cmdNotifySessionStarted) commandName() string   { return "notify_session_started" }
func (cmdNotifyPoseConfirmed) commandName() string    { return "notify_pose_confirmed" }
func (cmdNotifySessionCompleted) commandName() string { return "notify_session_completed" }
func (cmdNotifyError) commandName() string            { return "notify_error" }
