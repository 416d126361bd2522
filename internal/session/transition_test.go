package session

import (
	"errors"
	"testing"
	"time"

	"bodywise/internal/analysis"
	"bodywise/internal/frames"
	"bodywise/internal/photostore"
	"bodywise/internal/poses"
)

func testCatalog(t *testing.T) *poses.Catalog {
	t.Helper()
	catalog, err := poses.NewCatalog([]poses.Spec{
		{ID: "front", Name: "Front Pose", Description: "Stand facing the camera with arms out.", ShortInstruction: "Face the camera", Order: 0},
		{ID: "back", Name: "Back Pose", Description: "Stand with your back to the camera.", ShortInstruction: "Turn around", Order: 1},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return catalog
}

func testTimings() timings {
	return timings{
		sampleInterval: 3200 * time.Millisecond,
		prepDelay:      3 * time.Second,
		captureDwell:   1500 * time.Millisecond,
		confirmDwell:   time.Second,
	}
}

func readyState(t *testing.T, catalog *poses.Catalog) state {
	t.Helper()
	st := newState(catalog)
	st, _ = transition(st, prerequisitesEvaluated{advisorReady: true}, catalog, testTimings())
	if st.phase != PhaseReady {
		t.Fatalf("expected ready, got %s", st.phase)
	}
	return st
}

// advance walks the state machine from ready into the guiding phase for the
// current pose.
func guidingState(t *testing.T, catalog *poses.Catalog) state {
	t.Helper()
	st := readyState(t, catalog)
	st, _ = transition(st, beginRequested{}, catalog, testTimings())
	st, _ = transition(st, prepElapsed{epoch: st.epoch}, catalog, testTimings())
	if st.phase != PhaseGuiding {
		t.Fatalf("expected guiding, got %s", st.phase)
	}
	return st
}

func commandNames(cmds []command) []string {
	names := make([]string, len(cmds))
	for i, cmd := range cmds {
		names[i] = cmd.commandName()
	}
	return names
}

func hasCommand(cmds []command, name string) bool {
	for _, cmd := range cmds {
		if cmd.commandName() == name {
			return true
		}
	}
	return false
}

func TestPrerequisitesRouteToLabeledPhases(t *testing.T) {
	catalog := testCatalog(t)
	tests := []struct {
		name  string
		event prerequisitesEvaluated
		want  Phase
	}{
		{"all met", prerequisitesEvaluated{advisorReady: true}, PhaseReady},
		{"camera failure", prerequisitesEvaluated{cameraErr: errors.New("no device"), advisorReady: true}, PhaseErrorCamera},
		{"profile incomplete", prerequisitesEvaluated{missingProfile: []string{"height"}, advisorReady: true}, PhasePrerequisitesUnmet},
		{"advisor not ready", prerequisitesEvaluated{advisorReady: false}, PhaseErrorService},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := newState(catalog)
			st, _ = transition(st, tc.event, catalog, testTimings())
			if st.phase != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, st.phase)
			}
		})
	}
}

func TestBeginOnlyFromReady(t *testing.T) {
	catalog := testCatalog(t)
	st := newState(catalog)

	next, cmds := transition(st, beginRequested{}, catalog, testTimings())
	if next.phase != PhaseIdle || len(cmds) != 0 {
		t.Fatalf("begin from idle must be a no-op, got %s %v", next.phase, commandNames(cmds))
	}

	st = readyState(t, catalog)
	next, cmds = transition(st, beginRequested{}, catalog, testTimings())
	if next.phase != PhaseInitializingPose || next.poseIndex != 0 {
		t.Fatalf("expected initializing_pose at index 0, got %s at %d", next.phase, next.poseIndex)
	}
	for _, want := range []string{"notify_session_started", "announce", "after"} {
		if !hasCommand(cmds, want) {
			t.Fatalf("missing %s command: %v", want, commandNames(cmds))
		}
	}
}

func TestPrepElapsedStartsTicker(t *testing.T) {
	catalog := testCatalog(t)
	st := readyState(t, catalog)
	st, _ = transition(st, beginRequested{}, catalog, testTimings())

	next, cmds := transition(st, prepElapsed{epoch: st.epoch}, catalog, testTimings())
	if next.phase != PhaseGuiding {
		t.Fatalf("expected guiding, got %s", next.phase)
	}
	if !hasCommand(cmds, "start_ticker") {
		t.Fatalf("expected start_ticker, got %v", commandNames(cmds))
	}
}

func TestStalePrepElapsedDropped(t *testing.T) {
	catalog := testCatalog(t)
	st := readyState(t, catalog)
	st, _ = transition(st, beginRequested{}, catalog, testTimings())

	next, cmds := transition(st, prepElapsed{epoch: st.epoch - 1}, catalog, testTimings())
	if next.phase != PhaseInitializingPose || len(cmds) != 0 {
		t.Fatalf("stale prep event must be dropped, got %s %v", next.phase, commandNames(cmds))
	}
}

func TestTickStartsSingleAnalysis(t *testing.T) {
	catalog := testCatalog(t)
	st := guidingState(t, catalog)

	next, cmds := transition(st, tickFired{}, catalog, testTimings())
	if next.phase != PhaseAnalyzing {
		t.Fatalf("expected analyzing, got %s", next.phase)
	}
	if !hasCommand(cmds, "begin_analysis") {
		t.Fatalf("expected begin_analysis, got %v", commandNames(cmds))
	}

	// Second tick while the call is outstanding must be a no-op.
	again, cmds := transition(next, tickFired{}, catalog, testTimings())
	if again.phase != PhaseAnalyzing || len(cmds) != 0 {
		t.Fatalf("tick during analyzing must be a no-op, got %s %v", again.phase, commandNames(cmds))
	}
}

func TestSampleUnavailableReturnsToGuiding(t *testing.T) {
	catalog := testCatalog(t)
	st := guidingState(t, catalog)
	st, _ = transition(st, tickFired{}, catalog, testTimings())

	next, cmds := transition(st, sampleUnavailable{epoch: st.epoch}, catalog, testTimings())
	if next.phase != PhaseGuiding {
		t.Fatalf("expected guiding, got %s", next.phase)
	}
	if len(cmds) != 0 {
		t.Fatalf("sampling errors are silent, got %v", commandNames(cmds))
	}
}

func TestIncorrectPoseSurfacesFeedback(t *testing.T) {
	catalog := testCatalog(t)
	st := guidingState(t, catalog)
	st, _ = transition(st, tickFired{}, catalog, testTimings())

	result := analysis.Result{
		Feedback:      "Raise your left arm",
		IsCorrectPose: false,
		Landmarks:     []poses.Landmark{{Name: "left_wrist", X: 0.3, Y: 0.7}},
	}
	next, cmds := transition(st, analysisFinished{epoch: st.epoch, result: result}, catalog, testTimings())
	if next.phase != PhaseGuiding || next.correctness != CorrectnessAdjustmentNeeded {
		t.Fatalf("expected guiding/adjustment, got %s/%s", next.phase, next.correctness)
	}
	if record := next.photos[0]; record.IsCorrect != nil {
		t.Fatalf("incorrect pose must not touch the photo record: %+v", record)
	}
	var announced string
	for _, cmd := range cmds {
		if a, ok := cmd.(cmdAnnounce); ok {
			announced = a.text
		}
	}
	if announced != result.Feedback {
		t.Fatalf("expected feedback announced verbatim, got %q", announced)
	}
}

func TestAnalysisFailureIsAbsorbed(t *testing.T) {
	catalog := testCatalog(t)
	st := guidingState(t, catalog)
	st, _ = transition(st, tickFired{}, catalog, testTimings())

	next, cmds := transition(st, analysisFinished{epoch: st.epoch, err: errors.New("retries exhausted")}, catalog, testTimings())
	if next.phase != PhaseGuiding || next.correctness != CorrectnessNeutral {
		t.Fatalf("expected guiding/neutral, got %s/%s", next.phase, next.correctness)
	}
	cleared := false
	for _, cmd := range cmds {
		if o, ok := cmd.(cmdOverlay); ok && len(o.landmarks) == 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected overlay cleared after failure, got %v", commandNames(cmds))
	}
}

func TestCorrectPoseCapturesAndConfirms(t *testing.T) {
	catalog := testCatalog(t)
	st := guidingState(t, catalog)
	st, _ = transition(st, tickFired{}, catalog, testTimings())

	frame := frames.Frame{Data: []byte("jpeg"), Width: 640, Height: 480, CapturedAt: time.Now().UTC()}
	result := analysis.Result{Feedback: "Looks good", IsCorrectPose: true, Landmarks: []poses.Landmark{}}
	st, cmds := transition(st, analysisFinished{epoch: st.epoch, frame: frame, result: result}, catalog, testTimings())
	if st.phase != PhaseCapturing || st.correctness != CorrectnessCorrect {
		t.Fatalf("expected capturing/correct, got %s/%s", st.phase, st.correctness)
	}
	if !hasCommand(cmds, "stop_ticker") {
		t.Fatalf("capturing must stop the sampling ticker, got %v", commandNames(cmds))
	}

	var dwell cmdAfter
	for _, cmd := range cmds {
		if a, ok := cmd.(cmdAfter); ok {
			dwell = a
		}
	}
	elapsed, ok := dwell.next.(captureDwellElapsed)
	if !ok {
		t.Fatalf("expected capture dwell scheduled, got %v", commandNames(cmds))
	}
	if elapsed.record.IsCorrect == nil || !*elapsed.record.IsCorrect {
		t.Fatalf("scheduled record must be confirmed: %+v", elapsed.record)
	}

	st, cmds = transition(st, elapsed, catalog, testTimings())
	if st.phase != PhaseConfirmed {
		t.Fatalf("expected confirmed, got %s", st.phase)
	}
	if !st.photos[0].Confirmed() {
		t.Fatalf("photo record not confirmed: %+v", st.photos[0])
	}
	for _, want := range []string{"persist_record", "notify_pose_confirmed", "after"} {
		if !hasCommand(cmds, want) {
			t.Fatalf("missing %s command: %v", want, commandNames(cmds))
		}
	}
}

func TestConfirmAdvancesToNextPose(t *testing.T) {
	catalog := testCatalog(t)
	st := confirmedState(t, catalog)

	next, cmds := transition(st, confirmDwellElapsed{epoch: st.epoch}, catalog, testTimings())
	if next.phase != PhaseInitializingPose || next.poseIndex != 1 {
		t.Fatalf("expected initializing_pose at index 1, got %s at %d", next.phase, next.poseIndex)
	}
	if !hasCommand(cmds, "announce") {
		t.Fatalf("next pose must be announced, got %v", commandNames(cmds))
	}
}

func TestConfirmOnLastPoseCompletes(t *testing.T) {
	catalog := testCatalog(t)
	st := confirmedState(t, catalog)
	st, _ = transition(st, confirmDwellElapsed{epoch: st.epoch}, catalog, testTimings())
	st, _ = transition(st, prepElapsed{epoch: st.epoch}, catalog, testTimings())
	st, _ = transition(st, tickFired{}, catalog, testTimings())
	st = confirmPose(t, st, catalog)

	next, cmds := transition(st, confirmDwellElapsed{epoch: st.epoch}, catalog, testTimings())
	if next.phase != PhaseComplete {
		t.Fatalf("expected complete, got %s", next.phase)
	}
	if !next.allConfirmed() {
		t.Fatal("complete requires every record confirmed")
	}
	if !hasCommand(cmds, "stop_ticker") {
		t.Fatalf("completion must clear the sampling interval, got %v", commandNames(cmds))
	}
	if !hasCommand(cmds, "notify_session_completed") {
		t.Fatalf("expected completion notification, got %v", commandNames(cmds))
	}
}

func TestPoseIndexMonotonicExceptRetry(t *testing.T) {
	catalog := testCatalog(t)
	st := confirmedState(t, catalog)
	st, _ = transition(st, confirmDwellElapsed{epoch: st.epoch}, catalog, testTimings())
	if st.poseIndex != 1 {
		t.Fatalf("expected index 1, got %d", st.poseIndex)
	}

	// Retry holds the index fixed; nothing ever decreases it.
	next, _ := transition(st, retryPoseRequested{}, catalog, testTimings())
	if next.poseIndex != 1 {
		t.Fatalf("retry must hold the pose index, got %d", next.poseIndex)
	}
}

func TestRetryPoseResetsRecordAndReinitializes(t *testing.T) {
	catalog := testCatalog(t)
	st := confirmedState(t, catalog)
	if !st.photos[0].Confirmed() {
		t.Fatal("setup: pose 0 should be confirmed")
	}

	next, cmds := transition(st, retryPoseRequested{}, catalog, testTimings())
	if next.phase != PhaseInitializingPose || next.poseIndex != 0 {
		t.Fatalf("expected initializing_pose at index 0, got %s at %d", next.phase, next.poseIndex)
	}
	record := next.photos[0]
	if record.IsCorrect != nil || record.ImageData != nil || record.Feedback != "" {
		t.Fatalf("record must be reset to empty form: %+v", record)
	}
	reset := false
	for _, cmd := range cmds {
		if r, ok := cmd.(cmdResetRecord); ok && r.poseID == "front" {
			reset = true
		}
	}
	if !reset {
		t.Fatalf("expected reset_record for front, got %v", commandNames(cmds))
	}
	if !hasCommand(cmds, "abort_analysis") || !hasCommand(cmds, "stop_ticker") {
		t.Fatalf("retry must cancel pending work, got %v", commandNames(cmds))
	}
}

func TestPauseAndResume(t *testing.T) {
	catalog := testCatalog(t)
	st := guidingState(t, catalog)

	st, cmds := transition(st, pauseRequested{}, catalog, testTimings())
	if st.phase != PhasePaused {
		t.Fatalf("expected paused, got %s", st.phase)
	}
	if !hasCommand(cmds, "stop_ticker") || !hasCommand(cmds, "abort_analysis") {
		t.Fatalf("pause must cancel pending work, got %v", commandNames(cmds))
	}

	st, cmds = transition(st, resumeRequested{}, catalog, testTimings())
	if st.phase != PhaseInitializingPose || st.poseIndex != 0 {
		t.Fatalf("resume must re-enter initializing_pose for the same pose, got %s at %d", st.phase, st.poseIndex)
	}
	if !hasCommand(cmds, "announce") {
		t.Fatalf("resume must re-announce the pose, got %v", commandNames(cmds))
	}
}

func TestCameraLostEndsSession(t *testing.T) {
	catalog := testCatalog(t)
	st := guidingState(t, catalog)

	next, cmds := transition(st, cameraLost{device: "/dev/video0"}, catalog, testTimings())
	if next.phase != PhaseErrorCamera || !next.phase.IsTerminal() {
		t.Fatalf("expected terminal error_camera, got %s", next.phase)
	}
	if !hasCommand(cmds, "stop_ticker") || !hasCommand(cmds, "abort_analysis") {
		t.Fatalf("camera loss must cancel pending work, got %v", commandNames(cmds))
	}
}

func TestRetryPrerequisitesResetsSession(t *testing.T) {
	catalog := testCatalog(t)
	st := newState(catalog)
	st, _ = transition(st, prerequisitesEvaluated{cameraErr: errors.New("no device"), advisorReady: true}, catalog, testTimings())
	if st.phase != PhaseErrorCamera {
		t.Fatalf("setup: expected error_camera, got %s", st.phase)
	}

	st, cmds := transition(st, retryPrerequisitesRequested{}, catalog, testTimings())
	if !hasCommand(cmds, "evaluate_prerequisites") {
		t.Fatalf("expected prerequisite re-evaluation, got %v", commandNames(cmds))
	}
	st, _ = transition(st, prerequisitesEvaluated{advisorReady: true}, catalog, testTimings())
	if st.phase != PhaseReady {
		t.Fatalf("expected ready after successful retry, got %s", st.phase)
	}
}

// confirmedState drives the machine to the confirmed phase for the first pose.
func confirmedState(t *testing.T, catalog *poses.Catalog) state {
	t.Helper()
	st := guidingState(t, catalog)
	st, _ = transition(st, tickFired{}, catalog, testTimings())
	return confirmPose(t, st, catalog)
}

// confirmPose completes one analyzing round with a correct result and runs
// the capture dwell.
func confirmPose(t *testing.T, st state, catalog *poses.Catalog) state {
	t.Helper()
	if st.phase != PhaseAnalyzing {
		t.Fatalf("confirmPose requires analyzing, got %s", st.phase)
	}
	frame := frames.Frame{Data: []byte("jpeg"), Width: 640, Height: 480, CapturedAt: time.Now().UTC()}
	result := analysis.Result{Feedback: "Looks good", IsCorrectPose: true, Landmarks: []poses.Landmark{}}
	st, cmds := transition(st, analysisFinished{epoch: st.epoch, frame: frame, result: result}, catalog, testTimings())

	var dwell captureDwellElapsed
	found := false
	for _, cmd := range cmds {
		if a, ok := cmd.(cmdAfter); ok {
			if d, ok := a.next.(captureDwellElapsed); ok {
				dwell = d
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected capture dwell scheduled, got %v", commandNames(cmds))
	}
	st, _ = transition(st, dwell, catalog, testTimings())
	if st.phase != PhaseConfirmed {
		t.Fatalf("expected confirmed, got %s", st.phase)
	}
	return st
}

func TestCompletionRequiresEveryRecordConfirmed(t *testing.T) {
	catalog := testCatalog(t)
	st := confirmedState(t, catalog)
	st, _ = transition(st, confirmDwellElapsed{epoch: st.epoch}, catalog, testTimings())
	st, _ = transition(st, prepElapsed{epoch: st.epoch}, catalog, testTimings())
	st, _ = transition(st, tickFired{}, catalog, testTimings())
	st = confirmPose(t, st, catalog)

	// A cleared earlier record keeps the set incomplete even at the last
	// index; its pose runs again instead of completing.
	st.photos = st.clonePhotos()
	st.photos[0] = photostore.Empty("front")

	next, cmds := transition(st, confirmDwellElapsed{epoch: st.epoch}, catalog, testTimings())
	if next.phase != PhaseInitializingPose || next.poseIndex != 0 {
		t.Fatalf("expected initializing_pose at index 0, got %s at %d", next.phase, next.poseIndex)
	}
	if hasCommand(cmds, "notify_session_completed") {
		t.Fatalf("incomplete photo set must not complete, got %v", commandNames(cmds))
	}
}
