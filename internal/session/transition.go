package session

import (
	"fmt"
	"strings"
	"time"

	"bodywise/internal/feedback"
	"bodywise/internal/photostore"
	"bodywise/internal/poses"
)

const (
	confirmedFeedback = "Pose captured successfully."
	analysisRetryText = "Could not check the pose right now. Hold the pose and it will retry shortly."
)

// timings are the fixed wall-clock delays driving phase progression.
type timings struct {
	sampleInterval time.Duration
	prepDelay      time.Duration
	captureDwell   time.Duration
	confirmDwell   time.Duration
}

// transition computes the next state and the side effects to run for one
// event. It performs no I/O; timed events carrying a stale epoch are dropped.
func transition(st state, ev event, catalog *poses.Catalog, t timings) (state, []command) {
	switch ev := ev.(type) {
	case prerequisitesEvaluated:
		return applyPrerequisites(st, ev)

	case beginRequested:
		if st.phase != PhaseReady {
			return st, nil
		}
		st.poseIndex = 0
		st.photos = st.clonePhotos()
		for i := range st.photos {
			st.photos[i] = photostore.Empty(st.photos[i].PoseID)
		}
		cmds := []command{cmdNotifySessionStarted{poseCount: len(st.photos)}}
		st, enter := enterPose(st, catalog, t)
		return st, append(cmds, enter...)

	case prepElapsed:
		if st.phase != PhaseInitializingPose || ev.epoch != st.epoch {
			return st, nil
		}
		st.phase = PhaseGuiding
		st.correctness = CorrectnessNeutral
		return st, []command{cmdStartTicker{interval: t.sampleInterval}}

	case tickFired:
		// Only a guiding-phase tick starts an analysis. A tick arriving while
		// a call is outstanding finds the phase at analyzing and does nothing.
		if st.phase != PhaseGuiding {
			return st, nil
		}
		spec, ok := catalog.At(st.poseIndex)
		if !ok {
			return st, nil
		}
		st.phase = PhaseAnalyzing
		return st, []command{cmdBeginAnalysis{epoch: st.epoch, spec: spec}}

	case sampleUnavailable:
		if st.phase != PhaseAnalyzing || ev.epoch != st.epoch {
			return st, nil
		}
		st.phase = PhaseGuiding
		return st, nil

	case analysisFinished:
		return applyAnalysis(st, ev, catalog, t)

	case captureDwellElapsed:
		if st.phase != PhaseCapturing || ev.epoch != st.epoch {
			return st, nil
		}
		st.photos = st.clonePhotos()
		st.photos[st.poseIndex] = ev.record
		st.phase = PhaseConfirmed
		spec, _ := catalog.At(st.poseIndex)
		return st, []command{
			cmdPersistRecord{record: ev.record},
			cmdAnnounce{text: fmt.Sprintf("Great, %s captured.", spec.Name)},
			cmdNotifyPoseConfirmed{poseName: spec.Name, index: st.poseIndex, total: len(st.photos)},
			cmdAfter{delay: t.confirmDwell, next: confirmDwellElapsed{epoch: st.epoch}},
		}

	case confirmDwellElapsed:
		if st.phase != PhaseConfirmed || ev.epoch != st.epoch {
			return st, nil
		}
		if st.poseIndex+1 < catalog.Len() {
			st.poseIndex++
			return enterPose(st, catalog, t)
		}
		// Past the last index the session completes exactly when every
		// record is confirmed; a cleared record means the set is not done
		// and its pose runs again.
		if !st.allConfirmed() {
			if next, ok := st.firstUnconfirmed(); ok {
				st.poseIndex = next
				return enterPose(st, catalog, t)
			}
		}
		st.phase = PhaseComplete
		st.correctness = CorrectnessNeutral
		return st, []command{
			cmdStopTicker{},
			cmdAnnounce{text: "All poses captured. Session complete."},
			cmdNotifySessionCompleted{poseCount: len(st.photos)},
		}

	case pauseRequested:
		if st.phase != PhaseGuiding && st.phase != PhaseAnalyzing {
			return st, nil
		}
		st.phase = PhasePaused
		st.correctness = CorrectnessNeutral
		st.epoch++
		return st, []command{
			cmdStopTicker{},
			cmdAbortAnalysis{},
			cmdAnnounce{text: "Session paused."},
		}

	case resumeRequested:
		if st.phase != PhasePaused {
			return st, nil
		}
		return enterPose(st, catalog, t)

	case retryPoseRequested:
		if !st.phase.poseActive() {
			return st, nil
		}
		st.photos = st.clonePhotos()
		poseID := st.photos[st.poseIndex].PoseID
		st.photos[st.poseIndex] = photostore.Empty(poseID)
		cmds := []command{
			cmdStopTicker{},
			cmdAbortAnalysis{},
			cmdResetRecord{poseID: poseID},
		}
		st, enter := enterPose(st, catalog, t)
		return st, append(cmds, enter...)

	case retryPrerequisitesRequested:
		switch st.phase {
		case PhaseIdle, PhasePrerequisitesUnmet, PhaseErrorCamera, PhaseErrorService, PhaseComplete:
		default:
			return st, nil
		}
		st = newState(catalog)
		return st, []command{cmdEvaluatePrerequisites{}}

	case cameraLost:
		if st.phase.IsTerminal() {
			return st, nil
		}
		st.phase = PhaseErrorCamera
		st.correctness = CorrectnessNeutral
		st.epoch++
		return st, []command{
			cmdStopTicker{},
			cmdAbortAnalysis{},
			cmdToast{
				title:    "Camera disconnected",
				message:  fmt.Sprintf("Device %s detached. Reconnect it and retry.", ev.device),
				severity: feedback.SeverityError,
			},
			cmdNotifyError{err: fmt.Errorf("camera device %s detached", ev.device), context: "capture"},
		}

	case stopRequested:
		st.epoch++
		return st, []command{cmdStopTicker{}, cmdAbortAnalysis{}}
	}

	return st, nil
}

func applyPrerequisites(st state, ev prerequisitesEvaluated) (state, []command) {
	switch st.phase {
	case PhaseIdle, PhasePrerequisitesUnmet, PhaseErrorCamera, PhaseErrorService:
	default:
		return st, nil
	}

	if ev.cameraErr != nil {
		st.phase = PhaseErrorCamera
		return st, []command{
			cmdToast{
				title:    "Camera unavailable",
				message:  "Connect a camera, grant access, and retry.",
				severity: feedback.SeverityError,
			},
			cmdNotifyError{err: ev.cameraErr, context: "camera check"},
		}
	}
	if len(ev.missingProfile) > 0 {
		st.phase = PhasePrerequisitesUnmet
		return st, []command{
			cmdToast{
				title:    "Profile incomplete",
				message:  "Fill in " + strings.Join(ev.missingProfile, ", ") + " before starting.",
				severity: feedback.SeverityWarning,
			},
		}
	}
	if !ev.advisorReady {
		st.phase = PhaseErrorService
		return st, []command{
			cmdToast{
				title:    "Pose guide unavailable",
				message:  "The advisory pose guide failed to load.",
				severity: feedback.SeverityError,
			},
		}
	}

	st.phase = PhaseReady
	return st, []command{cmdAnnounce{text: "Ready to start the guided capture session."}}
}

func applyAnalysis(st state, ev analysisFinished, catalog *poses.Catalog, t timings) (state, []command) {
	if st.phase != PhaseAnalyzing || ev.epoch != st.epoch {
		return st, nil
	}

	// Analysis failures are absorbed locally. The session returns to guiding
	// and the next tick tries again.
	if ev.err != nil {
		st.phase = PhaseGuiding
		st.correctness = CorrectnessNeutral
		return st, []command{
			cmdOverlay{hint: feedback.ColorNeutral},
			cmdAnnounce{text: analysisRetryText},
		}
	}

	if !ev.result.IsCorrectPose {
		st.phase = PhaseGuiding
		st.correctness = CorrectnessAdjustmentNeeded
		return st, []command{
			cmdOverlay{landmarks: ev.result.Landmarks, hint: feedback.ColorAdjustment},
			cmdAnnounce{text: ev.result.Feedback},
		}
	}

	st.phase = PhaseCapturing
	st.correctness = CorrectnessCorrect
	spec, _ := catalog.At(st.poseIndex)
	correct := true
	capturedAt := ev.frame.CapturedAt
	record := photostore.Record{
		PoseID:     spec.ID,
		ImageData:  ev.frame.Data,
		IsCorrect:  &correct,
		Feedback:   confirmedFeedback,
		Width:      ev.frame.Width,
		Height:     ev.frame.Height,
		CapturedAt: &capturedAt,
	}
	return st, []command{
		cmdStopTicker{},
		cmdOverlay{landmarks: ev.result.Landmarks, hint: feedback.ColorCorrect},
		cmdAfter{delay: t.captureDwell, next: captureDwellElapsed{epoch: st.epoch, record: record}},
	}
}

// enterPose moves the session into pose initialization for the current pose
// index and bumps the epoch so stale timed events die.
func enterPose(st state, catalog *poses.Catalog, t timings) (state, []command) {
	spec, ok := catalog.At(st.poseIndex)
	if !ok {
		st.phase = PhaseComplete
		return st, []command{cmdStopTicker{}}
	}
	st.phase = PhaseInitializingPose
	st.correctness = CorrectnessNeutral
	st.epoch++
	return st, []command{
		cmdShowGuide{spec: spec},
		cmdAnnounce{text: fmt.Sprintf("Next pose: %s. %s", spec.Name, spec.ShortInstruction)},
		cmdAfter{delay: t.prepDelay, next: prepElapsed{epoch: st.epoch}},
	}
}
