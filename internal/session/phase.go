package session

import "fmt"

// Phase identifies where a capture session is in its lifecycle.
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhasePrerequisitesUnmet Phase = "prerequisites_unmet"
	PhaseReady              Phase = "ready"
	PhaseInitializingPose   Phase = "initializing_pose"
	PhaseGuiding            Phase = "guiding"
	PhaseAnalyzing          Phase = "analyzing"
	PhaseCapturing          Phase = "capturing"
	PhaseConfirmed          Phase = "confirmed"
	PhasePaused             Phase = "paused"
	PhaseComplete           Phase = "complete"
	PhaseErrorCamera        Phase = "error_camera"
	PhaseErrorService       Phase = "error_service"
)

var knownPhases = map[Phase]struct{}{
	PhaseIdle:               {},
	PhasePrerequisitesUnmet: {},
	PhaseReady:              {},
	PhaseInitializingPose:   {},
	PhaseGuiding:            {},
	PhaseAnalyzing:          {},
	PhaseCapturing:          {},
	PhaseConfirmed:          {},
	PhasePaused:             {},
	PhaseComplete:           {},
	PhaseErrorCamera:        {},
	PhaseErrorService:       {},
}

// ParsePhase validates a phase string.
func ParsePhase(value string) (Phase, error) {
	phase := Phase(value)
	if _, ok := knownPhases[phase]; !ok {
		return "", fmt.Errorf("unknown session phase %q", value)
	}
	return phase, nil
}

// IsTerminal reports whether the phase ends the session. Terminal phases
// require a full session reset to re-enter ready.
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseComplete, PhaseErrorCamera, PhaseErrorService:
		return true
	default:
		return false
	}
}

// poseActive reports whether the phase has an active pose under capture.
func (p Phase) poseActive() bool {
	switch p {
	case PhaseInitializingPose, PhaseGuiding, PhaseAnalyzing, PhaseCapturing, PhaseConfirmed, PhasePaused:
		return true
	default:
		return false
	}
}

func (p Phase) String() string {
	return string(p)
}
