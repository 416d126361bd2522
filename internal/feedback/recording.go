package feedback

import (
	"sync"

	"bodywise/internal/poses"
)

// OverlayCall captures one ShowOverlay invocation.
type OverlayCall struct {
	Landmarks []poses.Landmark
	Hint      ColorHint
}

// ToastCall captures one Toast invocation.
type ToastCall struct {
	Title    string
	Message  string
	Severity Severity
}

// Recorder stores every presentation call for later inspection in tests.
type Recorder struct {
	mu            sync.Mutex
	announcements []string
	overlays      []OverlayCall
	toasts        []ToastCall
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Announce(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announcements = append(r.announcements, message)
}

func (r *Recorder) ShowOverlay(landmarks []poses.Landmark, hint ColorHint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make([]poses.Landmark, len(landmarks))
	copy(copied, landmarks)
	r.overlays = append(r.overlays, OverlayCall{Landmarks: copied, Hint: hint})
}

func (r *Recorder) Toast(title, message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, ToastCall{Title: title, Message: message, Severity: severity})
}

func (r *Recorder) Announcements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.announcements...)
}

func (r *Recorder) Overlays() []OverlayCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OverlayCall(nil), r.overlays...)
}

func (r *Recorder) Toasts() []ToastCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ToastCall(nil), r.toasts...)
}
