package session

import (
	"bodywise/internal/photostore"
	"bodywise/internal/poses"
)

// Correctness is the pose-match flag surfaced alongside the overlay.
type Correctness string

const (
	CorrectnessNeutral          Correctness = "neutral"
	CorrectnessCorrect          Correctness = "correct"
	CorrectnessAdjustmentNeeded Correctness = "adjustment_needed"
)

// state is the complete session state owned by the controller's event loop.
// The epoch invalidates timed events scheduled before a pause, retry, or
// pose change; a timed event whose epoch does not match is dropped.
type state struct {
	phase       Phase
	poseIndex   int
	correctness Correctness
	epoch       int
	photos      []photostore.Record
}

func newState(catalog *poses.Catalog) state {
	photos := make([]photostore.Record, catalog.Len())
	for i, spec := range catalog.Specs() {
		photos[i] = photostore.Empty(spec.ID)
	}
	return state{
		phase:       PhaseIdle,
		correctness: CorrectnessNeutral,
		photos:      photos,
	}
}

// allConfirmed reports whether every photo record reached its terminal
// confirmed form. This is the session completion condition.
func (s state) allConfirmed() bool {
	if len(s.photos) == 0 {
		return false
	}
	_, unconfirmed := s.firstUnconfirmed()
	return !unconfirmed
}

// firstUnconfirmed returns the lowest pose index whose record is not yet in
// its confirmed form.
func (s state) firstUnconfirmed() (int, bool) {
	for i, record := range s.photos {
		if !record.Confirmed() {
			return i, true
		}
	}
	return 0, false
}

// clonePhotos returns a fresh slice for the event loop's copy-on-write
// updates. Records are treated as immutable values inside the loop, so the
// element copy is shallow.
func (s state) clonePhotos() []photostore.Record {
	photos := make([]photostore.Record, len(s.photos))
	copy(photos, s.photos)
	return photos
}

// snapshotPhotos returns records safe to hand outside the event loop: image
// bytes and pointer fields are copied so observers never share backing
// storage with live state.
func (s state) snapshotPhotos() []photostore.Record {
	photos := make([]photostore.Record, len(s.photos))
	for i, record := range s.photos {
		if len(record.ImageData) > 0 {
			record.ImageData = append([]byte(nil), record.ImageData...)
		}
		if record.IsCorrect != nil {
			v := *record.IsCorrect
			record.IsCorrect = &v
		}
		if record.CapturedAt != nil {
			ts := *record.CapturedAt
			record.CapturedAt = &ts
		}
		photos[i] = record
	}
	return photos
}

// Snapshot is a read-only view of the session handed to observers. Observers
// never receive references into the live state.
type Snapshot struct {
	Phase       Phase
	PoseIndex   int
	PoseID      string
	Correctness Correctness
	Photos      []photostore.Record
}
