package photostore

import "time"

// Record is the durable capture result for one pose. ImageData, IsCorrect,
// and Feedback stay empty until the pose is confirmed; an explicit retry
// resets the record to its empty form.
type Record struct {
	PoseID     string
	ImageData  []byte
	IsCorrect  *bool
	Feedback   string
	Width      int
	Height     int
	CapturedAt *time.Time
	UpdatedAt  time.Time
}

// Empty returns the unset record for a pose.
func Empty(poseID string) Record {
	return Record{PoseID: poseID}
}

// Confirmed reports whether this record holds a verified capture.
func (r Record) Confirmed() bool {
	return r.IsCorrect != nil && *r.IsCorrect && len(r.ImageData) > 0
}
