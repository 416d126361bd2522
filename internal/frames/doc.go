// Package frames extracts single still images from a live video source on
// demand. Sampling never retries; a source that has not produced valid
// dimensions yet fails with the not-ready condition and the caller decides
// whether to reschedule.
package frames
