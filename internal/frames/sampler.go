package frames

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"bodywise/internal/services"
)

// Frame is one still image at the source's native resolution.
type Frame struct {
	Data       []byte
	Width      int
	Height     int
	CapturedAt time.Time
}

// Source is a live video handle that yields the current frame on demand.
// Acquisition and release of the underlying device are the owner's concern;
// the sampler only reads.
type Source interface {
	// Grab returns the encoded frame visible at call time.
	Grab(ctx context.Context) ([]byte, error)
	// Start requests the underlying stream to begin producing frames.
	Start(ctx context.Context) error
	// Stop releases the underlying stream.
	Stop()
}

// Sampler extracts validated still frames from a source.
type Sampler struct {
	now func() time.Time
}

// NewSampler constructs a frame sampler.
func NewSampler() *Sampler {
	return &Sampler{now: time.Now}
}

// Capture grabs the source's current frame and validates its encoding and
// dimensions. A source without a decodable frame yet fails with the
// not-ready condition.
func (s *Sampler) Capture(ctx context.Context, source Source) (Frame, error) {
	var empty Frame
	if source == nil {
		return empty, services.Wrap(services.ErrConfiguration, "frames", "capture", "source required", nil)
	}
	data, err := source.Grab(ctx)
	if err != nil {
		if services.IsNotReady(err) {
			return empty, err
		}
		return empty, services.Wrap(services.ErrNotReady, "frames", "capture", "source grab failed", err)
	}
	if len(data) == 0 {
		return empty, services.Wrap(services.ErrNotReady, "frames", "capture", "empty frame", nil)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return empty, services.Wrap(services.ErrNotReady, "frames", "capture", "undecodable frame", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return empty, services.Wrap(services.ErrNotReady, "frames", "capture", "source reported no dimensions", nil)
	}
	return Frame{
		Data:       data,
		Width:      cfg.Width,
		Height:     cfg.Height,
		CapturedAt: s.now().UTC(),
	}, nil
}
