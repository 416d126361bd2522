package frames_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bodywise/internal/frames"
	"bodywise/internal/services"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type stubSource struct {
	data []byte
	err  error
}

func (s *stubSource) Grab(context.Context) ([]byte, error) { return s.data, s.err }
func (s *stubSource) Start(context.Context) error          { return nil }
func (s *stubSource) Stop()                                {}

func TestCaptureReturnsFrameWithNativeDimensions(t *testing.T) {
	sampler := frames.NewSampler()
	frame, err := sampler.Capture(context.Background(), &stubSource{data: encodePNG(t, 640, 480)})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if frame.Width != 640 || frame.Height != 480 {
		t.Fatalf("unexpected dimensions: %dx%d", frame.Width, frame.Height)
	}
	if len(frame.Data) == 0 || frame.CapturedAt.IsZero() {
		t.Fatalf("incomplete frame: %+v", frame)
	}
}

func TestCaptureFailsNotReadyOnEmptyFrame(t *testing.T) {
	sampler := frames.NewSampler()
	_, err := sampler.Capture(context.Background(), &stubSource{})
	if !services.IsNotReady(err) {
		t.Fatalf("expected not-ready, got %v", err)
	}
}

func TestCaptureFailsNotReadyOnUndecodableFrame(t *testing.T) {
	sampler := frames.NewSampler()
	_, err := sampler.Capture(context.Background(), &stubSource{data: []byte("not an image")})
	if !services.IsNotReady(err) {
		t.Fatalf("expected not-ready, got %v", err)
	}
}

func TestCaptureWrapsSourceErrors(t *testing.T) {
	sampler := frames.NewSampler()
	cause := errors.New("stream stalled")
	_, err := sampler.Capture(context.Background(), &stubSource{err: cause})
	if !services.IsNotReady(err) {
		t.Fatalf("expected not-ready, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestSnapshotSourceGrabsFromEndpoint(t *testing.T) {
	payload := encodePNG(t, 320, 240)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	source, err := frames.NewSnapshotSource(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewSnapshotSource: %v", err)
	}
	if err := source.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer source.Stop()

	data, err := source.Grab(context.Background())
	if err != nil {
		t.Fatalf("Grab: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatal("unexpected frame payload")
	}
}

func TestSnapshotSourceNotReadyBeforeStart(t *testing.T) {
	source, err := frames.NewSnapshotSource("http://127.0.0.1:1/snapshot", time.Second)
	if err != nil {
		t.Fatalf("NewSnapshotSource: %v", err)
	}
	if _, err := source.Grab(context.Background()); !services.IsNotReady(err) {
		t.Fatalf("expected not-ready before start, got %v", err)
	}
}

func TestSnapshotSourceNotReadyOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source, err := frames.NewSnapshotSource(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewSnapshotSource: %v", err)
	}
	if err := source.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := source.Grab(context.Background()); !services.IsNotReady(err) {
		t.Fatalf("expected not-ready on bad status, got %v", err)
	}
}

func TestNewSnapshotSourceRequiresURL(t *testing.T) {
	if _, err := frames.NewSnapshotSource("  ", time.Second); err == nil {
		t.Fatal("expected configuration error")
	}
}
