package frames

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"bodywise/internal/services"
)

const snapshotMaxBytes = 16 << 20

// SnapshotSource fetches current stills from an HTTP snapshot endpoint, the
// interface exposed by IP webcam gateways and mjpg-streamer style daemons.
type SnapshotSource struct {
	url    string
	client *http.Client

	mu      sync.Mutex
	started bool
}

// NewSnapshotSource constructs a snapshot source for the given endpoint.
func NewSnapshotSource(url string, timeout time.Duration) (*SnapshotSource, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, services.Wrap(services.ErrConfiguration, "frames", "snapshot", "snapshot url required", nil)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SnapshotSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Start marks the source active. The endpoint is probed lazily on the first
// grab so a camera that comes up slightly later still works.
func (s *SnapshotSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

// Stop releases idle connections held against the endpoint.
func (s *SnapshotSource) Stop() {
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
	s.client.CloseIdleConnections()
}

// Grab fetches the current still frame.
func (s *SnapshotSource) Grab(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return nil, services.Wrap(services.ErrNotReady, "frames", "snapshot", "source not started", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "frames", "snapshot", "build request", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrNotReady, "frames", "snapshot", "fetch frame", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrNotReady, "frames", "snapshot",
			fmt.Sprintf("endpoint returned http %d", resp.StatusCode), nil)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, snapshotMaxBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrNotReady, "frames", "snapshot", "read frame", err)
	}
	return data, nil
}
