package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"bodywise/internal/poses"
	"bodywise/internal/services"
)

const (
	defaultBaseURL     = "https://api.bodywise.fit"
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxAttempts = 3
	retryBaseDelay     = time.Second

	analyzePath = "/v1/pose/analysis"
)

// Result is the outcome of one completed analysis call. Landmarks is never
// nil; the client substitutes an empty slice when the service omits the
// field.
type Result struct {
	Feedback      string
	IsCorrectPose bool
	Landmarks     []poses.Landmark
}

// Client calls the remote pose-analysis service.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
	sleep       func(context.Context, time.Duration) error
}

// Option customizes the analysis client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithMaxAttempts overrides the transient retry cap.
func WithMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithSleep overrides the backoff sleep. Tests use this to observe delays
// without waiting.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewClient constructs an analysis client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
		maxAttempts: defaultMaxAttempts,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Analyze scores one still frame against the target pose spec. Transient
// service unavailability is retried with exponential backoff (1s, 2s, ...)
// up to the attempt cap; the exhausted error wraps the last underlying
// cause. All other failures return immediately.
func (c *Client) Analyze(ctx context.Context, image []byte, currentPoseLabel string, spec poses.Spec) (Result, error) {
	var empty Result
	if len(image) == 0 {
		return empty, services.Wrap(services.ErrValidation, "analysis", "analyze", "image required", nil)
	}
	if strings.TrimSpace(spec.Description) == "" {
		return empty, services.Wrap(services.ErrValidation, "analysis", "analyze", "pose description required", nil)
	}
	if c.apiKey == "" {
		return empty, services.Wrap(services.ErrConfiguration, "analysis", "analyze", "api key required", nil)
	}

	payload := analysisRequest{
		Image:                  base64.StdEncoding.EncodeToString(image),
		CurrentPoseLabel:       strings.TrimSpace(currentPoseLabel),
		DesiredPoseDescription: spec.Description,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return empty, services.Wrap(services.ErrValidation, "analysis", "analyze", "encode request", err)
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		result, err := c.post(ctx, encoded)
		if err == nil {
			return result, nil
		}
		if !services.IsTransient(err) {
			return empty, err
		}
		lastErr = err
		if attempt >= c.maxAttempts {
			return empty, services.Wrap(services.ErrTransient, "analysis", "analyze",
				fmt.Sprintf("retries exhausted after %d attempts", attempt), lastErr)
		}
		delay := retryBaseDelay << (attempt - 1)
		if err := c.sleep(ctx, delay); err != nil {
			return empty, services.Wrap(services.ErrUnavailable, "analysis", "analyze", "canceled during backoff", err)
		}
	}
}

func (c *Client) post(ctx context.Context, body []byte) (Result, error) {
	var empty Result
	endpoint, err := url.JoinPath(c.baseURL, analyzePath)
	if err != nil {
		return empty, services.Wrap(services.ErrConfiguration, "analysis", "request", "build url", err)
	}

	// The caller's correlation id, when present, travels on the wire so
	// server-side traces line up with the session logs.
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = services.WithRequestID(ctx, requestID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return empty, services.Wrap(services.ErrValidation, "analysis", "request", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, services.Wrap(services.ErrUnavailable, "analysis", "request", "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return empty, services.Wrap(services.ErrUnavailable, "analysis", "request", "read body", err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests:
		return empty, services.Wrap(services.ErrTransient, "analysis", "request",
			fmt.Sprintf("service unavailable (http %d)", resp.StatusCode), nil)
	case resp.StatusCode >= http.StatusBadRequest:
		return empty, services.Wrap(services.ErrValidation, "analysis", "request",
			fmt.Sprintf("http %d: %s", resp.StatusCode, errorDetail(raw)), nil)
	}

	var decoded analysisResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return empty, services.Wrap(services.ErrValidation, "analysis", "response", "decode response", err)
	}
	if decoded.Error != nil {
		return empty, services.Wrap(services.ErrValidation, "analysis", "response",
			"api error: "+strings.TrimSpace(decoded.Error.Message), nil)
	}
	feedback := strings.TrimSpace(decoded.Feedback)
	if feedback == "" {
		return empty, services.Wrap(services.ErrValidation, "analysis", "response", "empty feedback", nil)
	}

	return Result{
		Feedback:      feedback,
		IsCorrectPose: decoded.IsCorrectPose,
		Landmarks:     normalizeLandmarks(decoded.DetectedLandmarks),
	}, nil
}

// normalizeLandmarks guarantees a non-nil slice with coordinates clamped to
// [0,1]; entries without a name are dropped.
func normalizeLandmarks(raw []landmarkPayload) []poses.Landmark {
	normalized := make([]poses.Landmark, 0, len(raw))
	for _, lm := range raw {
		name := strings.TrimSpace(lm.Name)
		if name == "" {
			continue
		}
		normalized = append(normalized, poses.Landmark{
			Name: name,
			X:    clamp01(lm.X),
			Y:    clamp01(lm.Y),
		})
	}
	return normalized
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func errorDetail(raw []byte) string {
	var decoded analysisResponse
	if err := json.Unmarshal(raw, &decoded); err == nil && decoded.Error != nil {
		if msg := strings.TrimSpace(decoded.Error.Message); msg != "" {
			return msg
		}
	}
	detail := strings.TrimSpace(string(raw))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return detail
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type analysisRequest struct {
	Image                  string `json:"image"`
	CurrentPoseLabel       string `json:"current_pose_label"`
	DesiredPoseDescription string `json:"desired_pose_description"`
}

type landmarkPayload struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type analysisResponse struct {
	Feedback          string            `json:"feedback"`
	IsCorrectPose     bool              `json:"is_correct_pose"`
	DetectedLandmarks []landmarkPayload `json:"detected_landmarks"`
	Error             *struct {
		Message string `json:"message"`
	} `json:"error"`
}
