package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bodywise/internal/config"
)

const userAgent = "Bodywise-Go/0.1.0"

// Service defines the notification surface exposed to the capture session.
type Service interface {
	NotifySessionStarted(ctx context.Context, poseCount int) error
	NotifyPoseConfirmed(ctx context.Context, poseName string, index, total int) error
	NotifySessionCompleted(ctx context.Context, poseCount int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:      topic,
		client:        &http.Client{Timeout: timeout},
		sessionEvents: cfg.Notifications.Session,
		poseEvents:    cfg.Notifications.Poses,
		errorEvents:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	sessionEvents bool
	poseEvents    bool
	errorEvents   bool
}

func (n *ntfyService) NotifySessionStarted(ctx context.Context, poseCount int) error {
	if !n.sessionEvents {
		return nil
	}
	data := payload{
		title:   "Bodywise - Session Started",
		message: fmt.Sprintf("Guided capture started with %d poses", poseCount),
		tags:    []string{"bodywise", "session", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPoseConfirmed(ctx context.Context, poseName string, index, total int) error {
	if !n.poseEvents {
		return nil
	}
	poseName = strings.TrimSpace(poseName)
	data := payload{
		title:   "Bodywise - Pose Captured",
		message: fmt.Sprintf("Captured %s (%d of %d)", poseName, index+1, total),
		tags:    []string{"bodywise", "pose", "confirmed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionCompleted(ctx context.Context, poseCount int, duration time.Duration) error {
	if !n.sessionEvents {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}
	data := payload{
		title:    "Bodywise - Session Complete",
		message:  fmt.Sprintf("All %d poses captured in %s", poseCount, durationText),
		tags:     []string{"bodywise", "session", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorEvents {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Bodywise - Error",
		message:  builder.String(),
		tags:     []string{"bodywise", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Bodywise - Test",
		message:  "Notification system test",
		tags:     []string{"bodywise", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// NewNoop returns a Service that drops every notification.
func NewNoop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) NotifySessionStarted(context.Context, int) error                    { return nil }
func (noopService) NotifyPoseConfirmed(context.Context, string, int, int) error        { return nil }
func (noopService) NotifySessionCompleted(context.Context, int, time.Duration) error   { return nil }
func (noopService) NotifyError(context.Context, error, string) error                   { return nil }
func (noopService) TestNotification(context.Context) error                             { return nil }
