package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bodywise/internal/notifications"
	"bodywise/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""

	svc := notifications.NewService(cfg)
	if err := svc.NotifySessionStarted(context.Background(), 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "session started",
			notify: func(svc notifications.Service) error {
				return svc.NotifySessionStarted(context.Background(), 3)
			},
			expectTitle:   "Bodywise - Session Started",
			expectMessage: "Guided capture started with 3 poses",
			expectTags:    "bodywise,session,started",
		},
		{
			name: "pose confirmed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyPoseConfirmed(context.Background(), "Front Pose", 0, 3)
			},
			expectTitle:   "Bodywise - Pose Captured",
			expectMessage: "Captured Front Pose (1 of 3)",
			expectTags:    "bodywise,pose,confirmed",
		},
		{
			name: "session completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifySessionCompleted(context.Background(), 3, 90*time.Second)
			},
			expectTitle:    "Bodywise - Session Complete",
			expectMessage:  "All 3 poses captured in 1m30s",
			expectTags:     "bodywise,session,completed",
			expectPriority: "high",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("camera disconnected"), "capture")
			},
			expectTitle:    "Bodywise - Error",
			expectMessage:  "Error with capture: camera disconnected",
			expectTags:     "bodywise,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := testsupport.NewConfig(t)
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsCategoryToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for disabled category: %s", r.Header.Get("Title"))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Session = false
	cfg.Notifications.Poses = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(cfg)
	ctx := context.Background()
	if err := svc.NotifySessionStarted(ctx, 3); err != nil {
		t.Fatalf("NotifySessionStarted: %v", err)
	}
	if err := svc.NotifyPoseConfirmed(ctx, "Front Pose", 0, 3); err != nil {
		t.Fatalf("NotifyPoseConfirmed: %v", err)
	}
	if err := svc.NotifySessionCompleted(ctx, 3, time.Minute); err != nil {
		t.Fatalf("NotifySessionCompleted: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "capture"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
}

func TestNtfyServiceSurfacesHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic rejected", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx ntfy response")
	}
}
