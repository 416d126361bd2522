package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"bodywise/internal/logging"
	"bodywise/internal/services"
)

func TestContextFieldsExtractsAnnotations(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "session-42")
	ctx = services.WithPose(ctx, "front")
	ctx = services.WithRequestID(ctx, "req-123")

	fields := logging.ContextFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	want := map[string]string{
		logging.FieldSessionID: "session-42",
		logging.FieldPose:      "front",
		logging.FieldRequestID: "req-123",
	}
	for _, field := range fields {
		expected, ok := want[field.Key]
		if !ok {
			t.Fatalf("unexpected field %q", field.Key)
		}
		if got := field.Value.String(); got != expected {
			t.Fatalf("field %q = %q, want %q", field.Key, got, expected)
		}
	}
}

func TestContextFieldsEmptyContext(t *testing.T) {
	if fields := logging.ContextFields(context.Background()); len(fields) != 0 {
		t.Fatalf("expected no fields, got %d", len(fields))
	}
}

func TestWithContextAugmentsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := services.WithSessionID(context.Background(), "session-42")
	ctx = services.WithPose(ctx, "back")
	logging.WithContext(ctx, logger).Info("analysis attempt")

	out := buf.String()
	for _, fragment := range []string{`"session_id":"session-42"`, `"pose":"back"`, "analysis attempt"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected log output %q to contain %q", out, fragment)
		}
	}
}

func TestWithContextNoAnnotationsReturnsSameLogger(t *testing.T) {
	logger := logging.NewNop()
	if got := logging.WithContext(context.Background(), logger); got != logger {
		t.Fatal("expected the original logger when context carries no annotations")
	}
}
