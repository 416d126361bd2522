package photostore_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"bodywise/internal/photostore"
	"bodywise/internal/testsupport"
)

func TestReadUnknownPoseYieldsEmptyRecord(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	record, err := store.Read(context.Background(), "front")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if record.PoseID != "front" || record.IsCorrect != nil || record.ImageData != nil || record.Feedback != "" {
		t.Fatalf("expected empty record, got %+v", record)
	}
	if record.Confirmed() {
		t.Fatal("empty record must not be confirmed")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	correct := true
	capturedAt := time.Now().UTC().Truncate(time.Millisecond)
	written := photostore.Record{
		PoseID:     "front",
		ImageData:  []byte("jpeg-bytes"),
		IsCorrect:  &correct,
		Feedback:   "Pose captured",
		Width:      640,
		Height:     480,
		CapturedAt: &capturedAt,
	}
	if err := store.Write(ctx, written); err != nil {
		t.Fatalf("Write: %v", err)
	}

	read, err := store.Read(ctx, "front")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(read.ImageData, written.ImageData) {
		t.Fatal("image data mismatch")
	}
	if read.IsCorrect == nil || !*read.IsCorrect {
		t.Fatalf("is_correct mismatch: %+v", read.IsCorrect)
	}
	if read.Feedback != written.Feedback || read.Width != 640 || read.Height != 480 {
		t.Fatalf("field mismatch: %+v", read)
	}
	if read.CapturedAt == nil || !read.CapturedAt.Equal(capturedAt) {
		t.Fatalf("captured_at mismatch: %v", read.CapturedAt)
	}
	if !read.Confirmed() {
		t.Fatal("expected confirmed record")
	}
}

func TestResetReturnsRecordToEmptyForm(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	correct := true
	if err := store.Write(ctx, photostore.Record{PoseID: "front", ImageData: []byte("x"), IsCorrect: &correct, Feedback: "ok"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Reset(ctx, "front"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	record, err := store.Read(ctx, "front")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if record.IsCorrect != nil || record.ImageData != nil || record.Feedback != "" {
		t.Fatalf("expected reset record, got %+v", record)
	}
}

func TestResetAllClearsEveryRecord(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, id := range []string{"front", "side", "back"} {
		if err := store.Write(ctx, photostore.Record{PoseID: id, Feedback: "pending"}); err != nil {
			t.Fatalf("Write %s: %v", id, err)
		}
	}
	if err := store.ResetAll(ctx); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestListOrdersByPoseID(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, id := range []string{"side", "back", "front"} {
		if err := store.Write(ctx, photostore.Record{PoseID: id}); err != nil {
			t.Fatalf("Write %s: %v", id, err)
		}
	}
	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	want := []string{"back", "front", "side"}
	for i, record := range records {
		if record.PoseID != want[i] {
			t.Fatalf("unexpected order: got %q at %d, want %q", record.PoseID, i, want[i])
		}
	}
}
