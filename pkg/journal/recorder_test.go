package journal

import (
	"context"
	"testing"
	"time"
)

func TestRecorder_WritesRecords(t *testing.T) {
	store := testStore(t)

	rec := NewRecorder(store, 10, nil)
	rec.Record(testRecord("scan-1", time.Time{}))
	rec.Record(testRecord("scan-2", time.Time{}))

	// Close drains the buffer before stopping the worker.
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 persisted records, got %d", n)
	}
	if rec.Dropped() != 0 {
		t.Errorf("Expected no drops, got %d", rec.Dropped())
	}
}

func TestRecorder_StampsRecordedAt(t *testing.T) {
	store := testStore(t)

	rec := NewRecorder(store, 10, nil)
	rec.Record(testRecord("scan-1", time.Time{}))
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	recent, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recent))
	}
	if recent[0].RecordedAt.IsZero() {
		t.Error("Expected RecordedAt to be stamped on enqueue")
	}
}

func TestRecorder_NilRecordIgnored(t *testing.T) {
	store := testStore(t)
	rec := NewRecorder(store, 10, nil)
	rec.Record(nil)
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	n, _ := store.Count(context.Background())
	if n != 0 {
		t.Errorf("Expected no records, got %d", n)
	}
}

func TestRecorder_CloseIdempotent(t *testing.T) {
	store := testStore(t)
	rec := NewRecorder(store, 10, nil)
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Second close failed: %v", err)
	}
}

func TestPruner_RunOnce(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	if err := store.Insert(ctx, testRecord("old", now.Add(-72*time.Hour))); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, testRecord("fresh", now)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	p := NewPruner(store, 24*time.Hour, "0 3 * * *", nil)
	removed, err := p.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 pruned record, got %d", removed)
	}
}

func TestPruner_InvalidSchedule(t *testing.T) {
	store := testStore(t)
	p := NewPruner(store, time.Hour, "not a schedule", nil)
	if err := p.Start(context.Background()); err == nil {
		t.Error("Expected error for invalid cron schedule")
	}
}

func TestPruner_EmptyScheduleIsNoop(t *testing.T) {
	store := testStore(t)
	p := NewPruner(store, time.Hour, "", nil)
	if err := p.Start(context.Background()); err != nil {
		t.Errorf("Empty schedule should be a no-op, got %v", err)
	}
	p.Stop()
}
