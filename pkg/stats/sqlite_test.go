package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteBackend_SaveLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	backend, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}
	defer backend.Close()

	store := NewStore(0.1)
	store.Observe("A", true, 25*time.Millisecond)
	store.Observe("B", false, 5*time.Millisecond)

	ctx := context.Background()
	if err := backend.Save(ctx, store); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 persisted snapshots, got %d", len(loaded))
	}

	for _, name := range []string{"A", "B"} {
		want := store.Lookup(name)
		got, ok := loaded[name]
		if !ok {
			t.Fatalf("Symbol %s missing from persisted snapshots", name)
		}
		if got != want {
			t.Errorf("Symbol %s: loaded %+v, want %+v", name, got, want)
		}
	}
}

func TestSQLiteBackend_SaveUpserts(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	backend, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	store := NewStore(0.1)
	store.Observe("A", true, 10*time.Millisecond)
	if err := backend.Save(ctx, store); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	store.Observe("A", false, 30*time.Millisecond)
	if err := backend.Save(ctx, store); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded["A"].Observations != 2 {
		t.Errorf("Expected upserted observation count 2, got %d", loaded["A"].Observations)
	}
}

func TestSQLiteBackend_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteBackend(""); err == nil {
		t.Error("Expected error for empty database path")
	}
}

func TestSQLiteBackend_SaveEmptyStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	backend, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}
	defer backend.Close()

	if err := backend.Save(context.Background(), NewStore(0.1)); err != nil {
		t.Errorf("Saving an empty store should be a no-op, got %v", err)
	}
}
