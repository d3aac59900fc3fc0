package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	captureout "tasktrail/internal/modules/capture/adapter/out"
	"tasktrail/internal/modules/capture/domain"
)

func TestSQLiteObservationStoreListsWindowInOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := captureout.NewSQLiteObservationStore(filepath.Join(t.TempDir(), "tasktrail.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	obs := func(id string, offset time.Duration, title string) domain.Observation {
		return domain.Observation{ID: id, CapturedAt: base.Add(offset), WindowTitle: title, Category: "Coding", Source: domain.SourceImport}
	}
	if err := store.Insert(ctx,
		obs("c", 8*time.Second, "third"),
		obs("a", 0, "first"),
		obs("b", 4*time.Second, "second"),
		obs("late", 2*time.Hour, "outside"),
	); err != nil {
		t.Fatalf("insert: %v", err)
	}

	items, err := store.ListBetween(ctx, base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 observations in window, got %d", len(items))
	}
	for i, want := range []string{"first", "second", "third"} {
		if items[i].WindowTitle != want {
			t.Fatalf("item %d: expected %q, got %q", i, want, items[i].WindowTitle)
		}
	}
	if !items[1].CapturedAt.Equal(base.Add(4 * time.Second)) {
		t.Fatalf("timestamp not preserved: %s", items[1].CapturedAt)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected count 4, got %d", count)
	}
}

func TestSQLiteObservationStoreInsertIsAtomic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := captureout.NewSQLiteObservationStore(filepath.Join(t.TempDir(), "tasktrail.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	dup := domain.Observation{ID: "dup", CapturedAt: at, WindowTitle: "x", Category: "Other", Source: domain.SourceManual}
	if err := store.Insert(ctx, dup, dup); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed batch should leave no rows, got %d", count)
	}
}

func TestSQLiteObservationStoreCloseReleasesHandle(t *testing.T) {
	t.Parallel()
	store, err := captureout.NewSQLiteObservationStore(filepath.Join(t.TempDir(), "tasktrail.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if _, err := store.ListBetween(context.Background(), now, now.Add(time.Hour)); err == nil {
		t.Fatalf("expected list on closed store to fail")
	}
}
