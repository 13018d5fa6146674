package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T, opts Options) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"), opts)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndGetPinned(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	mem, err := s.Upsert(ctx, UpsertParams{Key: "name", Value: "Carlos", Score: 1.0, Pinned: true})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !mem.Pinned {
		t.Error("expected pinned memory")
	}

	got, err := s.GetPinned(ctx, 50)
	if err != nil {
		t.Fatalf("get pinned: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Key != "name" || got[0].Value != "Carlos" {
		t.Errorf("unexpected memory: %+v", got[0])
	}
}

func TestUpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	for i := 0; i < 3; i++ {
		if _, err := s.Upsert(ctx, UpsertParams{Key: "k", Value: "v", Score: 1.0, Pinned: true}); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	got, err := s.GetPinned(ctx, 50)
	if err != nil {
		t.Fatalf("get pinned: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 row after repeated upserts, got %d", len(got))
	}
}

func TestUpsertOverwritesValue(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	s.Upsert(ctx, UpsertParams{Key: "city", Value: "Austin", Score: 1.0, Pinned: true})
	s.Upsert(ctx, UpsertParams{Key: "city", Value: "Lisbon", Score: 0.5, Pinned: true})

	got, _ := s.GetPinned(ctx, 50)
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].Value != "Lisbon" {
		t.Errorf("expected overwritten value 'Lisbon', got %q", got[0].Value)
	}
	if got[0].Score != 0.5 {
		t.Errorf("expected overwritten score 0.5, got %v", got[0].Score)
	}
}

func TestPinnedAndNonPinnedCoexist(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	s.Upsert(ctx, UpsertParams{Key: "k", Value: "permanent", Score: 1.0, Pinned: true})
	s.Upsert(ctx, UpsertParams{Key: "k", Value: "transient", Score: 1.0, Pinned: false})

	all, err := s.AllMemories(ctx, 10)
	if err != nil {
		t.Fatalf("all memories: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected one row per (key, pinned) pair, got %d", len(all))
	}
}

func TestUpsertRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	cases := []UpsertParams{
		{Key: "", Value: "v", Score: 1.0},
		{Key: "  ", Value: "v", Score: 1.0},
		{Key: "k", Value: "", Score: 1.0},
		{Key: "k", Value: "v", Score: -1},
	}
	for _, p := range cases {
		if _, err := s.Upsert(ctx, p); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("params %+v: expected ErrInvalidInput, got %v", p, err)
		}
	}

	if got, _ := s.AllMemories(ctx, 10); len(got) != 0 {
		t.Errorf("rejected writes must not be applied, found %d rows", len(got))
	}
}

func TestGetPinnedInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	s.Upsert(ctx, UpsertParams{Key: "name", Value: "Carlos", Score: 1.0, Pinned: true})
	s.Upsert(ctx, UpsertParams{Key: "birthday", Value: "10/13/1969", Score: 1.0, Pinned: true})

	got, err := s.GetPinned(ctx, 50)
	if err != nil {
		t.Fatalf("get pinned: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Key != "name" || got[1].Key != "birthday" {
		t.Errorf("expected insertion order [name birthday], got [%s %s]", got[0].Key, got[1].Key)
	}
}

func TestGetPinnedLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	s.Upsert(ctx, UpsertParams{Key: "a", Value: "1", Score: 1.0, Pinned: true})
	s.Upsert(ctx, UpsertParams{Key: "b", Value: "2", Score: 1.0, Pinned: true})
	s.Upsert(ctx, UpsertParams{Key: "c", Value: "3", Score: 1.0, Pinned: true})

	got, _ := s.GetPinned(ctx, 2)
	if len(got) != 2 {
		t.Errorf("expected limit 2 to be honored, got %d", len(got))
	}
}

func TestCacheReflectsWriteImmediately(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	s.Upsert(ctx, UpsertParams{Key: "a", Value: "1", Score: 1.0, Pinned: true})

	// Warm the cache, then write within the TTL window.
	if got, _ := s.GetPinned(ctx, 50); len(got) != 1 {
		t.Fatalf("expected 1 pinned, got %d", len(got))
	}
	s.Upsert(ctx, UpsertParams{Key: "b", Value: "2", Score: 1.0, Pinned: true})

	got, _ := s.GetPinned(ctx, 50)
	if len(got) != 2 {
		t.Errorf("read after write must reflect the write, got %d rows", len(got))
	}
}

func TestCacheReflectsForgetImmediately(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	s.Upsert(ctx, UpsertParams{Key: "a", Value: "1", Score: 1.0, Pinned: true})
	s.GetPinned(ctx, 50)

	if err := s.Forget(ctx, "a"); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if got, _ := s.GetPinned(ctx, 50); len(got) != 0 {
		t.Errorf("expected empty pinned set after forget, got %d", len(got))
	}
}

func TestNonPinnedCapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{CacheTTL: 15 * time.Second, NonPinnedCap: 3})

	for _, k := range []string{"a", "b", "c", "d"} {
		if err := s.AddNonPinned(ctx, k, "v", 1.0); err != nil {
			t.Fatalf("add %s: %v", k, err)
		}
	}

	all, _ := s.AllMemories(ctx, 10)
	if len(all) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(all))
	}
	for _, m := range all {
		if m.Key == "a" {
			t.Error("oldest fact should have been evicted")
		}
	}
}

func TestCapNeverTouchesPinned(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{CacheTTL: 15 * time.Second, NonPinnedCap: 2})

	for _, k := range []string{"p1", "p2", "p3", "p4"} {
		s.Upsert(ctx, UpsertParams{Key: k, Value: "v", Score: 1.0, Pinned: true})
	}
	for _, k := range []string{"n1", "n2", "n3"} {
		s.AddNonPinned(ctx, k, "v", 1.0)
	}

	pinned, _ := s.GetPinned(ctx, 50)
	if len(pinned) != 4 {
		t.Errorf("pinned facts must never be evicted, got %d of 4", len(pinned))
	}

	all, _ := s.AllMemories(ctx, 20)
	nonPinned := 0
	for _, m := range all {
		if !m.Pinned {
			nonPinned++
		}
	}
	if nonPinned != 2 {
		t.Errorf("expected 2 non-pinned after cap, got %d", nonPinned)
	}
}

func TestEnforceCapReportsDeletions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		s.Upsert(ctx, UpsertParams{Key: k, Value: "v", Score: 1.0})
	}

	n, err := s.EnforceNonPinnedCap(ctx, 2)
	if err != nil {
		t.Fatalf("enforce cap: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 deletions, got %d", n)
	}
}

func TestUnpinKeepsNonPinned(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	s.Upsert(ctx, UpsertParams{Key: "k", Value: "pinned", Score: 1.0, Pinned: true})
	s.Upsert(ctx, UpsertParams{Key: "k", Value: "loose", Score: 1.0})

	if err := s.Unpin(ctx, "k"); err != nil {
		t.Fatalf("unpin: %v", err)
	}

	all, _ := s.AllMemories(ctx, 10)
	if len(all) != 1 || all[0].Pinned {
		t.Errorf("expected only the non-pinned row to survive, got %+v", all)
	}
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, DefaultOptions())

	s.Upsert(ctx, UpsertParams{Key: "k", Value: "v", Score: 1.0, Pinned: true})
	id, _ := s.StartSession(ctx, "")
	s.AddTurn(ctx, turnFor(id, "user", "hello"))

	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if err := s.Vacuum(ctx); err != nil {
		t.Fatalf("vacuum: %v", err)
	}

	if got, _ := s.AllMemories(ctx, 10); len(got) != 0 {
		t.Errorf("expected no memories, got %d", len(got))
	}
	if turns, _ := s.GetSessionTurns(ctx, id); len(turns) != 0 {
		t.Errorf("expected no turns, got %d", len(turns))
	}
}
