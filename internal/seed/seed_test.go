package seed

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lunalabs/lunamem/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), store.DefaultOptions())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	csv := strings.Join([]string{
		`key,value`,
		`name,Carlos`,
		`birthday,10/13/1969`,
	}, "\n")

	n, err := Load(ctx, s, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 loaded (header skipped), got %d", n)
	}

	pinned, err := s.GetPinned(ctx, 50)
	if err != nil {
		t.Fatalf("get pinned: %v", err)
	}
	if len(pinned) != 2 {
		t.Fatalf("expected 2 pinned facts, got %d", len(pinned))
	}
	if pinned[0].Key != "name" || pinned[1].Key != "birthday" {
		t.Errorf("expected insertion order, got [%s %s]", pinned[0].Key, pinned[1].Key)
	}
	for _, m := range pinned {
		if m.Score != TrustScore {
			t.Errorf("expected trust score %v, got %v", TrustScore, m.Score)
		}
		if !m.Pinned {
			t.Error("seeded facts must be pinned")
		}
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	csv := strings.Join([]string{
		`onlyonecolumn`,
		`,emptykey`,
		`emptyvalue,`,
		`good,row`,
	}, "\n")

	n, err := Load(ctx, s, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 1 {
		t.Errorf("expected only the good row, got %d", n)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	csv := "name,Carlos\n"
	Load(ctx, s, strings.NewReader(csv))
	Load(ctx, s, strings.NewReader(csv))

	pinned, _ := s.GetPinned(ctx, 50)
	if len(pinned) != 1 {
		t.Errorf("reseeding must not duplicate rows, got %d", len(pinned))
	}
}

func TestClean(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  plain  ", "plain"},
		{"“smart”", "smart"},
		{"'wrapped'", "wrapped"},
		{"a|b", "a; b"},
		{"too   many    spaces", "too many spaces"},
	}
	for _, c := range cases {
		if got := clean(c.in); got != c.want {
			t.Errorf("clean(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
