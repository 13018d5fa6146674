package store

import (
	"context"
	"os"
)

// Stats holds fact-store statistics.
type Stats struct {
	DBPath      string `json:"db_path"`
	DBSizeBytes int64  `json:"db_size_bytes"`
	Pinned      int    `json:"pinned_memories"`
	NonPinned   int    `json:"non_pinned_memories"`
	Sessions    int    `json:"sessions"`
	Turns       int    `json:"turns"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories WHERE pinned = 1`).Scan(&st.Pinned)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories WHERE pinned = 0`).Scan(&st.NonPinned)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&st.Sessions)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns`).Scan(&st.Turns)

	return st, nil
}
