package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/lunalabs/lunamem/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	opts    Options
	cache   *pinnedCache
	writeMu sync.Mutex // serializes writes; held across cache invalidation
	entropy *rand.Rand
	idMu    sync.Mutex
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, opts Options) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultOptions().CacheTTL
	}

	s := &SQLiteStore{
		db:      db,
		opts:    opts,
		cache:   newPinnedCache(opts.CacheTTL),
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		meta_json  TEXT
	);

	CREATE TABLE IF NOT EXISTS turns (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		role       TEXT NOT NULL,
		text       TEXT NOT NULL,
		asr_ms     INTEGER NOT NULL DEFAULT 0,
		llm_ms     INTEGER NOT NULL DEFAULT 0,
		tts_ms     INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, id);

	CREATE TABLE IF NOT EXISTS memories (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at        TEXT NOT NULL,
		k                 TEXT NOT NULL,
		v                 TEXT NOT NULL,
		source_session_id TEXT,
		score             REAL NOT NULL DEFAULT 1.0,
		pinned            INTEGER NOT NULL DEFAULT 0
	);
	CREATE UNIQUE INDEX IF NOT EXISTS uq_memories_k_pinned ON memories(k, pinned);
	CREATE INDEX IF NOT EXISTS idx_memories_pinned_created ON memories(pinned, created_at, id);
	CREATE INDEX IF NOT EXISTS idx_memories_created ON memories(created_at, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Upsert(ctx context.Context, p UpsertParams) (*model.Memory, error) {
	key := strings.TrimSpace(p.Key)
	value := strings.TrimSpace(p.Value)
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidInput)
	}
	if value == "" {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidInput)
	}
	if p.Score < 0 {
		return nil, fmt.Errorf("%w: score must be non-negative", ErrInvalidInput)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := time.Now().UTC()

	var session *string
	if p.SessionID != "" {
		session = &p.SessionID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories(created_at, k, v, source_session_id, score, pinned)
		 VALUES(?,?,?,?,?,?)
		 ON CONFLICT(k, pinned) DO UPDATE SET
		   created_at=excluded.created_at,
		   v=excluded.v,
		   source_session_id=excluded.source_session_id,
		   score=excluded.score`,
		now.Format(time.RFC3339), key, value, session, p.Score, boolToInt(p.Pinned))
	if err != nil {
		return nil, fmt.Errorf("upsert memory: %w", err)
	}

	s.cache.invalidate()

	return &model.Memory{
		Key:           key,
		Value:         value,
		Score:         p.Score,
		Pinned:        p.Pinned,
		SourceSession: p.SessionID,
		CreatedAt:     now,
	}, nil
}

func (s *SQLiteStore) GetPinned(ctx context.Context, limit int) ([]model.Memory, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, ok := s.cache.get()
	if !ok {
		var err error
		rows, err = s.queryMemories(ctx,
			`SELECT k, v, score, pinned, source_session_id, created_at
			 FROM memories WHERE pinned = 1
			 ORDER BY created_at ASC, id ASC`)
		if err != nil {
			return nil, err
		}
		s.cache.set(rows)
	}

	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]model.Memory, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *SQLiteStore) AddNonPinned(ctx context.Context, key, value string, score float64) error {
	if _, err := s.Upsert(ctx, UpsertParams{Key: key, Value: value, Score: score}); err != nil {
		return err
	}
	// The write stays even if enforcement fails: capacity is eventually
	// consistent, the (key, pinned) row is not.
	_, err := s.EnforceNonPinnedCap(ctx, s.opts.NonPinnedCap)
	return err
}

func (s *SQLiteStore) EnforceNonPinnedCap(ctx context.Context, maxCount int) (int, error) {
	if maxCount <= 0 {
		return 0, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM memories
		 WHERE pinned = 0
		   AND id NOT IN (
		     SELECT id FROM memories
		     WHERE pinned = 0
		     ORDER BY created_at DESC, id DESC
		     LIMIT ?
		   )`, maxCount)
	if err != nil {
		return 0, fmt.Errorf("enforce cap: %w", err)
	}

	s.cache.invalidate()

	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) AllMemories(ctx context.Context, limit int) ([]model.Memory, error) {
	if limit <= 0 {
		limit = 200
	}
	return s.queryMemories(ctx,
		`SELECT k, v, score, pinned, source_session_id, created_at
		 FROM memories
		 ORDER BY pinned DESC, score DESC, created_at DESC, id DESC
		 LIMIT ?`, limit)
}

func (s *SQLiteStore) Forget(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidInput)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE k = ?`, key); err != nil {
		return fmt.Errorf("forget memory: %w", err)
	}
	s.cache.invalidate()
	return nil
}

func (s *SQLiteStore) Unpin(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidInput)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE k = ? AND pinned = 1`, key); err != nil {
		return fmt.Errorf("unpin memory: %w", err)
	}
	s.cache.invalidate()
	return nil
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// Turns reference sessions; delete them first.
	for _, stmt := range []string{
		`DELETE FROM turns`,
		`DELETE FROM sessions`,
		`DELETE FROM memories`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("delete all: %w", err)
		}
	}
	s.cache.invalidate()
	return nil
}

// Vacuum compacts the database file after a reset.
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryMemories(ctx context.Context, query string, args ...interface{}) ([]model.Memory, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	var memories []model.Memory
	for rows.Next() {
		var m model.Memory
		var pinned int
		var session sql.NullString
		var createdAt string
		if err := rows.Scan(&m.Key, &m.Value, &m.Score, &pinned, &session, &createdAt); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		m.Pinned = pinned != 0
		if session.Valid {
			m.SourceSession = session.String
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
