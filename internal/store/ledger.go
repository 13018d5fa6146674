package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lunalabs/lunamem/internal/model"
)

// The turn ledger is append-only: turns are never mutated after insert,
// and the only delete path is DeleteAll.

func (s *SQLiteStore) StartSession(ctx context.Context, meta string) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := s.newID()
	now := time.Now().UTC()

	var metaPtr *string
	if meta != "" {
		metaPtr = &meta
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions(id, started_at, meta_json) VALUES(?,?,?)`,
		id, now.Format(time.RFC3339), metaPtr)
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) AddTurn(ctx context.Context, t model.Turn) error {
	if strings.TrimSpace(t.SessionID) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(t.Role) == "" {
		return fmt.Errorf("%w: role is required", ErrInvalidInput)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns(session_id, role, text, asr_ms, llm_ms, tts_ms, created_at)
		 VALUES(?,?,?,?,?,?,?)`,
		t.SessionID, t.Role, t.Text, t.ASRMillis, t.LLMMillis, t.TTSMillis,
		now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("add turn: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSessionTurns(ctx context.Context, sessionID string) ([]model.Turn, error) {
	return s.queryTurns(ctx,
		`SELECT session_id, role, text, asr_ms, llm_ms, tts_ms, created_at
		 FROM turns WHERE session_id = ?
		 ORDER BY id ASC`, sessionID)
}

// GetRecentTurns returns the last n turns of a session in chronological
// order, for short-history prompt assembly.
func (s *SQLiteStore) GetRecentTurns(ctx context.Context, sessionID string, n int) ([]model.Turn, error) {
	if n <= 0 {
		n = 6
	}
	turns, err := s.queryTurns(ctx,
		`SELECT session_id, role, text, asr_ms, llm_ms, tts_ms, created_at
		 FROM turns WHERE session_id = ?
		 ORDER BY id DESC LIMIT ?`, sessionID, n)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *SQLiteStore) queryTurns(ctx context.Context, query string, args ...interface{}) ([]model.Turn, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []model.Turn
	for rows.Next() {
		var t model.Turn
		var createdAt string
		if err := rows.Scan(&t.SessionID, &t.Role, &t.Text, &t.ASRMillis, &t.LLMMillis, &t.TTSMillis, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
