// Package store provides the fact store and turn ledger interface and
// SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/lunalabs/lunamem/internal/model"
)

// ErrInvalidInput marks a write rejected at the boundary before touching
// storage. Callers can match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// UpsertParams holds parameters for storing a fact.
type UpsertParams struct {
	Key       string
	Value     string
	Score     float64
	Pinned    bool
	SessionID string // originating session, optional
}

// Options configures a store.
type Options struct {
	// CacheTTL bounds staleness of pinned reads between writes.
	CacheTTL time.Duration
	// NonPinnedCap is the max number of non-pinned facts kept.
	// Zero or negative disables cap enforcement.
	NonPinnedCap int
}

// DefaultOptions returns the default store tuning.
func DefaultOptions() Options {
	return Options{
		CacheTTL:     15 * time.Second,
		NonPinnedCap: 500,
	}
}

// Store defines the fact store and turn ledger operations.
type Store interface {
	// Upsert inserts or overwrites the unique (key, pinned) fact.
	Upsert(ctx context.Context, p UpsertParams) (*model.Memory, error)

	// GetPinned returns up to limit pinned facts in creation order,
	// read through a TTL cache.
	GetPinned(ctx context.Context, limit int) ([]model.Memory, error)

	// AddNonPinned stores a transient fact and synchronously enforces
	// the non-pinned cap.
	AddNonPinned(ctx context.Context, key, value string, score float64) error

	// EnforceNonPinnedCap deletes the oldest non-pinned facts beyond
	// maxCount. Pinned facts are never touched.
	EnforceNonPinnedCap(ctx context.Context, maxCount int) (int, error)

	// AllMemories returns up to limit facts, pinned first.
	AllMemories(ctx context.Context, limit int) ([]model.Memory, error)

	// Forget removes both the pinned and non-pinned fact for key.
	Forget(ctx context.Context, key string) error

	// Unpin removes only the pinned fact for key.
	Unpin(ctx context.Context, key string) error

	// DeleteAll irreversibly clears memories, turns, and sessions.
	DeleteAll(ctx context.Context) error

	// StartSession records a new session and returns its id.
	StartSession(ctx context.Context, meta string) (string, error)

	// AddTurn appends one immutable turn to the ledger.
	AddTurn(ctx context.Context, t model.Turn) error

	// GetSessionTurns returns a session's turns in insertion order.
	GetSessionTurns(ctx context.Context, sessionID string) ([]model.Turn, error)

	// Close closes the store.
	Close() error
}
