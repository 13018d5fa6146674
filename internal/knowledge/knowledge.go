// Package knowledge stores ingested documents as bounded chunks and serves
// keyword retrieval over an in-memory ranking index.
package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/lunalabs/lunamem/internal/chunker"
	"github.com/lunalabs/lunamem/internal/model"
)

// ErrInvalidInput marks an ingest rejected at the boundary.
var ErrInvalidInput = errors.New("invalid input")

// KnowledgeBase persists documents and chunks in SQLite and answers
// queries from an immutable in-memory index snapshot. The snapshot is
// replaced wholesale by RebuildIndex; retrieval reflects new ingestion
// only after an explicit rebuild.
type KnowledgeBase struct {
	db      *sql.DB
	bound   int
	index   atomic.Pointer[bm25Index]
	writeMu sync.Mutex
	entropy *rand.Rand
	idMu    sync.Mutex
}

// NewKnowledgeBase opens or creates the knowledge tables at the given
// database path. bound is the chunk size bound in characters; zero or
// negative selects chunker.DefaultBound.
func NewKnowledgeBase(dbPath string, bound int) (*KnowledgeBase, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if bound <= 0 {
		bound = chunker.DefaultBound
	}

	kb := &KnowledgeBase{
		db:      db,
		bound:   bound,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := kb.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return kb, nil
}

func (kb *KnowledgeBase) newID() string {
	kb.idMu.Lock()
	defer kb.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), kb.entropy).String()
}

func (kb *KnowledgeBase) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id         TEXT PRIMARY KEY,
		source     TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chunks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id TEXT NOT NULL REFERENCES documents(id),
		seq         INTEGER NOT NULL,
		text        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id, seq);
	`
	_, err := kb.db.Exec(schema)
	return err
}

// IngestText splits text at paragraph boundaries into bounded chunks and
// persists them under a new document. Returns the document id. The index
// is stale until the next RebuildIndex.
func (kb *KnowledgeBase) IngestText(ctx context.Context, source, text string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("%w: source is required", ErrInvalidInput)
	}
	chunks := chunker.Split(text, kb.bound)
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}

	kb.writeMu.Lock()
	defer kb.writeMu.Unlock()

	id := kb.newID()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := kb.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin ingest: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents(id, source, created_at) VALUES(?,?,?)`,
		id, source, now); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}

	for seq, c := range chunks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunks(document_id, seq, text) VALUES(?,?,?)`,
			id, seq, c); err != nil {
			return "", fmt.Errorf("insert chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit ingest: %w", err)
	}

	return id, nil
}

// RebuildIndex loads every persisted chunk and publishes a fresh index
// snapshot. Readers observe either the old or the new index, never a
// partial one. Full rebuild only, never incremental.
func (kb *KnowledgeBase) RebuildIndex(ctx context.Context) error {
	rows, err := kb.db.QueryContext(ctx,
		`SELECT c.id, c.document_id, d.source, c.seq, c.text
		 FROM chunks c
		 JOIN documents d ON d.id = c.document_id
		 ORDER BY c.id ASC`)
	if err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}
	defer rows.Close()

	var chunks []indexedChunk
	for rows.Next() {
		var c indexedChunk
		if err := rows.Scan(&c.chunkID, &c.docID, &c.source, &c.seq, &c.text); err != nil {
			return fmt.Errorf("scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}

	kb.index.Store(buildIndex(chunks))
	return nil
}

// Retrieve scores every indexed chunk against the query and returns at
// most k results above minScore, ordered by descending score with ties
// broken by ascending chunk id. An unbuilt or empty index yields an empty
// result, never an error.
func (kb *KnowledgeBase) Retrieve(query string, k int, minScore float64) []model.RetrievedChunk {
	ix := kb.index.Load()
	if ix == nil || len(ix.chunks) == 0 {
		return nil
	}
	if k <= 0 {
		k = 5
	}

	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	ranked := ix.rank(terms)

	var out []model.RetrievedChunk
	for _, r := range ranked {
		if r.score <= minScore {
			continue
		}
		c := ix.chunks[r.pos]
		out = append(out, model.RetrievedChunk{
			DocumentID: c.docID,
			Source:     c.source,
			Seq:        c.seq,
			Score:      r.score,
			Text:       c.text,
		})
		if len(out) == k {
			break
		}
	}
	return out
}

// Reset deletes all documents and chunks and drops the index snapshot.
func (kb *KnowledgeBase) Reset(ctx context.Context) error {
	kb.writeMu.Lock()
	defer kb.writeMu.Unlock()

	for _, stmt := range []string{`DELETE FROM chunks`, `DELETE FROM documents`} {
		if _, err := kb.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset knowledge: %w", err)
		}
	}
	kb.index.Store(nil)
	return nil
}

// Stats holds knowledge-base counts.
type Stats struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
	Indexed   int `json:"indexed_chunks"`
}

// Stats returns document and chunk counts, plus the size of the current
// index snapshot.
func (kb *KnowledgeBase) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	kb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&st.Documents)
	kb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&st.Chunks)
	if ix := kb.index.Load(); ix != nil {
		st.Indexed = len(ix.chunks)
	}
	return st, nil
}

func (kb *KnowledgeBase) Close() error {
	return kb.db.Close()
}
