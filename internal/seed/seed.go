// Package seed bulk-loads pinned facts from a two-column CSV (key, value).
package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/lunalabs/lunamem/internal/store"
)

// TrustScore is the fixed score assigned to seeded facts.
const TrustScore = 1.0

var quoteNormalizer = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
)

// Load reads (key, value) rows and upserts each as a pinned fact.
// Malformed or header rows are skipped. Returns the number of facts
// stored.
func Load(ctx context.Context, s store.Store, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	loaded := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return loaded, fmt.Errorf("read csv: %w", err)
		}
		if len(row) < 2 {
			continue
		}

		key := clean(row[0])
		value := clean(row[1])
		if key == "" || value == "" {
			continue
		}
		if strings.EqualFold(key, "key") && strings.EqualFold(value, "value") {
			continue // header row
		}

		if _, err := s.Upsert(ctx, store.UpsertParams{
			Key:    key,
			Value:  value,
			Score:  TrustScore,
			Pinned: true,
		}); err != nil {
			return loaded, fmt.Errorf("seed %q: %w", key, err)
		}
		loaded++
	}

	return loaded, nil
}

// clean normalizes smart quotes, strips wrapping quotes, replaces pipes,
// and collapses repeated whitespace.
func clean(s string) string {
	s = quoteNormalizer.Replace(strings.TrimSpace(s))

	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}

	s = strings.ReplaceAll(s, "|", "; ")
	return strings.Join(strings.Fields(s), " ")
}
