package knowledge

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Okapi BM25 parameters, standard two-parameter form.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// Tokenize lowercases text and splits it into runs of letters and digits.
// Queries and chunks must go through the same tokenizer.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// indexedChunk is one corpus entry with its precomputed term frequencies.
type indexedChunk struct {
	chunkID int64
	docID   string
	source  string
	seq     int
	text    string

	termFreq map[string]int
	length   int
}

// bm25Index is an immutable snapshot over the whole chunk corpus.
// It is published by atomic pointer swap and never mutated in place.
type bm25Index struct {
	chunks  []indexedChunk
	docFreq map[string]int
	avgLen  float64
}

func buildIndex(chunks []indexedChunk) *bm25Index {
	ix := &bm25Index{
		chunks:  chunks,
		docFreq: make(map[string]int),
	}

	total := 0
	for i := range ix.chunks {
		c := &ix.chunks[i]
		terms := Tokenize(c.text)
		c.length = len(terms)
		c.termFreq = make(map[string]int, len(terms))
		for _, t := range terms {
			c.termFreq[t]++
		}
		for t := range c.termFreq {
			ix.docFreq[t]++
		}
		total += c.length
	}
	if len(ix.chunks) > 0 {
		ix.avgLen = float64(total) / float64(len(ix.chunks))
	}

	return ix
}

// rankedChunk pairs a corpus position with its query score.
type rankedChunk struct {
	pos   int
	score float64
}

// rank scores every chunk against the query terms and orders the corpus
// by descending score, ties broken by ascending chunk id for determinism.
func (ix *bm25Index) rank(queryTerms []string) []rankedChunk {
	n := float64(len(ix.chunks))

	ranked := make([]rankedChunk, len(ix.chunks))
	for i := range ix.chunks {
		ranked[i] = rankedChunk{pos: i, score: ix.score(queryTerms, i, n)}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ix.chunks[ranked[a].pos].chunkID < ix.chunks[ranked[b].pos].chunkID
	})

	return ranked
}

func (ix *bm25Index) score(queryTerms []string, pos int, n float64) float64 {
	c := &ix.chunks[pos]
	if c.length == 0 {
		return 0
	}

	norm := bm25K1 * (1 - bm25B + bm25B*float64(c.length)/ix.avgLen)

	var score float64
	for _, t := range queryTerms {
		tf := float64(c.termFreq[t])
		if tf == 0 {
			continue
		}
		df := float64(ix.docFreq[t])
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		score += idf * tf * (bm25K1 + 1) / (tf + norm)
	}
	return score
}
