// Package chunker splits source text into retrieval-sized chunks at
// paragraph boundaries.
package chunker

import "strings"

// DefaultBound is the default chunk size bound in characters.
const DefaultBound = 1200

// Split breaks text at blank-line paragraph boundaries and accumulates
// paragraphs into chunks of at most bound characters. A paragraph is never
// split: one that alone exceeds the bound becomes its own oversized chunk.
func Split(text string, bound int) []string {
	if bound <= 0 {
		bound = DefaultBound
	}

	paras := splitParagraphs(text)
	if len(paras) == 0 {
		return nil
	}

	var chunks []string
	var buf []string
	bufLen := 0

	for _, p := range paras {
		need := len(p)
		if bufLen > 0 {
			need += 2 // joining blank line
		}
		if bufLen > 0 && bufLen+need > bound {
			chunks = append(chunks, strings.Join(buf, "\n\n"))
			buf = nil
			bufLen = 0
			need = len(p)
		}
		buf = append(buf, p)
		bufLen += need
	}
	if len(buf) > 0 {
		chunks = append(chunks, strings.Join(buf, "\n\n"))
	}

	return chunks
}

// splitParagraphs splits on runs of blank lines, preserving single
// newlines inside a paragraph.
func splitParagraphs(text string) []string {
	var paras []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		p := strings.TrimSpace(strings.Join(current, "\n"))
		if p != "" {
			paras = append(paras, p)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paras
}
