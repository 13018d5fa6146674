// Package prompt formats stored knowledge for language-model prompts.
package prompt

import (
	"fmt"
	"strings"

	"github.com/lunalabs/lunamem/internal/model"
)

// PinnedHeader precedes the pinned fact lines in every prompt.
const PinnedHeader = "Pinned user facts (trusted):"

// PinnedContext renders pinned facts as "- key: value" lines under a
// fixed header. An empty set renders to the empty string so the caller
// can omit the section entirely.
func PinnedContext(memories []model.Memory) string {
	if len(memories) == 0 {
		return ""
	}

	lines := make([]string, 0, len(memories)+1)
	lines = append(lines, PinnedHeader)
	for _, m := range memories {
		lines = append(lines, fmt.Sprintf("- %s: %s", m.Key, m.Value))
	}
	return strings.Join(lines, "\n")
}

// Transcript renders a session's turns as "role: text" lines for review.
func Transcript(turns []model.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Role, t.Text))
	}
	return strings.Join(lines, "\n")
}
