// Package capture extracts candidate facts from user utterances without
// any model calls. Extraction is decoupled from storage: an Extractor
// only produces candidates, and Apply commits them through the fact
// store's ordinary write contract.
package capture

import (
	"context"
	"regexp"
	"strings"

	"github.com/lunalabs/lunamem/internal/model"
)

// Extractor maps one utterance to zero or more candidate facts.
type Extractor interface {
	Extract(utterance string) []model.Fact
}

// FactWriter is the slice of the fact store that capture needs.
type FactWriter interface {
	AddNonPinned(ctx context.Context, key, value string, score float64) error
}

// Apply writes extracted facts as non-pinned memories. Repeated identical
// writes are idempotent and cap enforcement follows every write.
func Apply(ctx context.Context, w FactWriter, facts []model.Fact) error {
	for _, f := range facts {
		if err := w.AddNonPinned(ctx, f.Key, f.Value, f.Confidence); err != nil {
			return err
		}
	}
	return nil
}

var (
	rememberRe = regexp.MustCompile(`(?i)\bremember\b[:\s-]*(.+)$`)
	nameRe     = regexp.MustCompile(`(?i)\bmy name is\s+([A-Za-z0-9][A-Za-z0-9 _-]{1,48})\b`)
	locationRe = regexp.MustCompile(`(?i)\bi (?:live|am located)\s+in\s+(.+)$`)
	wakeRe     = regexp.MustCompile(`(?i)\bwake(?:\s+word|\s+phrase)?\s+is\s+([A-Za-z0-9][A-Za-z0-9 _-]{1,28})\b`)
)

// RuleExtractor captures stable, high-signal facts with fixed patterns.
type RuleExtractor struct{}

func (RuleExtractor) Extract(utterance string) []model.Fact {
	t := strings.TrimSpace(utterance)
	if t == "" {
		return nil
	}

	var out []model.Fact

	if m := rememberRe.FindStringSubmatch(t); m != nil {
		val := strings.Trim(strings.TrimSpace(m[1]), `"'`)
		if val != "" {
			out = append(out, model.Fact{Key: "remember", Value: val, Confidence: 0.95})
		}
	}

	if m := nameRe.FindStringSubmatch(t); m != nil {
		out = append(out, model.Fact{Key: "user_name", Value: strings.TrimSpace(m[1]), Confidence: 0.95})
	}

	if m := locationRe.FindStringSubmatch(t); m != nil {
		val := strings.TrimSuffix(strings.TrimSpace(m[1]), ".")
		if len(val) >= 2 && len(val) <= 80 {
			out = append(out, model.Fact{Key: "user_location", Value: val, Confidence: 0.8})
		}
	}

	if m := wakeRe.FindStringSubmatch(t); m != nil {
		out = append(out, model.Fact{Key: "wake_phrase", Value: strings.TrimSpace(m[1]), Confidence: 0.9})
	}

	// Audio routing hints carry concrete device strings.
	if strings.Contains(t, "plughw:") || strings.Contains(t, "hw:") || strings.Contains(t, "AUDIO_OUT") {
		if len(t) <= 160 {
			out = append(out, model.Fact{Key: "audio_hint", Value: t, Confidence: 0.6})
		}
	}

	return dedupe(out)
}

func dedupe(facts []model.Fact) []model.Fact {
	seen := make(map[[2]string]bool, len(facts))
	var out []model.Fact
	for _, f := range facts {
		k := strings.TrimSpace(f.Key)
		v := strings.TrimSpace(f.Value)
		if k == "" || v == "" {
			continue
		}
		id := [2]string{k, v}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, model.Fact{Key: k, Value: v, Confidence: f.Confidence})
	}
	return out
}
