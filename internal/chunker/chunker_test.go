package chunker

import (
	"strings"
	"testing"
)

func TestSplit_EmptyInput(t *testing.T) {
	if got := Split("", DefaultBound); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := Split("\n\n  \n", DefaultBound); got != nil {
		t.Errorf("expected nil for blank text, got %v", got)
	}
}

func TestSplit_ShortContent(t *testing.T) {
	text := "A short note."
	got := Split(text, DefaultBound)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != text {
		t.Errorf("expected %q, got %q", text, got[0])
	}
}

func TestSplit_ExactBoundIsOneChunk(t *testing.T) {
	a := strings.Repeat("a", 49)
	b := strings.Repeat("b", 49)
	// Joined size is 49 + 2 + 49 = 100.
	got := Split(a+"\n\n"+b, 100)
	if len(got) != 1 {
		t.Fatalf("paragraphs summing to the bound should be one chunk, got %d", len(got))
	}

	// One more paragraph tips it over.
	c := strings.Repeat("c", 10)
	got = Split(a+"\n\n"+b+"\n\n"+c, 100)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks past the bound, got %d", len(got))
	}
	if got[1] != c {
		t.Errorf("expected trailing paragraph alone, got %q", got[1])
	}
}

func TestSplit_OversizedParagraphStandsAlone(t *testing.T) {
	small := "small paragraph"
	big := strings.Repeat("x", 300)

	got := Split(small+"\n\n"+big+"\n\n"+small, 100)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(got))
	}
	if got[1] != big {
		t.Error("oversized paragraph must become its own chunk, unsplit")
	}
	if len(got[1]) <= 100 {
		t.Error("expected the middle chunk to exceed the bound")
	}
}

func TestSplit_NeverSplitsMidParagraph(t *testing.T) {
	var paras []string
	for i := 0; i < 4; i++ {
		paras = append(paras, strings.TrimSpace(strings.Repeat("word ", 110))) // ~550 chars each
	}
	text := strings.Join(paras, "\n\n")

	got := Split(text, 1200)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	for i, c := range got {
		if len(c) > 1200 {
			t.Errorf("chunk %d exceeds bound: %d chars", i, len(c))
		}
	}
	// Every original paragraph must appear intact in some chunk.
	joined := strings.Join(got, "\n\n")
	for i, p := range paras {
		if !strings.Contains(joined, p) {
			t.Errorf("paragraph %d was split across chunks", i)
		}
	}
}

func TestSplit_PreservesSingleNewlines(t *testing.T) {
	text := "line one\nline two\n\nnext paragraph"
	got := Split(text, DefaultBound)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if !strings.Contains(got[0], "line one\nline two") {
		t.Errorf("single newlines inside a paragraph should survive, got %q", got[0])
	}
}

func TestSplit_DefaultBound(t *testing.T) {
	para := strings.TrimSpace(strings.Repeat("words and more words ", 40)) // ~840 chars
	text := para + "\n\n" + para

	got := Split(text, 0)
	if len(got) != 2 {
		t.Fatalf("expected default bound to split two large paragraphs, got %d chunks", len(got))
	}
}
