package grounding

import (
	"strings"
	"testing"

	"ai-concierge-be/pkg/store"
)

func TestAssembleEmptyDocumentSet(t *testing.T) {
	a := NewAssembler()
	if got := a.Assemble(nil, "anything"); got != "" {
		t.Errorf("empty document set should yield empty block, got %q", got)
	}
}

func TestAssembleShortDocumentIncludedVerbatim(t *testing.T) {
	a := NewAssembler()
	doc := store.Document{Name: "notes.txt", RawText: "The meeting is on Tuesday at noon."}

	got := a.Assemble([]store.Document{doc}, "meeting")

	if !strings.Contains(got, "--- Document: notes.txt ---") {
		t.Errorf("block missing source label: %q", got)
	}
	if !strings.Contains(got, doc.RawText) {
		t.Errorf("short document should be included in full")
	}
}

func TestAssembleShortFullLongRanked(t *testing.T) {
	a := NewAssembler()

	short := store.Document{
		Name:    "short.txt",
		RawText: strings.Repeat("short note content. ", 40), // ~800 runes, below threshold
	}

	// Build a long document (~10000 runes) where exactly two sentences
	// mention the query topic.
	var sb strings.Builder
	for i := 0; i < 240; i++ {
		if i == 30 {
			sb.WriteString("The quarterly budget allocation was approved. ")
		} else if i == 200 {
			sb.WriteString("Revised budget numbers arrive next week. ")
		} else {
			sb.WriteString("Unrelated filler sentence about nothing at all. ")
		}
	}
	long := store.Document{Name: "long.txt", RawText: sb.String()}

	got := a.Assemble([]store.Document{short, long}, "budget allocation")

	if !strings.Contains(got, strings.TrimSpace(short.RawText)) {
		t.Errorf("document below threshold should be included in full")
	}
	if strings.Contains(got, long.RawText) {
		t.Errorf("document above threshold must not be included in full")
	}
	if !strings.Contains(got, "budget") {
		t.Errorf("ranked chunks of the long document should cover the query topic")
	}
	if !strings.Contains(got, "--- Document: long.txt ---") {
		t.Errorf("long document contribution must be labeled")
	}

	// The long document contributes at most ChunksPerDocument chunks, so its
	// share of the block stays well under the raw document size.
	longSection := got[strings.Index(got, "--- Document: long.txt ---"):]
	if len([]rune(longSection)) > ChunksPerDocument*2000+100 {
		t.Errorf("long document contribution exceeds the chunk budget: %d runes", len([]rune(longSection)))
	}
}
