package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "one word", text: "hello"},
		{name: "exactly at limit", text: strings.Repeat("a", DefaultMaxChunkLen)},
		{name: "sentences under limit", text: "First sentence. Second sentence. Third!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.text, DefaultMaxChunkLen)
			if len(chunks) != 1 {
				t.Fatalf("expected 1 chunk, got %d", len(chunks))
			}
			if chunks[0] != tt.text {
				t.Errorf("chunk should equal input verbatim")
			}
		})
	}
}

func TestSplitRespectsMaxLen(t *testing.T) {
	// 40 sentences of ~30 runes each against a 100-rune limit
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("This sentence has thirty chars. ")
	}
	text := strings.TrimSpace(sb.String())

	chunks := Split(text, 100)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > 100 {
			t.Errorf("chunk %d exceeds max length: %d runes", i, len([]rune(c)))
		}
	}
}

func TestSplitReconstructsInput(t *testing.T) {
	text := "Alpha one two three. Beta four five six? Gamma seven eight nine! Delta ten eleven twelve. Epsilon thirteen fourteen."
	chunks := Split(text, 40)

	joined := strings.Join(chunks, " ")
	// Normalize all whitespace runs since split boundaries collapse them
	normalize := func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	}
	if normalize(joined) != normalize(text) {
		t.Errorf("concatenated chunks do not reproduce input:\n got: %q\nwant: %q", joined, text)
	}
}

func TestSplitOversizedSentenceKeptWhole(t *testing.T) {
	long := strings.Repeat("x", 150) + "."
	text := "Short. " + long + " Tail."

	chunks := Split(text, 100)

	found := false
	for _, c := range chunks {
		if strings.Contains(c, long) {
			found = true
			if strings.Contains(c, "Tail") {
				t.Errorf("oversized sentence should form its own chunk, got %q", c)
			}
		}
	}
	if !found {
		t.Fatalf("oversized sentence was split mid-sentence")
	}
}

func TestSplitNoSentenceBoundaries(t *testing.T) {
	// No terminators at all: the whole text is one oversized sentence
	text := strings.Repeat("word ", 50) + "word"
	chunks := Split(text, 30)
	if len(chunks) != 1 {
		t.Fatalf("text without sentence boundaries should stay whole, got %d chunks", len(chunks))
	}
}
