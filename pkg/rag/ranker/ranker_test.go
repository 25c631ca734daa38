package ranker

import (
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		query string
		want  int
	}{
		{name: "no overlap", chunk: "alpha beta gamma", query: "delta epsilon", want: 0},
		{name: "single overlap", chunk: "alpha beta gamma", query: "beta", want: 1},
		{name: "case insensitive", chunk: "Alpha BETA gamma", query: "alpha beta", want: 2},
		{name: "repeated query token counted per occurrence", chunk: "alpha beta", query: "alpha alpha", want: 2},
		{name: "repeated chunk token counted once", chunk: "alpha alpha alpha", query: "alpha", want: 1},
		{name: "empty query", chunk: "alpha", query: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.chunk, tt.query); got != tt.want {
				t.Errorf("Score(%q, %q) = %d, want %d", tt.chunk, tt.query, got, tt.want)
			}
		})
	}
}

func TestTopKReturnsAtMostK(t *testing.T) {
	chunks := []string{"a b c", "b c d", "c d e", "d e f"}

	got := TopK(chunks, "c d", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}

	got = TopK(chunks, "c d", 10)
	if len(got) != len(chunks) {
		t.Fatalf("k larger than input should return all chunks, got %d", len(got))
	}

	if got := TopK(chunks, "c d", 0); got != nil {
		t.Errorf("k=0 should return nil")
	}
}

func TestTopKOrdersByScore(t *testing.T) {
	chunks := []string{
		"nothing relevant here",
		"payment schedule and budget totals",
		"budget",
	}

	got := TopK(chunks, "budget totals", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0] != chunks[1] {
		t.Errorf("highest scoring chunk should come first, got %q", got[0])
	}
	if got[1] != chunks[2] {
		t.Errorf("second chunk should be %q, got %q", chunks[2], got[1])
	}

	// Every returned chunk must score at least as high as every excluded one
	excluded := Score(chunks[0], "budget totals")
	for _, c := range got {
		if Score(c, "budget totals") < excluded {
			t.Errorf("returned chunk scores below an excluded chunk")
		}
	}
}

func TestTopKStableOnTies(t *testing.T) {
	chunks := []string{"alpha x", "alpha y", "alpha z"}

	got := TopK(chunks, "alpha", 3)
	for i, want := range chunks {
		if got[i] != want {
			t.Errorf("tie order not stable at %d: got %q, want %q", i, got[i], want)
		}
	}
}
