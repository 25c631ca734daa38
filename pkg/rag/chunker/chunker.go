package chunker

import (
	"strings"
	"unicode"
)

// DefaultMaxChunkLen is the maximum chunk length in runes.
const DefaultMaxChunkLen = 2000

// Split breaks a long text into chunks of at most maxLen runes, preferring
// sentence boundaries. Text at or under the limit is returned as a single
// chunk. A single sentence longer than maxLen becomes its own oversized chunk
// rather than being cut mid-sentence.
func Split(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxChunkLen
	}
	if len([]rune(text)) <= maxLen {
		return []string{text}
	}

	sentences := splitSentences(text)

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, sentence := range sentences {
		sentenceLen := len([]rune(sentence))

		// +1 accounts for the joining space between sentences
		if currentLen > 0 && currentLen+1+sentenceLen > maxLen {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}

		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(sentence)
		currentLen += sentenceLen
	}

	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitSentences cuts text after '.', '?' or '!' followed by whitespace.
// The terminator stays with its sentence; the boundary whitespace is dropped
// and reinserted as a single space when sentences are joined into chunks.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '.' || r == '?' || r == '!') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			sentences = append(sentences, string(runes[start:i+1]))
			// Skip the whitespace run to the start of the next sentence
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}

	return sentences
}
