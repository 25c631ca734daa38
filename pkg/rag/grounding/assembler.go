package grounding

import (
	"fmt"
	"strings"

	"ai-concierge-be/pkg/rag/chunker"
	"ai-concierge-be/pkg/rag/ranker"
	"ai-concierge-be/pkg/store"
)

const (
	// SmallDocumentThreshold is the rune length under which a document is
	// included verbatim instead of being chunked and ranked.
	SmallDocumentThreshold = 3000

	// ChunksPerDocument is how many top-ranked chunks a large document
	// contributes to the grounding block.
	ChunksPerDocument = 2
)

// Assembler combines relevant material from the session's documents into a
// single grounding block under a size budget.
type Assembler struct {
	smallDocThreshold int
	maxChunkLen       int
	chunksPerDoc      int
}

// NewAssembler creates an assembler with the default budget.
func NewAssembler() *Assembler {
	return &Assembler{
		smallDocThreshold: SmallDocumentThreshold,
		maxChunkLen:       chunker.DefaultMaxChunkLen,
		chunksPerDoc:      ChunksPerDocument,
	}
}

// Assemble builds the grounding block for a query. Documents under the
// small-document threshold are included in full; larger documents contribute
// only their top-ranked chunks. Every inclusion is labeled with its source
// document name. An empty document set yields an empty block.
func (a *Assembler) Assemble(docs []store.Document, query string) string {
	var block strings.Builder

	for _, doc := range docs {
		var material string
		if len([]rune(doc.RawText)) < a.smallDocThreshold {
			material = doc.RawText
		} else {
			chunks := chunker.Split(doc.RawText, a.maxChunkLen)
			top := ranker.TopK(chunks, query, a.chunksPerDoc)
			material = strings.Join(top, "\n")
		}

		if strings.TrimSpace(material) == "" {
			continue
		}

		block.WriteString(fmt.Sprintf("--- Document: %s ---\n", doc.Name))
		block.WriteString(material)
		block.WriteString("\n\n")
	}

	return strings.TrimSpace(block.String())
}
