package responder

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-concierge-be/pkg/llm"
	"ai-concierge-be/pkg/store"
)

// SystemInstruction frames the open conversational turn.
const SystemInstruction = `You are a helpful assistant. Answer the user's question naturally.
If reference material from the user's documents is provided, prefer it over general knowledge and mention which document the answer came from.
If the documents do not cover the question, answer from general knowledge without pretending the documents did.`

// Generator produces the free-form conversational reply, grounded in
// whatever document material the assembler selected.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewGenerator creates a new conversational responder
func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Respond sends the utterance with running history and an optional grounding
// block. An empty grounding block sends the utterance unmodified.
func (g *Generator) Respond(
	ctx context.Context,
	query string,
	groundingBlock string,
	history []store.ChatTurn,
) (string, error) {

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: SystemInstruction})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	userTurn := query
	if groundingBlock != "" {
		userTurn = buildGroundedPrompt(query, groundingBlock)
	}
	messages = append(messages, llm.Message{Role: "user", Content: userTurn})

	response, err := g.llmProvider.Chat(ctx, messages)
	if err != nil {
		g.logger.Printf("[ERROR] Conversational generation failed: %v", err)
		return "", fmt.Errorf("conversational generation: %w", err)
	}

	g.logger.Printf("[GENERATION] Reply generated (grounded: %t, history: %d turns)",
		groundingBlock != "", len(history))

	return response, nil
}

func buildGroundedPrompt(query, groundingBlock string) string {
	var prompt strings.Builder

	prompt.WriteString("<reference_material>\n")
	prompt.WriteString(groundingBlock)
	prompt.WriteString("\n</reference_material>\n\n")
	prompt.WriteString(query)

	return prompt.String()
}
