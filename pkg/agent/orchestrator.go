package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"ai-concierge-be/pkg/agent/dispatch"
	"ai-concierge-be/pkg/agent/extract"
	"ai-concierge-be/pkg/agent/intent"
	"ai-concierge-be/pkg/booking"
	"ai-concierge-be/pkg/llm"
	"ai-concierge-be/pkg/rag/grounding"
	"ai-concierge-be/pkg/rag/responder"
	"ai-concierge-be/pkg/store"
)

// ClarificationSystemInstruction keeps the model on-task when agent mode
// cannot classify the utterance. General knowledge answers are forbidden;
// the only allowed output is a question that narrows the user's request
// down to a booking action.
const ClarificationSystemInstruction = `You are a booking assistant. You can ONLY help with: ordering food, booking movie tickets, listing the menu, and listing existing bookings.
You MUST NOT answer general knowledge questions or discuss anything else.
The user's message did not clearly match any booking action. Reply with ONE short question asking what booking action they want.`

const (
	// FallbackClarification is used when even the clarification call fails.
	FallbackClarification = "I can help you order food, book movie tickets, show the menu, or list your bookings. What would you like to do?"

	// ExtractionFailedMessage is the generic reply for an unparseable
	// extraction response. The attempt is not retried.
	ExtractionFailedMessage = "Sorry, I couldn't process that request. Could you rephrase it?"
)

// Conversation is the immutable per-call configuration: which mode the
// session is in when the utterance arrives. Passed by value so orchestration
// never depends on shared mutable state.
type Conversation struct {
	SessionID string
	UserID    string
	Mode      string // store.ModeGeneral | store.ModeAgentBooking
}

// Reply is the outcome of one orchestrated utterance.
type Reply struct {
	Text   string
	Intent string
	// Action is set when a booking action was dispatched (or failed to
	// dispatch); ownership transfers to the caller for display and for the
	// task sink.
	Action *booking.ActionResult
}

// Orchestrator routes each utterance through the mode state machine:
// agent-mode utterances go to the intent classifier and booking pipeline,
// general-mode utterances go through the legacy intent set and then the
// document-grounded conversational responder.
type Orchestrator struct {
	extractor   *extract.Extractor
	dispatcher  *dispatch.Dispatcher
	catalog     *extract.CatalogCache
	assembler   *grounding.Assembler
	responder   *responder.Generator
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewOrchestrator wires the agent pipeline components together.
func NewOrchestrator(
	extractor *extract.Extractor,
	dispatcher *dispatch.Dispatcher,
	catalog *extract.CatalogCache,
	assembler *grounding.Assembler,
	respGen *responder.Generator,
	llmProvider llm.LLMProvider,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractor:   extractor,
		dispatcher:  dispatcher,
		catalog:     catalog,
		assembler:   assembler,
		responder:   respGen,
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// HandleUtterance processes one utterance under the given conversation
// config. Model and service failures never escape as errors: every failure
// path is converted into a user-facing reply. The error return is reserved
// for programming-contract violations.
func (o *Orchestrator) HandleUtterance(
	ctx context.Context,
	conv Conversation,
	utterance string,
	docs []store.Document,
	history []store.ChatTurn,
) (*Reply, error) {

	if conv.Mode == store.ModeAgentBooking {
		return o.handleAgentMode(ctx, utterance)
	}
	return o.handleGeneralMode(ctx, utterance, docs, history)
}

// --- Agent mode ---

func (o *Orchestrator) handleAgentMode(ctx context.Context, utterance string) (*Reply, error) {
	it := intent.ClassifyBooking(utterance)
	o.logger.Printf("[AGENT] Intent classified: %s", it)

	switch it {
	case intent.ListMenu:
		return o.replyWithMenu(ctx), nil

	case intent.ListBookings:
		result := o.dispatcher.DispatchListBookings(ctx)
		return &Reply{Text: formatBookings(result), Intent: it.String(), Action: result}, nil

	case intent.FoodOrder:
		return o.handleFoodOrder(ctx, utterance)

	case intent.MovieBooking:
		return o.handleMovieBooking(ctx, utterance)

	default:
		// Ambiguous intent is not an error: ask a clarifying question, never
		// an open-domain answer.
		return &Reply{Text: o.clarify(ctx, utterance), Intent: it.String()}, nil
	}
}

func (o *Orchestrator) handleFoodOrder(ctx context.Context, utterance string) (*Reply, error) {
	params, err := o.extractor.ExtractFoodOrder(ctx, utterance)
	if err != nil {
		return o.replyForExtractionError(err, intent.FoodOrder), nil
	}

	result, err := o.dispatcher.DispatchFoodOrder(ctx, params)
	if err != nil {
		return nil, err // contract violation, excluded by validation
	}

	return &Reply{Text: formatDispatchOutcome(result, "Your order is placed!"), Intent: intent.FoodOrder.String(), Action: result}, nil
}

func (o *Orchestrator) handleMovieBooking(ctx context.Context, utterance string) (*Reply, error) {
	params, err := o.extractor.ExtractMovieBooking(ctx, utterance)
	if err != nil {
		return o.replyForExtractionError(err, intent.MovieBooking), nil
	}

	result, err := o.dispatcher.DispatchMovieBooking(ctx, params)
	if err != nil {
		return nil, err // contract violation, excluded by validation
	}

	return &Reply{Text: formatDispatchOutcome(result, "Your seats are booked!"), Intent: intent.MovieBooking.String(), Action: result}, nil
}

// replyForExtractionError converts the extractor's error kinds into replies:
// the recoverable missing-details condition becomes a follow-up question,
// everything else a generic failure message.
func (o *Orchestrator) replyForExtractionError(err error, it intent.Intent) *Reply {
	if mf, ok := extract.AsMissingField(err); ok {
		o.logger.Printf("[AGENT] Missing field %q, asking follow-up", mf.Field)
		return &Reply{Text: mf.Prompt, Intent: it.String()}
	}
	if errors.Is(err, extract.ErrExtractionParse) {
		o.logger.Printf("[AGENT] Extraction parse failure: %v", err)
		return &Reply{Text: ExtractionFailedMessage, Intent: it.String()}
	}
	// Catalog fetch or model transport failure
	o.logger.Printf("[AGENT] Extraction failed: %v", err)
	return &Reply{
		Text:   booking.TransportFailureMessage,
		Intent: it.String(),
		Action: &booking.ActionResult{Success: false, Message: booking.TransportFailureMessage, TransportFailure: true},
	}
}

func (o *Orchestrator) replyWithMenu(ctx context.Context) *Reply {
	catalog, err := o.catalog.Get(ctx)
	if err != nil {
		o.logger.Printf("[AGENT] Menu fetch failed: %v", err)
		return &Reply{
			Text:   booking.TransportFailureMessage,
			Intent: intent.ListMenu.String(),
			Action: &booking.ActionResult{Success: false, Message: booking.TransportFailureMessage, TransportFailure: true},
		}
	}

	var sb strings.Builder
	sb.WriteString("Here's what's available:\n\nFood:\n")
	for _, item := range catalog.FoodItems {
		sb.WriteString(fmt.Sprintf("- %s (%.2f)\n", item.Name, item.Price))
	}
	sb.WriteString("\nMovies:\n")
	for _, movie := range catalog.Movies {
		sb.WriteString(fmt.Sprintf("- %s (show times: %s)\n", movie.Title, strings.Join(movie.ShowTimes, ", ")))
	}
	return &Reply{Text: sb.String(), Intent: intent.ListMenu.String()}
}

func (o *Orchestrator) clarify(ctx context.Context, utterance string) string {
	messages := []llm.Message{
		{Role: "system", Content: ClarificationSystemInstruction},
		{Role: "user", Content: utterance},
	}
	response, err := o.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.0))
	if err != nil {
		o.logger.Printf("[AGENT] Clarification call failed, using canned text: %v", err)
		return FallbackClarification
	}
	return response
}

// --- General mode ---

func (o *Orchestrator) handleGeneralMode(
	ctx context.Context,
	utterance string,
	docs []store.Document,
	history []store.ChatTurn,
) (*Reply, error) {

	switch legacy := intent.ClassifyGeneral(utterance); legacy {
	case intent.LegacyImageGeneration:
		return &Reply{
			Text:   "Image generation isn't available in this chat. I can answer questions about your documents, or switch to agent mode to place bookings.",
			Intent: legacy.String(),
		}, nil
	case intent.LegacyTicketBooking, intent.LegacyFoodOrder:
		return &Reply{
			Text:   "To place bookings, switch to agent mode first. There I can order food and book movie tickets for you.",
			Intent: legacy.String(),
		}, nil
	}

	groundingBlock := o.assembler.Assemble(docs, utterance)
	text, err := o.responder.Respond(ctx, utterance, groundingBlock, history)
	if err != nil {
		// The conversation loop must survive model failures
		return &Reply{Text: ExtractionFailedMessage, Intent: intent.LegacyNone.String()}, nil
	}
	return &Reply{Text: text, Intent: intent.LegacyNone.String()}, nil
}

// --- Reply formatting ---

func formatDispatchOutcome(result *booking.ActionResult, successLead string) string {
	if !result.Success {
		return result.Message
	}

	var sb strings.Builder
	sb.WriteString(successLead)
	if result.BookingID != "" {
		sb.WriteString(fmt.Sprintf(" Booking ID: %s.", result.BookingID))
	}
	if result.Message != "" {
		sb.WriteString(" ")
		sb.WriteString(result.Message)
	}
	return sb.String()
}

func formatBookings(result *booking.ActionResult) string {
	if !result.Success {
		return result.Message
	}
	if len(result.Bookings) == 0 {
		return "You have no bookings yet."
	}

	var sb strings.Builder
	sb.WriteString("Your bookings:\n")
	for _, b := range result.Bookings {
		sb.WriteString(fmt.Sprintf("- [%s] %s (%s)\n", b.Kind, b.Summary, b.Status))
	}
	return sb.String()
}
