package agent

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"ai-concierge-be/pkg/agent/dispatch"
	"ai-concierge-be/pkg/agent/extract"
	"ai-concierge-be/pkg/booking"
	"ai-concierge-be/pkg/llm"
	"ai-concierge-be/pkg/rag/grounding"
	"ai-concierge-be/pkg/rag/responder"
	"ai-concierge-be/pkg/store"
)

// scriptedLLM returns canned responses in order; errors once exhausted.
type scriptedLLM struct {
	responses []string
	failWith  error
	calls     int
	lastChat  []llm.Message
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.lastChat = history
	return s.next()
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.next()
}

func (s *scriptedLLM) next() (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	if s.calls >= len(s.responses) {
		return "", errors.New("no scripted response left")
	}
	r := s.responses[s.calls]
	s.calls++
	return r, nil
}

func bookingServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/available", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"success": true,
			"food_items": [{"id": "f1", "name": "Chicken Biryani", "price": 12.5}],
			"movies": [{"id": "m1", "title": "Dune", "show_times": ["19:00"]}]
		}`))
	})
	mux.HandleFunc("/api/book-food", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "bookingId": "B1", "message": "ok"}`))
	})
	mux.HandleFunc("/api/book-movie", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success": false, "message": "Show is sold out"}`))
	})
	mux.HandleFunc("/api/bookings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "bookings": [{"id": "B1", "kind": "food", "summary": "1x Chicken Biryani", "status": "confirmed"}]}`))
	})
	return httptest.NewServer(mux)
}

func newOrchestrator(model llm.LLMProvider, baseURL string) *Orchestrator {
	logger := log.New(os.Stderr, "", 0)
	client := booking.NewClient(baseURL, "test-key")
	catalog := extract.NewCatalogCache(client.GetAvailable)
	return NewOrchestrator(
		extract.NewExtractor(model, catalog, logger),
		dispatch.NewDispatcher(client, logger),
		catalog,
		grounding.NewAssembler(),
		responder.NewGenerator(model, logger),
		model,
		logger,
	)
}

func agentConv() Conversation {
	return Conversation{SessionID: "s1", UserID: "u1", Mode: store.ModeAgentBooking}
}

func generalConv() Conversation {
	return Conversation{SessionID: "s1", UserID: "u1", Mode: store.ModeGeneral}
}

func TestAgentModeFoodOrderDispatched(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	model := &scriptedLLM{responses: []string{
		`{"itemId": "f1", "quantity": 2, "address": "12 Main St"}`,
	}}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), agentConv(), "order two biryani to 12 Main St", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Action == nil || !reply.Action.Success {
		t.Fatalf("expected successful action, got %+v", reply.Action)
	}
	if reply.Action.BookingID != "B1" {
		t.Errorf("bookingId not propagated: %q", reply.Action.BookingID)
	}
	if !strings.Contains(reply.Text, "B1") {
		t.Errorf("reply should mention the booking id, got %q", reply.Text)
	}
}

func TestAgentModeMissingDetailsAsksFollowUp(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	model := &scriptedLLM{responses: []string{
		`{"itemId": "f1", "quantity": 1, "address": "null"}`,
	}}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), agentConv(), "order a biryani", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Action != nil {
		t.Errorf("nothing must be dispatched while details are missing")
	}
	if !strings.Contains(strings.ToLower(reply.Text), "address") {
		t.Errorf("follow-up should ask for the address, got %q", reply.Text)
	}
}

func TestAgentModeParseFailureIsGenericReply(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	model := &scriptedLLM{responses: []string{"I could not really say."}}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), agentConv(), "order some food", nil, nil)
	if err != nil {
		t.Fatalf("parse failure must not escape as an error: %v", err)
	}
	if reply.Text != ExtractionFailedMessage {
		t.Errorf("got %q, want the generic extraction failure message", reply.Text)
	}
}

func TestAgentModeBusinessFailureSurfacedVerbatim(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	model := &scriptedLLM{responses: []string{
		`{"movieId": "m1", "seats": ["A1"], "showTime": "19:00"}`,
	}}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), agentConv(), "book a ticket for Dune", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Action == nil || reply.Action.Success {
		t.Fatalf("expected business failure, got %+v", reply.Action)
	}
	if reply.Action.TransportFailure {
		t.Errorf("business failure must not be marked as transport failure")
	}
	if reply.Text != "Show is sold out" {
		t.Errorf("server message should surface verbatim, got %q", reply.Text)
	}
}

func TestAgentModeTransportFailure(t *testing.T) {
	srv := bookingServer(t)
	srv.Close() // booking service down

	model := &scriptedLLM{responses: []string{
		`{"itemId": "f1", "quantity": 1, "address": "12 Main St"}`,
	}}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), agentConv(), "order a biryani to 12 Main St", nil, nil)
	if err != nil {
		t.Fatalf("transport failure must not escape as an error: %v", err)
	}
	if reply.Action == nil || !reply.Action.TransportFailure {
		t.Fatalf("expected transport failure, got %+v", reply.Action)
	}
	if reply.Text != booking.TransportFailureMessage {
		t.Errorf("got %q, want the connectivity message", reply.Text)
	}
}

func TestAgentModeAmbiguousIntentAsksClarification(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	model := &scriptedLLM{responses: []string{"Would you like to order food or book movie tickets?"}}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), agentConv(), "what is the capital of France", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Action != nil {
		t.Errorf("ambiguous intent must not dispatch anything")
	}
	if !strings.Contains(reply.Text, "order food or book movie tickets") {
		t.Errorf("expected the clarification question, got %q", reply.Text)
	}

	// The restrictive system instruction has to lead the clarification call
	if len(model.lastChat) == 0 || model.lastChat[0].Role != "system" ||
		!strings.Contains(model.lastChat[0].Content, "MUST NOT answer general knowledge") {
		t.Errorf("clarification call must carry the restrictive system instruction")
	}
}

func TestAgentModeClarificationFallsBackWhenModelFails(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	model := &scriptedLLM{failWith: errors.New("model down")}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), agentConv(), "hmm", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != FallbackClarification {
		t.Errorf("got %q, want the canned clarification", reply.Text)
	}
}

func TestAgentModeMenuListsCatalog(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	model := &scriptedLLM{}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), agentConv(), "show menu of biryani items", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply.Text, "Chicken Biryani") || !strings.Contains(reply.Text, "Dune") {
		t.Errorf("menu reply should list the catalog, got %q", reply.Text)
	}
	if model.calls != 0 {
		t.Errorf("menu listing must not call the model")
	}
}

func TestAgentModeListBookings(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	model := &scriptedLLM{}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), agentConv(), "show my bookings", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply.Text, "Chicken Biryani") {
		t.Errorf("bookings reply should list the history, got %q", reply.Text)
	}
}

func TestGeneralModeGroundsReplyInDocuments(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	model := &scriptedLLM{responses: []string{"According to notes.txt, the meeting is Tuesday."}}
	o := newOrchestrator(model, srv.URL)

	docs := []store.Document{{Name: "notes.txt", RawText: "The meeting is on Tuesday at noon."}}
	reply, err := o.HandleUtterance(context.Background(), generalConv(), "when is the meeting?", docs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Action != nil {
		t.Errorf("general mode must not dispatch bookings")
	}
	if reply.Text != "According to notes.txt, the meeting is Tuesday." {
		t.Errorf("unexpected reply %q", reply.Text)
	}

	// The grounding block must be prepended to the user turn
	last := model.lastChat[len(model.lastChat)-1]
	if !strings.Contains(last.Content, "--- Document: notes.txt ---") {
		t.Errorf("grounding block missing from the model call")
	}
}

func TestGeneralModeLegacyBookingIntentSuggestsAgentMode(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	model := &scriptedLLM{}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), generalConv(), "can you order food for me", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(strings.ToLower(reply.Text), "agent mode") {
		t.Errorf("legacy booking intent should point at agent mode, got %q", reply.Text)
	}
	if model.calls != 0 {
		t.Errorf("legacy intents must be handled without a model call")
	}
}

func TestGeneralModeNeverRunsBookingClassifier(t *testing.T) {
	srv := bookingServer(t)
	defer srv.Close()

	// "show menu" would be ListMenu in agent mode; in general mode it must
	// fall through to the responder.
	model := &scriptedLLM{responses: []string{"Here's a general answer."}}
	o := newOrchestrator(model, srv.URL)

	reply, err := o.HandleUtterance(context.Background(), generalConv(), "show menu", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Action != nil {
		t.Errorf("general mode must not trigger booking actions")
	}
	if reply.Text != "Here's a general answer." {
		t.Errorf("expected conversational reply, got %q", reply.Text)
	}
}
