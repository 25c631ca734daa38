package service

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-concierge-be/internal/constant"
	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/pkg/serverutils"
	"ai-concierge-be/internal/repository/memory"
	"ai-concierge-be/pkg/agent"
	"ai-concierge-be/pkg/agent/dispatch"
	"ai-concierge-be/pkg/agent/extract"
	"ai-concierge-be/pkg/booking"
	"ai-concierge-be/pkg/llm"
	"ai-concierge-be/pkg/rag/grounding"
	"ai-concierge-be/pkg/rag/responder"
	"ai-concierge-be/pkg/store"
)

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	SetMode(ctx context.Context, userId uuid.UUID, request *dto.SetModeRequest) (*dto.SetModeResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

// chatbotService coordinates the agent pipeline around the session store.
type chatbotService struct {
	sessionRepo      *memory.SessionRepository
	documentRepo     *memory.DocumentRepository
	orchestrator     *agent.Orchestrator
	publisherService IPublisherService
	llmLogger        *log.Logger

	// One guard per session: a session processes at most one utterance at a
	// time, concurrent sends are rejected rather than queued.
	inFlight sync.Map // sessionID string -> *sync.Mutex
}

// NewChatbotService wires the orchestration pipeline from its parts.
func NewChatbotService(
	llmProvider llm.LLMProvider,
	bookingClient *booking.Client,
	sessionRepo *memory.SessionRepository,
	documentRepo *memory.DocumentRepository,
	publisherService IPublisherService,
) IChatbotService {

	llmLogger := initLLMLogger()

	catalog := extract.NewCatalogCache(bookingClient.GetAvailable)
	extractor := extract.NewExtractor(llmProvider, catalog, llmLogger)
	dispatcher := dispatch.NewDispatcher(bookingClient, llmLogger)
	assembler := grounding.NewAssembler()
	respGen := responder.NewGenerator(llmProvider, llmLogger)

	return &chatbotService{
		sessionRepo:      sessionRepo,
		documentRepo:     documentRepo,
		orchestrator:     agent.NewOrchestrator(extractor, dispatcher, catalog, assembler, respGen, llmProvider, llmLogger),
		publisherService: publisherService,
		llmLogger:        llmLogger,
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_agent.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-AGENT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// CreateSession creates a new chat session starting in general mode.
func (cs *chatbotService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	session := &store.Session{
		ID:     uuid.New().String(),
		UserID: userId.String(),
		Mode:   store.ModeGeneral,
		History: []store.ChatTurn{
			{Role: constant.ChatMessageRoleAssistant, Content: constant.SessionGreeting},
		},
	}
	cs.sessionRepo.Save(session)

	id, _ := uuid.Parse(session.ID)
	return &dto.CreateSessionResponse{Id: id, Mode: session.Mode}, nil
}

// GetAllSessions retrieves the user's live sessions.
func (cs *chatbotService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	sessions := cs.sessionRepo.ListByUser(userId.String())

	response := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, s := range sessions {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			continue
		}
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        id,
			Mode:      s.Mode,
			LastQuery: s.LastQuery,
		})
	}
	return response, nil
}

// GetChatHistory retrieves chat history for a session.
func (cs *chatbotService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	session, err := cs.loadOwnedSession(sessionId, userId)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetChatHistoryResponse, 0, len(session.History))
	for _, turn := range session.History {
		response = append(response, &dto.GetChatHistoryResponse{
			Role: turn.Role,
			Chat: turn.Content,
		})
	}
	return response, nil
}

// SendChat processes one utterance through the orchestration pipeline and
// appends the exchange to the session history.
func (cs *chatbotService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	session, err := cs.loadOwnedSession(request.ChatSessionId, userId)
	if err != nil {
		return nil, err
	}

	muAny, _ := cs.inFlight.LoadOrStore(session.ID, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	if !mu.TryLock() {
		return nil, serverutils.NewApiError(fiber.StatusConflict, "Another message is already being processed for this session")
	}
	defer mu.Unlock()

	// Snapshot documents and history before the (slow) model calls so
	// concurrent ingests never race the pipeline.
	docs := cs.documentRepo.Snapshot(session.ID)
	history := make([]store.ChatTurn, len(session.History))
	copy(history, session.History)

	conv := agent.Conversation{
		SessionID: session.ID,
		UserID:    session.UserID,
		Mode:      session.Mode,
	}

	reply, err := cs.orchestrator.HandleUtterance(ctx, conv, request.Chat, docs, history)
	if err != nil {
		return nil, err
	}

	session.History = append(session.History,
		store.ChatTurn{Role: constant.ChatMessageRoleUser, Content: request.Chat},
		store.ChatTurn{Role: constant.ChatMessageRoleAssistant, Content: reply.Text},
	)
	session.LastQuery = request.Chat
	cs.sessionRepo.Save(session)

	if reply.Action != nil {
		cs.publishActionResult(ctx, userId, request.ChatSessionId, reply)
	}

	return &dto.SendChatResponse{
		ChatSessionId: request.ChatSessionId,
		Reply:         reply.Text,
		Mode:          session.Mode,
		Intent:        reply.Intent,
		ActionResult:  reply.Action,
	}, nil
}

// publishActionResult hands the dispatched action to the task sink. The chat
// response never waits on or fails because of this.
func (cs *chatbotService) publishActionResult(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, reply *agent.Reply) {
	msgPayload := dto.PublishActionResultMessage{
		UserId:        userId,
		ChatSessionId: sessionId,
		Intent:        reply.Intent,
		Result:        reply.Action,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		cs.llmLogger.Printf("[WARN] Failed to marshal action result message: %v", err)
		return
	}
	if err := cs.publisherService.Publish(ctx, msgJson); err != nil {
		cs.llmLogger.Printf("[WARN] Failed to publish action result: %v", err)
	}
}

// SetMode toggles the session between general and agent mode. History is
// kept across switches.
func (cs *chatbotService) SetMode(ctx context.Context, userId uuid.UUID, request *dto.SetModeRequest) (*dto.SetModeResponse, error) {
	session, err := cs.loadOwnedSession(request.ChatSessionId, userId)
	if err != nil {
		return nil, err
	}

	session.Mode = request.Mode
	cs.sessionRepo.Save(session)

	return &dto.SetModeResponse{
		ChatSessionId: request.ChatSessionId,
		Mode:          session.Mode,
	}, nil
}

// DeleteSession drops the session and every document it owns.
func (cs *chatbotService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	session, err := cs.loadOwnedSession(request.ChatSessionId, userId)
	if err != nil {
		return err
	}

	cs.sessionRepo.Delete(session.ID)
	cs.documentRepo.Clear(session.ID)
	cs.inFlight.Delete(session.ID)
	return nil
}

func (cs *chatbotService) loadOwnedSession(sessionId uuid.UUID, userId uuid.UUID) (*store.Session, error) {
	session, found := cs.sessionRepo.Get(sessionId.String())
	if !found || session.UserID != userId.String() {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Session not found or access denied")
	}
	return session, nil
}
