package bootstrap

import (
	"context"
	"log"

	"ai-concierge-be/internal/config"
	"ai-concierge-be/internal/constant"
	"ai-concierge-be/internal/controller"
	"ai-concierge-be/internal/handler"
	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/internal/repository/implementation"
	"ai-concierge-be/internal/repository/memory"
	"ai-concierge-be/internal/service"
	"ai-concierge-be/internal/websocket"
	"ai-concierge-be/pkg/booking"
	"ai-concierge-be/pkg/llm/factory"

	pktNats "ai-concierge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController  controller.IChatbotController
	DocumentController controller.IDocumentController
	TaskController     controller.ITaskController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Booking service client
	bookingClient := booking.NewClient(cfg.Booking.BaseURL, cfg.Booking.APIKey)

	// In-memory stores
	sessionRepo := memory.NewSessionRepository()
	documentRepo := memory.NewDocumentRepository()

	// 2.5 Infrastructure
	// NATS (optional mirror for external consumers)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Redis (optional cross-instance websocket fan-out)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, sysLogger)

	// 3. Services
	publisherService := service.NewPublisherService(constant.ActionResultTopic, pubSub)

	taskRepo := implementation.NewTaskRepository(db)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.ActionResultTopic,
		taskRepo,
		wsHub,
		natsPub,
	)

	chatbotService := service.NewChatbotService(
		llmProvider,
		bookingClient,
		sessionRepo,
		documentRepo,
		publisherService,
	)
	documentService := service.NewDocumentService(sessionRepo, documentRepo)
	taskService := service.NewTaskService(taskRepo)

	notifHandler := handler.NewNotificationHandler(wsHub, sysLogger)

	// 4. Controllers
	return &Container{
		ChatbotController:   controller.NewChatbotController(chatbotService),
		DocumentController:  controller.NewDocumentController(documentService),
		TaskController:      controller.NewTaskController(taskService),
		ConsumerService:     consumerService,
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
