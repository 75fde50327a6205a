package bootstrap

import (
	"context"
	"log"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/controller"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/mailer"
	"ai-chat-be/internal/repository/implementation"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/ai/orchestrator"
	"ai-chat-be/pkg/ai/tools"
	"ai-chat-be/pkg/llm/factory"

	pktNats "ai-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	UserController         controller.IUserController
	ConversationController controller.IConversationController
	MessageController      controller.IMessageController
	ChatController         controller.IChatController
	DocumentController     controller.IDocumentController
	BillingController      controller.IBillingController
	NotificationController controller.INotificationController

	// Background services, exposed for main.go to run.
	ConsumerService service.IConsumerService

	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus (in-process, for async title generation)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM provider and chat orchestration
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Keys.Groq,
		cfg.Ai.LLMModel,
		cfg.Ai.GroqBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	webSearch := tools.NewWebSearchTool(cfg.Keys.Serper)
	chatOrchestrator := orchestrator.NewOrchestrator(llmProvider, webSearch)

	// 4. Infrastructure
	// NATS (degrades gracefully when unavailable)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis (websocket fan-out across instances)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Ai.TitleTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.TitleTopic,
		uowFactory,
		llmProvider,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory)
	billingService := service.NewBillingService(uowFactory, cfg.Billing, cfg.App.ClientURL, natsPub)
	userService := service.NewUserService(uowFactory, cfg.Billing)
	conversationService := service.NewConversationService(uowFactory)
	messageService := service.NewMessageService(uowFactory)
	documentService := service.NewDocumentService(uowFactory)
	chatService := service.NewChatService(
		uowFactory,
		billingService,
		publisherService,
		chatOrchestrator,
		cfg.Billing,
		sysLogger,
	)

	// 6. Notification system
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	if natsSub != nil {
		go notifService.Start()
	}

	return &Container{
		AuthController:         controller.NewAuthController(authService),
		OAuthController:        controller.NewOAuthController(oauthService),
		UserController:         controller.NewUserController(userService),
		ConversationController: controller.NewConversationController(conversationService),
		MessageController:      controller.NewMessageController(messageService),
		ChatController:         controller.NewChatController(chatService, sysLogger),
		DocumentController:     controller.NewDocumentController(documentService),
		BillingController:      controller.NewBillingController(billingService),
		NotificationController: controller.NewNotificationController(notifService, wsHub, wsLogger),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
