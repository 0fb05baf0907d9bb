package bootstrap

import (
	"context"
	"log"

	"event-kiosk-be/internal/config"
	"event-kiosk-be/internal/controller"
	"event-kiosk-be/internal/pkg/logger"
	"event-kiosk-be/internal/repository/contract"
	"event-kiosk-be/internal/repository/implementation"
	"event-kiosk-be/internal/repository/memory"
	"event-kiosk-be/internal/repository/redisrepo"
	"event-kiosk-be/internal/service"
	"event-kiosk-be/pkg/llm/factory"
	"event-kiosk-be/pkg/offlinepack"
	"event-kiosk-be/pkg/retrieval"

	pktNats "event-kiosk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AskController       controller.IAskController
	ChatController      controller.IChatController
	AnalyticsController controller.IAnalyticsController
	AdminController     controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	analyticsLogger := logger.NewIsolatedLogger("logs/analytics.log")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Domain Infrastructure
	// Offline pack, loaded now so the kiosk answers before any network is up
	pack := offlinepack.NewCache(cfg.Kiosk.OfflinePackPath)
	if err := pack.Reload(); err != nil {
		log.Printf("[WARN] Failed to load offline pack from %s: %v", cfg.Kiosk.OfflinePackPath, err)
	} else {
		log.Printf("[INFO] Offline pack loaded: %d entries", len(pack.Entries()))
	}

	// Retrieval sidecar
	retriever := retrieval.NewHTTPRetriever(cfg.Retrieval.BaseURL)

	// Initialize LLM Provider based on Config
	apiKey := cfg.Keys.OpenAI
	if cfg.Ai.LLMProvider == "huggingface" {
		apiKey = cfg.Keys.HuggingFace
	}
	baseURL := cfg.Ai.LLMBaseURL
	if cfg.Ai.LLMProvider == "ollama" {
		baseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		apiKey,
		cfg.Ai.LLMModel,
		baseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Session counter store
	var sessionCounter contract.SessionCounterRepository
	switch cfg.Kiosk.SessionCounterStore {
	case "redis":
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
		sessionCounter = redisrepo.NewSessionCounterRepository(rdb)
		log.Printf("[INFO] Session counter store: REDIS")
	case "memory":
		sessionCounter = memory.NewSessionCounterRepository()
		log.Printf("[INFO] Session counter store: MEMORY")
	default:
		sessionCounter = implementation.NewSessionCounterRepository(db)
		log.Printf("[INFO] Session counter store: POSTGRES")
	}

	outcomeRepository := implementation.NewRouteOutcomeRepository(db)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.AnalyticsTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.AnalyticsTopic,
		outcomeRepository,
		natsPub,
		analyticsLogger,
	)

	askService := service.NewAskService(
		pack,
		retriever,
		llmProvider,
		publisherService,
		sysLogger,
		cfg.Kiosk.EventMode,
	)
	chatService := service.NewChatService(
		pack,
		retriever,
		llmProvider,
		sessionCounter,
		publisherService,
		sysLogger,
		cfg.Kiosk.MaxMessagesPerSession,
		cfg.Kiosk.EventMode,
	)
	analyticsService := service.NewAnalyticsService(outcomeRepository)

	// Content pipeline announces pack updates on the event bus
	if natsSub != nil {
		packRefresh := service.NewPackRefreshService(pack, natsSub, sysLogger)
		go func() {
			if err := packRefresh.Start(); err != nil {
				log.Printf("[WARN] Failed to start pack refresh listener: %v", err)
			}
		}()
	}

	// 5. Controllers
	return &Container{
		AskController:       controller.NewAskController(askService),
		ChatController:      controller.NewChatController(chatService),
		AnalyticsController: controller.NewAnalyticsController(analyticsService),
		AdminController:     controller.NewAdminController(analyticsService, pack, cfg.Keys.AdminToken),

		ConsumerService: consumerService,
	}
}
