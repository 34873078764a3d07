package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-places-be/internal/config"
	"ai-places-be/internal/controller"
	"ai-places-be/internal/pkg/logger"
	"ai-places-be/internal/repository/implementation"
	"ai-places-be/internal/repository/unitofwork"
	"ai-places-be/internal/service"
	"ai-places-be/pkg/cache"
	"ai-places-be/pkg/conversation"
	"ai-places-be/pkg/district"
	"ai-places-be/pkg/embedding"
	"ai-places-be/pkg/embedding/jina"
	"ai-places-be/pkg/guard"
	"ai-places-be/pkg/intent"
	"ai-places-be/pkg/llm"
	"ai-places-be/pkg/llm/factory"
	"ai-places-be/pkg/pipeline"
	"ai-places-be/pkg/ranking"
	"ai-places-be/pkg/rerank"
	"ai-places-be/pkg/retrieval"
	"ai-places-be/pkg/weather"

	pkgNats "ai-places-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	PlaceController controller.IPlaceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	}

	// Initialize LLM Provider based on Config, wrapped with the circuit
	// breaker so a flapping upstream fails fast.
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	resilientLLM := llm.NewResilientClient(llmProvider, cfg.Ai.BreakerThreshold, cfg.Ai.BreakerCooldown)
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Reranker is optional; without a key ranking keeps heuristic order.
	var reranker rerank.Reranker = rerank.Disabled{}
	if cfg.Keys.Jina != "" {
		reranker = rerank.NewJinaReranker(cfg.Keys.Jina, "", cfg.Ai.RerankModel)
	}

	// 2.5 Infrastructure
	// NATS (optional; without a URL events are simply not emitted)
	var natsPub *pkgNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pkgNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Caches. Redis backend shares entries across replicas; memory is
	// the single-node default.
	var answerCache, retrievalCache cache.Store
	if cfg.Cache.Backend == "redis" {
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
		answerCache = cache.NewRedisStore(rdb, "answer:")
		retrievalCache = cache.NewRedisStore(rdb, "retrieval:")
	} else {
		answerCache = cache.NewMemoryStore(cfg.Cache.AnswerMaxSize, cfg.Cache.AnswerTTL, time.Minute)
		retrievalCache = cache.NewMemoryStore(cfg.Cache.AnswerMaxSize, 30*time.Minute, time.Minute)
	}

	// 3. Pipeline stages
	conversations := conversation.NewManager(
		cfg.Conversation.TTL,
		cfg.Conversation.Capacity,
		cfg.Conversation.SweepInterval,
		sysLogger.Zap(),
	)

	searchService := service.NewPlaceSearchService(
		implementation.NewPlaceRepository(db),
		implementation.NewPlaceEmbeddingRepository(db),
		embeddingProvider,
	)

	retriever := retrieval.NewEngine(searchService, searchService, cfg.Retrieval.StrategyTimeout)
	ranker := ranking.NewEngine(reranker)
	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Latitude, cfg.Weather.Longitude, cfg.Weather.CacheTTL)

	orchestrator := pipeline.NewOrchestrator(
		guard.NewInputGuard(),
		intent.NewClassifier(),
		district.NewExtractor(),
		conversations,
		retriever,
		ranker,
		resilientLLM,
		weatherClient,
		answerCache,
		retrievalCache,
		pipeline.Config{
			ModelName:      cfg.Ai.LLMModel,
			RewriteEnabled: cfg.Ai.RewriteEnabled,
			AnswerTTL:      cfg.Cache.AnswerTTL,
			HardTimeout:    cfg.Pipeline.HardTimeout,
		},
	)

	// 4. Services
	ingestLogger := logger.NewIsolatedLogger("logs/ingestion.log")
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		uowFactory,
		embeddingProvider,
		eventPublisher(natsPub),
		ingestLogger,
	)

	placeService := service.NewPlaceService(uowFactory, publisherService, sysLogger)
	chatService := service.NewChatService(
		orchestrator,
		conversations,
		resilientLLM,
		answerCache,
		retrievalCache,
		cfg.Conversation.Capacity,
		eventPublisher(natsPub),
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		ChatController:  controller.NewChatController(chatService),
		PlaceController: controller.NewPlaceController(placeService),

		ConsumerService: consumerService,
	}
}

// eventPublisher keeps a nil *Publisher from becoming a non-nil
// interface that panics on use.
func eventPublisher(p *pkgNats.Publisher) service.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
