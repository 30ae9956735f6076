package bootstrap

import (
	"context"
	"log"

	"ai-chatspace-gateway/internal/config"
	"ai-chatspace-gateway/internal/constant"
	"ai-chatspace-gateway/internal/controller"
	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/pkg/logger"
	"ai-chatspace-gateway/internal/repository/docstore"
	"ai-chatspace-gateway/internal/repository/memory"
	"ai-chatspace-gateway/internal/service"
	"ai-chatspace-gateway/internal/websocket"
	"ai-chatspace-gateway/pkg/ingest"
	"ai-chatspace-gateway/pkg/loader"
	pktNats "ai-chatspace-gateway/pkg/nats"
	"ai-chatspace-gateway/pkg/query"
	"ai-chatspace-gateway/pkg/recommend"
	"ai-chatspace-gateway/pkg/resolver"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	WorkspaceController      controller.IWorkspaceController
	SessionController        controller.ISessionController
	ChatController           controller.IChatController
	RecommendationController controller.IRecommendationController
	WsController             controller.IWsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/push.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Document store repositories
	storeClient := docstore.NewClient(cfg.Services.DocStoreURL, constant.WorkspaceFetchTimeout)
	workspaceRepo := docstore.NewWorkspaceRepository(storeClient)
	sessionRepo := docstore.NewChatSessionRepository(storeClient)
	resourceRepo := docstore.NewResourceRepository(storeClient)
	assetRepo := docstore.NewAssetRepository(storeClient)

	historyCache := memory.NewHistoryCache()

	// 4. Outbound service clients
	queryClient := query.NewClient(cfg.Services.RagQueryURL)
	recommendClient := recommend.NewClient(cfg.Services.RecommendationURL)
	ingestClient := ingest.NewClient(cfg.Services.IngestionURL)

	// 5. Domain components
	fetchers := make(map[entity.ResourceKind]loader.ResourceFetcher)
	for _, kind := range entity.AllResourceKinds {
		if kind == entity.ResourceSessions {
			continue
		}
		fetchers[kind] = func(ctx context.Context, workspaceId uuid.UUID) ([]entity.WorkspaceResource, error) {
			return resourceRepo.ListByWorkspaceId(ctx, kind, workspaceId)
		}
	}
	resourceLoader := loader.New(
		fetchers,
		sessionRepo.FindAllByWorkspaceId,
		assetRepo.FetchPreview,
		sysLogger,
	)

	sessionResolver := resolver.New(sessionRepo, cfg.Orch.SessionResolveRetries, cfg.Orch.SessionResolveDelay)

	// 6. Services
	publisherService := service.NewPublisherService(constant.HistoryRefreshTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.HistoryRefreshTopic,
		sessionRepo,
		historyCache,
		sysLogger,
	)

	workspaceService := service.NewWorkspaceService(
		workspaceRepo,
		resourceLoader,
		historyCache,
		cfg.Orch.ReadinessTimeout,
		constant.WorkspaceFetchTimeout,
		sysLogger,
	)
	sessionService := service.NewSessionService(
		sessionRepo,
		sessionResolver,
		historyCache,
		publisherService,
		natsPub,
		sysLogger,
	)
	chatService := service.NewChatService(
		sessionRepo,
		sessionService,
		historyCache,
		queryClient,
		ingestClient,
		wsHub,
		publisherService,
		cfg.Orch.QueryTimeout,
		sysLogger,
	)
	recommendationService := service.NewRecommendationService(
		recommendClient,
		rdb,
		cfg.Orch.RecommendationCacheTTL,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		WorkspaceController:      controller.NewWorkspaceController(workspaceService),
		SessionController:        controller.NewSessionController(sessionService),
		ChatController:           controller.NewChatController(chatService),
		RecommendationController: controller.NewRecommendationController(recommendationService),
		WsController:             controller.NewWsController(wsHub),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
