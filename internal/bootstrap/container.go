package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/controller"
	"warehouse-ai-be/internal/pkg/logger"
	"warehouse-ai-be/internal/repository/implementation"
	"warehouse-ai-be/internal/service"
	"warehouse-ai-be/internal/warehouse"
	pktNats "warehouse-ai-be/pkg/nats"
)

type Container struct {
	// Controllers
	GenerationController controller.IGenerationController
	EmbeddingController  controller.IEmbeddingController
	ForecastController   controller.IForecastController
	SearchController     controller.ISearchController
	IndexController      controller.IIndexController
	MultimodalController controller.IMultimodalController
	HealthController     controller.IHealthController

	// Background services (run by main)
	AuditConsumer service.IAuditConsumerService

	// Shared infrastructure exposed for shutdown
	Provider *warehouse.Provider
	Logger   logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	provider := warehouse.NewProvider(cfg.Warehouse, sysLogger)
	runner := warehouse.NewRunner(provider, cfg.Warehouse)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is optional infrastructure; the service runs without it.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. Repositories
	generationRepo := implementation.NewGenerationRepository(runner, cfg.Warehouse)
	embeddingRepo := implementation.NewEmbeddingRepository(runner, cfg.Warehouse)
	forecastRepo := implementation.NewForecastRepository(runner, cfg.Warehouse)
	searchRepo := implementation.NewSearchRepository(runner, cfg.Warehouse)
	indexRepo := implementation.NewIndexMetadataRepository(runner, cfg.Warehouse)
	objectRepo := implementation.NewObjectMetadataRepository(runner, cfg.Warehouse)

	// 4. Audit pipeline
	auditPublisher := service.NewAuditPublisherService(cfg.App.AuditTopic, pubSub, sysLogger)
	auditConsumer := service.NewAuditConsumerService(
		pubSub,
		cfg.App.AuditTopic,
		sysLogger,
		generationRepo,
		embeddingRepo,
		forecastRepo,
		searchRepo,
		indexRepo,
		objectRepo,
	)

	// 5. Feature services
	textService := service.NewTextGenerationService(runner, cfg, generationRepo, auditPublisher, natsPub, sysLogger)
	contentService := service.NewContentGenerationService(runner, cfg, auditPublisher, sysLogger)
	forecastService := service.NewForecastService(runner, cfg, auditPublisher, sysLogger)
	embeddingService := service.NewEmbeddingService(runner, cfg, embeddingRepo, auditPublisher, sysLogger)
	searchService := service.NewVectorSearchService(runner, cfg, auditPublisher, sysLogger)
	indexService := service.NewIndexService(runner, cfg, auditPublisher, sysLogger)
	objectTableService := service.NewObjectTableService(runner, cfg, auditPublisher, sysLogger)
	objectRefService := service.NewObjectRefService(runner, cfg, objectRepo, auditPublisher, sysLogger)
	healthService := service.NewHealthService(cfg, provider)

	// 6. Controllers
	return &Container{
		GenerationController: controller.NewGenerationController(textService, contentService),
		EmbeddingController:  controller.NewEmbeddingController(embeddingService),
		ForecastController:   controller.NewForecastController(forecastService),
		SearchController:     controller.NewSearchController(searchService),
		IndexController:      controller.NewIndexController(indexService),
		MultimodalController: controller.NewMultimodalController(objectTableService, objectRefService),
		HealthController:     controller.NewHealthController(healthService),

		AuditConsumer: auditConsumer,

		Provider: provider,
		Logger:   sysLogger,
	}
}
