package di

import (
	"context"

	"memoir-backend/application/commands"
	commands_handlers "memoir-backend/application/commands/handlers"
	"memoir-backend/application/ports"
	queries_handlers "memoir-backend/application/queries/handlers"
	"memoir-backend/application/services"
	domainconfig "memoir-backend/domain/config"
	"memoir-backend/infrastructure/config"
	"memoir-backend/infrastructure/messaging/eventbridge"
	"memoir-backend/infrastructure/persistence/dynamodb"
	"memoir-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideDomainConfig loads the narrative rule configuration
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	return domainconfig.LoadDomainConfig(cfg.DomainConfigPath)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvidePhotoRepository creates the photo repository
func ProvidePhotoRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PhotoRepository {
	return dynamodb.NewPhotoRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideStoryArcRepository creates the story arc repository
func ProvideStoryArcRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.StoryArcRepository {
	return dynamodb.NewStoryArcRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideChapterRepository creates the chapter repository. Arc deletion
// cascades through the arc repository.
func ProvideChapterRepository(
	client *awsdynamodb.Client,
	arcRepo ports.StoryArcRepository,
	cfg *config.Config,
	logger *zap.Logger,
) ports.ChapterRepository {
	return dynamodb.NewChapterRepository(client, cfg.DynamoDBTable, cfg.IndexName, arcRepo, logger)
}

// ProvidePatternRepository creates the pattern repository
func ProvidePatternRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PatternRepository {
	return dynamodb.NewPatternRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideLifeEventRepository creates the life event repository
func ProvideLifeEventRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.LifeEventRepository {
	return dynamodb.NewLifeEventRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideUserRepository creates the user repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the EventBridge event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetricsPublisher creates the metrics publisher, a no-op when
// metrics are disabled
func ProvideMetricsPublisher(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) ports.MetricsPublisher {
	if !cfg.EnableMetrics {
		return observability.NewNoopMetrics()
	}
	return observability.NewCloudWatchMetrics(cfg.MetricsNamespace, client, logger)
}

// ProvideTemporalClusterer creates the temporal clusterer
func ProvideTemporalClusterer(logger *zap.Logger) *services.TemporalClusterer {
	return services.NewTemporalClusterer(logger)
}

// ProvideSpatialClusterer creates the spatial clusterer
func ProvideSpatialClusterer(logger *zap.Logger) *services.SpatialClusterer {
	return services.NewSpatialClusterer(logger)
}

// ProvideSignalAggregator creates the content signal aggregator
func ProvideSignalAggregator(photoRepo ports.PhotoRepository, logger *zap.Logger) *services.SignalAggregator {
	return services.NewSignalAggregator(photoRepo, logger)
}

// ProvideChapterGenerator creates the chapter generator
func ProvideChapterGenerator(
	userRepo ports.UserRepository,
	photoRepo ports.PhotoRepository,
	chapterRepo ports.ChapterRepository,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.ChapterGenerator {
	return services.NewChapterGenerator(userRepo, photoRepo, chapterRepo, domainCfg, logger)
}

// ProvideStoryArcDetector creates the story arc detector
func ProvideStoryArcDetector(
	photoRepo ports.PhotoRepository,
	chapterRepo ports.ChapterRepository,
	arcRepo ports.StoryArcRepository,
	lifeEventRepo ports.LifeEventRepository,
	temporal *services.TemporalClusterer,
	spatial *services.SpatialClusterer,
	signals *services.SignalAggregator,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.StoryArcDetector {
	return services.NewStoryArcDetector(photoRepo, chapterRepo, arcRepo, lifeEventRepo, temporal, spatial, signals, domainCfg, logger)
}

// ProvidePatternDetector creates the pattern detector
func ProvidePatternDetector(
	photoRepo ports.PhotoRepository,
	patternRepo ports.PatternRepository,
	spatial *services.SpatialClusterer,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.PatternDetector {
	return services.NewPatternDetector(photoRepo, patternRepo, spatial, domainCfg, logger)
}

// ProvideGenerateChaptersHandler creates the chapter command handler
func ProvideGenerateChaptersHandler(
	generator *services.ChapterGenerator,
	publisher ports.EventPublisher,
	metrics ports.MetricsPublisher,
	logger *zap.Logger,
) *commands.GenerateChaptersHandler {
	return commands.NewGenerateChaptersHandler(generator, publisher, metrics, logger)
}

// ProvideDetectStoryArcsHandler creates the story arc command handler
func ProvideDetectStoryArcsHandler(
	detector *services.StoryArcDetector,
	arcRepo ports.StoryArcRepository,
	publisher ports.EventPublisher,
	metrics ports.MetricsPublisher,
	logger *zap.Logger,
) *commands.DetectStoryArcsHandler {
	return commands.NewDetectStoryArcsHandler(detector, arcRepo, publisher, metrics, logger)
}

// ProvideDetectPatternsHandler creates the pattern command handler
func ProvideDetectPatternsHandler(
	detector *services.PatternDetector,
	publisher ports.EventPublisher,
	metrics ports.MetricsPublisher,
	logger *zap.Logger,
) *commands.DetectPatternsHandler {
	return commands.NewDetectPatternsHandler(detector, publisher, metrics, logger)
}

// ProvideRegenerateNarrativeOrchestrator creates the pipeline orchestrator
func ProvideRegenerateNarrativeOrchestrator(
	generator *services.ChapterGenerator,
	arcDetector *services.StoryArcDetector,
	patterns *services.PatternDetector,
	chapterRepo ports.ChapterRepository,
	arcRepo ports.StoryArcRepository,
	publisher ports.EventPublisher,
	metrics ports.MetricsPublisher,
	logger *zap.Logger,
) *commands_handlers.RegenerateNarrativeOrchestrator {
	return commands_handlers.NewRegenerateNarrativeOrchestrator(generator, arcDetector, patterns, chapterRepo, arcRepo, publisher, metrics, logger)
}

// ProvideListChaptersHandler creates the chapter listing query handler
func ProvideListChaptersHandler(chapterRepo ports.ChapterRepository, logger *zap.Logger) *queries_handlers.ListChaptersHandler {
	return queries_handlers.NewListChaptersHandler(chapterRepo, logger)
}

// ProvideGetChapterHandler creates the chapter detail query handler
func ProvideGetChapterHandler(
	chapterRepo ports.ChapterRepository,
	arcRepo ports.StoryArcRepository,
	logger *zap.Logger,
) *queries_handlers.GetChapterHandler {
	return queries_handlers.NewGetChapterHandler(chapterRepo, arcRepo, logger)
}

// ProvideListPatternsHandler creates the pattern listing query handler
func ProvideListPatternsHandler(patternRepo ports.PatternRepository, logger *zap.Logger) *queries_handlers.ListPatternsHandler {
	return queries_handlers.NewListPatternsHandler(patternRepo, logger)
}
