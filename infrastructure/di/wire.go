//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"memoir-backend/application/commands"
	commands_handlers "memoir-backend/application/commands/handlers"
	"memoir-backend/application/ports"
	queries_handlers "memoir-backend/application/queries/handlers"
	"memoir-backend/infrastructure/config"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	UserRepo         ports.UserRepository
	PhotoRepo        ports.PhotoRepository
	ChapterRepo      ports.ChapterRepository
	StoryArcRepo     ports.StoryArcRepository
	PatternRepo      ports.PatternRepository
	LifeEventRepo    ports.LifeEventRepository
	EventPublisher   ports.EventPublisher
	Metrics          ports.MetricsPublisher
	GenerateChapters *commands.GenerateChaptersHandler
	DetectStoryArcs  *commands.DetectStoryArcsHandler
	DetectPatterns   *commands.DetectPatternsHandler
	Regenerate       *commands_handlers.RegenerateNarrativeOrchestrator
	ListChapters     *queries_handlers.ListChaptersHandler
	GetChapter       *queries_handlers.GetChapterHandler
	ListPatterns     *queries_handlers.ListPatternsHandler
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideUserRepository,
	ProvidePhotoRepository,
	ProvideChapterRepository,
	ProvideStoryArcRepository,
	ProvidePatternRepository,
	ProvideLifeEventRepository,
	ProvideEventPublisher,
	ProvideMetricsPublisher,
	ProvideTemporalClusterer,
	ProvideSpatialClusterer,
	ProvideSignalAggregator,
	ProvideChapterGenerator,
	ProvideStoryArcDetector,
	ProvidePatternDetector,
	ProvideGenerateChaptersHandler,
	ProvideDetectStoryArcsHandler,
	ProvideDetectPatternsHandler,
	ProvideRegenerateNarrativeOrchestrator,
	ProvideListChaptersHandler,
	ProvideGetChapterHandler,
	ProvideListPatternsHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
