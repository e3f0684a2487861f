package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"memoir-backend/application/services"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	"memoir-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orchestratorFixture struct {
	users        *memory.UserRepository
	photos       *memory.PhotoRepository
	chapters     *memory.ChapterRepository
	arcs         *memory.StoryArcRepository
	patterns     *memory.PatternRepository
	events       *memory.LifeEventRepository
	publisher    *memory.EventRecorder
	metrics      *memory.MetricsRecorder
	orchestrator *RegenerateNarrativeOrchestrator
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	logger := zap.NewNop()

	arcs := memory.NewStoryArcRepository()
	f := &orchestratorFixture{
		users:     memory.NewUserRepository(),
		photos:    memory.NewPhotoRepository(),
		chapters:  memory.NewChapterRepository(arcs),
		arcs:      arcs,
		patterns:  memory.NewPatternRepository(),
		events:    memory.NewLifeEventRepository(),
		publisher: memory.NewEventRecorder(),
		metrics:   memory.NewMetricsRecorder(),
	}

	generator := services.NewChapterGenerator(f.users, f.photos, f.chapters, nil, logger)
	detector := services.NewStoryArcDetector(
		f.photos,
		f.chapters,
		f.arcs,
		f.events,
		services.NewTemporalClusterer(logger),
		services.NewSpatialClusterer(logger),
		services.NewSignalAggregator(f.photos, logger),
		nil,
		logger,
	)
	patterns := services.NewPatternDetector(f.photos, f.patterns, services.NewSpatialClusterer(logger), nil, logger)

	f.orchestrator = NewRegenerateNarrativeOrchestrator(
		generator,
		detector,
		patterns,
		f.chapters,
		f.arcs,
		f.publisher,
		f.metrics,
		logger,
	)
	return f
}

func (f *orchestratorFixture) seedBeachWeek(t *testing.T, userID string) {
	t.Helper()

	user, err := entities.ReconstructUser(userID, "tester", "tester@example.com", nil)
	require.NoError(t, err)
	f.users.Put(user)

	for d := 1; d <= 5; d++ {
		photo, err := entities.ReconstructPhoto(
			valueobjects.NewPhotoID(),
			userID,
			timePtr(time.Date(2015, time.July, d, 12, 0, 0, 0, time.UTC)),
			time.Date(2015, time.July, d, 12, 0, 0, 0, time.UTC),
			nil,
			[]valueobjects.CategoryLabel{valueobjects.NewCategoryLabel("beach", 0.9)},
			nil,
		)
		require.NoError(t, err)
		f.photos.Put(photo)
	}
}

func TestRegenerateNarrative_FullPipeline(t *testing.T) {
	ctx := context.Background()
	f := newOrchestratorFixture(t)
	f.seedBeachWeek(t, "user1")

	result, err := f.orchestrator.Handle(ctx, RegenerateNarrativeCommand{UserID: "user1"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.ChapterCount)
	assert.Equal(t, 1, result.ArcCount)
	assert.Equal(t, 1, result.PatternCount)
	assert.Empty(t, result.FailedChapters)

	chapters, err := f.chapters.GetByUserID(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, chapters, 1)

	arcs, err := f.arcs.GetByChapterID(ctx, chapters[0].ID())
	require.NoError(t, err)
	require.Len(t, arcs, 1)
	assert.Equal(t, "Beach Vacation", arcs[0].Title())

	patterns, err := f.patterns.GetByUserID(ctx, "user1", "")
	require.NoError(t, err)
	assert.Len(t, patterns, 1)

	var eventTypes []string
	for _, e := range f.publisher.Events() {
		eventTypes = append(eventTypes, e.GetEventType())
	}
	assert.Equal(t, []string{
		"narrative.chapters_generated",
		"narrative.story_arcs_detected",
		"narrative.patterns_detected",
	}, eventTypes)

	assert.Equal(t, float64(1), f.metrics.Count("NarrativeRegenerated"))
	assert.Equal(t, float64(1), f.metrics.Count("ChaptersGenerated"))
	assert.Equal(t, float64(1), f.metrics.Count("StoryArcsDetected"))
	assert.Equal(t, float64(1), f.metrics.Count("PatternsDetected"))
}

func TestRegenerateNarrative_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	f := newOrchestratorFixture(t)
	f.seedBeachWeek(t, "user1")

	first, err := f.orchestrator.Handle(ctx, RegenerateNarrativeCommand{UserID: "user1"})
	require.NoError(t, err)

	second, err := f.orchestrator.Handle(ctx, RegenerateNarrativeCommand{UserID: "user1"})
	require.NoError(t, err)

	assert.Equal(t, first.ChapterCount, second.ChapterCount)
	assert.Equal(t, first.ArcCount, second.ArcCount)
	assert.Equal(t, first.PatternCount, second.PatternCount)

	// No accumulation across runs
	chapters, err := f.chapters.GetByUserID(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, chapters, 1)

	patterns, err := f.patterns.GetByUserID(ctx, "user1", "")
	require.NoError(t, err)
	assert.Len(t, patterns, 1)
}

func TestRegenerateNarrative_PatternFailureCompensatesChapters(t *testing.T) {
	ctx := context.Background()
	f := newOrchestratorFixture(t)
	f.seedBeachWeek(t, "user1")

	logger := zap.NewNop()
	patterns := services.NewPatternDetector(
		f.photos,
		brokenPatternRepo{f.patterns},
		services.NewSpatialClusterer(logger),
		nil,
		logger,
	)
	orchestrator := NewRegenerateNarrativeOrchestrator(
		newOrchGeneratorFrom(f, logger),
		newOrchDetectorFrom(f, logger),
		patterns,
		f.chapters,
		f.arcs,
		f.publisher,
		f.metrics,
		logger,
	)

	_, err := orchestrator.Handle(ctx, RegenerateNarrativeCommand{UserID: "user1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "detect_patterns")

	// Compensation removed the chapters built in this run
	chapters, err := f.chapters.GetByUserID(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestRegenerateNarrative_RejectsEmptyUserID(t *testing.T) {
	ctx := context.Background()
	f := newOrchestratorFixture(t)

	_, err := f.orchestrator.Handle(ctx, RegenerateNarrativeCommand{})

	assert.Error(t, err)
}

func newOrchGeneratorFrom(f *orchestratorFixture, logger *zap.Logger) *services.ChapterGenerator {
	return services.NewChapterGenerator(f.users, f.photos, f.chapters, nil, logger)
}

func newOrchDetectorFrom(f *orchestratorFixture, logger *zap.Logger) *services.StoryArcDetector {
	return services.NewStoryArcDetector(
		f.photos,
		f.chapters,
		f.arcs,
		f.events,
		services.NewTemporalClusterer(logger),
		services.NewSpatialClusterer(logger),
		services.NewSignalAggregator(f.photos, logger),
		nil,
		logger,
	)
}

// brokenPatternRepo fails the clearing pass so the saga compensates
type brokenPatternRepo struct {
	*memory.PatternRepository
}

func (r brokenPatternRepo) DeleteByUserID(context.Context, string) (int, error) {
	return 0, errors.New("pattern store unavailable")
}

func timePtr(t time.Time) *time.Time {
	return &t
}
