package commands

import (
	"context"
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

type detectArcsFixture struct {
	photos   *memory.PhotoRepository
	chapters *memory.ChapterRepository
	arcs     *memory.StoryArcRepository
	handler  *DetectStoryArcsHandler
}

func newDetectArcsFixture(t *testing.T) *detectArcsFixture {
	t.Helper()
	logger := zap.NewNop()

	arcs := memory.NewStoryArcRepository()
	f := &detectArcsFixture{
		photos:   memory.NewPhotoRepository(),
		chapters: memory.NewChapterRepository(arcs),
		arcs:     arcs,
	}

	detector := services.NewStoryArcDetector(
		f.photos,
		f.chapters,
		f.arcs,
		memory.NewLifeEventRepository(),
		services.NewTemporalClusterer(logger),
		services.NewSpatialClusterer(logger),
		services.NewSignalAggregator(f.photos, logger),
		nil,
		logger,
	)
	f.handler = NewDetectStoryArcsHandler(detector, f.arcs, memory.NewEventRecorder(), memory.NewMetricsRecorder(), logger)
	return f
}

func (f *detectArcsFixture) seedChapterWithPhotos(t *testing.T, userID string) *entities.Chapter {
	t.Helper()

	for d := 1; d <= 3; d++ {
		captured := time.Date(2015, time.June, d, 12, 0, 0, 0, time.UTC)
		photo, err := entities.ReconstructPhoto(
			valueobjects.NewPhotoID(), userID, &captured, captured, nil, nil, nil,
		)
		require.NoError(t, err)
		f.photos.Put(photo)
	}

	chapter, err := entities.NewYearChapter(userID, "Life in 2015", 2015, 2015, 3, "", valueobjects.NewPhotoID(), 0)
	require.NoError(t, err)
	require.NoError(t, f.chapters.Save(context.Background(), chapter))
	return chapter
}

func TestDetectStoryArcsHandler_ClearsPriorArcs(t *testing.T) {
	ctx := context.Background()
	f := newDetectArcsFixture(t)
	chapter := f.seedChapterWithPhotos(t, "user1")

	first, err := f.handler.Handle(ctx, DetectStoryArcsCommand{ChapterID: chapter.ID().String()})
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := f.handler.Handle(ctx, DetectStoryArcsCommand{ChapterID: chapter.ID().String()})
	require.NoError(t, err)

	stored, err := f.arcs.GetByChapterID(ctx, chapter.ID())
	require.NoError(t, err)
	assert.Len(t, stored, len(second), "rerun must replace, not append")
}

func TestDetectStoryArcsHandler_RejectsMalformedChapterID(t *testing.T) {
	ctx := context.Background()
	f := newDetectArcsFixture(t)

	_, err := f.handler.Handle(ctx, DetectStoryArcsCommand{ChapterID: "not-a-uuid"})

	assert.Error(t, err)
}
