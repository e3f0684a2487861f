package handlers

import (
	"context"
	"testing"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/application/queries"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	"memoir-backend/infrastructure/persistence/memory"
	pkgerrors "memoir-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedChapterWithArc(t *testing.T, chapters *memory.ChapterRepository, arcs *memory.StoryArcRepository, userID string) (*entities.Chapter, *entities.StoryArc, valueobjects.PhotoID) {
	t.Helper()
	ctx := context.Background()

	chapter, err := entities.NewYearChapter(userID, "Life in 2015", 2015, 2015, 3, "happiness", valueobjects.NewPhotoID(), 0)
	require.NoError(t, err)
	require.NoError(t, chapters.Save(ctx, chapter))

	dateRange, err := valueobjects.NewDateRange(
		time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2015, time.June, 3, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	arc, err := entities.NewStoryArc(
		userID,
		chapter.ID(),
		"June Moments",
		"Special moments from June 2015",
		"moments",
		entities.ArcCategoryMoments,
		entities.SourceUnifiedPattern,
		dateRange,
		3,
		0,
		true,
		entities.ArcMetadata{},
	)
	require.NoError(t, err)
	require.NoError(t, arcs.Save(ctx, arc))

	photoID := valueobjects.NewPhotoID()
	require.NoError(t, arcs.LinkPhotos(ctx, arc.ID(), []ports.PhotoLink{
		{PhotoID: photoID, SequenceOrder: 0, IsCover: true},
	}))

	return chapter, arc, photoID
}

func TestGetChapterHandler_Handle(t *testing.T) {
	ctx := context.Background()
	arcs := memory.NewStoryArcRepository()
	chapters := memory.NewChapterRepository(arcs)
	handler := NewGetChapterHandler(chapters, arcs, zap.NewNop())

	chapter, arc, photoID := seedChapterWithArc(t, chapters, arcs, "user1")

	result, err := handler.Handle(ctx, queries.GetChapterQuery{
		UserID:    "user1",
		ChapterID: chapter.ID().String(),
	})

	require.NoError(t, err)
	assert.Equal(t, chapter.ID().String(), result.Chapter.ID)
	assert.Equal(t, "Life in 2015", result.Chapter.Title)
	assert.Equal(t, "year_based", result.Chapter.Type)

	require.Len(t, result.StoryArcs, 1)
	view := result.StoryArcs[0]
	assert.Equal(t, arc.ID().String(), view.ID)
	assert.Equal(t, "June Moments", view.Title)
	assert.Equal(t, "unified_ai_pattern", view.Source)
	assert.Equal(t, "2015-06-01T00:00:00Z", view.StartDate)
	assert.Equal(t, []string{photoID.String()}, view.PhotoIDs)
}

func TestGetChapterHandler_HidesOtherUsersChapters(t *testing.T) {
	ctx := context.Background()
	arcs := memory.NewStoryArcRepository()
	chapters := memory.NewChapterRepository(arcs)
	handler := NewGetChapterHandler(chapters, arcs, zap.NewNop())

	chapter, _, _ := seedChapterWithArc(t, chapters, arcs, "user1")

	_, err := handler.Handle(ctx, queries.GetChapterQuery{
		UserID:    "intruder",
		ChapterID: chapter.ID().String(),
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGetChapterHandler_RequiresIDs(t *testing.T) {
	ctx := context.Background()
	arcs := memory.NewStoryArcRepository()
	handler := NewGetChapterHandler(memory.NewChapterRepository(arcs), arcs, zap.NewNop())

	_, err := handler.Handle(ctx, queries.GetChapterQuery{UserID: "user1"})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, queries.GetChapterQuery{ChapterID: "some-id"})
	assert.Error(t, err)
}
