package handlers

import (
	"context"
	"testing"

	"memoir-backend/application/queries"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	"memoir-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedYearChapter(t *testing.T, chapters *memory.ChapterRepository, userID, title string, year, seq int) *entities.Chapter {
	t.Helper()
	chapter, err := entities.NewYearChapter(userID, title, year, year, 4, "happiness", valueobjects.NewPhotoID(), seq)
	require.NoError(t, err)
	require.NoError(t, chapters.Save(context.Background(), chapter))
	return chapter
}

func TestListChaptersHandler_Handle(t *testing.T) {
	ctx := context.Background()
	chapters := memory.NewChapterRepository(memory.NewStoryArcRepository())
	handler := NewListChaptersHandler(chapters, zap.NewNop())

	second := seedYearChapter(t, chapters, "user1", "Life in 2016", 2016, 1)
	first := seedYearChapter(t, chapters, "user1", "Life in 2015", 2015, 0)
	seedYearChapter(t, chapters, "someone-else", "Life in 2014", 2014, 0)

	result, err := handler.Handle(ctx, queries.ListChaptersQuery{UserID: "user1"})

	require.NoError(t, err)
	require.Len(t, result.Chapters, 2)
	assert.Equal(t, first.ID().String(), result.Chapters[0].ID)
	assert.Equal(t, second.ID().String(), result.Chapters[1].ID)

	view := result.Chapters[0]
	assert.Equal(t, "user1", view.UserID)
	assert.Equal(t, "Life in 2015", view.Title)
	assert.Equal(t, "year_based", view.Type)
	assert.Nil(t, view.AgeStart)
	assert.Equal(t, 2015, view.YearStart)
	assert.Equal(t, 2015, view.YearEnd)
	assert.Equal(t, 4, view.PhotoCount)
	assert.Equal(t, "happiness", view.DominantEmotion)
}

func TestListChaptersHandler_NoChapters(t *testing.T) {
	chapters := memory.NewChapterRepository(memory.NewStoryArcRepository())
	handler := NewListChaptersHandler(chapters, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.ListChaptersQuery{UserID: "user1"})

	require.NoError(t, err)
	assert.Empty(t, result.Chapters)
}

func TestListChaptersHandler_RequiresUserID(t *testing.T) {
	chapters := memory.NewChapterRepository(memory.NewStoryArcRepository())
	handler := NewListChaptersHandler(chapters, zap.NewNop())

	_, err := handler.Handle(context.Background(), queries.ListChaptersQuery{})
	assert.Error(t, err)
}
