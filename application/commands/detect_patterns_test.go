package commands

import (
	"context"
	"testing"
	"time"

	"memoir-backend/application/services"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	"memoir-backend/domain/events"
	"memoir-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDetectPatternsFixture(t *testing.T) (*DetectPatternsHandler, *memory.PhotoRepository, *memory.PatternRepository, *memory.EventRecorder) {
	t.Helper()
	logger := zap.NewNop()

	photos := memory.NewPhotoRepository()
	patterns := memory.NewPatternRepository()
	publisher := memory.NewEventRecorder()

	detector := services.NewPatternDetector(photos, patterns, services.NewSpatialClusterer(logger), nil, logger)
	handler := NewDetectPatternsHandler(detector, publisher, memory.NewMetricsRecorder(), logger)
	return handler, photos, patterns, publisher
}

func seedSunsetPhotos(t *testing.T, photos *memory.PhotoRepository, userID string) {
	t.Helper()
	for d := 1; d <= 3; d++ {
		captured := time.Date(2020, time.June, d, 12, 0, 0, 0, time.UTC)
		photo, err := entities.ReconstructPhoto(
			valueobjects.NewPhotoID(),
			userID,
			&captured,
			captured,
			nil,
			[]valueobjects.CategoryLabel{valueobjects.NewCategoryLabel("sunset", 0.9)},
			nil,
		)
		require.NoError(t, err)
		photos.Put(photo)
	}
}

func TestDetectPatternsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	handler, photos, _, publisher := newDetectPatternsFixture(t)
	seedSunsetPhotos(t, photos, "user1")

	patterns, err := handler.Handle(ctx, DetectPatternsCommand{UserID: "user1"})

	require.NoError(t, err)
	require.Len(t, patterns, 1)

	recorded := publisher.Events()
	require.Len(t, recorded, 1)
	event, ok := recorded[0].(events.PatternsDetected)
	require.True(t, ok)
	assert.Equal(t, 1, event.PatternCount)
	assert.Equal(t, []string{"visual"}, event.PatternTypes)
}

func TestDetectPatternsHandler_ClearReplacesPriorPatterns(t *testing.T) {
	ctx := context.Background()
	handler, photos, patternRepo, _ := newDetectPatternsFixture(t)
	seedSunsetPhotos(t, photos, "user1")

	_, err := handler.Handle(ctx, DetectPatternsCommand{UserID: "user1"})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, DetectPatternsCommand{UserID: "user1", Clear: true})
	require.NoError(t, err)

	stored, err := patternRepo.GetByUserID(ctx, "user1", "")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestDetectPatternsHandler_RejectsEmptyUserID(t *testing.T) {
	ctx := context.Background()
	handler, _, _, publisher := newDetectPatternsFixture(t)

	_, err := handler.Handle(ctx, DetectPatternsCommand{})

	assert.Error(t, err)
	assert.Empty(t, publisher.Events())
}
