package services

import (
	"context"
	"testing"
	"time"

	"memoir-backend/domain/core/valueobjects"
	"memoir-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAggregate_RanksByCount(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPhotoRepository()
	aggregator := NewSignalAggregator(repo, zap.NewNop())

	var ids []valueobjects.PhotoID
	specs := []photoSpec{
		{captured: day(2020, time.June, 1), cats: categories("beach", "ocean")},
		{captured: day(2020, time.June, 2), cats: categories("beach")},
		{captured: day(2020, time.June, 3), cats: categories("beach", "food")},
	}
	for _, spec := range specs {
		p := buildPhoto(t, "user1", spec)
		repo.Put(p)
		ids = append(ids, p.ID())
	}

	signals, err := aggregator.Aggregate(ctx, ids, 5, 3)

	require.NoError(t, err)
	require.NotEmpty(t, signals.Categories)
	assert.Equal(t, "beach", signals.Categories[0].Name)
	assert.Equal(t, 3, signals.Categories[0].Count)
	assert.Equal(t, []string{"beach", "food", "ocean"}, signals.CategoryNames())
}

func TestAggregate_TieBreaksByConfidenceThenName(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPhotoRepository()
	aggregator := NewSignalAggregator(repo, zap.NewNop())

	p := buildPhoto(t, "user1", photoSpec{
		captured: day(2020, time.June, 1),
		cats: []valueobjects.CategoryLabel{
			valueobjects.NewCategoryLabel("zebra", 0.9),
			valueobjects.NewCategoryLabel("apple", 0.9),
			valueobjects.NewCategoryLabel("mango", 0.95),
		},
	})
	repo.Put(p)

	signals, err := aggregator.Aggregate(ctx, []valueobjects.PhotoID{p.ID()}, 5, 3)

	require.NoError(t, err)
	// Equal counts: confidence first, then name ascending
	assert.Equal(t, []string{"mango", "apple", "zebra"}, signals.CategoryNames())
}

func TestAggregate_LimitsAndEmotions(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPhotoRepository()
	aggregator := NewSignalAggregator(repo, zap.NewNop())

	p := buildPhoto(t, "user1", photoSpec{
		captured: day(2020, time.June, 1),
		cats:     categories("a", "b", "c", "d"),
		emos: []valueobjects.EmotionLabel{
			valueobjects.NewEmotionLabel("happiness", 0.9, true),
			valueobjects.NewEmotionLabel("surprise", 0.5, false),
		},
	})
	repo.Put(p)

	signals, err := aggregator.Aggregate(ctx, []valueobjects.PhotoID{p.ID()}, 2, 1)

	require.NoError(t, err)
	assert.Len(t, signals.Categories, 2)
	assert.Equal(t, []string{"happiness"}, signals.EmotionNames())
}

func TestAggregate_EmptyPhotoSet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPhotoRepository()
	aggregator := NewSignalAggregator(repo, zap.NewNop())

	signals, err := aggregator.Aggregate(ctx, nil, 5, 3)

	require.NoError(t, err)
	assert.Empty(t, signals.Categories)
	assert.Empty(t, signals.Emotions)
}
