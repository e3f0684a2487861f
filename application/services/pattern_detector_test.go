package services

import (
	"context"
	"testing"
	"time"

	"memoir-backend/domain/core/entities"
	"memoir-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type patternFixture struct {
	photos   *memory.PhotoRepository
	patterns *memory.PatternRepository
	detector *PatternDetector
}

func newPatternFixture(t *testing.T) *patternFixture {
	t.Helper()
	f := &patternFixture{
		photos:   memory.NewPhotoRepository(),
		patterns: memory.NewPatternRepository(),
	}
	f.detector = NewPatternDetector(f.photos, f.patterns, NewSpatialClusterer(zap.NewNop()), nil, zap.NewNop())
	return f
}

func findPattern(patterns []*entities.Pattern, kind entities.PatternType, freq entities.PatternFrequency) *entities.Pattern {
	for _, p := range patterns {
		if p.Type() == kind && p.Frequency() == freq {
			return p
		}
	}
	return nil
}

func TestDetectAll_AnnualPattern(t *testing.T) {
	ctx := context.Background()
	f := newPatternFixture(t)

	// Same month and day across three years
	for _, year := range []int{2019, 2020, 2021} {
		f.photos.Put(photoAt(t, "user1", day(year, time.March, 5)))
	}
	f.photos.Put(photoAt(t, "user1", day(2021, time.March, 5)))

	patterns, err := f.detector.DetectAll(ctx, "user1")

	require.NoError(t, err)

	annual := findPattern(patterns, entities.PatternTypeTemporal, entities.FrequencyAnnual)
	require.NotNil(t, annual)
	assert.Equal(t, "Annual event on 3/5", annual.Description())
	assert.InDelta(t, 0.95, annual.Confidence(), 1e-9)
	assert.Equal(t, 3, annual.Metadata().Month)
	assert.Equal(t, 5, annual.Metadata().Day)
	assert.Equal(t, []int{2019, 2020, 2021}, annual.Metadata().Years)
	assert.Len(t, annual.PhotoIDs(), 4)

	// Four March photos across years also satisfy the monthly rule
	monthly := findPattern(patterns, entities.PatternTypeTemporal, entities.FrequencyMonthly)
	require.NotNil(t, monthly)
	assert.Equal(t, "Monthly pattern in March", monthly.Description())
	assert.InDelta(t, 0.8, monthly.Confidence(), 1e-9)
}

func TestDetectAll_NoPatternFromSingleYear(t *testing.T) {
	ctx := context.Background()
	f := newPatternFixture(t)

	for d := 1; d <= 4; d++ {
		f.photos.Put(photoAt(t, "user1", day(2020, time.March, d)))
	}

	patterns, err := f.detector.DetectAll(ctx, "user1")

	require.NoError(t, err)
	assert.Nil(t, findPattern(patterns, entities.PatternTypeTemporal, entities.FrequencyAnnual))
	assert.Nil(t, findPattern(patterns, entities.PatternTypeTemporal, entities.FrequencyMonthly))
}

func TestDetectAll_SpatialPattern(t *testing.T) {
	ctx := context.Background()
	f := newPatternFixture(t)

	for d := 1; d <= 4; d++ {
		f.photos.Put(buildPhoto(t, "user1", photoSpec{
			captured: day(2020, time.Month(d), 1),
			location: geoTag(48.8566, 2.3522, "Cafe de Flore"),
		}))
	}

	patterns, err := f.detector.DetectAll(ctx, "user1")

	require.NoError(t, err)

	spatial := findPattern(patterns, entities.PatternTypeSpatial, entities.FrequencyCustom)
	require.NotNil(t, spatial)
	assert.Equal(t, "Frequent location: Cafe de Flore", spatial.Description())
	assert.InDelta(t, 0.9, spatial.Confidence(), 1e-9)
	assert.Equal(t, "Cafe de Flore", spatial.Metadata().LocationName)
	assert.Equal(t, "density", spatial.Metadata().ClusteringMethod)
	assert.InDelta(t, 48.8566, spatial.Metadata().CenterLat, 1e-6)
	assert.InDelta(t, 2.3522, spatial.Metadata().CenterLon, 1e-6)
}

func TestDetectAll_VisualPattern(t *testing.T) {
	ctx := context.Background()
	f := newPatternFixture(t)

	for d := 1; d <= 3; d++ {
		f.photos.Put(buildPhoto(t, "user1", photoSpec{
			captured: day(2020, time.June, d),
			cats:     categories("sunset"),
		}))
	}

	patterns, err := f.detector.DetectAll(ctx, "user1")

	require.NoError(t, err)

	visual := findPattern(patterns, entities.PatternTypeVisual, entities.FrequencyCustom)
	require.NotNil(t, visual)
	assert.Equal(t, "Visual cluster: sunset", visual.Description())
	assert.InDelta(t, 0.75, visual.Confidence(), 1e-9)
	assert.Equal(t, "sunset", visual.Metadata().Category)
	assert.Equal(t, "category_based", visual.Metadata().ClusteringMethod)
}

func TestDetectAll_IsAdditive(t *testing.T) {
	ctx := context.Background()
	f := newPatternFixture(t)

	for d := 1; d <= 3; d++ {
		f.photos.Put(buildPhoto(t, "user1", photoSpec{
			captured: day(2020, time.June, d),
			cats:     categories("sunset"),
		}))
	}

	first, err := f.detector.DetectAll(ctx, "user1")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	_, err = f.detector.DetectAll(ctx, "user1")
	require.NoError(t, err)

	stored, err := f.patterns.GetByUserID(ctx, "user1", "")
	require.NoError(t, err)
	assert.Len(t, stored, 2*len(first))
}

func TestClearPatterns(t *testing.T) {
	ctx := context.Background()
	f := newPatternFixture(t)

	for d := 1; d <= 3; d++ {
		f.photos.Put(buildPhoto(t, "user1", photoSpec{
			captured: day(2020, time.June, d),
			cats:     categories("sunset"),
		}))
	}

	first, err := f.detector.DetectAll(ctx, "user1")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	deleted, err := f.detector.ClearPatterns(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, len(first), deleted)

	stored, err := f.patterns.GetByUserID(ctx, "user1", "")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestDetectAll_TooFewPhotos(t *testing.T) {
	ctx := context.Background()
	f := newPatternFixture(t)

	f.photos.Put(photoAt(t, "user1", day(2020, time.June, 1)))
	f.photos.Put(photoAt(t, "user1", day(2020, time.June, 2)))

	patterns, err := f.detector.DetectAll(ctx, "user1")

	require.NoError(t, err)
	assert.Empty(t, patterns)
}
