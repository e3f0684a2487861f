package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	"memoir-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type detectorFixture struct {
	photos   *memory.PhotoRepository
	chapters *memory.ChapterRepository
	arcs     *memory.StoryArcRepository
	events   *memory.LifeEventRepository
	detector *StoryArcDetector
}

func newDetectorFixture(t *testing.T) *detectorFixture {
	t.Helper()
	logger := zap.NewNop()
	arcs := memory.NewStoryArcRepository()
	f := &detectorFixture{
		photos:   memory.NewPhotoRepository(),
		chapters: memory.NewChapterRepository(arcs),
		arcs:     arcs,
		events:   memory.NewLifeEventRepository(),
	}
	f.detector = NewStoryArcDetector(
		f.photos,
		f.chapters,
		f.arcs,
		f.events,
		NewTemporalClusterer(logger),
		NewSpatialClusterer(logger),
		NewSignalAggregator(f.photos, logger),
		nil,
		logger,
	)
	return f
}

func (f *detectorFixture) seedChapter(t *testing.T, userID string, year, photoCount int) *entities.Chapter {
	t.Helper()
	chapter, err := entities.NewYearChapter(
		userID,
		"Life in 2015",
		year,
		year,
		photoCount,
		"",
		valueobjects.NewPhotoID(),
		0,
	)
	require.NoError(t, err)
	require.NoError(t, f.chapters.Save(context.Background(), chapter))
	return chapter
}

func TestDetect_TripArc(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture(t)

	// Six geotagged photos at the same place over five days
	for d := 1; d <= 6; d++ {
		f.photos.Put(buildPhoto(t, "user1", photoSpec{
			captured: day(2015, time.July, d),
			location: geoTag(36.3932, 25.4615, "Santorini"),
		}))
	}
	chapter := f.seedChapter(t, "user1", 2015, 6)

	arcs, err := f.detector.Detect(ctx, chapter.ID())

	require.NoError(t, err)
	require.Len(t, arcs, 2)

	trip := arcs[0]
	assert.Equal(t, entities.SourceTripCluster, trip.Source())
	assert.Equal(t, "Santorini 2015", trip.Title())
	assert.Equal(t, "A memorable trip to Santorini", trip.Description())
	assert.Equal(t, entities.ArcCategoryTrip, trip.Category())
	assert.Equal(t, "Santorini", trip.Metadata().LocationName)
	assert.Equal(t, "location+date", trip.Metadata().DetectionMethod)
	assert.Equal(t, 6, trip.PhotoCount())
	assert.Equal(t, 0, trip.SequenceOrder())

	// The same burst also surfaces through the unified detector
	assert.Equal(t, entities.SourceUnifiedPattern, arcs[1].Source())
	assert.Equal(t, 1, arcs[1].SequenceOrder())

	links, err := f.arcs.GetPhotoLinks(ctx, trip.ID())
	require.NoError(t, err)
	require.Len(t, links, 6)
	assert.True(t, links[0].IsCover)
	assert.False(t, links[1].IsCover)
}

func TestDetect_UnifiedBeachVacation(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture(t)

	for d := 1; d <= 5; d++ {
		f.photos.Put(buildPhoto(t, "user1", photoSpec{
			captured: day(2015, time.July, d),
			cats:     categories("beach", "ocean"),
			emos:     dominantEmotionLabel("happiness"),
		}))
	}
	chapter := f.seedChapter(t, "user1", 2015, 5)

	arcs, err := f.detector.Detect(ctx, chapter.ID())

	require.NoError(t, err)
	require.Len(t, arcs, 1)

	arc := arcs[0]
	assert.Equal(t, entities.SourceUnifiedPattern, arc.Source())
	assert.Equal(t, "Beach Vacation", arc.Title())
	assert.Equal(t, "vacation", arc.StoryType())
	assert.Equal(t, entities.ArcCategoryTrip, arc.Category())
	assert.Equal(t, "date+classification+emotions", arc.Metadata().DetectionMethod)
	assert.Contains(t, arc.Metadata().Categories, "beach")
	assert.Contains(t, arc.Metadata().Emotions, "happiness")
	assert.Equal(t, 4, arc.Metadata().TemporalSpanDays)

	links, err := f.arcs.GetPhotoLinks(ctx, arc.ID())
	require.NoError(t, err)
	assert.Len(t, links, 5)
}

func TestDetect_UnmatchedBurstBecomesMoments(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture(t)

	// Multi-day burst, no location, no labels: without any category
	// signal no rule fires, span alone does not make a trip
	for d := 1; d <= 5; d++ {
		f.photos.Put(photoAt(t, "user1", day(2015, time.June, d)))
	}
	chapter := f.seedChapter(t, "user1", 2015, 5)

	arcs, err := f.detector.Detect(ctx, chapter.ID())

	require.NoError(t, err)
	require.Len(t, arcs, 1)

	arc := arcs[0]
	assert.Equal(t, entities.SourceUnifiedPattern, arc.Source())
	assert.Equal(t, "June Moments", arc.Title())
	assert.Equal(t, "Special moments from June 2015", arc.Description())
	assert.Equal(t, entities.ArcCategoryMoments, arc.Category())

	// The unified detector produced arcs, so the temporal fallback is off
	for _, a := range arcs {
		assert.NotEqual(t, entities.SourceTimeCluster, a.Source())
	}
}

func TestDetect_FallbackEngagesWhenUnifiedFails(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	photos := memory.NewPhotoRepository()
	arcs := memory.NewStoryArcRepository()
	chapters := memory.NewChapterRepository(arcs)
	events := memory.NewLifeEventRepository()

	detector := NewStoryArcDetector(
		photos,
		chapters,
		arcs,
		events,
		NewTemporalClusterer(logger),
		NewSpatialClusterer(logger),
		NewSignalAggregator(failingPhotoRepo{photos}, logger),
		nil,
		logger,
	)

	for d := 1; d <= 5; d++ {
		photos.Put(photoAt(t, "user1", day(2015, time.June, d)))
	}
	chapter, err := entities.NewYearChapter("user1", "Life in 2015", 2015, 2015, 5, "", valueobjects.NewPhotoID(), 0)
	require.NoError(t, err)
	require.NoError(t, chapters.Save(ctx, chapter))

	detected, err := detector.Detect(ctx, chapter.ID())

	require.NoError(t, err)
	require.Len(t, detected, 1)
	assert.Equal(t, entities.SourceTimeCluster, detected[0].Source())
	assert.Equal(t, "June Moments", detected[0].Title())
	assert.Equal(t, "Memories from June 2015", detected[0].Description())
	assert.Equal(t, "date_clustering", detected[0].Metadata().DetectionMethod)
}

func TestDetect_LifeEventArc(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture(t)

	p1 := buildPhoto(t, "user1", photoSpec{captured: day(2015, time.May, 10)})
	p2 := buildPhoto(t, "user1", photoSpec{captured: day(2015, time.May, 12)})
	f.photos.Put(p1)
	f.photos.Put(p2)

	event, err := entities.ReconstructLifeEvent(
		valueobjects.NewLifeEventID(),
		"user1",
		entities.EventTypeVacation,
		"Honeymoon in Bali",
		day(2015, time.May, 10),
		"Bali",
		"",
		"user_created",
		[]valueobjects.PhotoID{p1.ID(), p2.ID()},
	)
	require.NoError(t, err)
	f.events.Put(event)

	chapter := f.seedChapter(t, "user1", 2015, 2)

	arcs, err := f.detector.Detect(ctx, chapter.ID())

	require.NoError(t, err)
	require.Len(t, arcs, 1)

	arc := arcs[0]
	assert.Equal(t, entities.SourceLifeEvent, arc.Source())
	assert.Equal(t, "Honeymoon in Bali", arc.Title())
	assert.Equal(t, "Photos from Honeymoon in Bali", arc.Description())
	assert.Equal(t, "vacation", arc.StoryType())
	assert.Equal(t, entities.ArcCategoryTrip, arc.Category())
	assert.Equal(t, event.ID().String(), arc.Metadata().LifeEventID)
	assert.Equal(t, "Bali", arc.Metadata().LocationName)
	assert.False(t, arc.IsAIDetected())

	links, err := f.arcs.GetPhotoLinks(ctx, arc.ID())
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, p1.ID(), links[0].PhotoID)
	assert.True(t, links[0].IsCover)
}

func TestDetect_SkipsLifeEventWithoutPhotos(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture(t)

	event, err := entities.ReconstructLifeEvent(
		valueobjects.NewLifeEventID(),
		"user1",
		entities.EventTypeCustom,
		"Unlinked Event",
		day(2015, time.May, 10),
		"",
		"",
		"user_created",
		nil,
	)
	require.NoError(t, err)
	f.events.Put(event)

	f.photos.Put(photoAt(t, "user1", day(2015, time.May, 10)))
	chapter := f.seedChapter(t, "user1", 2015, 1)

	arcs, err := f.detector.Detect(ctx, chapter.ID())

	require.NoError(t, err)
	for _, arc := range arcs {
		assert.NotEqual(t, entities.SourceLifeEvent, arc.Source())
	}
}

func TestDetect_ChapterWithoutPhotos(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture(t)

	chapter := f.seedChapter(t, "user1", 2015, 1)

	arcs, err := f.detector.Detect(ctx, chapter.ID())

	require.NoError(t, err)
	assert.Empty(t, arcs)
}

func TestDetect_UnknownChapter(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture(t)

	_, err := f.detector.Detect(ctx, valueobjects.NewChapterID())

	assert.Error(t, err)
}

// failingPhotoRepo breaks GetByIDs so the unified stage errors out
type failingPhotoRepo struct {
	*memory.PhotoRepository
}

func (r failingPhotoRepo) GetByIDs(context.Context, []valueobjects.PhotoID) ([]*entities.Photo, error) {
	return nil, errors.New("photo lookup unavailable")
}
