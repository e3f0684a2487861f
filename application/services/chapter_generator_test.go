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

type generatorFixture struct {
	users     *memory.UserRepository
	photos    *memory.PhotoRepository
	chapters  *memory.ChapterRepository
	arcs      *memory.StoryArcRepository
	generator *ChapterGenerator
}

func newGeneratorFixture(t *testing.T) *generatorFixture {
	t.Helper()
	arcs := memory.NewStoryArcRepository()
	f := &generatorFixture{
		users:    memory.NewUserRepository(),
		photos:   memory.NewPhotoRepository(),
		chapters: memory.NewChapterRepository(arcs),
		arcs:     arcs,
	}
	f.generator = NewChapterGenerator(f.users, f.photos, f.chapters, nil, zap.NewNop())
	return f
}

func (f *generatorFixture) seedUser(t *testing.T, id string, birth *time.Time) {
	t.Helper()
	user, err := entities.ReconstructUser(id, "tester", "tester@example.com", birth)
	require.NoError(t, err)
	f.users.Put(user)
}

func TestGenerate_AgeChapters(t *testing.T) {
	ctx := context.Background()
	f := newGeneratorFixture(t)

	birth := day(1990, time.January, 1)
	f.seedUser(t, "user1", &birth)

	// One photo per life phase: ages 5, 10, 15, 20, 25
	for _, year := range []int{1995, 2000, 2005, 2010, 2015} {
		f.photos.Put(photoAt(t, "user1", day(year, time.June, 1)))
	}

	chapters, err := f.generator.Generate(ctx, "user1", false)

	require.NoError(t, err)
	require.Len(t, chapters, 5)

	assert.Equal(t, "Early Childhood", chapters[0].Title())
	assert.Equal(t, "Ages 0-5 (1990-1995)", chapters[0].Subtitle())
	assert.Equal(t, entities.ChapterTypeAgeBased, chapters[0].Type())
	assert.Equal(t, 1990, chapters[0].YearStart())
	assert.Equal(t, 1995, chapters[0].YearEnd())

	assert.Equal(t, "Young Adulthood", chapters[4].Title())
	assert.Equal(t, "Ages 23-28 (2013-2018)", chapters[4].Subtitle())

	for i, ch := range chapters {
		assert.Equal(t, i, ch.SequenceOrder())
		assert.Equal(t, 1, ch.PhotoCount())
	}
}

func TestGenerate_YearChaptersMergeAdjacentYears(t *testing.T) {
	ctx := context.Background()
	f := newGeneratorFixture(t)
	f.seedUser(t, "user1", nil)

	f.photos.Put(photoAt(t, "user1", day(2010, time.March, 1)))
	f.photos.Put(photoAt(t, "user1", day(2011, time.July, 1)))
	f.photos.Put(photoAt(t, "user1", day(2014, time.May, 1)))

	chapters, err := f.generator.Generate(ctx, "user1", false)

	require.NoError(t, err)
	require.Len(t, chapters, 2)

	assert.Equal(t, "Memories 2010-2011", chapters[0].Title())
	assert.Equal(t, 2010, chapters[0].YearStart())
	assert.Equal(t, 2011, chapters[0].YearEnd())
	assert.Equal(t, 2, chapters[0].PhotoCount())
	assert.Equal(t, entities.ChapterTypeYearBased, chapters[0].Type())

	assert.Equal(t, "Life in 2014", chapters[1].Title())
	assert.Equal(t, 1, chapters[1].PhotoCount())
}

func TestGenerate_ExistingChaptersReturnedWithoutForce(t *testing.T) {
	ctx := context.Background()
	f := newGeneratorFixture(t)
	f.seedUser(t, "user1", nil)

	for _, year := range []int{2010, 2011, 2012} {
		f.photos.Put(photoAt(t, "user1", day(year, time.June, 1)))
	}

	first, err := f.generator.Generate(ctx, "user1", false)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := f.generator.Generate(ctx, "user1", false)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID(), second[i].ID())
	}
}

func TestGenerate_ForceRebuildsChapters(t *testing.T) {
	ctx := context.Background()
	f := newGeneratorFixture(t)
	f.seedUser(t, "user1", nil)

	for _, year := range []int{2010, 2011, 2012} {
		f.photos.Put(photoAt(t, "user1", day(year, time.June, 1)))
	}

	first, err := f.generator.Generate(ctx, "user1", false)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A photo far from the merged span forces a second chapter
	f.photos.Put(photoAt(t, "user1", day(2020, time.June, 1)))

	rebuilt, err := f.generator.Generate(ctx, "user1", true)
	require.NoError(t, err)
	require.Len(t, rebuilt, 2)

	stored, err := f.chapters.GetByUserID(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	for i := range first {
		assert.NotEqual(t, first[i].ID(), stored[0].ID(), "old chapter %d should be gone", i)
	}
}

func TestGenerate_TooFewDatedPhotos(t *testing.T) {
	ctx := context.Background()
	f := newGeneratorFixture(t)
	f.seedUser(t, "user1", nil)

	f.photos.Put(photoAt(t, "user1", day(2010, time.June, 1)))
	f.photos.Put(photoAt(t, "user1", day(2011, time.June, 1)))

	chapters, err := f.generator.Generate(ctx, "user1", false)

	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestGenerate_UploadDateFallback(t *testing.T) {
	ctx := context.Background()
	f := newGeneratorFixture(t)
	f.seedUser(t, "user1", nil)

	f.photos.Put(photoAt(t, "user1", day(2012, time.June, 1)))
	f.photos.Put(photoAt(t, "user1", day(2012, time.June, 2)))
	f.photos.Put(buildPhoto(t, "user1", photoSpec{uploaded: day(2012, time.June, 3)}))

	chapters, err := f.generator.Generate(ctx, "user1", false)

	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, 3, chapters[0].PhotoCount())
}

func TestGenerate_DominantEmotionTieBreak(t *testing.T) {
	ctx := context.Background()
	f := newGeneratorFixture(t)
	f.seedUser(t, "user1", nil)

	f.photos.Put(buildPhoto(t, "user1", photoSpec{
		captured: day(2012, time.June, 1),
		emos:     dominantEmotionLabel("surprise"),
	}))
	f.photos.Put(buildPhoto(t, "user1", photoSpec{
		captured: day(2012, time.June, 2),
		emos:     dominantEmotionLabel("happiness"),
	}))
	f.photos.Put(photoAt(t, "user1", day(2012, time.June, 3)))

	chapters, err := f.generator.Generate(ctx, "user1", false)

	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "happiness", chapters[0].DominantEmotion())
}

func TestGenerate_UnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newGeneratorFixture(t)

	_, err := f.generator.Generate(ctx, "missing", false)

	assert.Error(t, err)
}
