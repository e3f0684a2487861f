package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/domain/config"
	"memoir-backend/domain/core/entities"

	"go.uber.org/zap"
)

// ChapterGenerator partitions a user's dated photos into chapters:
// life-phase bands when the user has a birth date, merged year spans
// otherwise.
type ChapterGenerator struct {
	userRepo    ports.UserRepository
	photoRepo   ports.PhotoRepository
	chapterRepo ports.ChapterRepository
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewChapterGenerator creates a new chapter generator
func NewChapterGenerator(
	userRepo ports.UserRepository,
	photoRepo ports.PhotoRepository,
	chapterRepo ports.ChapterRepository,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *ChapterGenerator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ChapterGenerator{
		userRepo:    userRepo,
		photoRepo:   photoRepo,
		chapterRepo: chapterRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// datedPhoto pairs a photo with its effective date so the upload-date
// fallback never mutates the photo itself
type datedPhoto struct {
	photo *entities.Photo
	date  time.Time
}

// Generate returns the user's chapters, building them when none exist.
// With force true, existing chapters (and their arcs) are deleted and
// rebuilt. Photos without capture date inherit the upload date; photos
// with neither are excluded entirely.
func (g *ChapterGenerator) Generate(ctx context.Context, userID string, force bool) ([]*entities.Chapter, error) {
	user, err := g.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := g.chapterRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 && !force {
		g.logger.Info("User already has chapters",
			zap.String("userID", userID),
			zap.Int("chapters", len(existing)),
		)
		return existing, nil
	}

	if len(existing) > 0 {
		deleted, err := g.chapterRepo.DeleteByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		g.logger.Info("Deleted existing chapters for regeneration",
			zap.String("userID", userID),
			zap.Int("deleted", deleted),
		)
	}

	photos, err := g.photoRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dated := make([]datedPhoto, 0, len(photos))
	for _, p := range photos {
		if d, ok := p.EffectiveDate(); ok {
			dated = append(dated, datedPhoto{photo: p, date: d})
		}
	}

	if len(dated) < g.cfg.MinDatedPhotos {
		g.logger.Warn("Not enough dated photos for chapter generation",
			zap.String("userID", userID),
			zap.Int("datedPhotos", len(dated)),
			zap.Int("required", g.cfg.MinDatedPhotos),
		)
		return nil, nil
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].date.Before(dated[j].date)
	})

	var chapters []*entities.Chapter
	if user.BirthDate() != nil {
		chapters, err = g.buildAgeChapters(user, dated)
	} else {
		chapters, err = g.buildYearChapters(user, dated)
	}
	if err != nil {
		return nil, err
	}

	for _, ch := range chapters {
		if err := g.chapterRepo.Save(ctx, ch); err != nil {
			return nil, err
		}
	}

	g.logger.Info("Generated chapters",
		zap.String("userID", userID),
		zap.Int("chapters", len(chapters)),
		zap.Int("photos", len(dated)),
	)

	return chapters, nil
}

// buildAgeChapters maps each photo's age at capture into the life-phase
// table; every non-empty band becomes exactly one chapter.
func (g *ChapterGenerator) buildAgeChapters(user *entities.User, dated []datedPhoto) ([]*entities.Chapter, error) {
	bandPhotos := make(map[int][]datedPhoto)
	bandIndex := func(age int) (int, bool) {
		for i, phase := range g.cfg.LifePhases {
			if age >= phase.AgeStart && age <= phase.AgeEnd {
				return i, true
			}
		}
		return 0, false
	}

	for _, dp := range dated {
		age, _ := user.AgeAt(dp.date)
		idx, ok := bandIndex(age)
		if !ok {
			g.logger.Warn("Photo age outside life-phase table",
				zap.String("photoID", dp.photo.ID().String()),
				zap.Int("age", age),
			)
			continue
		}
		bandPhotos[idx] = append(bandPhotos[idx], dp)
	}

	indices := make([]int, 0, len(bandPhotos))
	for idx := range bandPhotos {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	birthYear := user.BirthDate().Year()
	chapters := make([]*entities.Chapter, 0, len(indices))

	for sequence, idx := range indices {
		phase := g.cfg.LifePhases[idx]
		members := bandPhotos[idx]

		yearStart := birthYear + phase.AgeStart
		yearEnd := birthYear + phase.AgeEnd

		var ageStr string
		if phase.AgeStart == phase.AgeEnd {
			ageStr = fmt.Sprintf("Age %d", phase.AgeStart)
		} else {
			ageStr = fmt.Sprintf("Ages %d-%d", phase.AgeStart, phase.AgeEnd)
		}
		subtitle := fmt.Sprintf("%s (%d-%d)", ageStr, yearStart, yearEnd)

		chapter, err := entities.NewAgeChapter(
			user.ID(),
			phase.Name,
			subtitle,
			phase.AgeStart,
			phase.AgeEnd,
			yearStart,
			yearEnd,
			len(members),
			dominantEmotion(members),
			members[0].photo.ID(),
			sequence,
		)
		if err != nil {
			return nil, err
		}

		chapters = append(chapters, chapter)
		g.logger.Debug("Created age chapter",
			zap.String("title", chapter.Title()),
			zap.String("subtitle", subtitle),
			zap.Int("photos", len(members)),
		)
	}

	return chapters, nil
}

// buildYearChapters buckets photos by capture year and merges adjacent
// years whose gap stays within the configured threshold.
func (g *ChapterGenerator) buildYearChapters(user *entities.User, dated []datedPhoto) ([]*entities.Chapter, error) {
	yearPhotos := make(map[int][]datedPhoto)
	for _, dp := range dated {
		yearPhotos[dp.date.Year()] = append(yearPhotos[dp.date.Year()], dp)
	}

	years := make([]int, 0, len(yearPhotos))
	for y := range yearPhotos {
		years = append(years, y)
	}
	sort.Ints(years)

	type span struct {
		start, end int
		members    []datedPhoto
	}

	var spans []span
	current := span{start: years[0], end: years[0], members: yearPhotos[years[0]]}
	for _, y := range years[1:] {
		if y-current.end <= g.cfg.YearMergeGap {
			current.end = y
			current.members = append(current.members, yearPhotos[y]...)
			continue
		}
		spans = append(spans, current)
		current = span{start: y, end: y, members: yearPhotos[y]}
	}
	spans = append(spans, current)

	chapters := make([]*entities.Chapter, 0, len(spans))
	for sequence, sp := range spans {
		var title string
		if sp.start == sp.end {
			title = fmt.Sprintf("Life in %d", sp.start)
		} else {
			title = fmt.Sprintf("Memories %d-%d", sp.start, sp.end)
		}

		chapter, err := entities.NewYearChapter(
			user.ID(),
			title,
			sp.start,
			sp.end,
			len(sp.members),
			dominantEmotion(sp.members),
			sp.members[0].photo.ID(),
			sequence,
		)
		if err != nil {
			return nil, err
		}

		chapters = append(chapters, chapter)
		g.logger.Debug("Created year chapter",
			zap.String("title", title),
			zap.Int("photos", len(sp.members)),
		)
	}

	return chapters, nil
}

// dominantEmotion returns the most frequent per-photo dominant emotion
// label; ties break alphabetically so regeneration is deterministic.
func dominantEmotion(members []datedPhoto) string {
	counts := make(map[string]int)
	for _, dp := range members {
		if e, ok := dp.photo.DominantEmotion(); ok {
			counts[e.Name()]++
		}
	}

	best := ""
	bestCount := 0
	for name, count := range counts {
		if count > bestCount || (count == bestCount && name < best) {
			best = name
			bestCount = count
		}
	}
	return best
}
