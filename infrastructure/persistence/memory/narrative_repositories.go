package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"memoir-backend/application/ports"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	pkgerrors "memoir-backend/pkg/errors"
)

// ChapterRepository is an in-memory chapter store for tests and local runs
type ChapterRepository struct {
	mu       sync.RWMutex
	chapters map[string]*entities.Chapter
	arcRepo  *StoryArcRepository
}

// NewChapterRepository creates an empty in-memory chapter repository.
// The arc repository is used to cascade arc deletion.
func NewChapterRepository(arcRepo *StoryArcRepository) *ChapterRepository {
	return &ChapterRepository{
		chapters: make(map[string]*entities.Chapter),
		arcRepo:  arcRepo,
	}
}

// Save persists a chapter
func (r *ChapterRepository) Save(_ context.Context, chapter *entities.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chapters[chapter.ID().String()] = chapter
	return nil
}

// GetByID retrieves a chapter by its ID
func (r *ChapterRepository) GetByID(_ context.Context, id valueobjects.ChapterID) (*entities.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chapter, ok := r.chapters[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("chapter %s", id.String()))
	}
	return chapter, nil
}

// GetByUserID retrieves a user's chapters ordered by sequence order
func (r *ChapterRepository) GetByUserID(_ context.Context, userID string) ([]*entities.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var chapters []*entities.Chapter
	for _, chapter := range r.chapters {
		if chapter.UserID() == userID {
			chapters = append(chapters, chapter)
		}
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].SequenceOrder() < chapters[j].SequenceOrder()
	})
	return chapters, nil
}

// DeleteByUserID removes all chapters for a user together with their
// story arcs, returning the chapter count
func (r *ChapterRepository) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	var doomed []*entities.Chapter
	for _, chapter := range r.chapters {
		if chapter.UserID() == userID {
			doomed = append(doomed, chapter)
		}
	}
	for _, chapter := range doomed {
		delete(r.chapters, chapter.ID().String())
	}
	r.mu.Unlock()

	if r.arcRepo != nil {
		for _, chapter := range doomed {
			if _, err := r.arcRepo.DeleteByChapterID(ctx, chapter.ID()); err != nil {
				return 0, err
			}
		}
	}
	return len(doomed), nil
}

// StoryArcRepository is an in-memory story arc store for tests and local runs
type StoryArcRepository struct {
	mu    sync.RWMutex
	arcs  map[string]*entities.StoryArc
	links map[string][]ports.PhotoLink
}

// NewStoryArcRepository creates an empty in-memory story arc repository
func NewStoryArcRepository() *StoryArcRepository {
	return &StoryArcRepository{
		arcs:  make(map[string]*entities.StoryArc),
		links: make(map[string][]ports.PhotoLink),
	}
}

// Save persists a story arc
func (r *StoryArcRepository) Save(_ context.Context, arc *entities.StoryArc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.arcs[arc.ID().String()] = arc
	return nil
}

// GetByChapterID retrieves a chapter's arcs ordered by sequence order
func (r *StoryArcRepository) GetByChapterID(_ context.Context, chapterID valueobjects.ChapterID) ([]*entities.StoryArc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var arcs []*entities.StoryArc
	for _, arc := range r.arcs {
		if arc.ChapterID().Equals(chapterID) {
			arcs = append(arcs, arc)
		}
	}
	sort.SliceStable(arcs, func(i, j int) bool {
		return arcs[i].SequenceOrder() < arcs[j].SequenceOrder()
	})
	return arcs, nil
}

// DeleteByChapterID removes all arcs and their photo links for a chapter
func (r *StoryArcRepository) DeleteByChapterID(_ context.Context, chapterID valueobjects.ChapterID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, arc := range r.arcs {
		if arc.ChapterID().Equals(chapterID) {
			delete(r.arcs, id)
			delete(r.links, id)
			count++
		}
	}
	return count, nil
}

// LinkPhotos replaces the photo membership of an arc
func (r *StoryArcRepository) LinkPhotos(_ context.Context, arcID valueobjects.StoryArcID, links []ports.PhotoLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]ports.PhotoLink, len(links))
	copy(copied, links)
	r.links[arcID.String()] = copied
	return nil
}

// GetPhotoLinks retrieves an arc's photo links ordered by sequence order
func (r *StoryArcRepository) GetPhotoLinks(_ context.Context, arcID valueobjects.StoryArcID) ([]ports.PhotoLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]ports.PhotoLink, len(r.links[arcID.String()]))
	copy(links, r.links[arcID.String()])
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].SequenceOrder < links[j].SequenceOrder
	})
	return links, nil
}

// PatternRepository is an in-memory pattern store for tests and local runs
type PatternRepository struct {
	mu       sync.RWMutex
	patterns map[string]*entities.Pattern
}

// NewPatternRepository creates an empty in-memory pattern repository
func NewPatternRepository() *PatternRepository {
	return &PatternRepository{patterns: make(map[string]*entities.Pattern)}
}

// Save persists a pattern together with its member-photo links
func (r *PatternRepository) Save(_ context.Context, pattern *entities.Pattern) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns[pattern.ID().String()] = pattern
	return nil
}

// GetByUserID retrieves a user's patterns, optionally filtered by type,
// ordered by confidence descending
func (r *PatternRepository) GetByUserID(_ context.Context, userID string, kind entities.PatternType) ([]*entities.Pattern, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var patterns []*entities.Pattern
	for _, pattern := range r.patterns {
		if pattern.UserID() != userID {
			continue
		}
		if kind != "" && pattern.Type() != kind {
			continue
		}
		patterns = append(patterns, pattern)
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Confidence() != patterns[j].Confidence() {
			return patterns[i].Confidence() > patterns[j].Confidence()
		}
		return patterns[i].Description() < patterns[j].Description()
	})
	return patterns, nil
}

// DeleteByUserID removes all patterns for a user, returning the count
func (r *PatternRepository) DeleteByUserID(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, pattern := range r.patterns {
		if pattern.UserID() == userID {
			delete(r.patterns, id)
			count++
		}
	}
	return count, nil
}

var (
	_ ports.ChapterRepository  = (*ChapterRepository)(nil)
	_ ports.StoryArcRepository = (*StoryArcRepository)(nil)
	_ ports.PatternRepository  = (*PatternRepository)(nil)
)
