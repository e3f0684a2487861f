package entities

import (
	"fmt"
	"time"

	"memoir-backend/domain/core/valueobjects"
	pkgerrors "memoir-backend/pkg/errors"
)

// ChapterType distinguishes the two chapter banding strategies
type ChapterType string

const (
	ChapterTypeAgeBased  ChapterType = "age_based"
	ChapterTypeYearBased ChapterType = "year_based"
)

// Chapter groups a user's photos into one life phase or year span.
// Chapters are rebuilt wholesale on regeneration rather than mutated,
// so the entity is mostly a constructed record.
type Chapter struct {
	id              valueobjects.ChapterID
	userID          string
	title           string
	subtitle        string
	chapterType     ChapterType
	ageStart        *int
	ageEnd          *int
	yearStart       int
	yearEnd         int
	photoCount      int
	dominantEmotion string
	coverPhotoID    valueobjects.PhotoID
	sequenceOrder   int
	createdAt       time.Time
	updatedAt       time.Time
}

// NewAgeChapter creates a chapter for one life-phase band
func NewAgeChapter(
	userID, title, subtitle string,
	ageStart, ageEnd, yearStart, yearEnd int,
	photoCount int,
	dominantEmotion string,
	coverPhotoID valueobjects.PhotoID,
	sequenceOrder int,
) (*Chapter, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if ageEnd < ageStart {
		return nil, pkgerrors.NewValidationError("age range cannot be inverted")
	}
	if photoCount <= 0 {
		return nil, pkgerrors.NewValidationError("chapter must contain photos")
	}

	now := time.Now()
	return &Chapter{
		id:              valueobjects.NewChapterID(),
		userID:          userID,
		title:           title,
		subtitle:        subtitle,
		chapterType:     ChapterTypeAgeBased,
		ageStart:        &ageStart,
		ageEnd:          &ageEnd,
		yearStart:       yearStart,
		yearEnd:         yearEnd,
		photoCount:      photoCount,
		dominantEmotion: dominantEmotion,
		coverPhotoID:    coverPhotoID,
		sequenceOrder:   sequenceOrder,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// NewYearChapter creates a chapter for one merged year span
func NewYearChapter(
	userID, title string,
	yearStart, yearEnd int,
	photoCount int,
	dominantEmotion string,
	coverPhotoID valueobjects.PhotoID,
	sequenceOrder int,
) (*Chapter, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if yearEnd < yearStart {
		return nil, pkgerrors.NewValidationError("year range cannot be inverted")
	}
	if photoCount <= 0 {
		return nil, pkgerrors.NewValidationError("chapter must contain photos")
	}

	now := time.Now()
	return &Chapter{
		id:              valueobjects.NewChapterID(),
		userID:          userID,
		title:           title,
		chapterType:     ChapterTypeYearBased,
		yearStart:       yearStart,
		yearEnd:         yearEnd,
		photoCount:      photoCount,
		dominantEmotion: dominantEmotion,
		coverPhotoID:    coverPhotoID,
		sequenceOrder:   sequenceOrder,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructChapter rebuilds a chapter from repository data with preserved timestamps
func ReconstructChapter(
	id valueobjects.ChapterID,
	userID, title, subtitle string,
	chapterType ChapterType,
	ageStart, ageEnd *int,
	yearStart, yearEnd int,
	photoCount int,
	dominantEmotion string,
	coverPhotoID valueobjects.PhotoID,
	sequenceOrder int,
	createdAt, updatedAt time.Time,
) (*Chapter, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	return &Chapter{
		id:              id,
		userID:          userID,
		title:           title,
		subtitle:        subtitle,
		chapterType:     chapterType,
		ageStart:        ageStart,
		ageEnd:          ageEnd,
		yearStart:       yearStart,
		yearEnd:         yearEnd,
		photoCount:      photoCount,
		dominantEmotion: dominantEmotion,
		coverPhotoID:    coverPhotoID,
		sequenceOrder:   sequenceOrder,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (c *Chapter) ID() valueobjects.ChapterID         { return c.id }
func (c *Chapter) UserID() string                     { return c.userID }
func (c *Chapter) Title() string                      { return c.title }
func (c *Chapter) Subtitle() string                   { return c.subtitle }
func (c *Chapter) Type() ChapterType                  { return c.chapterType }
func (c *Chapter) AgeStart() *int                     { return c.ageStart }
func (c *Chapter) AgeEnd() *int                       { return c.ageEnd }
func (c *Chapter) YearStart() int                     { return c.yearStart }
func (c *Chapter) YearEnd() int                       { return c.yearEnd }
func (c *Chapter) PhotoCount() int                    { return c.photoCount }
func (c *Chapter) DominantEmotion() string            { return c.dominantEmotion }
func (c *Chapter) CoverPhotoID() valueobjects.PhotoID { return c.coverPhotoID }
func (c *Chapter) SequenceOrder() int                 { return c.sequenceOrder }
func (c *Chapter) CreatedAt() time.Time               { return c.createdAt }
func (c *Chapter) UpdatedAt() time.Time               { return c.updatedAt }

// DateRange returns the full-year interval the chapter covers
func (c *Chapter) DateRange() (valueobjects.DateRange, error) {
	if c.yearStart == 0 || c.yearEnd == 0 {
		return valueobjects.DateRange{}, pkgerrors.NewValidationError(
			fmt.Sprintf("chapter %s has no year range", c.id.String()))
	}
	return valueobjects.YearRange(c.yearStart, c.yearEnd)
}
