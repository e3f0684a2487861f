package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// ChapterID identifies a chapter.
type ChapterID struct {
	value string
}

func NewChapterID() ChapterID {
	return ChapterID{value: uuid.New().String()}
}

func NewChapterIDFromString(id string) (ChapterID, error) {
	if id == "" {
		return ChapterID{}, errors.New("chapter ID cannot be empty")
	}
	return ChapterID{value: id}, nil
}

func (id ChapterID) String() string              { return id.value }
func (id ChapterID) Equals(other ChapterID) bool { return id.value == other.value }
func (id ChapterID) IsZero() bool                { return id.value == "" }

// StoryArcID identifies a story arc.
type StoryArcID struct {
	value string
}

func NewStoryArcID() StoryArcID {
	return StoryArcID{value: uuid.New().String()}
}

func NewStoryArcIDFromString(id string) (StoryArcID, error) {
	if id == "" {
		return StoryArcID{}, errors.New("story arc ID cannot be empty")
	}
	return StoryArcID{value: id}, nil
}

func (id StoryArcID) String() string               { return id.value }
func (id StoryArcID) Equals(other StoryArcID) bool { return id.value == other.value }
func (id StoryArcID) IsZero() bool                 { return id.value == "" }

// PatternID identifies a detected pattern.
type PatternID struct {
	value string
}

func NewPatternID() PatternID {
	return PatternID{value: uuid.New().String()}
}

func NewPatternIDFromString(id string) (PatternID, error) {
	if id == "" {
		return PatternID{}, errors.New("pattern ID cannot be empty")
	}
	return PatternID{value: id}, nil
}

func (id PatternID) String() string              { return id.value }
func (id PatternID) Equals(other PatternID) bool { return id.value == other.value }
func (id PatternID) IsZero() bool                { return id.value == "" }

// LifeEventID identifies a life event.
type LifeEventID struct {
	value string
}

func NewLifeEventID() LifeEventID {
	return LifeEventID{value: uuid.New().String()}
}

func NewLifeEventIDFromString(id string) (LifeEventID, error) {
	if id == "" {
		return LifeEventID{}, errors.New("life event ID cannot be empty")
	}
	return LifeEventID{value: id}, nil
}

func (id LifeEventID) String() string               { return id.value }
func (id LifeEventID) Equals(other LifeEventID) bool { return id.value == other.value }
func (id LifeEventID) IsZero() bool                 { return id.value == "" }
