package events

import (
	"time"
)

// SourceBackend is the event source name used on the bus
const SourceBackend = "memoir.narrative"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// ChaptersGenerated is raised after a user's chapters have been committed
type ChaptersGenerated struct {
	BaseEvent
	UserID       string `json:"user_id"`
	ChapterCount int    `json:"chapter_count"`
	Forced       bool   `json:"forced"`
}

// NewChaptersGenerated creates a ChaptersGenerated event
func NewChaptersGenerated(userID string, chapterCount int, forced bool, timestamp time.Time) ChaptersGenerated {
	return ChaptersGenerated{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "narrative.chapters_generated",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:       userID,
		ChapterCount: chapterCount,
		Forced:       forced,
	}
}

// StoryArcsDetected is raised after one chapter's story arcs have been
// committed and photo-linked
type StoryArcsDetected struct {
	BaseEvent
	ChapterID string `json:"chapter_id"`
	UserID    string `json:"user_id"`
	ArcCount  int    `json:"arc_count"`
}

// NewStoryArcsDetected creates a StoryArcsDetected event
func NewStoryArcsDetected(chapterID, userID string, arcCount int, timestamp time.Time) StoryArcsDetected {
	return StoryArcsDetected{
		BaseEvent: BaseEvent{
			AggregateID: chapterID,
			EventType:   "narrative.story_arcs_detected",
			Timestamp:   timestamp,
			Version:     1,
		},
		ChapterID: chapterID,
		UserID:    userID,
		ArcCount:  arcCount,
	}
}

// PatternsDetected is raised after a pattern-detection pass has been committed
type PatternsDetected struct {
	BaseEvent
	UserID       string   `json:"user_id"`
	PatternCount int      `json:"pattern_count"`
	PatternTypes []string `json:"pattern_types"`
}

// NewPatternsDetected creates a PatternsDetected event
func NewPatternsDetected(userID string, patternCount int, patternTypes []string, timestamp time.Time) PatternsDetected {
	return PatternsDetected{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "narrative.patterns_detected",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:       userID,
		PatternCount: patternCount,
		PatternTypes: patternTypes,
	}
}
