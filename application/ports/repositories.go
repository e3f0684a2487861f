package ports

import (
	"context"
	"time"

	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	"memoir-backend/domain/events"
)

// PhotoRepository defines read access to the externally managed photo store.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation, and this core never writes photos.
type PhotoRepository interface {
	// GetByID retrieves a photo by its ID
	GetByID(ctx context.Context, id valueobjects.PhotoID) (*entities.Photo, error)

	// GetByIDs retrieves photos by ID, ordered by capture date ascending
	GetByIDs(ctx context.Context, ids []valueobjects.PhotoID) ([]*entities.Photo, error)

	// GetByUserID retrieves all photos for a user
	GetByUserID(ctx context.Context, userID string) ([]*entities.Photo, error)

	// GetByDateRange retrieves a user's dated photos inside an inclusive
	// range, ordered by capture date ascending
	GetByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*entities.Photo, error)
}

// ChapterRepository defines the interface for chapter persistence
type ChapterRepository interface {
	// Save persists a chapter
	Save(ctx context.Context, chapter *entities.Chapter) error

	// GetByID retrieves a chapter by its ID
	GetByID(ctx context.Context, id valueobjects.ChapterID) (*entities.Chapter, error)

	// GetByUserID retrieves a user's chapters ordered by sequence order
	GetByUserID(ctx context.Context, userID string) ([]*entities.Chapter, error)

	// DeleteByUserID removes all chapters for a user, returning the count.
	// Story arcs under the chapters are removed with them.
	DeleteByUserID(ctx context.Context, userID string) (int, error)
}

// PhotoLink attaches one photo to an arc or pattern with its position
type PhotoLink struct {
	PhotoID       valueobjects.PhotoID
	SequenceOrder int
	IsCover       bool
}

// StoryArcRepository defines the interface for story arc persistence
type StoryArcRepository interface {
	// Save persists a story arc
	Save(ctx context.Context, arc *entities.StoryArc) error

	// GetByChapterID retrieves a chapter's arcs ordered by sequence order
	GetByChapterID(ctx context.Context, chapterID valueobjects.ChapterID) ([]*entities.StoryArc, error)

	// DeleteByChapterID removes all arcs (and their photo links) for a chapter
	DeleteByChapterID(ctx context.Context, chapterID valueobjects.ChapterID) (int, error)

	// LinkPhotos replaces the photo membership of an arc
	LinkPhotos(ctx context.Context, arcID valueobjects.StoryArcID, links []PhotoLink) error

	// GetPhotoLinks retrieves an arc's photo links ordered by sequence order
	GetPhotoLinks(ctx context.Context, arcID valueobjects.StoryArcID) ([]PhotoLink, error)
}

// PatternRepository defines the interface for pattern persistence
type PatternRepository interface {
	// Save persists a pattern together with its member-photo links
	Save(ctx context.Context, pattern *entities.Pattern) error

	// GetByUserID retrieves a user's patterns, optionally filtered by type
	// (empty kind means all), ordered by confidence descending
	GetByUserID(ctx context.Context, userID string, kind entities.PatternType) ([]*entities.Pattern, error)

	// DeleteByUserID removes all patterns for a user, returning the count
	DeleteByUserID(ctx context.Context, userID string) (int, error)
}

// LifeEventRepository defines read access to the externally curated
// life-event store
type LifeEventRepository interface {
	// GetByID retrieves a life event by its ID
	GetByID(ctx context.Context, id valueobjects.LifeEventID) (*entities.LifeEvent, error)

	// GetByUserID retrieves all life events for a user
	GetByUserID(ctx context.Context, userID string) ([]*entities.LifeEvent, error)

	// GetByDateRange retrieves a user's life events dated inside an
	// inclusive range
	GetByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*entities.LifeEvent, error)
}

// UserRepository defines read access to user profiles
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// MetricsPublisher records pipeline counters for observability
type MetricsPublisher interface {
	// RecordCount emits one count metric tagged with the owning user
	RecordCount(ctx context.Context, metric string, value float64, userID string)
}
