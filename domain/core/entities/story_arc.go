package entities

import (
	"time"

	"memoir-backend/domain/core/valueobjects"
	pkgerrors "memoir-backend/pkg/errors"
)

// ArcCategory classifies what kind of narrative unit an arc is
type ArcCategory string

const (
	ArcCategoryEvent     ArcCategory = "event"
	ArcCategoryTrip      ArcCategory = "trip"
	ArcCategoryMilestone ArcCategory = "milestone"
	ArcCategoryTradition ArcCategory = "tradition"
	ArcCategoryMoments   ArcCategory = "moments"
)

// GenerationSource records which detector produced an arc
type GenerationSource string

const (
	SourceLifeEvent      GenerationSource = "life_event"
	SourceTripCluster    GenerationSource = "trip_cluster"
	SourceUnifiedPattern GenerationSource = "unified_ai_pattern"
	SourceTimeCluster    GenerationSource = "time_cluster"
	SourceManual         GenerationSource = "manual"
)

// ArcMetadata carries the structured signals a downstream narrative
// generator consumes. Only the fields relevant to the arc's source are set.
type ArcMetadata struct {
	Categories          []string  `json:"categories,omitempty"`
	CategoryConfidences []float64 `json:"category_confidences,omitempty"`
	Emotions            []string  `json:"emotions,omitempty"`
	EmotionConfidences  []float64 `json:"emotion_confidences,omitempty"`
	DetectionMethod     string    `json:"detection_method,omitempty"`
	PhotoIDs            []string  `json:"photo_ids,omitempty"`
	TemporalSpanDays    int       `json:"temporal_span_days,omitempty"`
	LifeEventID         string    `json:"life_event_id,omitempty"`
	LocationName        string    `json:"location_name,omitempty"`
}

// StoryArc is a themed sub-grouping of photos inside one chapter.
// Title and description are placeholders enriched downstream; the
// contract with the narrative generator is the structured metadata.
type StoryArc struct {
	id            valueobjects.StoryArcID
	userID        string
	chapterID     valueobjects.ChapterID
	title         string
	description   string
	storyType     string
	category      ArcCategory
	source        GenerationSource
	dateRange     valueobjects.DateRange
	photoCount    int
	sequenceOrder int
	aiDetected    bool
	metadata      ArcMetadata
	createdAt     time.Time
}

// NewStoryArc creates a story arc; the date range invariant is enforced
// by the DateRange value object
func NewStoryArc(
	userID string,
	chapterID valueobjects.ChapterID,
	title, description, storyType string,
	category ArcCategory,
	source GenerationSource,
	dateRange valueobjects.DateRange,
	photoCount int,
	sequenceOrder int,
	aiDetected bool,
	metadata ArcMetadata,
) (*StoryArc, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if chapterID.IsZero() {
		return nil, pkgerrors.NewValidationError("chapter ID cannot be empty")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("arc title cannot be empty")
	}

	return &StoryArc{
		id:            valueobjects.NewStoryArcID(),
		userID:        userID,
		chapterID:     chapterID,
		title:         title,
		description:   description,
		storyType:     storyType,
		category:      category,
		source:        source,
		dateRange:     dateRange,
		photoCount:    photoCount,
		sequenceOrder: sequenceOrder,
		aiDetected:    aiDetected,
		metadata:      metadata,
		createdAt:     time.Now(),
	}, nil
}

// ReconstructStoryArc rebuilds an arc from repository data
func ReconstructStoryArc(
	id valueobjects.StoryArcID,
	userID string,
	chapterID valueobjects.ChapterID,
	title, description, storyType string,
	category ArcCategory,
	source GenerationSource,
	dateRange valueobjects.DateRange,
	photoCount int,
	sequenceOrder int,
	aiDetected bool,
	metadata ArcMetadata,
	createdAt time.Time,
) (*StoryArc, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	return &StoryArc{
		id:            id,
		userID:        userID,
		chapterID:     chapterID,
		title:         title,
		description:   description,
		storyType:     storyType,
		category:      category,
		source:        source,
		dateRange:     dateRange,
		photoCount:    photoCount,
		sequenceOrder: sequenceOrder,
		aiDetected:    aiDetected,
		metadata:      metadata,
		createdAt:     createdAt,
	}, nil
}

func (a *StoryArc) ID() valueobjects.StoryArcID       { return a.id }
func (a *StoryArc) UserID() string                    { return a.userID }
func (a *StoryArc) ChapterID() valueobjects.ChapterID { return a.chapterID }
func (a *StoryArc) Title() string                     { return a.title }
func (a *StoryArc) Description() string               { return a.description }
func (a *StoryArc) StoryType() string                 { return a.storyType }
func (a *StoryArc) Category() ArcCategory             { return a.category }
func (a *StoryArc) Source() GenerationSource          { return a.source }
func (a *StoryArc) DateRange() valueobjects.DateRange { return a.dateRange }
func (a *StoryArc) PhotoCount() int                   { return a.photoCount }
func (a *StoryArc) SequenceOrder() int                { return a.sequenceOrder }
func (a *StoryArc) IsAIDetected() bool                { return a.aiDetected }
func (a *StoryArc) Metadata() ArcMetadata             { return a.metadata }
func (a *StoryArc) CreatedAt() time.Time              { return a.createdAt }
