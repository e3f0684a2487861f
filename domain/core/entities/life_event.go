package entities

import (
	"time"

	"memoir-backend/domain/core/valueobjects"
	pkgerrors "memoir-backend/pkg/errors"
)

// LifeEventType classifies a major life event
type LifeEventType string

const (
	EventTypeWedding     LifeEventType = "wedding"
	EventTypeBirth       LifeEventType = "birth"
	EventTypeGraduation  LifeEventType = "graduation"
	EventTypeMove        LifeEventType = "move"
	EventTypeVacation    LifeEventType = "vacation"
	EventTypeBirthday    LifeEventType = "birthday"
	EventTypeAnniversary LifeEventType = "anniversary"
	EventTypeCustom      LifeEventType = "custom"
)

// ArcCategoryForEvent maps a life-event type to the arc category its
// story arc is filed under
func ArcCategoryForEvent(t LifeEventType) ArcCategory {
	switch t {
	case EventTypeWedding, EventTypeBirth, EventTypeGraduation:
		return ArcCategoryEvent
	case EventTypeMove:
		return ArcCategoryMilestone
	case EventTypeVacation:
		return ArcCategoryTrip
	case EventTypeBirthday, EventTypeAnniversary:
		return ArcCategoryTradition
	default:
		return ArcCategoryEvent
	}
}

// LifeEvent is an externally curated major event with its linked photos.
// Read-only to this core; events are created and linked by a collaborator.
type LifeEvent struct {
	id              valueobjects.LifeEventID
	userID          string
	eventType       LifeEventType
	name            string
	date            time.Time
	location        string
	description     string
	detectionMethod string
	photoIDs        []valueobjects.PhotoID
}

// ReconstructLifeEvent rebuilds a life event from repository data
func ReconstructLifeEvent(
	id valueobjects.LifeEventID,
	userID string,
	eventType LifeEventType,
	name string,
	date time.Time,
	location, description, detectionMethod string,
	photoIDs []valueobjects.PhotoID,
) (*LifeEvent, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("event name cannot be empty")
	}

	return &LifeEvent{
		id:              id,
		userID:          userID,
		eventType:       eventType,
		name:            name,
		date:            date,
		location:        location,
		description:     description,
		detectionMethod: detectionMethod,
		photoIDs:        photoIDs,
	}, nil
}

func (e *LifeEvent) ID() valueobjects.LifeEventID { return e.id }
func (e *LifeEvent) UserID() string               { return e.userID }
func (e *LifeEvent) Type() LifeEventType          { return e.eventType }
func (e *LifeEvent) Name() string                 { return e.name }
func (e *LifeEvent) Date() time.Time              { return e.date }
func (e *LifeEvent) Location() string             { return e.location }
func (e *LifeEvent) Description() string          { return e.description }
func (e *LifeEvent) DetectionMethod() string      { return e.detectionMethod }

// IsAIDetected reports whether the event came from upstream AI detection
func (e *LifeEvent) IsAIDetected() bool {
	return e.detectionMethod == "ai_detected"
}

// PhotoIDs returns the linked photos
func (e *LifeEvent) PhotoIDs() []valueobjects.PhotoID {
	out := make([]valueobjects.PhotoID, len(e.photoIDs))
	copy(out, e.photoIDs)
	return out
}
