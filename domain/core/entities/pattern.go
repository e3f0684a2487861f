package entities

import (
	"time"

	"memoir-backend/domain/core/valueobjects"
	pkgerrors "memoir-backend/pkg/errors"
)

// PatternType classifies the axis a pattern recurs along
type PatternType string

const (
	PatternTypeTemporal PatternType = "temporal"
	PatternTypeSpatial  PatternType = "spatial"
	PatternTypeVisual   PatternType = "visual"
)

// PatternFrequency describes how often a pattern recurs
type PatternFrequency string

const (
	FrequencyAnnual  PatternFrequency = "annual"
	FrequencyMonthly PatternFrequency = "monthly"
	FrequencyCustom  PatternFrequency = "custom"
)

// PatternMetadata holds the type-specific fields of a pattern
type PatternMetadata struct {
	Month            int      `json:"month,omitempty"`
	Day              int      `json:"day,omitempty"`
	Years            []int    `json:"years,omitempty"`
	DateRange        string   `json:"date_range,omitempty"`
	CenterLat        float64  `json:"center_lat,omitempty"`
	CenterLon        float64  `json:"center_lon,omitempty"`
	LocationName     string   `json:"location_name,omitempty"`
	Category         string   `json:"category,omitempty"`
	ClusteringMethod string   `json:"clustering_method,omitempty"`
}

// Pattern is a recurring regularity detected across a user's whole
// collection, independent of chapters and story arcs. Patterns are
// additive: re-detection without clearing creates duplicates.
type Pattern struct {
	id          valueobjects.PatternID
	userID      string
	kind        PatternType
	frequency   PatternFrequency
	description string
	confidence  float64
	metadata    PatternMetadata
	photoIDs    []valueobjects.PhotoID
	detectedAt  time.Time
}

// NewPattern creates a detected pattern with its member photos
func NewPattern(
	userID string,
	kind PatternType,
	frequency PatternFrequency,
	description string,
	confidence float64,
	metadata PatternMetadata,
	photoIDs []valueobjects.PhotoID,
) (*Pattern, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if confidence < 0 || confidence > 1 {
		return nil, pkgerrors.NewValidationError("confidence must be within [0,1]")
	}

	return &Pattern{
		id:          valueobjects.NewPatternID(),
		userID:      userID,
		kind:        kind,
		frequency:   frequency,
		description: description,
		confidence:  confidence,
		metadata:    metadata,
		photoIDs:    photoIDs,
		detectedAt:  time.Now(),
	}, nil
}

// ReconstructPattern rebuilds a pattern from repository data
func ReconstructPattern(
	id valueobjects.PatternID,
	userID string,
	kind PatternType,
	frequency PatternFrequency,
	description string,
	confidence float64,
	metadata PatternMetadata,
	photoIDs []valueobjects.PhotoID,
	detectedAt time.Time,
) (*Pattern, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	return &Pattern{
		id:          id,
		userID:      userID,
		kind:        kind,
		frequency:   frequency,
		description: description,
		confidence:  confidence,
		metadata:    metadata,
		photoIDs:    photoIDs,
		detectedAt:  detectedAt,
	}, nil
}

func (p *Pattern) ID() valueobjects.PatternID  { return p.id }
func (p *Pattern) UserID() string              { return p.userID }
func (p *Pattern) Type() PatternType           { return p.kind }
func (p *Pattern) Frequency() PatternFrequency { return p.frequency }
func (p *Pattern) Description() string         { return p.description }
func (p *Pattern) Confidence() float64         { return p.confidence }
func (p *Pattern) Metadata() PatternMetadata   { return p.metadata }
func (p *Pattern) DetectedAt() time.Time       { return p.detectedAt }

// PhotoIDs returns the member photos
func (p *Pattern) PhotoIDs() []valueobjects.PhotoID {
	out := make([]valueobjects.PhotoID, len(p.photoIDs))
	copy(out, p.photoIDs)
	return out
}
