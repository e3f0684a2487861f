package queries

import (
	"errors"

	"memoir-backend/domain/core/entities"
)

// ListPatternsQuery represents a query for a user's detected patterns.
// Type filters by pattern kind when non-empty.
type ListPatternsQuery struct {
	UserID string
	Type   string
}

// Validate validates the ListPatternsQuery
func (q ListPatternsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	switch entities.PatternType(q.Type) {
	case "", entities.PatternTypeTemporal, entities.PatternTypeSpatial, entities.PatternTypeVisual:
		return nil
	default:
		return errors.New("pattern type must be temporal, spatial, or visual")
	}
}

// PatternView is the read model of one pattern
type PatternView struct {
	ID          string                   `json:"id"`
	Type        string                   `json:"type"`
	Frequency   string                   `json:"frequency"`
	Description string                   `json:"description"`
	Confidence  float64                  `json:"confidence"`
	Metadata    entities.PatternMetadata `json:"metadata"`
	PhotoIDs    []string                 `json:"photoIds"`
	DetectedAt  string                   `json:"detectedAt"`
}

// ListPatternsResult represents the result of listing patterns
type ListPatternsResult struct {
	Patterns []PatternView `json:"patterns"`
}
