package handlers

import (
	"context"
	"fmt"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/application/queries"
	"memoir-backend/domain/core/entities"

	"go.uber.org/zap"
)

// ListPatternsHandler handles pattern listing queries
type ListPatternsHandler struct {
	patternRepo ports.PatternRepository
	logger      *zap.Logger
}

// NewListPatternsHandler creates a new list patterns handler
func NewListPatternsHandler(patternRepo ports.PatternRepository, logger *zap.Logger) *ListPatternsHandler {
	return &ListPatternsHandler{
		patternRepo: patternRepo,
		logger:      logger,
	}
}

// Handle executes the list patterns query
func (h *ListPatternsHandler) Handle(ctx context.Context, query queries.ListPatternsQuery) (*queries.ListPatternsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	patterns, err := h.patternRepo.GetByUserID(ctx, query.UserID, entities.PatternType(query.Type))
	if err != nil {
		return nil, err
	}

	result := &queries.ListPatternsResult{
		Patterns: make([]queries.PatternView, len(patterns)),
	}
	for i, p := range patterns {
		photoIDs := make([]string, 0, len(p.PhotoIDs()))
		for _, id := range p.PhotoIDs() {
			photoIDs = append(photoIDs, id.String())
		}

		result.Patterns[i] = queries.PatternView{
			ID:          p.ID().String(),
			Type:        string(p.Type()),
			Frequency:   string(p.Frequency()),
			Description: p.Description(),
			Confidence:  p.Confidence(),
			Metadata:    p.Metadata(),
			PhotoIDs:    photoIDs,
			DetectedAt:  p.DetectedAt().Format(time.RFC3339),
		}
	}
	return result, nil
}
