package commands

import (
	"context"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/application/services"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/events"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DetectPatternsCommand requests a pattern-detection pass for one user.
// Detection is additive; set Clear to drop prior patterns first.
type DetectPatternsCommand struct {
	UserID string `json:"user_id" validate:"required"`
	Clear  bool   `json:"clear"`
}

// DetectPatternsHandler handles the DetectPatternsCommand
type DetectPatternsHandler struct {
	detector  *services.PatternDetector
	publisher ports.EventPublisher
	metrics   ports.MetricsPublisher
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewDetectPatternsHandler creates a new handler instance
func NewDetectPatternsHandler(
	detector *services.PatternDetector,
	publisher ports.EventPublisher,
	metrics ports.MetricsPublisher,
	logger *zap.Logger,
) *DetectPatternsHandler {
	return &DetectPatternsHandler{
		detector:  detector,
		publisher: publisher,
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Handle executes the detect patterns command
func (h *DetectPatternsHandler) Handle(ctx context.Context, cmd DetectPatternsCommand) ([]*entities.Pattern, error) {
	if err := h.validate.Struct(cmd); err != nil {
		return nil, err
	}

	if cmd.Clear {
		if _, err := h.detector.ClearPatterns(ctx, cmd.UserID); err != nil {
			return nil, err
		}
	}

	patterns, err := h.detector.DetectAll(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	event := events.NewPatternsDetected(cmd.UserID, len(patterns), patternTypes(patterns), time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish patterns event",
			zap.String("userID", cmd.UserID),
			zap.Error(err),
		)
	}

	h.metrics.RecordCount(ctx, "PatternsDetected", float64(len(patterns)), cmd.UserID)

	return patterns, nil
}

// patternTypes returns the distinct pattern types present, in first-seen order
func patternTypes(patterns []*entities.Pattern) []string {
	seen := make(map[entities.PatternType]struct{})
	var types []string
	for _, p := range patterns {
		if _, ok := seen[p.Type()]; ok {
			continue
		}
		seen[p.Type()] = struct{}{}
		types = append(types, string(p.Type()))
	}
	return types
}
