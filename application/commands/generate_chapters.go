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

// GenerateChaptersCommand requests chapter generation for one user
type GenerateChaptersCommand struct {
	UserID string `json:"user_id" validate:"required"`
	Force  bool   `json:"force"`
}

// GenerateChaptersHandler handles the GenerateChaptersCommand
type GenerateChaptersHandler struct {
	generator *services.ChapterGenerator
	publisher ports.EventPublisher
	metrics   ports.MetricsPublisher
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewGenerateChaptersHandler creates a new handler instance
func NewGenerateChaptersHandler(
	generator *services.ChapterGenerator,
	publisher ports.EventPublisher,
	metrics ports.MetricsPublisher,
	logger *zap.Logger,
) *GenerateChaptersHandler {
	return &GenerateChaptersHandler{
		generator: generator,
		publisher: publisher,
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Handle executes the generate chapters command
func (h *GenerateChaptersHandler) Handle(ctx context.Context, cmd GenerateChaptersCommand) ([]*entities.Chapter, error) {
	if err := h.validate.Struct(cmd); err != nil {
		return nil, err
	}

	chapters, err := h.generator.Generate(ctx, cmd.UserID, cmd.Force)
	if err != nil {
		return nil, err
	}

	event := events.NewChaptersGenerated(cmd.UserID, len(chapters), cmd.Force, time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		// Event delivery failing must not undo committed chapters
		h.logger.Warn("Failed to publish chapters event",
			zap.String("userID", cmd.UserID),
			zap.Error(err),
		)
	}

	h.metrics.RecordCount(ctx, "ChaptersGenerated", float64(len(chapters)), cmd.UserID)

	return chapters, nil
}
