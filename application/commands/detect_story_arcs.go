package commands

import (
	"context"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/application/services"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	"memoir-backend/domain/events"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DetectStoryArcsCommand requests arc detection for one chapter
type DetectStoryArcsCommand struct {
	ChapterID string `json:"chapter_id" validate:"required,uuid4"`
}

// DetectStoryArcsHandler handles the DetectStoryArcsCommand
type DetectStoryArcsHandler struct {
	detector  *services.StoryArcDetector
	arcRepo   ports.StoryArcRepository
	publisher ports.EventPublisher
	metrics   ports.MetricsPublisher
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewDetectStoryArcsHandler creates a new handler instance
func NewDetectStoryArcsHandler(
	detector *services.StoryArcDetector,
	arcRepo ports.StoryArcRepository,
	publisher ports.EventPublisher,
	metrics ports.MetricsPublisher,
	logger *zap.Logger,
) *DetectStoryArcsHandler {
	return &DetectStoryArcsHandler{
		detector:  detector,
		arcRepo:   arcRepo,
		publisher: publisher,
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Handle executes the detect story arcs command. Prior arcs of the
// chapter are cleared first; detection never append-merges.
func (h *DetectStoryArcsHandler) Handle(ctx context.Context, cmd DetectStoryArcsCommand) ([]*entities.StoryArc, error) {
	if err := h.validate.Struct(cmd); err != nil {
		return nil, err
	}

	chapterID, err := valueobjects.NewChapterIDFromString(cmd.ChapterID)
	if err != nil {
		return nil, err
	}

	if deleted, err := h.arcRepo.DeleteByChapterID(ctx, chapterID); err != nil {
		return nil, err
	} else if deleted > 0 {
		h.logger.Info("Cleared existing story arcs",
			zap.String("chapterID", cmd.ChapterID),
			zap.Int("deleted", deleted),
		)
	}

	arcs, err := h.detector.Detect(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	var userID string
	if len(arcs) > 0 {
		userID = arcs[0].UserID()
	}

	event := events.NewStoryArcsDetected(cmd.ChapterID, userID, len(arcs), time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish story arcs event",
			zap.String("chapterID", cmd.ChapterID),
			zap.Error(err),
		)
	}

	h.metrics.RecordCount(ctx, "StoryArcsDetected", float64(len(arcs)), userID)

	return arcs, nil
}
