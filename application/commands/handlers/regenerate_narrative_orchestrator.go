package handlers

import (
	"context"
	"fmt"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/application/sagas"
	"memoir-backend/application/services"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/events"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RegenerateNarrativeCommand rebuilds a user's full narrative: chapters,
// their story arcs, and collection-wide patterns. External callers must
// serialize invocations per user; concurrent regeneration is not safe.
type RegenerateNarrativeCommand struct {
	UserID string `json:"user_id" validate:"required"`
}

// RegenerateNarrativeResult summarizes one full pipeline run
type RegenerateNarrativeResult struct {
	ChapterCount   int      `json:"chapter_count"`
	ArcCount       int      `json:"arc_count"`
	PatternCount   int      `json:"pattern_count"`
	FailedChapters []string `json:"failed_chapters,omitempty"`
}

// RegenerateNarrativeOrchestrator drives the three pipeline stages as a
// saga. Chapter generation is compensable; a failure in a later stage
// removes the chapters built in this run. Arc detection isolates
// per-chapter failures so one bad chapter cannot abort the batch.
type RegenerateNarrativeOrchestrator struct {
	generator   *services.ChapterGenerator
	arcDetector *services.StoryArcDetector
	patterns    *services.PatternDetector
	chapterRepo ports.ChapterRepository
	arcRepo     ports.StoryArcRepository
	publisher   ports.EventPublisher
	metrics     ports.MetricsPublisher
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewRegenerateNarrativeOrchestrator creates a new orchestrator instance
func NewRegenerateNarrativeOrchestrator(
	generator *services.ChapterGenerator,
	arcDetector *services.StoryArcDetector,
	patterns *services.PatternDetector,
	chapterRepo ports.ChapterRepository,
	arcRepo ports.StoryArcRepository,
	publisher ports.EventPublisher,
	metrics ports.MetricsPublisher,
	logger *zap.Logger,
) *RegenerateNarrativeOrchestrator {
	return &RegenerateNarrativeOrchestrator{
		generator:   generator,
		arcDetector: arcDetector,
		patterns:    patterns,
		chapterRepo: chapterRepo,
		arcRepo:     arcRepo,
		publisher:   publisher,
		metrics:     metrics,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Handle runs the full regeneration saga for one user
func (o *RegenerateNarrativeOrchestrator) Handle(ctx context.Context, cmd RegenerateNarrativeCommand) (*RegenerateNarrativeResult, error) {
	if err := o.validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	result := &RegenerateNarrativeResult{}

	saga := sagas.NewSaga("regenerate_narrative", o.logger).
		AddStep(sagas.SagaStep{
			Name: "generate_chapters",
			Execute: func(ctx context.Context, _ interface{}) (interface{}, error) {
				chapters, err := o.generator.Generate(ctx, cmd.UserID, true)
				if err != nil {
					return nil, err
				}
				result.ChapterCount = len(chapters)

				event := events.NewChaptersGenerated(cmd.UserID, len(chapters), true, time.Now())
				if err := o.publisher.Publish(ctx, event); err != nil {
					o.logger.Warn("Failed to publish chapters event",
						zap.String("userID", cmd.UserID),
						zap.Error(err),
					)
				}
				return chapters, nil
			},
			Compensate: func(ctx context.Context, _ interface{}) error {
				_, err := o.chapterRepo.DeleteByUserID(ctx, cmd.UserID)
				return err
			},
		}).
		AddStep(sagas.SagaStep{
			Name: "detect_story_arcs",
			Execute: func(ctx context.Context, data interface{}) (interface{}, error) {
				chapters, _ := data.([]*entities.Chapter)
				result.ArcCount, result.FailedChapters = o.detectArcsForChapters(ctx, cmd.UserID, chapters)
				return chapters, nil
			},
		}).
		AddStep(sagas.SagaStep{
			Name: "detect_patterns",
			Execute: func(ctx context.Context, data interface{}) (interface{}, error) {
				if _, err := o.patterns.ClearPatterns(ctx, cmd.UserID); err != nil {
					return nil, err
				}
				patterns, err := o.patterns.DetectAll(ctx, cmd.UserID)
				if err != nil {
					return nil, err
				}
				result.PatternCount = len(patterns)

				types := make(map[entities.PatternType]struct{})
				var typeNames []string
				for _, p := range patterns {
					if _, ok := types[p.Type()]; !ok {
						types[p.Type()] = struct{}{}
						typeNames = append(typeNames, string(p.Type()))
					}
				}
				event := events.NewPatternsDetected(cmd.UserID, len(patterns), typeNames, time.Now())
				if err := o.publisher.Publish(ctx, event); err != nil {
					o.logger.Warn("Failed to publish patterns event",
						zap.String("userID", cmd.UserID),
						zap.Error(err),
					)
				}
				return data, nil
			},
			MaxRetries: 2,
			RetryDelay: 500 * time.Millisecond,
		})

	if _, err := saga.Execute(ctx, nil); err != nil {
		return nil, err
	}

	o.metrics.RecordCount(ctx, "NarrativeRegenerated", 1, cmd.UserID)
	o.metrics.RecordCount(ctx, "ChaptersGenerated", float64(result.ChapterCount), cmd.UserID)
	o.metrics.RecordCount(ctx, "StoryArcsDetected", float64(result.ArcCount), cmd.UserID)
	o.metrics.RecordCount(ctx, "PatternsDetected", float64(result.PatternCount), cmd.UserID)

	o.logger.Info("Regenerated narrative",
		zap.String("userID", cmd.UserID),
		zap.Int("chapters", result.ChapterCount),
		zap.Int("arcs", result.ArcCount),
		zap.Int("patterns", result.PatternCount),
		zap.Int("failedChapters", len(result.FailedChapters)),
	)

	return result, nil
}

// detectArcsForChapters runs arc detection per chapter with
// catch-and-continue isolation. Prior arcs of each chapter are cleared
// before its detection; arcs of chapters that fail stay cleared.
func (o *RegenerateNarrativeOrchestrator) detectArcsForChapters(
	ctx context.Context,
	userID string,
	chapters []*entities.Chapter,
) (arcCount int, failed []string) {
	for _, chapter := range chapters {
		if _, err := o.arcRepo.DeleteByChapterID(ctx, chapter.ID()); err != nil {
			o.logger.Error("Failed to clear arcs for chapter",
				zap.String("chapterID", chapter.ID().String()),
				zap.Error(err),
			)
			failed = append(failed, chapter.ID().String())
			continue
		}

		arcs, err := o.arcDetector.Detect(ctx, chapter.ID())
		if err != nil {
			o.logger.Error("Arc detection failed for chapter",
				zap.String("chapterID", chapter.ID().String()),
				zap.Error(err),
			)
			failed = append(failed, chapter.ID().String())
			continue
		}

		arcCount += len(arcs)

		event := events.NewStoryArcsDetected(chapter.ID().String(), userID, len(arcs), time.Now())
		if err := o.publisher.Publish(ctx, event); err != nil {
			o.logger.Warn("Failed to publish story arcs event",
				zap.String("chapterID", chapter.ID().String()),
				zap.Error(err),
			)
		}
	}
	return arcCount, failed
}
