package handlers

import (
	"context"
	"fmt"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/application/queries"
	"memoir-backend/domain/core/valueobjects"
	pkgerrors "memoir-backend/pkg/errors"

	"go.uber.org/zap"
)

// GetChapterHandler handles single-chapter queries including story arcs
type GetChapterHandler struct {
	chapterRepo ports.ChapterRepository
	arcRepo     ports.StoryArcRepository
	logger      *zap.Logger
}

// NewGetChapterHandler creates a new get chapter handler
func NewGetChapterHandler(
	chapterRepo ports.ChapterRepository,
	arcRepo ports.StoryArcRepository,
	logger *zap.Logger,
) *GetChapterHandler {
	return &GetChapterHandler{
		chapterRepo: chapterRepo,
		arcRepo:     arcRepo,
		logger:      logger,
	}
}

// Handle executes the get chapter query
func (h *GetChapterHandler) Handle(ctx context.Context, query queries.GetChapterQuery) (*queries.GetChapterResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	chapterID, err := valueobjects.NewChapterIDFromString(query.ChapterID)
	if err != nil {
		return nil, err
	}

	chapter, err := h.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.UserID() != query.UserID {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("chapter %s not found", query.ChapterID))
	}

	arcs, err := h.arcRepo.GetByChapterID(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	result := &queries.GetChapterResult{
		Chapter:   chapterView(chapter),
		StoryArcs: make([]queries.StoryArcView, len(arcs)),
	}

	for i, arc := range arcs {
		links, err := h.arcRepo.GetPhotoLinks(ctx, arc.ID())
		if err != nil {
			return nil, err
		}
		photoIDs := make([]string, len(links))
		for j, link := range links {
			photoIDs[j] = link.PhotoID.String()
		}

		result.StoryArcs[i] = queries.StoryArcView{
			ID:            arc.ID().String(),
			Title:         arc.Title(),
			Description:   arc.Description(),
			StoryType:     arc.StoryType(),
			Category:      string(arc.Category()),
			Source:        string(arc.Source()),
			StartDate:     arc.DateRange().Start().Format(time.RFC3339),
			EndDate:       arc.DateRange().End().Format(time.RFC3339),
			PhotoCount:    arc.PhotoCount(),
			SequenceOrder: arc.SequenceOrder(),
			AIDetected:    arc.IsAIDetected(),
			PhotoIDs:      photoIDs,
		}
	}

	return result, nil
}
