package handlers

import (
	"context"
	"fmt"

	"memoir-backend/application/ports"
	"memoir-backend/application/queries"
	"memoir-backend/domain/core/entities"

	"go.uber.org/zap"
)

// ListChaptersHandler handles chapter listing queries
type ListChaptersHandler struct {
	chapterRepo ports.ChapterRepository
	logger      *zap.Logger
}

// NewListChaptersHandler creates a new list chapters handler
func NewListChaptersHandler(chapterRepo ports.ChapterRepository, logger *zap.Logger) *ListChaptersHandler {
	return &ListChaptersHandler{
		chapterRepo: chapterRepo,
		logger:      logger,
	}
}

// Handle executes the list chapters query
func (h *ListChaptersHandler) Handle(ctx context.Context, query queries.ListChaptersQuery) (*queries.ListChaptersResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	chapters, err := h.chapterRepo.GetByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	result := &queries.ListChaptersResult{
		Chapters: make([]queries.ChapterView, len(chapters)),
	}
	for i, ch := range chapters {
		result.Chapters[i] = chapterView(ch)
	}
	return result, nil
}

func chapterView(ch *entities.Chapter) queries.ChapterView {
	return queries.ChapterView{
		ID:              ch.ID().String(),
		UserID:          ch.UserID(),
		Title:           ch.Title(),
		Subtitle:        ch.Subtitle(),
		Type:            string(ch.Type()),
		AgeStart:        ch.AgeStart(),
		AgeEnd:          ch.AgeEnd(),
		YearStart:       ch.YearStart(),
		YearEnd:         ch.YearEnd(),
		PhotoCount:      ch.PhotoCount(),
		DominantEmotion: ch.DominantEmotion(),
		CoverPhotoID:    ch.CoverPhotoID().String(),
		SequenceOrder:   ch.SequenceOrder(),
	}
}
