package queries

import "errors"

// ListChaptersQuery represents a query for a user's chapters
type ListChaptersQuery struct {
	UserID string
}

// Validate validates the ListChaptersQuery
func (q ListChaptersQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// ChapterView is the read model of one chapter
type ChapterView struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle,omitempty"`
	Type            string `json:"type"`
	AgeStart        *int   `json:"ageStart,omitempty"`
	AgeEnd          *int   `json:"ageEnd,omitempty"`
	YearStart       int    `json:"yearStart"`
	YearEnd         int    `json:"yearEnd"`
	PhotoCount      int    `json:"photoCount"`
	DominantEmotion string `json:"dominantEmotion,omitempty"`
	CoverPhotoID    string `json:"coverPhotoId"`
	SequenceOrder   int    `json:"sequenceOrder"`
}

// ListChaptersResult represents the result of listing chapters
type ListChaptersResult struct {
	Chapters []ChapterView `json:"chapters"`
}
