package queries

import "errors"

// GetChapterQuery represents a query for one chapter with its story arcs
type GetChapterQuery struct {
	UserID    string
	ChapterID string
}

// Validate validates the GetChapterQuery
func (q GetChapterQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.ChapterID == "" {
		return errors.New("chapter ID is required")
	}
	return nil
}

// StoryArcView is the read model of one story arc
type StoryArcView struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	StoryType     string   `json:"storyType"`
	Category      string   `json:"category"`
	Source        string   `json:"source"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	PhotoCount    int      `json:"photoCount"`
	SequenceOrder int      `json:"sequenceOrder"`
	AIDetected    bool     `json:"aiDetected"`
	PhotoIDs      []string `json:"photoIds"`
}

// GetChapterResult represents the result of getting one chapter
type GetChapterResult struct {
	Chapter   ChapterView    `json:"chapter"`
	StoryArcs []StoryArcView `json:"storyArcs"`
}
