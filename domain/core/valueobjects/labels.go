package valueobjects

import "strings"

// CategoryLabel is a classifier-assigned visual category with its confidence.
// Labels are produced by an external classification service and consumed read-only.
type CategoryLabel struct {
	name       string
	confidence float64
}

// NewCategoryLabel creates a category label; names are normalized to lower case
func NewCategoryLabel(name string, confidence float64) CategoryLabel {
	return CategoryLabel{
		name:       strings.ToLower(strings.TrimSpace(name)),
		confidence: confidence,
	}
}

func (l CategoryLabel) Name() string        { return l.name }
func (l CategoryLabel) Confidence() float64 { return l.confidence }

// EmotionLabel is a detector-assigned emotion with confidence and a dominant flag.
// At most one label per photo carries the dominant flag.
type EmotionLabel struct {
	name       string
	confidence float64
	dominant   bool
}

// NewEmotionLabel creates an emotion label; names are normalized to lower case
func NewEmotionLabel(name string, confidence float64, dominant bool) EmotionLabel {
	return EmotionLabel{
		name:       strings.ToLower(strings.TrimSpace(name)),
		confidence: confidence,
		dominant:   dominant,
	}
}

func (l EmotionLabel) Name() string        { return l.name }
func (l EmotionLabel) Confidence() float64 { return l.confidence }
func (l EmotionLabel) IsDominant() bool    { return l.dominant }
