package services

import (
	"context"
	"sort"

	"memoir-backend/application/ports"
	"memoir-backend/domain/core/valueobjects"

	"go.uber.org/zap"
)

// SignalStat is one ranked entry of a category or emotion distribution
type SignalStat struct {
	Name           string
	Count          int
	MeanConfidence float64
}

// ContentSignals holds the ranked distributions for a photo set
type ContentSignals struct {
	Categories []SignalStat
	Emotions   []SignalStat
}

// CategoryNames returns the ranked category names
func (s ContentSignals) CategoryNames() []string {
	out := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		out[i] = c.Name
	}
	return out
}

// EmotionNames returns the ranked emotion names
func (s ContentSignals) EmotionNames() []string {
	out := make([]string, len(s.Emotions))
	for i, e := range s.Emotions {
		out[i] = e.Name
	}
	return out
}

// SignalAggregator computes ranked category and emotion distributions for
// a photo-ID set. Pure read: nothing is mutated.
type SignalAggregator struct {
	photoRepo ports.PhotoRepository
	logger    *zap.Logger
}

// NewSignalAggregator creates a new signal aggregator
func NewSignalAggregator(photoRepo ports.PhotoRepository, logger *zap.Logger) *SignalAggregator {
	return &SignalAggregator{photoRepo: photoRepo, logger: logger}
}

// Aggregate returns the top-N categories and top-M emotions across the
// given photos, each ranked by occurrence count, then mean confidence,
// then name ascending for a deterministic tie-break.
func (a *SignalAggregator) Aggregate(
	ctx context.Context,
	photoIDs []valueobjects.PhotoID,
	topCategories int,
	topEmotions int,
) (ContentSignals, error) {
	photos, err := a.photoRepo.GetByIDs(ctx, photoIDs)
	if err != nil {
		return ContentSignals{}, err
	}

	type acc struct {
		count int
		sum   float64
	}
	categories := make(map[string]*acc)
	emotions := make(map[string]*acc)

	for _, p := range photos {
		for _, c := range p.Categories() {
			a, ok := categories[c.Name()]
			if !ok {
				a = &acc{}
				categories[c.Name()] = a
			}
			a.count++
			a.sum += c.Confidence()
		}
		for _, e := range p.Emotions() {
			a, ok := emotions[e.Name()]
			if !ok {
				a = &acc{}
				emotions[e.Name()] = a
			}
			a.count++
			a.sum += e.Confidence()
		}
	}

	rank := func(m map[string]*acc, limit int) []SignalStat {
		stats := make([]SignalStat, 0, len(m))
		for name, a := range m {
			stats = append(stats, SignalStat{
				Name:           name,
				Count:          a.count,
				MeanConfidence: a.sum / float64(a.count),
			})
		}

		sort.Slice(stats, func(i, j int) bool {
			if stats[i].Count != stats[j].Count {
				return stats[i].Count > stats[j].Count
			}
			if stats[i].MeanConfidence != stats[j].MeanConfidence {
				return stats[i].MeanConfidence > stats[j].MeanConfidence
			}
			return stats[i].Name < stats[j].Name
		})

		if limit > 0 && len(stats) > limit {
			stats = stats[:limit]
		}
		return stats
	}

	return ContentSignals{
		Categories: rank(categories, topCategories),
		Emotions:   rank(emotions, topEmotions),
	}, nil
}
