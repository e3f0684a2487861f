package services

import (
	"sort"
	"time"

	"memoir-backend/domain/core/entities"

	"go.uber.org/zap"
)

// TemporalClusterer groups dated photos into bursts by day-gap proximity.
// Parameters are always caller-supplied: pattern bursts, unified-arc bursts
// and the temporal fallback all run with different gaps and minimum sizes.
type TemporalClusterer struct {
	logger *zap.Logger
}

// NewTemporalClusterer creates a new temporal clusterer
func NewTemporalClusterer(logger *zap.Logger) *TemporalClusterer {
	return &TemporalClusterer{logger: logger}
}

// ClusterByTime sorts photos by capture date and extends a running cluster
// while the gap to the previous photo stays within maxGapDays. Clusters
// smaller than minClusterSize are dropped. Photos without a capture date
// are skipped with a warning.
func (c *TemporalClusterer) ClusterByTime(
	photos []*entities.Photo,
	maxGapDays int,
	minClusterSize int,
) [][]*entities.Photo {
	dated := make([]*entities.Photo, 0, len(photos))
	for _, p := range photos {
		if p.CaptureDate() == nil {
			c.logger.Warn("Skipping photo without capture date",
				zap.String("photoID", p.ID().String()),
			)
			continue
		}
		dated = append(dated, p)
	}

	if len(dated) == 0 {
		return nil
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].CaptureDate().Before(*dated[j].CaptureDate())
	})

	var clusters [][]*entities.Photo
	current := []*entities.Photo{dated[0]}

	for i := 1; i < len(dated); i++ {
		gap := daysBetween(*dated[i-1].CaptureDate(), *dated[i].CaptureDate())
		if gap <= maxGapDays {
			current = append(current, dated[i])
			continue
		}

		if len(current) >= minClusterSize {
			clusters = append(clusters, current)
		}
		current = []*entities.Photo{dated[i]}
	}

	// Trailing cluster follows the same size rule
	if len(current) >= minClusterSize {
		clusters = append(clusters, current)
	}

	c.logger.Debug("Temporal clustering complete",
		zap.Int("photos", len(dated)),
		zap.Int("clusters", len(clusters)),
		zap.Int("maxGapDays", maxGapDays),
		zap.Int("minClusterSize", minClusterSize),
	)

	return clusters
}

// daysBetween returns the whole-day distance between two timestamps
func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
