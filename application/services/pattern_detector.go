package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/domain/config"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"

	"go.uber.org/zap"
)

// PatternDetector finds recurring regularities across a user's whole
// collection. The three passes are independent and additive; callers
// that want a fresh set must clear patterns first.
type PatternDetector struct {
	photoRepo   ports.PhotoRepository
	patternRepo ports.PatternRepository
	spatial     *SpatialClusterer
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewPatternDetector creates a new pattern detector
func NewPatternDetector(
	photoRepo ports.PhotoRepository,
	patternRepo ports.PatternRepository,
	spatial *SpatialClusterer,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *PatternDetector {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &PatternDetector{
		photoRepo:   photoRepo,
		patternRepo: patternRepo,
		spatial:     spatial,
		cfg:         cfg,
		logger:      logger,
	}
}

// DetectAll runs the temporal, spatial, and visual passes and persists
// every detected pattern
func (d *PatternDetector) DetectAll(ctx context.Context, userID string) ([]*entities.Pattern, error) {
	photos, err := d.photoRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(photos) < d.cfg.MinDatedPhotos {
		d.logger.Warn("Not enough photos for pattern detection",
			zap.String("userID", userID),
			zap.Int("photos", len(photos)),
		)
		return nil, nil
	}

	var patterns []*entities.Pattern
	patterns = append(patterns, d.detectTemporal(userID, photos)...)
	patterns = append(patterns, d.detectSpatial(userID, photos)...)
	patterns = append(patterns, d.detectVisual(userID, photos)...)

	for _, p := range patterns {
		if err := d.patternRepo.Save(ctx, p); err != nil {
			return nil, err
		}
	}

	d.logger.Info("Detected patterns",
		zap.String("userID", userID),
		zap.Int("patterns", len(patterns)),
	)

	return patterns, nil
}

// ClearPatterns removes all of a user's patterns, returning the count
func (d *PatternDetector) ClearPatterns(ctx context.Context, userID string) (int, error) {
	deleted, err := d.patternRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	d.logger.Info("Cleared patterns",
		zap.String("userID", userID),
		zap.Int("deleted", deleted),
	)
	return deleted, nil
}

// detectTemporal finds annual (same month and day across years) and
// monthly (same month across years) recurrences
func (d *PatternDetector) detectTemporal(userID string, photos []*entities.Photo) []*entities.Pattern {
	type dayKey struct{ month, day int }

	byDay := make(map[dayKey][]*entities.Photo)
	byMonth := make(map[int][]*entities.Photo)
	for _, p := range photos {
		if p.CaptureDate() == nil {
			continue
		}
		date := *p.CaptureDate()
		byDay[dayKey{int(date.Month()), date.Day()}] = append(byDay[dayKey{int(date.Month()), date.Day()}], p)
		byMonth[int(date.Month())] = append(byMonth[int(date.Month())], p)
	}

	var patterns []*entities.Pattern

	dayKeys := make([]dayKey, 0, len(byDay))
	for k := range byDay {
		dayKeys = append(dayKeys, k)
	}
	sort.Slice(dayKeys, func(i, j int) bool {
		if dayKeys[i].month != dayKeys[j].month {
			return dayKeys[i].month < dayKeys[j].month
		}
		return dayKeys[i].day < dayKeys[j].day
	})

	for _, k := range dayKeys {
		members := byDay[k]
		years := distinctYears(members)
		if len(members) < d.cfg.AnnualMinPhotos || len(years) < d.cfg.PatternMinYears {
			continue
		}

		confidence := math.Min(0.95, 0.7+0.1*float64(len(members)))
		pattern, err := entities.NewPattern(
			userID,
			entities.PatternTypeTemporal,
			entities.FrequencyAnnual,
			fmt.Sprintf("Annual event on %d/%d", k.month, k.day),
			confidence,
			entities.PatternMetadata{Month: k.month, Day: k.day, Years: years},
			photoIDsOf(members),
		)
		if err != nil {
			d.logger.Error("Failed to build annual pattern", zap.Error(err))
			continue
		}
		patterns = append(patterns, pattern)
	}

	months := make([]int, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Ints(months)

	for _, m := range months {
		members := byMonth[m]
		years := distinctYears(members)
		if len(members) < d.cfg.MonthlyMinPhotos || len(years) < d.cfg.PatternMinYears {
			continue
		}

		confidence := math.Min(0.90, 0.6+0.05*float64(len(members)))
		pattern, err := entities.NewPattern(
			userID,
			entities.PatternTypeTemporal,
			entities.FrequencyMonthly,
			fmt.Sprintf("Monthly pattern in %s", time.Month(m).String()),
			confidence,
			entities.PatternMetadata{Month: m, Years: years},
			photoIDsOf(members),
		)
		if err != nil {
			d.logger.Error("Failed to build monthly pattern", zap.Error(err))
			continue
		}
		patterns = append(patterns, pattern)
	}

	return patterns
}

// detectSpatial density-clusters geotagged photos and emits a pattern
// per sufficiently large cluster
func (d *PatternDetector) detectSpatial(userID string, photos []*entities.Photo) []*entities.Pattern {
	geotagged := make([]*entities.Photo, 0, len(photos))
	points := make([]valueobjects.GeoPoint, 0, len(photos))
	for _, p := range photos {
		if p.HasLocation() {
			geotagged = append(geotagged, p)
			points = append(points, p.Location().Point)
		}
	}
	if len(geotagged) < d.cfg.DensityMinSamples {
		d.logger.Debug("Not enough geotagged photos for spatial patterns",
			zap.String("userID", userID),
			zap.Int("geotagged", len(geotagged)),
		)
		return nil
	}

	labels := d.spatial.ClusterDensity(points, d.cfg.DensityRadiusKm, d.cfg.DensityMinSamples)

	clusters := make(map[int][]*entities.Photo)
	for i, label := range labels {
		if label == NoiseLabel {
			continue
		}
		clusters[label] = append(clusters[label], geotagged[i])
	}

	labelOrder := make([]int, 0, len(clusters))
	for label := range clusters {
		labelOrder = append(labelOrder, label)
	}
	sort.Ints(labelOrder)

	var patterns []*entities.Pattern
	for _, label := range labelOrder {
		members := clusters[label]
		if len(members) < d.cfg.SpatialPatternMin {
			continue
		}

		memberPoints := make([]valueobjects.GeoPoint, len(members))
		for i, p := range members {
			memberPoints[i] = p.Location().Point
		}
		center := valueobjects.Centroid(memberPoints)
		place := dominantPlace(members)

		confidence := math.Min(0.95, 0.7+0.05*float64(len(members)))
		pattern, err := entities.NewPattern(
			userID,
			entities.PatternTypeSpatial,
			entities.FrequencyCustom,
			fmt.Sprintf("Frequent location: %s", place),
			confidence,
			entities.PatternMetadata{
				CenterLat:        center.Latitude(),
				CenterLon:        center.Longitude(),
				LocationName:     place,
				ClusteringMethod: "density",
			},
			photoIDsOf(members),
		)
		if err != nil {
			d.logger.Error("Failed to build spatial pattern", zap.Error(err))
			continue
		}
		patterns = append(patterns, pattern)
	}

	return patterns
}

// detectVisual groups photos by their single highest-confidence category
func (d *PatternDetector) detectVisual(userID string, photos []*entities.Photo) []*entities.Pattern {
	groups := make(map[string][]*entities.Photo)
	for _, p := range photos {
		if top, ok := p.TopCategory(); ok {
			groups[top.Name()] = append(groups[top.Name()], p)
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var patterns []*entities.Pattern
	for _, name := range names {
		members := groups[name]
		if len(members) < d.cfg.VisualPatternMin {
			continue
		}

		pattern, err := entities.NewPattern(
			userID,
			entities.PatternTypeVisual,
			entities.FrequencyCustom,
			fmt.Sprintf("Visual cluster: %s", name),
			0.75,
			entities.PatternMetadata{
				Category:         name,
				ClusteringMethod: "category_based",
			},
			photoIDsOf(members),
		)
		if err != nil {
			d.logger.Error("Failed to build visual pattern", zap.Error(err))
			continue
		}
		patterns = append(patterns, pattern)
	}

	return patterns
}

func distinctYears(photos []*entities.Photo) []int {
	seen := make(map[int]struct{})
	for _, p := range photos {
		if p.CaptureDate() != nil {
			seen[p.CaptureDate().Year()] = struct{}{}
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
