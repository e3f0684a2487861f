package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LifePhase is one band of the age-based chapter table.
// Bands must be ordered and non-overlapping.
type LifePhase struct {
	AgeStart int    `yaml:"age_start"`
	AgeEnd   int    `yaml:"age_end"`
	Name     string `yaml:"name"`
}

// DomainConfig holds all configurable narrative-detection rules and thresholds
type DomainConfig struct {
	// Chapter generation
	LifePhases       []LifePhase `yaml:"life_phases"`
	DefaultPhaseName string      `yaml:"default_phase_name"`
	YearMergeGap     int         `yaml:"year_merge_gap"`
	MinDatedPhotos   int         `yaml:"min_dated_photos"`

	// Temporal clustering parameters per use
	PatternBurstGapDays  int `yaml:"pattern_burst_gap_days"`
	PatternBurstMinSize  int `yaml:"pattern_burst_min_size"`
	UnifiedBurstGapDays  int `yaml:"unified_burst_gap_days"`
	UnifiedBurstMinSize  int `yaml:"unified_burst_min_size"`
	FallbackBurstGapDays int `yaml:"fallback_burst_gap_days"`
	FallbackBurstMinSize int `yaml:"fallback_burst_min_size"`
	MaxFallbackArcs      int `yaml:"max_fallback_arcs"`

	// Spatial clustering
	TripProximityKm    float64 `yaml:"trip_proximity_km"`
	TripMinClusterSize int     `yaml:"trip_min_cluster_size"`
	TripMinSpanDays    int     `yaml:"trip_min_span_days"`
	DensityRadiusKm    float64 `yaml:"density_radius_km"`
	DensityMinSamples  int     `yaml:"density_min_samples"`
	SpatialPatternMin  int     `yaml:"spatial_pattern_min"`

	// Pattern detection
	AnnualMinPhotos  int `yaml:"annual_min_photos"`
	MonthlyMinPhotos int `yaml:"monthly_min_photos"`
	PatternMinYears  int `yaml:"pattern_min_years"`
	VisualPatternMin int `yaml:"visual_pattern_min"`

	// Signal aggregation
	TopCategories int `yaml:"top_categories"`
	TopEmotions   int `yaml:"top_emotions"`

	// Arc rule keyword lists
	BeachKeywords       []string `yaml:"beach_keywords"`
	WeddingKeywords     []string `yaml:"wedding_keywords"`
	CelebrationKeywords []string `yaml:"celebration_keywords"`
	FamilyKeywords      []string `yaml:"family_keywords"`
	OutdoorKeywords     []string `yaml:"outdoor_keywords"`
	HolidayKeywords     []string `yaml:"holiday_keywords"`
	HappyEmotions       []string `yaml:"happy_emotions"`
	PositiveEmotions    []string `yaml:"positive_emotions"`
	ExcitedEmotions     []string `yaml:"excited_emotions"`
	MultiDaySpanDays    int      `yaml:"multi_day_span_days"`
}

// DefaultDomainConfig returns the default narrative configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		LifePhases: []LifePhase{
			{0, 5, "Early Childhood"},
			{6, 12, "Childhood Wonder"},
			{13, 17, "Teenage Years"},
			{18, 22, "College & Discovery"},
			{23, 28, "Young Adulthood"},
			{29, 35, "Building a Life"},
			{36, 45, "Family & Career"},
			{46, 55, "Prime Years"},
			{56, 65, "Wisdom Years"},
			{66, 100, "Golden Years"},
		},
		DefaultPhaseName: "Life Journey",
		YearMergeGap:     1,
		MinDatedPhotos:   3,

		PatternBurstGapDays:  3,
		PatternBurstMinSize:  2,
		UnifiedBurstGapDays:  30,
		UnifiedBurstMinSize:  3,
		FallbackBurstGapDays: 7,
		FallbackBurstMinSize: 5,
		MaxFallbackArcs:      2,

		TripProximityKm:    5.0,
		TripMinClusterSize: 5,
		TripMinSpanDays:    2,
		DensityRadiusKm:    0.5,
		DensityMinSamples:  2,
		SpatialPatternMin:  2,

		AnnualMinPhotos:  2,
		MonthlyMinPhotos: 3,
		PatternMinYears:  2,
		VisualPatternMin: 2,

		TopCategories: 5,
		TopEmotions:   3,

		BeachKeywords:       []string{"beach", "ocean", "vacation", "travel", "tropical"},
		WeddingKeywords:     []string{"wedding", "bride", "ceremony"},
		CelebrationKeywords: []string{"celebration", "party"},
		FamilyKeywords:      []string{"family", "family & friends", "gathering"},
		OutdoorKeywords:     []string{"outdoor", "nature", "hiking", "camping"},
		HolidayKeywords:     []string{"holiday", "christmas", "festive", "decoration"},
		HappyEmotions:       []string{"happiness", "happy", "joy"},
		PositiveEmotions:    []string{"happiness", "love", "joy"},
		ExcitedEmotions:     []string{"happiness", "excited"},
		MultiDaySpanDays:    3,
	}
}

// LoadDomainConfig loads the default configuration and applies overrides
// from a YAML file when path is non-empty
func LoadDomainConfig(path string) (*DomainConfig, error) {
	cfg := DefaultDomainConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading domain config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing domain config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid domain config %s: %w", path, err)
	}

	return cfg, nil
}

// PhaseForAge maps an integer age into the life-phase table.
// Returns false when the age falls outside every band.
func (c *DomainConfig) PhaseForAge(age int) (LifePhase, bool) {
	for _, phase := range c.LifePhases {
		if age >= phase.AgeStart && age <= phase.AgeEnd {
			return phase, true
		}
	}
	return LifePhase{}, false
}

// Validate checks the configuration for ordering and threshold errors
func (c *DomainConfig) Validate() error {
	if len(c.LifePhases) == 0 {
		return fmt.Errorf("life phase table cannot be empty")
	}
	prevEnd := -1
	for _, phase := range c.LifePhases {
		if phase.AgeEnd < phase.AgeStart {
			return fmt.Errorf("life phase %q has inverted age range", phase.Name)
		}
		if phase.AgeStart <= prevEnd {
			return fmt.Errorf("life phase %q overlaps the previous band", phase.Name)
		}
		prevEnd = phase.AgeEnd
	}

	if c.UnifiedBurstMinSize < 1 || c.FallbackBurstMinSize < 1 || c.PatternBurstMinSize < 1 {
		return fmt.Errorf("burst minimum sizes must be at least 1")
	}
	if c.TripProximityKm <= 0 || c.DensityRadiusKm <= 0 {
		return fmt.Errorf("spatial radii must be positive")
	}
	if c.DensityMinSamples < 1 {
		return fmt.Errorf("density min samples must be at least 1")
	}

	return nil
}
