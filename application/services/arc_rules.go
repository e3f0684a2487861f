package services

import (
	"fmt"
	"time"

	"memoir-backend/domain/config"
	"memoir-backend/domain/core/entities"
)

// RuleInput is the aggregate signal of one temporal burst, fed through
// the arc rule table
type RuleInput struct {
	Categories []string // ranked, lower case
	Emotions   []string // ranked, lower case
	SpanDays   int
	Start      time.Time
}

// ArcResult is the arc shape a matched rule produces
type ArcResult struct {
	Title       string
	Description string
	StoryType   string
	Category    entities.ArcCategory
}

// ArcRule pairs a predicate with the arc it yields. Rules are evaluated
// in order; the first match wins.
type ArcRule struct {
	Name  string
	Match func(in RuleInput) bool
	Build func(in RuleInput) ArcResult
}

// MatchArcRules evaluates the rule list in sequence and returns the first
// match. Returns false when no rule fires. Bursts without any category
// signal never match; span alone is not enough to name an arc.
func MatchArcRules(rules []ArcRule, in RuleInput) (ArcResult, bool) {
	if len(in.Categories) == 0 {
		return ArcResult{}, false
	}
	for _, rule := range rules {
		if rule.Match(in) {
			return rule.Build(in), true
		}
	}
	return ArcResult{}, false
}

// DefaultArcRules builds the ordered rule table from the configured
// keyword lists. Each rule is independently testable.
func DefaultArcRules(cfg *config.DomainConfig) []ArcRule {
	multiDay := cfg.MultiDaySpanDays

	rules := []ArcRule{
		{
			Name: "beach",
			Match: func(in RuleInput) bool {
				return containsAny(in.Categories, cfg.BeachKeywords)
			},
			Build: func(in RuleInput) ArcResult {
				if in.SpanDays >= multiDay {
					return ArcResult{
						Title:       "Beach Vacation",
						Description: "Sun, sand, and unforgettable memories by the ocean.",
						StoryType:   "vacation",
						Category:    entities.ArcCategoryTrip,
					}
				}
				return ArcResult{
					Title:       "Beach Day",
					Description: "A perfect day by the water.",
					StoryType:   "day_trip",
					Category:    entities.ArcCategoryMoments,
				}
			},
		},
		{
			Name: "wedding",
			Match: func(in RuleInput) bool {
				return containsAny(in.Categories, cfg.WeddingKeywords)
			},
			Build: func(in RuleInput) ArcResult {
				return ArcResult{
					Title:       "Wedding Celebration",
					Description: "A beautiful celebration of love and commitment.",
					StoryType:   "wedding",
					Category:    entities.ArcCategoryEvent,
				}
			},
		},
		{
			Name: "celebration",
			Match: func(in RuleInput) bool {
				return containsAny(in.Categories, cfg.CelebrationKeywords) &&
					containsAny(in.Emotions, cfg.HappyEmotions)
			},
			Build: func(in RuleInput) ArcResult {
				return ArcResult{
					Title:       "Celebration",
					Description: "Joyful moments celebrating together.",
					StoryType:   "celebration",
					Category:    entities.ArcCategoryEvent,
				}
			},
		},
		{
			Name: "loved-ones",
			Match: func(in RuleInput) bool {
				return containsAny(in.Categories, cfg.FamilyKeywords) &&
					containsAny(in.Emotions, cfg.PositiveEmotions)
			},
			Build: func(in RuleInput) ArcResult {
				return ArcResult{
					Title:       "Time with Loved Ones",
					Description: "Cherished moments with family and friends.",
					StoryType:   "social",
					Category:    entities.ArcCategoryEvent,
				}
			},
		},
		{
			Name: "outdoor",
			Match: func(in RuleInput) bool {
				return containsAny(in.Categories, cfg.OutdoorKeywords) &&
					containsAny(in.Emotions, cfg.ExcitedEmotions)
			},
			Build: func(in RuleInput) ArcResult {
				return ArcResult{
					Title:       "Outdoor Adventure",
					Description: "Exploring nature and making memories.",
					StoryType:   "adventure",
					Category:    entities.ArcCategoryTrip,
				}
			},
		},
		{
			Name: "holiday",
			Match: func(in RuleInput) bool {
				return containsAny(in.Categories, cfg.HolidayKeywords)
			},
			Build: func(in RuleInput) ArcResult {
				return ArcResult{
					Title:       "Holiday Celebration",
					Description: "Festive moments filled with joy and warmth.",
					StoryType:   "holiday",
					Category:    entities.ArcCategoryEvent,
				}
			},
		},
		{
			Name: "multi-day-trip",
			Match: func(in RuleInput) bool {
				return in.SpanDays >= multiDay
			},
			Build: func(in RuleInput) ArcResult {
				return ArcResult{
					Title:       fmt.Sprintf("%s Trip", in.Start.Month().String()),
					Description: fmt.Sprintf("A %d-day journey filled with new experiences.", in.SpanDays),
					StoryType:   "trip",
					Category:    entities.ArcCategoryTrip,
				}
			},
		},
	}

	// Single-keyword fallbacks: dominant visual content alone, no emotion
	// required. Order within this block is part of the table's contract.
	keywordArcs := []struct {
		keywords    []string
		title       string
		description string
		storyType   string
	}{
		{[]string{"food", "restaurant"}, "Food & Dining", "Delicious meals and culinary experiences.", "dining"},
		{[]string{"pets", "dog", "cat"}, "Pet Moments", "Special times with furry friends.", "pets"},
		{[]string{"animal"}, "Animal Encounters", "Memorable moments with animals.", "animals"},
		{[]string{"sports", "activity"}, "Sports & Activities", "Active moments filled with energy.", "activity"},
		{[]string{"art"}, "Creative Moments", "Artistic and creative experiences.", "creative"},
		{[]string{"music"}, "Musical Moments", "Times filled with music and rhythm.", "music"},
		{[]string{"car", "vehicle"}, "On the Road", "Adventures and travels on wheels.", "travel"},
	}

	for _, ka := range keywordArcs {
		ka := ka
		rules = append(rules, ArcRule{
			Name: ka.keywords[0],
			Match: func(in RuleInput) bool {
				return containsAny(in.Categories, ka.keywords)
			},
			Build: func(in RuleInput) ArcResult {
				return ArcResult{
					Title:       ka.title,
					Description: ka.description,
					StoryType:   ka.storyType,
					Category:    entities.ArcCategoryMoments,
				}
			},
		})
	}

	return rules
}

// containsAny reports whether any needle occurs in haystack
func containsAny(haystack []string, needles []string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
