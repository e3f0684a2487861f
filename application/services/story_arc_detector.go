package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/domain/config"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	pkgerrors "memoir-backend/pkg/errors"

	"go.uber.org/zap"
)

// StoryArcDetector finds themed photo groupings inside one chapter by
// running four sub-detectors in priority order: curated life events,
// greedy location clusters, unified content bursts, and a plain
// temporal fallback that only engages when the richer detectors came
// up short.
type StoryArcDetector struct {
	photoRepo     ports.PhotoRepository
	chapterRepo   ports.ChapterRepository
	arcRepo       ports.StoryArcRepository
	lifeEventRepo ports.LifeEventRepository
	temporal      *TemporalClusterer
	spatial       *SpatialClusterer
	signals       *SignalAggregator
	rules         []ArcRule
	cfg           *config.DomainConfig
	logger        *zap.Logger
}

// NewStoryArcDetector creates a new story arc detector
func NewStoryArcDetector(
	photoRepo ports.PhotoRepository,
	chapterRepo ports.ChapterRepository,
	arcRepo ports.StoryArcRepository,
	lifeEventRepo ports.LifeEventRepository,
	temporal *TemporalClusterer,
	spatial *SpatialClusterer,
	signals *SignalAggregator,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *StoryArcDetector {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &StoryArcDetector{
		photoRepo:     photoRepo,
		chapterRepo:   chapterRepo,
		arcRepo:       arcRepo,
		lifeEventRepo: lifeEventRepo,
		temporal:      temporal,
		spatial:       spatial,
		signals:       signals,
		rules:         DefaultArcRules(cfg),
		cfg:           cfg,
		logger:        logger,
	}
}

// Detect builds, persists, and photo-links the story arcs of one chapter.
// Callers regenerating must clear prior arcs first; detection never merges
// with existing arcs.
func (d *StoryArcDetector) Detect(ctx context.Context, chapterID valueobjects.ChapterID) ([]*entities.StoryArc, error) {
	chapter, err := d.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	dateRange, err := chapter.DateRange()
	if err != nil {
		return nil, err
	}

	photos, err := d.photoRepo.GetByDateRange(ctx, chapter.UserID(), dateRange.Start(), dateRange.End())
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		d.logger.Warn("Chapter has no dated photos for arc detection",
			zap.String("chapterID", chapterID.String()),
		)
		return nil, nil
	}

	var arcs []*entities.StoryArc

	arcs = append(arcs, d.runSubDetector("life_events", func() ([]*entities.StoryArc, error) {
		return d.detectLifeEventArcs(ctx, chapter, dateRange, len(arcs))
	})...)

	arcs = append(arcs, d.runSubDetector("trips", func() ([]*entities.StoryArc, error) {
		return d.detectTripArcs(chapter, photos, len(arcs))
	})...)

	unified := d.runSubDetector("unified", func() ([]*entities.StoryArc, error) {
		return d.detectUnifiedArcs(ctx, chapter, photos, len(arcs))
	})
	arcs = append(arcs, unified...)

	if len(unified) == 0 && len(arcs) < 2 {
		arcs = append(arcs, d.runSubDetector("fallback", func() ([]*entities.StoryArc, error) {
			return d.detectFallbackArcs(chapter, photos, len(arcs))
		})...)
	}

	for _, arc := range arcs {
		if err := d.arcRepo.Save(ctx, arc); err != nil {
			return nil, err
		}
		if err := d.attachPhotos(ctx, arc); err != nil {
			return nil, err
		}
	}

	d.logger.Info("Detected story arcs",
		zap.String("chapterID", chapterID.String()),
		zap.Int("arcs", len(arcs)),
	)

	return arcs, nil
}

// runSubDetector isolates one detection stage. A panic or error inside
// a stage is logged and contributes zero arcs so that later stages
// (and the fallback gate) still run.
func (d *StoryArcDetector) runSubDetector(name string, fn func() ([]*entities.StoryArc, error)) (arcs []*entities.StoryArc) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Sub-detector panicked",
				zap.String("detector", name),
				zap.Any("panic", r),
			)
			arcs = nil
		}
	}()

	arcs, err := fn()
	if err != nil {
		d.logger.Error("Sub-detector failed",
			zap.String("detector", name),
			zap.Error(err),
		)
		return nil
	}
	return arcs
}

func (d *StoryArcDetector) detectLifeEventArcs(
	ctx context.Context,
	chapter *entities.Chapter,
	dateRange valueobjects.DateRange,
	baseSeq int,
) ([]*entities.StoryArc, error) {
	events, err := d.lifeEventRepo.GetByDateRange(ctx, chapter.UserID(), dateRange.Start(), dateRange.End())
	if err != nil {
		return nil, err
	}

	var arcs []*entities.StoryArc
	for _, event := range events {
		photoIDs := event.PhotoIDs()
		if len(photoIDs) == 0 {
			d.logger.Debug("Skipping life event without linked photos",
				zap.String("eventID", event.ID().String()),
			)
			continue
		}

		members, err := d.photoRepo.GetByIDs(ctx, photoIDs)
		if err != nil {
			return nil, err
		}

		arcRange, err := memberDateRange(members, event.Date())
		if err != nil {
			return nil, err
		}

		description := event.Description()
		if description == "" {
			description = fmt.Sprintf("Photos from %s", event.Name())
		}

		arc, err := entities.NewStoryArc(
			chapter.UserID(),
			chapter.ID(),
			event.Name(),
			description,
			string(event.Type()),
			entities.ArcCategoryForEvent(event.Type()),
			entities.SourceLifeEvent,
			arcRange,
			len(photoIDs),
			baseSeq+len(arcs),
			event.IsAIDetected(),
			entities.ArcMetadata{
				LifeEventID:     event.ID().String(),
				LocationName:    event.Location(),
				DetectionMethod: event.DetectionMethod(),
			},
		)
		if err != nil {
			return nil, err
		}
		arcs = append(arcs, arc)
	}

	return arcs, nil
}

func (d *StoryArcDetector) detectTripArcs(
	chapter *entities.Chapter,
	photos []*entities.Photo,
	baseSeq int,
) ([]*entities.StoryArc, error) {
	geotagged := make([]*entities.Photo, 0, len(photos))
	for _, p := range photos {
		if p.HasLocation() {
			geotagged = append(geotagged, p)
		}
	}
	if len(geotagged) < d.cfg.TripMinClusterSize {
		d.logger.Debug("Not enough geotagged photos for trip detection",
			zap.String("chapterID", chapter.ID().String()),
			zap.Int("geotagged", len(geotagged)),
		)
		return nil, nil
	}

	clusters := d.spatial.ClusterGreedy(geotagged, d.cfg.TripProximityKm)

	var arcs []*entities.StoryArc
	for _, cluster := range clusters {
		if len(cluster) < d.cfg.TripMinClusterSize {
			continue
		}

		arcRange, err := memberDateRange(cluster, time.Time{})
		if err != nil || arcRange.SpanDays() < d.cfg.TripMinSpanDays {
			continue
		}

		place := dominantPlace(cluster)
		title := fmt.Sprintf("%s %d", place, arcRange.Start().Year())

		arc, err := entities.NewStoryArc(
			chapter.UserID(),
			chapter.ID(),
			title,
			fmt.Sprintf("A memorable trip to %s", place),
			"trip",
			entities.ArcCategoryTrip,
			entities.SourceTripCluster,
			arcRange,
			len(cluster),
			baseSeq+len(arcs),
			true,
			entities.ArcMetadata{
				LocationName:     place,
				DetectionMethod:  "location+date",
				TemporalSpanDays: arcRange.SpanDays(),
			},
		)
		if err != nil {
			return nil, err
		}
		arcs = append(arcs, arc)
	}

	return arcs, nil
}

func (d *StoryArcDetector) detectUnifiedArcs(
	ctx context.Context,
	chapter *entities.Chapter,
	photos []*entities.Photo,
	baseSeq int,
) ([]*entities.StoryArc, error) {
	bursts := d.temporal.ClusterByTime(photos, d.cfg.UnifiedBurstGapDays, d.cfg.UnifiedBurstMinSize)

	var arcs []*entities.StoryArc
	for _, burst := range bursts {
		ids := photoIDsOf(burst)

		signals, err := d.signals.Aggregate(ctx, ids, d.cfg.TopCategories, d.cfg.TopEmotions)
		if err != nil {
			return nil, err
		}

		arcRange, err := memberDateRange(burst, time.Time{})
		if err != nil {
			return nil, err
		}
		span := arcRange.SpanDays()

		in := RuleInput{
			Categories: signals.CategoryNames(),
			Emotions:   signals.EmotionNames(),
			SpanDays:   span,
			Start:      arcRange.Start(),
		}
		result, matched := MatchArcRules(d.rules, in)
		if !matched {
			month := arcRange.Start().Month().String()
			result = ArcResult{
				Title:       fmt.Sprintf("%s Moments", month),
				Description: fmt.Sprintf("Special moments from %s %d", month, arcRange.Start().Year()),
				StoryType:   "moments",
				Category:    entities.ArcCategoryMoments,
			}
		}

		metadata := entities.ArcMetadata{
			DetectionMethod:  "date+classification+emotions",
			PhotoIDs:         idStrings(ids),
			TemporalSpanDays: span,
		}
		for _, s := range signals.Categories {
			metadata.Categories = append(metadata.Categories, s.Name)
			metadata.CategoryConfidences = append(metadata.CategoryConfidences, s.MeanConfidence)
		}
		for _, s := range signals.Emotions {
			metadata.Emotions = append(metadata.Emotions, s.Name)
			metadata.EmotionConfidences = append(metadata.EmotionConfidences, s.MeanConfidence)
		}

		arc, err := entities.NewStoryArc(
			chapter.UserID(),
			chapter.ID(),
			result.Title,
			result.Description,
			result.StoryType,
			result.Category,
			entities.SourceUnifiedPattern,
			arcRange,
			len(burst),
			baseSeq+len(arcs),
			true,
			metadata,
		)
		if err != nil {
			return nil, err
		}
		arcs = append(arcs, arc)
	}

	return arcs, nil
}

func (d *StoryArcDetector) detectFallbackArcs(
	chapter *entities.Chapter,
	photos []*entities.Photo,
	baseSeq int,
) ([]*entities.StoryArc, error) {
	bursts := d.temporal.ClusterByTime(photos, d.cfg.FallbackBurstGapDays, d.cfg.FallbackBurstMinSize)

	var arcs []*entities.StoryArc
	for _, burst := range bursts {
		if len(arcs) >= d.cfg.MaxFallbackArcs {
			break
		}

		arcRange, err := memberDateRange(burst, time.Time{})
		if err != nil {
			return nil, err
		}

		month := arcRange.Start().Month().String()
		arc, err := entities.NewStoryArc(
			chapter.UserID(),
			chapter.ID(),
			fmt.Sprintf("%s Moments", month),
			fmt.Sprintf("Memories from %s %d", month, arcRange.Start().Year()),
			"moments",
			entities.ArcCategoryMoments,
			entities.SourceTimeCluster,
			arcRange,
			len(burst),
			baseSeq+len(arcs),
			true,
			entities.ArcMetadata{
				DetectionMethod:  "date_clustering",
				TemporalSpanDays: arcRange.SpanDays(),
			},
		)
		if err != nil {
			return nil, err
		}
		arcs = append(arcs, arc)
	}

	return arcs, nil
}

// attachPhotos links member photos to a persisted arc. Unified arcs trust
// their recorded photo-ID list, life-event arcs re-query the event's
// linked photos, and every other source re-queries by the arc's own date
// range, which can over-attach when sibling ranges overlap.
func (d *StoryArcDetector) attachPhotos(ctx context.Context, arc *entities.StoryArc) error {
	var ids []valueobjects.PhotoID

	switch arc.Source() {
	case entities.SourceUnifiedPattern:
		for _, raw := range arc.Metadata().PhotoIDs {
			id, err := valueobjects.NewPhotoIDFromString(raw)
			if err != nil {
				d.logger.Warn("Skipping malformed photo ID on arc",
					zap.String("arcID", arc.ID().String()),
					zap.String("photoID", raw),
				)
				continue
			}
			ids = append(ids, id)
		}

	case entities.SourceLifeEvent:
		eventID, err := valueobjects.NewLifeEventIDFromString(arc.Metadata().LifeEventID)
		if err != nil {
			return pkgerrors.NewValidationError("life-event arc carries no event ID")
		}
		event, err := d.lifeEventRepo.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		ids = event.PhotoIDs()

	default:
		photos, err := d.photoRepo.GetByDateRange(ctx, arc.UserID(), arc.DateRange().Start(), arc.DateRange().End())
		if err != nil {
			return err
		}
		for _, p := range photos {
			ids = append(ids, p.ID())
		}
	}

	if len(ids) == 0 {
		return nil
	}

	links := make([]ports.PhotoLink, len(ids))
	for i, id := range ids {
		links[i] = ports.PhotoLink{
			PhotoID:       id,
			SequenceOrder: i,
			IsCover:       i == 0,
		}
	}
	return d.arcRepo.LinkPhotos(ctx, arc.ID(), links)
}

// memberDateRange spans the members' effective dates; fallback is used
// for both bounds when no member carries a date and is non-zero.
func memberDateRange(photos []*entities.Photo, fallback time.Time) (valueobjects.DateRange, error) {
	var earliest, latest time.Time
	for _, p := range photos {
		d, ok := p.EffectiveDate()
		if !ok {
			continue
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
		if latest.IsZero() || d.After(latest) {
			latest = d
		}
	}

	if earliest.IsZero() {
		if fallback.IsZero() {
			return valueobjects.DateRange{}, pkgerrors.NewValidationError("no dated photos to span")
		}
		earliest, latest = fallback, fallback
	}
	return valueobjects.NewDateRange(earliest, latest)
}

// dominantPlace returns the most common display name among a cluster's
// geotags, ties broken alphabetically
func dominantPlace(photos []*entities.Photo) string {
	counts := make(map[string]int)
	for _, p := range photos {
		if loc := p.Location(); loc != nil {
			counts[loc.DisplayName()]++
		}
	}
	if len(counts) == 0 {
		return "Unknown Location"
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best
}

func photoIDsOf(photos []*entities.Photo) []valueobjects.PhotoID {
	ids := make([]valueobjects.PhotoID, len(photos))
	for i, p := range photos {
		ids[i] = p.ID()
	}
	return ids
}

func idStrings(ids []valueobjects.PhotoID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
