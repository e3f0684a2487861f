package entities

import (
	"time"

	"memoir-backend/domain/core/valueobjects"
	pkgerrors "memoir-backend/pkg/errors"
)

// GeoTag couples a coordinate with the place strings reverse geocoding produced
type GeoTag struct {
	Point     valueobjects.GeoPoint
	PlaceName string
	City      string
	Country   string
}

// DisplayName returns the best available place string
func (g GeoTag) DisplayName() string {
	switch {
	case g.PlaceName != "":
		return g.PlaceName
	case g.City != "":
		return g.City
	case g.Country != "":
		return g.Country
	default:
		return "Unknown Location"
	}
}

// Photo is a read-only view of an ingested photo and its precomputed signals.
// Capture date, location, and labels are extracted upstream; this core never
// mutates a photo.
type Photo struct {
	id          valueobjects.PhotoID
	userID      string
	captureDate *time.Time
	uploadDate  time.Time
	location    *GeoTag
	categories  []valueobjects.CategoryLabel
	emotions    []valueobjects.EmotionLabel
}

// ReconstructPhoto rebuilds a photo from repository data
func ReconstructPhoto(
	id valueobjects.PhotoID,
	userID string,
	captureDate *time.Time,
	uploadDate time.Time,
	location *GeoTag,
	categories []valueobjects.CategoryLabel,
	emotions []valueobjects.EmotionLabel,
) (*Photo, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("photo ID cannot be empty")
	}

	return &Photo{
		id:          id,
		userID:      userID,
		captureDate: captureDate,
		uploadDate:  uploadDate,
		location:    location,
		categories:  categories,
		emotions:    emotions,
	}, nil
}

// ID returns the photo's unique identifier
func (p *Photo) ID() valueobjects.PhotoID {
	return p.id
}

// UserID returns the owner's ID
func (p *Photo) UserID() string {
	return p.userID
}

// CaptureDate returns the capture timestamp, nil when unknown
func (p *Photo) CaptureDate() *time.Time {
	return p.captureDate
}

// UploadDate returns the upload timestamp
func (p *Photo) UploadDate() time.Time {
	return p.uploadDate
}

// EffectiveDate returns the capture date, falling back to the upload date.
// Returns false when the photo carries neither.
func (p *Photo) EffectiveDate() (time.Time, bool) {
	if p.captureDate != nil {
		return *p.captureDate, true
	}
	if !p.uploadDate.IsZero() {
		return p.uploadDate, true
	}
	return time.Time{}, false
}

// Location returns the geotag, nil when the photo has no GPS data
func (p *Photo) Location() *GeoTag {
	return p.location
}

// HasLocation reports whether the photo is geotagged
func (p *Photo) HasLocation() bool {
	return p.location != nil
}

// Categories returns the classifier labels
func (p *Photo) Categories() []valueobjects.CategoryLabel {
	out := make([]valueobjects.CategoryLabel, len(p.categories))
	copy(out, p.categories)
	return out
}

// Emotions returns the detected emotion labels
func (p *Photo) Emotions() []valueobjects.EmotionLabel {
	out := make([]valueobjects.EmotionLabel, len(p.emotions))
	copy(out, p.emotions)
	return out
}

// TopCategory returns the single highest-confidence category label.
// Returns false when the photo has no categories.
func (p *Photo) TopCategory() (valueobjects.CategoryLabel, bool) {
	if len(p.categories) == 0 {
		return valueobjects.CategoryLabel{}, false
	}

	best := p.categories[0]
	for _, c := range p.categories[1:] {
		if c.Confidence() > best.Confidence() {
			best = c
		}
	}
	return best, true
}

// DominantEmotion returns the emotion label flagged dominant.
// Returns false when no label carries the flag.
func (p *Photo) DominantEmotion() (valueobjects.EmotionLabel, bool) {
	for _, e := range p.emotions {
		if e.IsDominant() {
			return e, true
		}
	}
	return valueobjects.EmotionLabel{}, false
}
