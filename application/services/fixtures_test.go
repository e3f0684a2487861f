package services

import (
	"testing"
	"time"

	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/require"
)

// photoSpec describes one test photo; zero fields are left unset
type photoSpec struct {
	captured time.Time
	uploaded time.Time
	location *entities.GeoTag
	cats     []valueobjects.CategoryLabel
	emos     []valueobjects.EmotionLabel
}

func buildPhoto(t *testing.T, userID string, spec photoSpec) *entities.Photo {
	t.Helper()

	var captured *time.Time
	if !spec.captured.IsZero() {
		c := spec.captured
		captured = &c
	}

	uploaded := spec.uploaded
	if uploaded.IsZero() && captured != nil {
		uploaded = *captured
	}

	photo, err := entities.ReconstructPhoto(
		valueobjects.NewPhotoID(),
		userID,
		captured,
		uploaded,
		spec.location,
		spec.cats,
		spec.emos,
	)
	require.NoError(t, err)
	return photo
}

func photoAt(t *testing.T, userID string, captured time.Time) *entities.Photo {
	t.Helper()
	return buildPhoto(t, userID, photoSpec{captured: captured})
}

func geoTag(lat, lon float64, place string) *entities.GeoTag {
	point, _ := valueobjects.NewGeoPoint(lat, lon)
	return &entities.GeoTag{Point: point, PlaceName: place}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func categories(names ...string) []valueobjects.CategoryLabel {
	out := make([]valueobjects.CategoryLabel, len(names))
	for i, n := range names {
		out[i] = valueobjects.NewCategoryLabel(n, 0.9)
	}
	return out
}

func dominantEmotionLabel(name string) []valueobjects.EmotionLabel {
	return []valueobjects.EmotionLabel{valueobjects.NewEmotionLabel(name, 0.9, true)}
}
