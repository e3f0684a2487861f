package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	pkgerrors "memoir-backend/pkg/errors"
)

// PhotoRepository is an in-memory photo store for tests and local runs
type PhotoRepository struct {
	mu     sync.RWMutex
	photos map[string]*entities.Photo
}

// NewPhotoRepository creates an empty in-memory photo repository
func NewPhotoRepository() *PhotoRepository {
	return &PhotoRepository{photos: make(map[string]*entities.Photo)}
}

// Put seeds a photo into the store
func (r *PhotoRepository) Put(photo *entities.Photo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.photos[photo.ID().String()] = photo
}

// GetByID retrieves a photo by its ID
func (r *PhotoRepository) GetByID(_ context.Context, id valueobjects.PhotoID) (*entities.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	photo, ok := r.photos[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("photo %s", id.String()))
	}
	return photo, nil
}

// GetByIDs retrieves photos by ID, ordered by capture date ascending.
// Unknown IDs are skipped.
func (r *PhotoRepository) GetByIDs(_ context.Context, ids []valueobjects.PhotoID) ([]*entities.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	photos := make([]*entities.Photo, 0, len(ids))
	for _, id := range ids {
		if photo, ok := r.photos[id.String()]; ok {
			photos = append(photos, photo)
		}
	}
	sortByEffectiveDate(photos)
	return photos, nil
}

// GetByUserID retrieves all photos for a user
func (r *PhotoRepository) GetByUserID(_ context.Context, userID string) ([]*entities.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var photos []*entities.Photo
	for _, photo := range r.photos {
		if photo.UserID() == userID {
			photos = append(photos, photo)
		}
	}
	sortByEffectiveDate(photos)
	return photos, nil
}

// GetByDateRange retrieves a user's dated photos inside an inclusive
// range, ordered by capture date ascending
func (r *PhotoRepository) GetByDateRange(_ context.Context, userID string, start, end time.Time) ([]*entities.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var photos []*entities.Photo
	for _, photo := range r.photos {
		if photo.UserID() != userID {
			continue
		}
		date, ok := photo.EffectiveDate()
		if !ok || date.Before(start) || date.After(end) {
			continue
		}
		photos = append(photos, photo)
	}
	sortByEffectiveDate(photos)
	return photos, nil
}

func sortByEffectiveDate(photos []*entities.Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		di, iok := photos[i].EffectiveDate()
		dj, jok := photos[j].EffectiveDate()
		if iok != jok {
			return iok
		}
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return photos[i].ID().String() < photos[j].ID().String()
	})
}

var _ ports.PhotoRepository = (*PhotoRepository)(nil)
