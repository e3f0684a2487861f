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

// UserRepository is an in-memory user store for tests and local runs
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User
}

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entities.User)}
}

// Put seeds a user into the store
func (r *UserRepository) Put(user *entities.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID()] = user
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("user %s", id))
	}
	return user, nil
}

// LifeEventRepository is an in-memory life-event store for tests and
// local runs
type LifeEventRepository struct {
	mu     sync.RWMutex
	events map[string]*entities.LifeEvent
}

// NewLifeEventRepository creates an empty in-memory life-event repository
func NewLifeEventRepository() *LifeEventRepository {
	return &LifeEventRepository{events: make(map[string]*entities.LifeEvent)}
}

// Put seeds a life event into the store
func (r *LifeEventRepository) Put(event *entities.LifeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID().String()] = event
}

// GetByID retrieves a life event by its ID
func (r *LifeEventRepository) GetByID(_ context.Context, id valueobjects.LifeEventID) (*entities.LifeEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("life event %s", id.String()))
	}
	return event, nil
}

// GetByUserID retrieves all life events for a user
func (r *LifeEventRepository) GetByUserID(_ context.Context, userID string) ([]*entities.LifeEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []*entities.LifeEvent
	for _, event := range r.events {
		if event.UserID() == userID {
			events = append(events, event)
		}
	}
	sortByDate(events)
	return events, nil
}

// GetByDateRange retrieves a user's life events dated inside an
// inclusive range
func (r *LifeEventRepository) GetByDateRange(_ context.Context, userID string, start, end time.Time) ([]*entities.LifeEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []*entities.LifeEvent
	for _, event := range r.events {
		if event.UserID() != userID {
			continue
		}
		if event.Date().Before(start) || event.Date().After(end) {
			continue
		}
		events = append(events, event)
	}
	sortByDate(events)
	return events, nil
}

func sortByDate(events []*entities.LifeEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date().Equal(events[j].Date()) {
			return events[i].Date().Before(events[j].Date())
		}
		return events[i].ID().String() < events[j].ID().String()
	})
}

var (
	_ ports.UserRepository      = (*UserRepository)(nil)
	_ ports.LifeEventRepository = (*LifeEventRepository)(nil)
)
