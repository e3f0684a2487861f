package entities

import (
	"time"

	pkgerrors "memoir-backend/pkg/errors"
)

// User is the owner of a photo collection. Only the fields chapter
// generation needs are modeled here.
type User struct {
	id        string
	username  string
	email     string
	birthDate *time.Time
}

// ReconstructUser rebuilds a user from repository data
func ReconstructUser(id, username, email string, birthDate *time.Time) (*User, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("user ID cannot be empty")
	}

	return &User{
		id:        id,
		username:  username,
		email:     email,
		birthDate: birthDate,
	}, nil
}

func (u *User) ID() string       { return u.id }
func (u *User) Username() string { return u.username }
func (u *User) Email() string    { return u.email }

// BirthDate returns the birth date, nil when unknown
func (u *User) BirthDate() *time.Time {
	return u.birthDate
}

// AgeAt computes the user's integer age at a point in time, decremented
// when the month and day precede the birthday
func (u *User) AgeAt(at time.Time) (int, bool) {
	if u.birthDate == nil {
		return 0, false
	}

	age := at.Year() - u.birthDate.Year()
	if at.Month() < u.birthDate.Month() ||
		(at.Month() == u.birthDate.Month() && at.Day() < u.birthDate.Day()) {
		age--
	}
	return age, true
}
