package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// PhotoID is a value object representing a unique photo identifier
// Value objects are immutable and have no identity beyond their value
type PhotoID struct {
	value string
}

// NewPhotoID creates a new random PhotoID
func NewPhotoID() PhotoID {
	return PhotoID{value: uuid.New().String()}
}

// NewPhotoIDFromString creates a PhotoID from an existing string
func NewPhotoIDFromString(id string) (PhotoID, error) {
	if id == "" {
		return PhotoID{}, errors.New("photo ID cannot be empty")
	}
	if !isValidUUID(id) {
		return PhotoID{}, errors.New("photo ID must be a valid UUID")
	}
	return PhotoID{value: id}, nil
}

// String returns the string representation of the PhotoID
func (id PhotoID) String() string {
	return id.value
}

// Equals checks if two PhotoIDs are equal
func (id PhotoID) Equals(other PhotoID) bool {
	return id.value == other.value
}

// IsZero checks if the PhotoID is the zero value
func (id PhotoID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id PhotoID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *PhotoID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("PhotoID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
