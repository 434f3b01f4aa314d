package core

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// CounterID identifies the counter a stream of events belongs to.
// An empty CounterID means "all counters".
type CounterID ID

func (id CounterID) String() string { return ID(id).String() }
func (id CounterID) IsEmpty() bool  { return ID(id).IsEmpty() }

// ParseCounterID trims s and, when it is not empty, checks that it is either a
// UUID or a 24-digit hex object ID. Both forms are normalized to lower case.
func ParseCounterID(s string) (CounterID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if isObjectID(s) {
		return CounterID(strings.ToLower(s)), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid counter ID %q: want a UUID or a 24-digit hex object ID: %w", s, err)
	}
	return CounterID(id.String()), nil
}

// isObjectID reports whether s is a 12-byte object ID in hex form
func isObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
