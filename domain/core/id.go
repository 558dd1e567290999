package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 is not available
	id, err := uuid.NewV7()
	if err != nil {
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

// LoadID identifies a single dataset load event recorded in the catalog.
type LoadID ID

func (id LoadID) String() string { return ID(id).String() }

// NewLoadID creates a fresh load identifier.
func NewLoadID() LoadID {
	return LoadID(NewID())
}

// ParseLoadID parses a string into a LoadID
func ParseLoadID(s string) (LoadID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("load ID cannot be empty")
	}
	return LoadID(s), nil
}
