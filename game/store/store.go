package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrInvalidName = errors.New("invalid record name")
)

// RecordStore defines the interface for persisting level records
type RecordStore interface {
	// Load retrieves the raw record stored under name
	Load(name string) ([]byte, error)

	// Save stores data under name, replacing any previous record
	Save(name string, data []byte) error

	// Delete removes the record stored under name
	Delete(name string) error

	// List returns all stored record names
	List() ([]string, error)

	// Exists checks if a record is stored under name
	Exists(name string) bool

	// Close releases resources held by the store
	Close() error
}

// ValidateName rejects names that cannot be used as a file name or key
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\:`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
