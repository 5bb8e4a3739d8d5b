// Package store persists job posting records. Two implementations share the
// Store interface: an in-memory map for development and tests, and a
// PostgreSQL adapter that keeps each record as a JSONB document.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jonathan/talentpage/internal/record"
)

// ErrNotFound is returned when no record exists for the given ID.
var ErrNotFound = errors.New("job posting not found")

// Store is the persistence interface for job posting records.
type Store interface {
	// Create persists a new record.
	Create(ctx context.Context, posting *record.JobPosting) error
	// FindByID loads a record, returning ErrNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*record.JobPosting, error)
	// Update replaces an existing record, returning ErrNotFound when absent.
	Update(ctx context.Context, posting *record.JobPosting) error
	// Delete removes a record, returning ErrNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error
	// Close releases any resources held by the store.
	Close()
}
