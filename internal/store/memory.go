package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/talentpage/internal/record"
)

// Memory is an in-memory Store. Records are cloned on the way in and out so
// callers can never mutate shared state behind the lock.
type Memory struct {
	mu       sync.RWMutex
	postings map[uuid.UUID]*record.JobPosting
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{postings: make(map[uuid.UUID]*record.JobPosting)}
}

// Create persists a new record.
func (m *Memory) Create(_ context.Context, posting *record.JobPosting) error {
	clone, err := clonePosting(posting)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.postings[posting.ID] = clone
	return nil
}

// FindByID loads a record, returning ErrNotFound when absent.
func (m *Memory) FindByID(_ context.Context, id uuid.UUID) (*record.JobPosting, error) {
	m.mu.RLock()
	posting, ok := m.postings[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return clonePosting(posting)
}

// Update replaces an existing record, returning ErrNotFound when absent.
func (m *Memory) Update(_ context.Context, posting *record.JobPosting) error {
	clone, err := clonePosting(posting)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.postings[posting.ID]; !ok {
		return ErrNotFound
	}
	m.postings[posting.ID] = clone
	return nil
}

// Delete removes a record, returning ErrNotFound when absent.
func (m *Memory) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.postings[id]; !ok {
		return ErrNotFound
	}
	delete(m.postings, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() {}

func clonePosting(posting *record.JobPosting) (*record.JobPosting, error) {
	data, err := json.Marshal(posting)
	if err != nil {
		return nil, fmt.Errorf("failed to clone job posting: %w", err)
	}
	var clone record.JobPosting
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, fmt.Errorf("failed to clone job posting: %w", err)
	}
	return &clone, nil
}
