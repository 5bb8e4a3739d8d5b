package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/talentpage/internal/record"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS job_postings (
	id UUID PRIMARY KEY,
	data JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Postgres is a Store backed by a PostgreSQL connection pool. Each record is
// stored whole as a JSONB document keyed by ID.
type Postgres struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and ensures the schema
// exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Create persists a new record.
func (p *Postgres) Create(ctx context.Context, posting *record.JobPosting) error {
	data, err := json.Marshal(posting)
	if err != nil {
		return fmt.Errorf("failed to marshal job posting: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO job_postings (id, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		posting.ID, data, posting.CreatedAt, posting.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	return nil
}

// FindByID loads a record, returning ErrNotFound when absent.
func (p *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*record.JobPosting, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM job_postings WHERE id = $1`, id,
	).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}

	var posting record.JobPosting
	if err := json.Unmarshal(data, &posting); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job posting: %w", err)
	}
	return &posting, nil
}

// Update replaces an existing record, returning ErrNotFound when absent.
func (p *Postgres) Update(ctx context.Context, posting *record.JobPosting) error {
	data, err := json.Marshal(posting)
	if err != nil {
		return fmt.Errorf("failed to marshal job posting: %w", err)
	}

	tag, err := p.pool.Exec(ctx,
		`UPDATE job_postings SET data = $2, updated_at = $3 WHERE id = $1`,
		posting.ID, data, posting.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job posting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record, returning ErrNotFound when absent.
func (p *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job posting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}
