package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/openimpactlab/impactboard/internal/ingest"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateJob(ctx context.Context, id uuid.UUID) error {
	query := `
		INSERT INTO jobs (id, status, total_rows, processed_rows, success_rows, failed_rows, error_log)
		VALUES ($1, $2, 0, 0, 0, 0, '[]')
	`

	if _, err := s.db.ExecContext(ctx, query, id, ingest.StatusPending); err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}

	return nil
}

func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status ingest.Status) error {
	query := `UPDATE jobs SET status = $1 WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("updating job status: %w", err)
	}

	return nil
}

// UpdateProgress persists the whole counter set and the error log in a
// single UPDATE, so a concurrent status poll always sees a consistent
// snapshot.
func (s *Store) UpdateProgress(ctx context.Context, id uuid.UUID, p ingest.Progress) error {
	errs := p.Errors
	if errs == nil {
		errs = []ingest.RowError{}
	}

	errorLog, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("encoding error log: %w", err)
	}

	query := `
		UPDATE jobs
		SET total_rows = $1, processed_rows = $2, success_rows = $3, failed_rows = $4, error_log = $5
		WHERE id = $6
	`

	if _, err := s.db.ExecContext(ctx, query,
		p.TotalRows,
		p.ProcessedRows,
		p.SuccessRows,
		p.FailedRows,
		errorLog,
		id,
	); err != nil {
		return fmt.Errorf("updating job progress: %w", err)
	}

	return nil
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*ingest.Job, error) {
	query := `
		SELECT id, status, total_rows, processed_rows, success_rows, failed_rows, error_log
		FROM jobs
		WHERE id = $1
	`

	var (
		job      ingest.Job
		status   string
		errorLog []byte
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&status,
		&job.TotalRows,
		&job.ProcessedRows,
		&job.SuccessRows,
		&job.FailedRows,
		&errorLog,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ingest.ErrJobNotFound
		}

		return nil, fmt.Errorf("getting job: %w", err)
	}

	job.Status = ingest.Status(status)

	if len(errorLog) > 0 {
		if err := json.Unmarshal(errorLog, &job.Errors); err != nil {
			return nil, fmt.Errorf("decoding error log: %w", err)
		}
	}

	return &job, nil
}
