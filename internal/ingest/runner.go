package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openimpactlab/impactboard/internal/ingest/csvrow"
)

// Options bounds a job. Zero values fall back to the defaults below.
type Options struct {
	MaxRows    int
	RowTimeout time.Duration
	JobTimeout time.Duration
}

const (
	defaultMaxRows    = 100000
	defaultRowTimeout = 30 * time.Second
	defaultJobTimeout = 30 * time.Minute
)

// Runner drives one ingestion job from acceptance to a terminal state:
// decode, validate, upsert, account, finalize. Row processing is
// strictly sequential so a polling client observes counters in order.
type Runner struct {
	ledger  Ledger
	reports ReportUpserter
	opts    Options
}

func NewRunner(ledger Ledger, reports ReportUpserter, opts Options) *Runner {
	if opts.MaxRows == 0 {
		opts.MaxRows = defaultMaxRows
	}

	if opts.RowTimeout == 0 {
		opts.RowTimeout = defaultRowTimeout
	}

	if opts.JobTimeout == 0 {
		opts.JobTimeout = defaultJobTimeout
	}

	return &Runner{ledger: ledger, reports: reports, opts: opts}
}

// Run processes the uploaded CSV at path for the given job. The upload
// handler starts it on its own goroutine; the HTTP response never waits
// for it. The file is removed on any terminal outcome, exactly once.
func (r *Runner) Run(jobID uuid.UUID, path string) {
	defer os.Remove(path)

	ctx, cancel := context.WithTimeout(context.Background(), r.opts.JobTimeout)
	defer cancel()

	if err := r.run(ctx, jobID, path); err != nil {
		slog.Error("ingest job failed", "job_id", jobID, "error", err)

		// The job context may already be expired; the terminal write
		// must still land.
		if err := r.ledger.SetStatus(context.WithoutCancel(ctx), jobID, StatusFailed); err != nil {
			slog.Error("failed to mark job failed", "job_id", jobID, "error", err)
		}
	}
}

func (r *Runner) run(ctx context.Context, jobID uuid.UUID, path string) error {
	if err := r.ledger.SetStatus(ctx, jobID, StatusProcessing); err != nil {
		return fmt.Errorf("marking job processing: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	dec, err := csvrow.NewDecoder(f)
	if err != nil {
		return fmt.Errorf("reading csv header: %w", err)
	}

	var p Progress

	for {
		row, err := dec.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			return fmt.Errorf("decoding row %d: %w", p.TotalRows+1, err)
		}

		if p.TotalRows >= r.opts.MaxRows {
			return fmt.Errorf("row limit of %d exceeded", r.opts.MaxRows)
		}

		p.TotalRows++
		p.ProcessedRows++

		if err := r.processRow(ctx, row, &p); err != nil {
			return err
		}

		// Persist the full counter set after every row so a status poll
		// never sees processed_rows ahead of success/failed.
		if err := r.persist(ctx, jobID, p); err != nil {
			return fmt.Errorf("updating job progress: %w", err)
		}
	}

	if err := r.ledger.SetStatus(ctx, jobID, StatusCompleted); err != nil {
		return fmt.Errorf("marking job completed: %w", err)
	}

	slog.Info("ingest job completed",
		"job_id", jobID,
		"total", p.TotalRows,
		"succeeded", p.SuccessRows,
		"failed", p.FailedRows,
	)

	return nil
}

// processRow validates and upserts one row. Row-level problems are
// accounted and swallowed; only a dead database connection propagates
// up and fails the job.
func (r *Runner) processRow(ctx context.Context, row map[string]string, p *Progress) error {
	params, err := ParseRow(row)
	if err != nil {
		p.fail(p.TotalRows, err.Error())
		return nil
	}

	rowCtx, cancel := context.WithTimeout(ctx, r.opts.RowTimeout)
	defer cancel()

	if _, err := r.reports.Upsert(rowCtx, params); err != nil {
		if isConnectionErr(err) {
			return fmt.Errorf("upserting row %d: %w", p.TotalRows, err)
		}

		p.fail(p.TotalRows, err.Error())

		return nil
	}

	p.SuccessRows++

	return nil
}

func (r *Runner) persist(ctx context.Context, jobID uuid.UUID, p Progress) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.RowTimeout)
	defer cancel()

	return r.ledger.UpdateProgress(ctx, jobID, p)
}

// isConnectionErr reports whether a store error means the connection
// itself is gone, in which case continuing row by row is pointless.
func isConnectionErr(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.SQLClientUnableToEstablishSQLConnection,
		pgerrcode.AdminShutdown,
		pgerrcode.CrashShutdown,
		pgerrcode.TooManyConnections:
		return true
	}

	return false
}
