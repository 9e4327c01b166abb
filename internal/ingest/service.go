package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/openimpactlab/impactboard/internal/report"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=ingest

// Ledger persists job state. A job's ledger row is mutated only by the
// Runner that owns it; everyone else reads.
type Ledger interface {
	CreateJob(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	UpdateProgress(ctx context.Context, id uuid.UUID, p Progress) error
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)
}

// ReportUpserter is the slice of the report repository the runner needs.
type ReportUpserter interface {
	Upsert(ctx context.Context, params report.Params) (*report.Report, error)
}

type Service struct {
	ledger Ledger
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// Accept registers a new job in PENDING and returns its id. The caller
// is expected to hand the id to a Runner and return it to the client
// without waiting for processing.
func (s *Service) Accept(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	if err := s.ledger.CreateJob(ctx, id); err != nil {
		return uuid.Nil, fmt.Errorf("creating job: %w", err)
	}

	return id, nil
}

// Status returns the current ledger row for a job. The raw id comes
// straight from the URL, so it is sanitized before hitting the store.
func (s *Service) Status(ctx context.Context, rawID string) (*Job, error) {
	id, err := ParseJobID(rawID)
	if err != nil {
		return nil, err
	}

	return s.ledger.GetJob(ctx, id)
}

var jobIDSanitizer = strings.NewReplacer("<", "", ">", "")

// ParseJobID strips markup characters and validates the UUID form.
func ParseJobID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(jobIDSanitizer.Replace(raw)))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid job id: %w", err)
	}

	return id, nil
}
