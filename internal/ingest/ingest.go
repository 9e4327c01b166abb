package ingest

import (
	"errors"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an ingestion job.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

var ErrJobNotFound = errors.New("job not found")

// RowError records why a single CSV row was rejected. Rows are
// 1-indexed in file order, header excluded.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"error"`
}

// Job is the persisted progress ledger for one bulk-ingestion attempt.
type Job struct {
	ID            uuid.UUID
	Status        Status
	TotalRows     int
	ProcessedRows int
	SuccessRows   int
	FailedRows    int
	Errors        []RowError
}

// Terminal reports whether the job has reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Progress is the counter set persisted after every processed row.
// ProcessedRows always equals SuccessRows + FailedRows.
type Progress struct {
	TotalRows     int
	ProcessedRows int
	SuccessRows   int
	FailedRows    int
	Errors        []RowError
}

func (p *Progress) fail(row int, reason string) {
	p.FailedRows++
	p.Errors = append(p.Errors, RowError{Row: row, Reason: reason})
}
