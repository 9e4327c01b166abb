package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openimpactlab/impactboard/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Upsert writes a report, replacing any existing report for the same
// (ngo_id, month). The uniqueness constraint is the arbiter for
// concurrent writers: last write wins, no error for the conflict.
func (s *Store) Upsert(ctx context.Context, params report.Params) (*report.Report, error) {
	query := `
		INSERT INTO reports (ngo_id, month, people_helped, events_conducted, funds_utilized)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ngo_id, month)
		DO UPDATE SET
			people_helped = EXCLUDED.people_helped,
			events_conducted = EXCLUDED.events_conducted,
			funds_utilized = EXCLUDED.funds_utilized
		RETURNING ngo_id, month, people_helped, events_conducted, funds_utilized
	`

	var r report.Report

	err := s.db.QueryRowContext(ctx, query,
		params.NGOID,
		params.Month,
		params.PeopleHelped,
		params.EventsConducted,
		params.FundsUtilized,
	).Scan(&r.NGOID, &r.Month, &r.PeopleHelped, &r.EventsConducted, &r.FundsUtilized)
	if err != nil {
		return nil, fmt.Errorf("upserting report: %w", err)
	}

	return &r, nil
}

// AggregateMonth sums all reports for a month. COALESCE keeps an empty
// month at zeros rather than NULL.
func (s *Store) AggregateMonth(ctx context.Context, month string) (*report.MonthlyTotals, error) {
	query := `
		SELECT
			COUNT(DISTINCT ngo_id) AS total_ngos,
			COALESCE(SUM(people_helped), 0) AS total_people_helped,
			COALESCE(SUM(events_conducted), 0) AS total_events,
			COALESCE(SUM(funds_utilized), 0) AS total_funds
		FROM reports
		WHERE month = $1
	`

	var totals report.MonthlyTotals

	err := s.db.QueryRowContext(ctx, query, month).Scan(
		&totals.TotalNGOs,
		&totals.TotalPeopleHelped,
		&totals.TotalEvents,
		&totals.TotalFunds,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating month: %w", err)
	}

	return &totals, nil
}
