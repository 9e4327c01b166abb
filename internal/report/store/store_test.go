package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openimpactlab/impactboard/internal/report"
	"github.com/openimpactlab/impactboard/internal/report/store"
)

func TestStore_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO reports .+ ON CONFLICT \(ngo_id, month\)`).
		WithArgs("ngo-001", "2024-01", 10, 2, 500.0).
		WillReturnRows(
			sqlmock.NewRows([]string{"ngo_id", "month", "people_helped", "events_conducted", "funds_utilized"}).
				AddRow("ngo-001", "2024-01", 10, 2, 500.0),
		)

	s := store.New(db)
	got, err := s.Upsert(context.Background(), report.Params{
		NGOID:           "ngo-001",
		Month:           "2024-01",
		PeopleHelped:    10,
		EventsConducted: 2,
		FundsUtilized:   500,
	})

	require.NoError(t, err)
	assert.Equal(t, "ngo-001", got.NGOID)
	assert.Equal(t, "2024-01", got.Month)
	assert.Equal(t, 10, got.PeopleHelped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Upsert_Error(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO reports`).
		WillReturnError(errors.New("connection refused"))

	s := store.New(db)
	got, err := s.Upsert(context.Background(), report.Params{NGOID: "x", Month: "2024-01"})

	assert.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "connection refused")
}

func TestStore_AggregateMonth(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(DISTINCT ngo_id\)`).
		WithArgs("2024-01").
		WillReturnRows(
			sqlmock.NewRows([]string{"total_ngos", "total_people_helped", "total_events", "total_funds"}).
				AddRow(3, 120, 7, 1500.50),
		)

	s := store.New(db)
	got, err := s.AggregateMonth(context.Background(), "2024-01")

	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalNGOs)
	assert.Equal(t, int64(120), got.TotalPeopleHelped)
	assert.Equal(t, int64(7), got.TotalEvents)
	assert.InDelta(t, 1500.50, got.TotalFunds, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AggregateMonth_EmptyMonth(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(DISTINCT ngo_id\)`).
		WithArgs("1999-01").
		WillReturnRows(
			sqlmock.NewRows([]string{"total_ngos", "total_people_helped", "total_events", "total_funds"}).
				AddRow(0, 0, 0, 0),
		)

	s := store.New(db)
	got, err := s.AggregateMonth(context.Background(), "1999-01")

	require.NoError(t, err)
	assert.Zero(t, got.TotalNGOs)
	assert.Zero(t, got.TotalFunds)
}
