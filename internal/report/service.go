package report

import (
	"context"
	"errors"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	Upsert(ctx context.Context, params Params) (*Report, error)
	AggregateMonth(ctx context.Context, month string) (*MonthlyTotals, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Params struct {
	NGOID           string
	Month           string
	PeopleHelped    int
	EventsConducted int
	FundsUtilized   float64
}

var ErrMissingFields = errors.New("ngo id and month are required")

// Submit writes a single monthly report, overwriting any previous
// report for the same (NGO id, month).
func (s *Service) Submit(ctx context.Context, params Params) (*Report, error) {
	if params.NGOID == "" || params.Month == "" {
		return nil, ErrMissingFields
	}

	return s.repo.Upsert(ctx, params)
}

// Dashboard returns the aggregate totals for a month. A month with no
// reports yields zero totals, not an error.
func (s *Service) Dashboard(ctx context.Context, month string) (*MonthlyTotals, error) {
	return s.repo.AggregateMonth(ctx, month)
}
