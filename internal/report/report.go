package report

// Report is one organization's impact metrics for one month. At most
// one Report exists per (NGO id, month); re-submissions replace the
// previous values.
type Report struct {
	NGOID           string
	Month           string // YYYY-MM
	PeopleHelped    int
	EventsConducted int
	FundsUtilized   float64
}

// MonthlyTotals aggregates all reports submitted for a single month.
type MonthlyTotals struct {
	TotalNGOs         int
	TotalPeopleHelped int64
	TotalEvents       int64
	TotalFunds        float64
}
