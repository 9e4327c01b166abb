package report_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	reportHandler "github.com/openimpactlab/impactboard/internal/http/report"
	"github.com/openimpactlab/impactboard/internal/report"
)

func newRouter(t *testing.T) (chi.Router, *report.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	r := chi.NewRouter()
	reportHandler.NewHandler(report.NewService(repo)).Routes(r)

	return r, repo
}

func TestHandler_Submit(t *testing.T) {
	r, repo := newRouter(t)

	repo.EXPECT().
		Upsert(gomock.Any(), report.Params{
			NGOID:           "ngo-001",
			Month:           "2024-01",
			PeopleHelped:    10,
			EventsConducted: 2,
			FundsUtilized:   500,
		}).
		Return(&report.Report{
			NGOID:           "ngo-001",
			Month:           "2024-01",
			PeopleHelped:    10,
			EventsConducted: 2,
			FundsUtilized:   500,
		}, nil)

	body := `{"ngoId":"ngo-001","month":"2024-01","peopleHelped":10,"eventsConducted":2,"fundsUtilized":500}`
	req := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader(body))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Report  struct {
			NGOID        string `json:"ngo_id"`
			PeopleHelped int    `json:"people_helped"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ngo-001", resp.Report.NGOID)
	assert.Equal(t, 10, resp.Report.PeopleHelped)
}

func TestHandler_Submit_MissingFields(t *testing.T) {
	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "NoNGOID", body: `{"month":"2024-01","peopleHelped":10,"eventsConducted":2,"fundsUtilized":500}`},
		{name: "NoMonth", body: `{"ngoId":"x","peopleHelped":10,"eventsConducted":2,"fundsUtilized":500}`},
		{name: "NoPeopleHelped", body: `{"ngoId":"x","month":"2024-01","eventsConducted":2,"fundsUtilized":500}`},
		{name: "NullFunds", body: `{"ngoId":"x","month":"2024-01","peopleHelped":10,"eventsConducted":2,"fundsUtilized":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRouter(t)

			req := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestHandler_Submit_ZeroValuesAccepted(t *testing.T) {
	r, repo := newRouter(t)

	repo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(&report.Report{NGOID: "x", Month: "2024-01"}, nil)

	// Zero is a value, not an absence.
	body := `{"ngoId":"x","month":"2024-01","peopleHelped":0,"eventsConducted":0,"fundsUtilized":0}`
	req := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader(body))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Dashboard(t *testing.T) {
	r, repo := newRouter(t)

	repo.EXPECT().
		AggregateMonth(gomock.Any(), "2024-01").
		Return(&report.MonthlyTotals{
			TotalNGOs:         3,
			TotalPeopleHelped: 120,
			TotalEvents:       7,
			TotalFunds:        1500.50,
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?month=2024-01", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Month   string `json:"month"`
		Data    struct {
			TotalNGOs  int     `json:"total_ngos"`
			TotalFunds float64 `json:"total_funds"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "2024-01", resp.Month)
	assert.Equal(t, 3, resp.Data.TotalNGOs)
	assert.InDelta(t, 1500.50, resp.Data.TotalFunds, 0.001)
}

func TestHandler_Dashboard_MissingMonth(t *testing.T) {
	r, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Month query parameter is required")
}
