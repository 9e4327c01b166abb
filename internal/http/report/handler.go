package report

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openimpactlab/impactboard/internal/http/respond"
	"github.com/openimpactlab/impactboard/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/report", h.submit)
	r.Get("/dashboard", h.dashboard)
}

type submitRequest struct {
	NGOID           string   `json:"ngoId"`
	Month           string   `json:"month"`
	PeopleHelped    *int     `json:"peopleHelped"`
	EventsConducted *int     `json:"eventsConducted"`
	FundsUtilized   *float64 `json:"fundsUtilized"`
}

type reportDTO struct {
	NGOID           string  `json:"ngo_id"`
	Month           string  `json:"month"`
	PeopleHelped    int     `json:"people_helped"`
	EventsConducted int     `json:"events_conducted"`
	FundsUtilized   float64 `json:"funds_utilized"`
}

type submitResponse struct {
	Success bool      `json:"success"`
	Report  reportDTO `json:"report"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	// Pointer fields distinguish an absent metric from a zero one.
	if req.NGOID == "" || req.Month == "" ||
		req.PeopleHelped == nil || req.EventsConducted == nil || req.FundsUtilized == nil {
		respond.Error(w, http.StatusBadRequest, "All fields are required")
		return
	}

	rep, err := h.svc.Submit(r.Context(), report.Params{
		NGOID:           req.NGOID,
		Month:           req.Month,
		PeopleHelped:    *req.PeopleHelped,
		EventsConducted: *req.EventsConducted,
		FundsUtilized:   *req.FundsUtilized,
	})
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.JSON(w, http.StatusOK, submitResponse{
		Success: true,
		Report:  toReportDTO(rep),
	})
}

type dashboardData struct {
	TotalNGOs         int     `json:"total_ngos"`
	TotalPeopleHelped int64   `json:"total_people_helped"`
	TotalEvents       int64   `json:"total_events"`
	TotalFunds        float64 `json:"total_funds"`
}

type dashboardResponse struct {
	Success bool          `json:"success"`
	Month   string        `json:"month"`
	Data    dashboardData `json:"data"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		respond.Error(w, http.StatusBadRequest, "Month query parameter is required (YYYY-MM)")
		return
	}

	totals, err := h.svc.Dashboard(r.Context(), month)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}

	respond.JSON(w, http.StatusOK, dashboardResponse{
		Success: true,
		Month:   month,
		Data: dashboardData{
			TotalNGOs:         totals.TotalNGOs,
			TotalPeopleHelped: totals.TotalPeopleHelped,
			TotalEvents:       totals.TotalEvents,
			TotalFunds:        totals.TotalFunds,
		},
	})
}

func toReportDTO(r *report.Report) reportDTO {
	return reportDTO{
		NGOID:           r.NGOID,
		Month:           r.Month,
		PeopleHelped:    r.PeopleHelped,
		EventsConducted: r.EventsConducted,
		FundsUtilized:   r.FundsUtilized,
	}
}
