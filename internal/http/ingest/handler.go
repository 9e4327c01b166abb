package ingest

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openimpactlab/impactboard/internal/http/respond"
	"github.com/openimpactlab/impactboard/internal/ingest"
)

type Handler struct {
	svc    *ingest.Service
	runner *ingest.Runner

	uploadDir string
	maxBytes  int64
}

func NewHandler(svc *ingest.Service, runner *ingest.Runner, uploadDir string, maxBytes int64) *Handler {
	return &Handler{
		svc:       svc,
		runner:    runner,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/reports/upload", h.upload)
	r.Get("/job-status/{jobID}", h.status)
}

type uploadResponse struct {
	Success bool      `json:"success"`
	JobID   uuid.UUID `json:"jobId"`
}

// upload accepts the multipart CSV, registers a PENDING job, and
// returns the job id immediately; ingestion runs in the background and
// the client polls /job-status for progress.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "CSV file is required")
		return
	}
	defer file.Close()

	path, err := h.saveUpload(file)
	if err != nil {
		slog.Error("failed to save upload", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to store uploaded file")

		return
	}

	jobID, err := h.svc.Accept(r.Context())
	if err != nil {
		os.Remove(path)
		respond.Error(w, http.StatusInternalServerError, err.Error())

		return
	}

	go h.runner.Run(jobID, path)

	respond.JSON(w, http.StatusOK, uploadResponse{
		Success: true,
		JobID:   jobID,
	})
}

// saveUpload spools the multipart part to a file the runner will own
// (and remove) for the job's lifetime.
func (h *Handler) saveUpload(file io.Reader) (string, error) {
	tmp, err := os.CreateTemp(h.uploadDir, "upload-*.csv")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return "", err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

type jobDTO struct {
	ID            uuid.UUID         `json:"id"`
	Status        ingest.Status     `json:"status"`
	TotalRows     int               `json:"total_rows"`
	ProcessedRows int               `json:"processed_rows"`
	SuccessRows   int               `json:"success_rows"`
	FailedRows    int               `json:"failed_rows"`
	ErrorLog      []ingest.RowError `json:"error_log"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Job     jobDTO `json:"job"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.Status(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		if errors.Is(err, ingest.ErrJobNotFound) {
			respond.Error(w, http.StatusNotFound, "Job not found")
			return
		}

		respond.Error(w, http.StatusInternalServerError, err.Error())

		return
	}

	errorLog := job.Errors
	if errorLog == nil {
		errorLog = []ingest.RowError{}
	}

	respond.JSON(w, http.StatusOK, statusResponse{
		Success: true,
		Job: jobDTO{
			ID:            job.ID,
			Status:        job.Status,
			TotalRows:     job.TotalRows,
			ProcessedRows: job.ProcessedRows,
			SuccessRows:   job.SuccessRows,
			FailedRows:    job.FailedRows,
			ErrorLog:      errorLog,
		},
	})
}
