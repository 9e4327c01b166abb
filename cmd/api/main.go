package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/openimpactlab/impactboard/internal/config"
	"github.com/openimpactlab/impactboard/internal/database"
	impactHttp "github.com/openimpactlab/impactboard/internal/http"
	ingestHandler "github.com/openimpactlab/impactboard/internal/http/ingest"
	reportHandler "github.com/openimpactlab/impactboard/internal/http/report"
	"github.com/openimpactlab/impactboard/internal/ingest"
	ingestStore "github.com/openimpactlab/impactboard/internal/ingest/store"
	"github.com/openimpactlab/impactboard/internal/report"
	reportStore "github.com/openimpactlab/impactboard/internal/report/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		reports = reportStore.New(db)
		ledger  = ingestStore.New(db)

		reportService = report.NewService(reports)
		ingestService = ingest.NewService(ledger)
		runner        = ingest.NewRunner(ledger, reports, ingest.Options{
			MaxRows:    cfg.Ingest.MaxRows,
			RowTimeout: cfg.Ingest.RowTimeout,
			JobTimeout: cfg.Ingest.JobTimeout,
		})
	)

	var (
		reportH = reportHandler.NewHandler(reportService)
		ingestH = ingestHandler.NewHandler(ingestService, runner, cfg.Upload.Dir, cfg.Upload.MaxBytes)
	)

	router := impactHttp.New(db, reportH, ingestH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
