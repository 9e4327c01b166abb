package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/openimpactlab/impactboard/cmd/tui/internal/view"
	"github.com/openimpactlab/impactboard/internal/config"
	"github.com/openimpactlab/impactboard/internal/database"
	"github.com/openimpactlab/impactboard/internal/ingest"
	ingestStore "github.com/openimpactlab/impactboard/internal/ingest/store"
	"github.com/openimpactlab/impactboard/internal/report"
	reportStore "github.com/openimpactlab/impactboard/internal/report/store"
)

type model struct {
	reportService *report.Service
	ingestService *ingest.Service
	runner        *ingest.Runner

	currentView View

	uploadView    view.UploadModel
	dashboardView view.DashboardModel
}

type View int

const (
	ViewMenu      View = 0
	ViewUpload    View = 1
	ViewDashboard View = 2
)

func initialModel() model {
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

	reports := reportStore.New(db)
	ledger := ingestStore.New(db)

	reportSvc := report.NewService(reports)
	ingestSvc := ingest.NewService(ledger)
	runner := ingest.NewRunner(ledger, reports, ingest.Options{
		MaxRows:    cfg.Ingest.MaxRows,
		RowTimeout: cfg.Ingest.RowTimeout,
		JobTimeout: cfg.Ingest.JobTimeout,
	})

	return model{
		reportService: reportSvc,
		ingestService: ingestSvc,
		runner:        runner,
		currentView:   ViewMenu,
		uploadView:    view.NewUploadModel(ingestSvc, runner),
		dashboardView: view.NewDashboardModel(reportSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewUpload
				m.uploadView = view.NewUploadModel(m.ingestService, m.runner)

				return m, m.uploadView.Init()
			case "2":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.reportService)

				return m, m.dashboardView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewUpload:
		var newModel tea.Model
		newModel, cmd = m.uploadView.Update(msg)
		m.uploadView = newModel.(view.UploadModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Impactboard TUI\n\n" +
				"1. Upload Monthly Reports CSV\n" +
				"2. Monthly Dashboard\n\n" +
				"q. Quit",
		)
	case ViewUpload:
		return m.uploadView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
