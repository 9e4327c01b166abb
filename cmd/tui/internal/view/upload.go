package view

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/openimpactlab/impactboard/internal/ingest"
)

const pollInterval = 500 * time.Millisecond

type uploadState int

const (
	uploadStateFilePick uploadState = iota
	uploadStateWatching
	uploadStateDone
)

type UploadModel struct {
	ingestService *ingest.Service
	runner        *ingest.Runner

	state      uploadState
	filePicker filepicker.Model
	bar        progress.Model

	jobID uuid.UUID
	job   *ingest.Job
	err   error
}

func NewUploadModel(ingestSvc *ingest.Service, runner *ingest.Runner) UploadModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return UploadModel{
		ingestService: ingestSvc,
		runner:        runner,
		filePicker:    fp,
		bar:           progress.New(progress.WithDefaultGradient()),
	}
}

func (m UploadModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m UploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			// The job keeps running server-side; leaving the view only
			// stops watching it.
			return m, Back
		}

	case jobStartedMsg:
		if msg.err != nil {
			m.state = uploadStateDone
			m.err = msg.err

			return m, nil
		}

		m.state = uploadStateWatching
		m.jobID = msg.jobID

		return m, m.pollCmd()

	case jobStatusMsg:
		if msg.err != nil {
			m.state = uploadStateDone
			m.err = msg.err

			return m, nil
		}

		m.job = msg.job
		if m.job.Terminal() {
			m.state = uploadStateDone
			return m, nil
		}

		return m, m.pollCmd()
	}

	if m.state != uploadStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = uploadStateWatching
		return m, m.startCmd(path)
	}

	return m, cmd
}

func (m UploadModel) View() string {
	switch m.state {
	case uploadStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a reports CSV to upload:\n\n" + m.filePicker.View(),
		)
	case uploadStateWatching:
		return m.viewProgress("Ingesting...")
	case uploadStateDone:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(
				lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
					"\n\n(Esc to go back)",
			)
		}

		return m.viewProgress(fmt.Sprintf("Job %s: %s", m.jobID, m.job.Status)) + "\n(Esc to go back)"
	}

	return ""
}

func (m UploadModel) viewProgress(title string) string {
	if m.job == nil {
		return lipgloss.NewStyle().Padding(2).Render(title + "\n\nStarting job...")
	}

	pct := 0.0
	if m.job.TotalRows > 0 {
		pct = float64(m.job.ProcessedRows) / float64(m.job.TotalRows)
	}

	s := fmt.Sprintf("%s\n\n%s\n\nrows: %d  ok: %d  failed: %d\n",
		title,
		m.bar.ViewAs(pct),
		m.job.ProcessedRows,
		m.job.SuccessRows,
		m.job.FailedRows,
	)

	// Show the tail of the error log so long failure lists stay readable.
	errs := m.job.Errors
	if len(errs) > 10 {
		errs = errs[len(errs)-10:]
	}

	for _, e := range errs {
		s += fmt.Sprintf("  row %d: %s\n", e.Row, e.Reason)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

// Messages

type jobStartedMsg struct {
	jobID uuid.UUID
	err   error
}

type jobStatusMsg struct {
	job *ingest.Job
	err error
}

// startCmd spools the selected file and hands it to the runner. The
// runner owns and removes the spool copy; the user's original file is
// left alone.
func (m UploadModel) startCmd(path string) tea.Cmd {
	return func() tea.Msg {
		src, err := os.Open(path)
		if err != nil {
			return jobStartedMsg{err: err}
		}
		defer src.Close()

		tmp, err := os.CreateTemp("", "upload-*.csv")
		if err != nil {
			return jobStartedMsg{err: err}
		}

		if _, err := io.Copy(tmp, src); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())

			return jobStartedMsg{err: err}
		}

		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return jobStartedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		jobID, err := m.ingestService.Accept(ctx)
		if err != nil {
			os.Remove(tmp.Name())
			return jobStartedMsg{err: err}
		}

		go m.runner.Run(jobID, tmp.Name())

		return jobStartedMsg{jobID: jobID}
	}
}

func (m UploadModel) pollCmd() tea.Cmd {
	jobID := m.jobID
	svc := m.ingestService

	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		job, err := svc.Status(ctx, jobID.String())
		if err != nil {
			return jobStatusMsg{err: err}
		}

		return jobStatusMsg{job: job}
	})
}
