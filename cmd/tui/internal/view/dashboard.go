package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/openimpactlab/impactboard/internal/report"
)

type dashboardState int

const (
	dashboardStateForm dashboardState = iota
	dashboardStateLoading
	dashboardStateResult
)

type DashboardModel struct {
	reportService *report.Service

	state   dashboardState
	form    *huh.Form
	spinner spinner.Model

	month  string
	totals *report.MonthlyTotals
	err    error
}

func NewDashboardModel(svc *report.Service) DashboardModel {
	m := DashboardModel{
		reportService: svc,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("month").
				Title("Month").
				Description("YYYY-MM").
				Value(&m.month),
		),
	)

	return m
}

func (m DashboardModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case totalsMsg:
		m.state = dashboardStateResult
		m.totals = msg.totals
		m.err = msg.err

		return m, nil

	case spinner.TickMsg:
		if m.state == dashboardStateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)

			return m, cmd
		}

		return m, nil
	}

	if m.state != dashboardStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.state = dashboardStateLoading
		m.month = m.form.GetString("month")

		return m, tea.Batch(m.spinner.Tick, m.fetchCmd(m.month))
	}

	return m, cmd
}

func (m DashboardModel) View() string {
	switch m.state {
	case dashboardStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case dashboardStateLoading:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Loading dashboard for %s...", m.spinner.View(), m.month),
		)
	case dashboardStateResult:
		return m.viewResult()
	}

	return ""
}

func (m DashboardModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
				"\n\n(Esc to go back)",
		)
	}

	header := lipgloss.NewStyle().Bold(true).Render("Dashboard " + m.month)

	return style.Render(fmt.Sprintf(
		"%s\n\nNGOs reporting:  %d\nPeople helped:   %d\nEvents held:     %d\nFunds utilized:  %s\n\n(Esc to go back)",
		header,
		m.totals.TotalNGOs,
		m.totals.TotalPeopleHelped,
		m.totals.TotalEvents,
		FormatFunds(m.totals.TotalFunds),
	))
}

type totalsMsg struct {
	totals *report.MonthlyTotals
	err    error
}

func (m DashboardModel) fetchCmd(month string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		totals, err := m.reportService.Dashboard(ctx, month)

		return totalsMsg{totals: totals, err: err}
	}
}
