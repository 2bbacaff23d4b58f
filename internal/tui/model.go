// Package tui implements the interactive dashboard: a table of subscriptions
// with spending totals, upcoming events, and budget alerts.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/subtrackr/subtrackr/internal/money"
	"github.com/subtrackr/subtrackr/internal/service"
)

const upcomingWindowDays = 7

// Model is the bubbletea model for the dashboard.
type Model struct {
	svc     *service.Service
	err     error
	table   table.Model
	alerts  []string
	events  []service.Event
	monthly float64
	annual  float64
	width   int
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	totalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	eventStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// New builds the dashboard model around a shared service instance.
func New(svc *service.Service) Model {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Cost", Width: 12},
		{Title: "Cycle", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Status", Width: 10},
		{Title: "Next Renewal", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	t.SetStyles(styles)

	m := Model{svc: svc, table: t}
	m.refresh()
	return m
}

// refresh reloads rows and aggregates from the service.
func (m *Model) refresh() {
	subs := m.svc.GetAll()
	rows := make([]table.Row, 0, len(subs))
	for i := range subs {
		sub := &subs[i]
		next := "-"
		if sub.NextRenewalDate != nil {
			next = sub.NextRenewalDate.Format("2006-01-02")
		}
		rows = append(rows, table.Row{
			sub.Name,
			fmt.Sprintf("%.2f %s", sub.Cost, sub.Currency),
			string(sub.BillingCycle),
			sub.DisplayCategory(),
			string(sub.Status),
			next,
		})
	}
	m.table.SetRows(rows)

	m.err = nil
	if m.monthly, m.err = m.svc.CostPerPeriod(money.PeriodMonthly); m.err != nil {
		return
	}
	if m.annual, m.err = m.svc.CostPerPeriod(money.PeriodAnnually); m.err != nil {
		return
	}
	if m.alerts, m.err = m.svc.CheckBudgetAlerts(); m.err != nil {
		return
	}
	m.events, m.err = m.svc.UpcomingEvents(upcomingWindowDays)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetHeight(max(4, msg.Height-12))
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	s := titleStyle.Render("subtrackr") + "\n\n"
	s += m.table.View() + "\n\n"
	s += totalStyle.Render(fmt.Sprintf("Monthly: %.2f    Annual: %.2f", m.monthly, m.annual)) + "\n"

	if m.err != nil {
		s += errStyle.Render("error: "+m.err.Error()) + "\n"
	}
	for _, event := range m.events {
		label := "renews"
		if event.Kind == service.EventTrialEnd {
			label = "trial ends"
		}
		s += eventStyle.Render(fmt.Sprintf("• %s %s on %s",
			event.Subscription.Name, label, event.Date.Format("2006-01-02"))) + "\n"
	}
	for _, alert := range m.alerts {
		s += alertStyle.Render("! "+alert) + "\n"
	}

	s += helpStyle.Render("r refresh • q quit")
	return s
}

// Run starts the dashboard and blocks until the user quits.
func Run(svc *service.Service) error {
	_, err := tea.NewProgram(New(svc), tea.WithAltScreen()).Run()
	return err
}
