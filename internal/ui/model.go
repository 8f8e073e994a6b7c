package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/equityforge/captable/internal/captable"
	"github.com/equityforge/captable/internal/export"
)

type viewTab int

const (
	tabStages viewTab = iota
	tabReturns
	tabSensitivity
	tabCount
)

var tabNames = [tabCount]string{"Cap Table", "Returns", "Sensitivity"}

// Model is the bubbletea model for browsing one computed analysis.
type Model struct {
	result *export.Result
	keys   KeyMap
	tables [tabCount]table.Model
	active viewTab
	width  int
	height int
}

// NewModel builds the viewer for a finished calculation pass.
func NewModel(result *export.Result) *Model {
	m := &Model{
		result: result,
		keys:   DefaultKeyMap(),
	}
	m.tables[tabStages] = newStagesTable(result.Stages)
	m.tables[tabReturns] = newReturnsTable(result.Returns)
	m.tables[tabSensitivity] = newSensitivityTable(result.Sensitivity)
	m.tables[m.active].Focus()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.tables {
			m.tables[i].SetHeight(max(4, msg.Height-10))
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.switchTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.switchTab(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tables[m.active], cmd = m.tables[m.active].Update(msg)
	return m, cmd
}

func (m *Model) switchTab(delta int) {
	m.tables[m.active].Blur()
	m.active = viewTab((int(m.active) + delta + int(tabCount)) % int(tabCount))
	m.tables[m.active].Focus()
}

func (m *Model) View() string {
	var b strings.Builder

	company := m.result.Company
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s | exit %d at %s %s",
		company.Name, company.ExitYear, company.Currency, formatAmount(company.ExitValuation))))
	b.WriteString("\n")

	tabs := make([]string, 0, tabCount)
	for i, name := range tabNames {
		if viewTab(i) == m.active {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	b.WriteString(m.tables[m.active].View())
	b.WriteString("\n")

	if m.result.Returns != nil {
		b.WriteString(m.summaryLine())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab: switch view • ↑/↓: scroll • q: quit"))
	return b.String()
}

func (m *Model) summaryLine() string {
	r := m.result.Returns
	irr := gainStyle
	if r.WeightedIRRPercent < 0 {
		irr = lossStyle
	}
	line := fmt.Sprintf("founders %s • investors %s • weighted IRR %s",
		formatAmount(r.FounderReturn),
		formatAmount(r.InvestorReturn),
		irr.Render(fmt.Sprintf("%.1f%%", r.WeightedIRRPercent)))
	return summaryStyle.Render(line)
}

func newStagesTable(stages []captable.OwnershipStage) table.Model {
	columns := []table.Column{
		{Title: "Stage", Width: 14},
		{Title: "Year", Width: 6},
		{Title: "Total Shares", Width: 14},
		{Title: "Founders %", Width: 11},
		{Title: "Pool %", Width: 8},
		{Title: "Investors %", Width: 12},
		{Title: "Post-Money", Width: 14},
	}

	rows := make([]table.Row, 0, len(stages))
	for _, s := range stages {
		rows = append(rows, table.Row{
			s.Label,
			fmt.Sprintf("%d", s.Year),
			formatShares(s.TotalShares),
			fmt.Sprintf("%.1f", s.FounderOwnership),
			fmt.Sprintf("%.1f", s.OptionPoolOwnership),
			fmt.Sprintf("%.1f", s.InvestorOwnership),
			formatAmount(s.PostMoneyValuation),
		})
	}

	return newTable(columns, rows)
}

func newReturnsTable(returns *captable.ReturnsAnalysis) table.Model {
	columns := []table.Column{
		{Title: "Round", Width: 12},
		{Title: "Year", Width: 6},
		{Title: "Invested", Width: 13},
		{Title: "Exit Value", Width: 13},
		{Title: "Multiple", Width: 9},
		{Title: "IRR %", Width: 8},
		{Title: "Held", Width: 6},
	}

	var rows []table.Row
	if returns != nil {
		for _, rr := range returns.RoundReturns {
			rows = append(rows, table.Row{
				string(rr.RoundType),
				fmt.Sprintf("%d", rr.Year),
				formatAmount(rr.Investment),
				formatAmount(rr.ExitValue),
				fmt.Sprintf("%.2fx", rr.MultipleOfMoney),
				fmt.Sprintf("%.1f", rr.IRRPercent),
				fmt.Sprintf("%dy", rr.YearsHeld),
			})
		}
	}

	return newTable(columns, rows)
}

func newSensitivityTable(results []captable.ScenarioResult) table.Model {
	columns := []table.Column{
		{Title: "Scenario", Width: 10},
		{Title: "Pre-Money", Width: 13},
		{Title: "Multiple", Width: 9},
		{Title: "IRR %", Width: 8},
		{Title: "Founder Return", Width: 15},
		{Title: "Status", Width: 24},
	}

	rows := make([]table.Row, 0, len(results))
	for _, sr := range results {
		status := "ok"
		if sr.Err != "" {
			status = warnStyle.Render(sr.Err)
		}
		rows = append(rows, table.Row{
			sr.Label,
			formatAmount(sr.PreMoneyValuation),
			fmt.Sprintf("%.2fx", sr.MultipleOfMoney),
			fmt.Sprintf("%.1f", sr.IRRPercent),
			formatAmount(sr.FounderReturn),
			status,
		})
	}

	return newTable(columns, rows)
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(12),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(Cyan)
	styles.Selected = styles.Selected.Foreground(Base2).Background(lipgloss.Color("#262831"))
	t.SetStyles(styles)
	return t
}

// formatAmount renders a monetary value with thousands separators; display
// formatting lives here, never in the engine.
func formatAmount(v float64) string {
	return groupThousands(fmt.Sprintf("%.0f", v))
}

func formatShares(v int64) string {
	return groupThousands(fmt.Sprintf("%d", v))
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
