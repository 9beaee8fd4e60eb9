package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pacer/internal/pacing"
	"github.com/sadopc/pacer/internal/store"
)

type historyMode int

const (
	historyDaily historyMode = iota
	historyWeekly
	historyMonthly
)

var historyModeNames = []string{"Daily", "Weekly", "Monthly"}

type historyModel struct {
	store  *store.Store
	width  int
	height int

	mode    historyMode
	daily   []pacing.DailyReport // most recent first
	rows    []pacing.DailyReport // reports for the active mode
	offset  int                  // scroll offset into rows
	chart   barchart.Model
	chartOk bool
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type historyDataMsg struct {
	daily []pacing.DailyReport
}

func (m historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		daily, _ := m.store.ListReports(pacing.ReportDaily)
		return historyDataMsg{daily: daily}
	}
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		m.daily = msg.daily
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Tab):
			m.mode = (m.mode + 1) % 3
			m.offset = 0
			m.rebuild()
			return m, nil
		case key.Matches(msg, keys.Up):
			if m.offset > 0 {
				m.offset--
			}
			return m, nil
		case key.Matches(msg, keys.Down):
			if m.offset < len(m.rows)-1 {
				m.offset++
			}
			return m, nil
		}
	}
	return m, nil
}

// rebuild derives the active mode's rows and the daily bar chart from
// the loaded daily reports. Weekly and monthly rows are always
// recomputed, never read from storage.
func (m *historyModel) rebuild() {
	switch m.mode {
	case historyWeekly:
		m.rows = pacing.Aggregate(m.daily, pacing.ReportWeekly)
	case historyMonthly:
		m.rows = pacing.Aggregate(m.daily, pacing.ReportMonthly)
	default:
		m.rows = m.daily
	}
	m.buildChart()
}

func (m *historyModel) buildChart() {
	chartWidth := max(m.width-8, 20)
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)
	m.chartOk = false

	byDate := make(map[string]pacing.DailyReport, len(m.daily))
	for _, r := range m.daily {
		byDate[r.Date] = r
	}

	// Last 14 days, oldest first.
	today := time.Now()
	var bars []barchart.BarData
	for i := 13; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		dateStr := d.Format("2006-01-02")
		label := d.Format("02")

		value := 0.0
		style := lipgloss.NewStyle().Foreground(colorSubtle)
		if r, ok := byDate[dateStr]; ok && r.CigarettesSmoked > 0 {
			value = float64(r.CigarettesSmoked)
			style = lipgloss.NewStyle().Foreground(colorPrimary)
			m.chartOk = true
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: dateStr, Value: value, Style: style}},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m historyModel) view() string {
	w := m.width - 4

	var tabs []string
	for i, name := range historyModeNames {
		if historyMode(i) == m.mode {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	var sections []string
	sections = append(sections, header)

	if m.mode == historyDaily {
		sections = append(sections, "", titleStyle.Render("Last 14 days"), m.chart.View())
		if !m.chartOk {
			sections = append(sections, mutedStyle.Render("  No smoking recorded yet"))
		}
	}

	sections = append(sections, "", m.renderTable(w), "",
		mutedStyle.Render("  ↑/↓: scroll  tab: switch period"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m historyModel) renderTable(w int) string {
	if len(m.rows) == 0 {
		return mutedStyle.Render("  No reports for this period")
	}

	var rows []string
	header := mutedStyle.Render(fmt.Sprintf("  %-12s %6s %12s %12s %10s",
		"Date", "Cigs", "Avg wait", "Avg over", "Saved"))
	rows = append(rows, header)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 56))))

	visible := 10
	end := min(m.offset+visible, len(m.rows))
	for _, r := range m.rows[m.offset:end] {
		style := normalItemStyle
		if r.CigarettesSmoked == 0 {
			style = mutedStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("  %-12s %6d %12s %12s %10s",
			r.Date,
			r.CigarettesSmoked,
			formatMs(r.AvgIntervalMs),
			formatMs(r.AvgTimeExceededMs),
			formatMoney(r.MoneySavedCents),
		)))
	}

	if end < len(m.rows) {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", len(m.rows)-end)))
	}

	return strings.Join(rows, "\n")
}
