package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/sadopc/pacer/internal/pacing"
	"github.com/sadopc/pacer/internal/store"
)

type statsModel struct {
	store  *store.Store
	width  int
	height int

	daily      []pacing.DailyReport
	meanHeldMs int64
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{store: s}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type statsDataMsg struct {
	daily      []pacing.DailyReport
	meanHeldMs int64
}

func (m statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		daily, _ := m.store.ListReports(pacing.ReportDaily)
		mean, _ := m.store.MeanHeldInterval()
		return statsDataMsg{daily: daily, meanHeldMs: mean}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(statsDataMsg); ok {
		m.daily = msg.daily
		m.meanHeldMs = msg.meanHeldMs
	}
	return m, nil
}

func (m statsModel) view() string {
	w := m.width - 4

	title := titleStyle.Render("Stats")

	trend := m.renderTrend(w)
	summary := m.renderSummary()

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", trend, "", summary),
	)
}

// renderTrend plots cigarettes per day over the last 30 days.
func (m statsModel) renderTrend(w int) string {
	byDate := make(map[string]pacing.DailyReport, len(m.daily))
	for _, r := range m.daily {
		byDate[r.Date] = r
	}

	today := time.Now()
	data := make([]float64, 0, 30)
	any := false
	for i := 29; i >= 0; i-- {
		dateStr := today.AddDate(0, 0, -i).Format("2006-01-02")
		v := 0.0
		if r, ok := byDate[dateStr]; ok {
			v = float64(r.CigarettesSmoked)
			if r.CigarettesSmoked > 0 {
				any = true
			}
		}
		data = append(data, v)
	}

	if !any {
		return mutedStyle.Render("  No smoking recorded in the last 30 days")
	}

	graphWidth := max(min(w-12, 60), 20)
	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(graphWidth),
		asciigraph.Caption("cigarettes per day, last 30 days"),
	)
	return graph
}

func (m statsModel) renderSummary() string {
	var totalCigs int
	var totalSaved int64
	for _, r := range m.daily {
		totalCigs += r.CigarettesSmoked
		totalSaved += r.MoneySavedCents
	}

	over7 := pacing.MeanExceeded(m.daily, 7)
	over30 := pacing.MeanExceeded(m.daily, 30)

	rows := []string{
		fmt.Sprintf("  %-24s %s", "Total cigarettes", highlightStyle.Render(fmt.Sprintf("%d", totalCigs))),
		fmt.Sprintf("  %-24s %s", "Total money saved", successStyle.Render(formatMoney(totalSaved))),
		fmt.Sprintf("  %-24s %s", "Avg wait held", highlightStyle.Render(formatMs(m.meanHeldMs))),
		fmt.Sprintf("  %-24s %s", "Avg overrun (7 days)", highlightStyle.Render(formatMs(over7))),
		fmt.Sprintf("  %-24s %s", "Avg overrun (30 days)", highlightStyle.Render(formatMs(over30))),
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
