package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pacer/internal/engine"
)

type trackerModel struct {
	engine *engine.Engine
	width  int
	height int

	snap engine.Snapshot
}

func newTrackerModel(e *engine.Engine) trackerModel {
	return trackerModel{
		engine: e,
		snap:   e.Snapshot(),
	}
}

func (m *trackerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m trackerModel) update(msg tea.Msg) (trackerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if err := m.engine.Tick(); err != nil {
			m.snap = m.engine.Snapshot()
			return m, errorStatus("Save error: %v", err)
		}
		m.snap = m.engine.Snapshot()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Smoke):
			if err := m.engine.SmokeCigarette(); err != nil {
				m.snap = m.engine.Snapshot()
				return m, errorStatus("Save error: %v", err)
			}
			m.snap = m.engine.Snapshot()
			return m, func() tea.Msg { return smokedMsg{} }

		case key.Matches(msg, keys.Cancel):
			if m.snap.CigaretteCount == 0 {
				return m, nil
			}
			if err := m.engine.CancelLastCigarette(); err != nil {
				m.snap = m.engine.Snapshot()
				return m, errorStatus("Save error: %v", err)
			}
			m.snap = m.engine.Snapshot()
			return m, func() tea.Msg { return cancelledMsg{} }

		case key.Matches(msg, keys.Reset):
			if err := m.engine.ResetDay(); err != nil {
				m.snap = m.engine.Snapshot()
				return m, errorStatus("Save error: %v", err)
			}
			m.snap = m.engine.Snapshot()
			return m, func() tea.Msg { return dayResetMsg{} }

		case key.Matches(msg, keys.Dismiss):
			if m.snap.SuggestLoosen {
				m.engine.ClearSuggestion()
				m.snap = m.engine.Snapshot()
			}
			return m, nil
		}
	}
	return m, nil
}

func errorStatus(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf(format, args...), isError: true}
	}
}

func (m trackerModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}

	contentWidth := m.width - 4

	countdownPanel := m.renderCountdownPanel(contentWidth)
	todayPanel := m.renderTodayPanel(contentWidth)

	sections := []string{countdownPanel, todayPanel}
	if m.snap.SuggestLoosen {
		sections = append(sections, m.renderSuggestionPanel(contentWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m trackerModel) renderCountdownPanel(w int) string {
	var timeDisplay, indicator string

	switch {
	case m.snap.WindowClosed:
		timeDisplay = countdownGatedStyle.Width(w - 6).Render(formatCountdown(m.snap.Remaining))
		indicator = mutedStyle.Render("◌  OUTSIDE SMOKING HOURS")
	case m.snap.Overrun():
		timeDisplay = countdownDoneStyle.Width(w - 6).Render(formatCountdown(m.snap.Remaining))
		indicator = successStyle.Render("●  YOU MAY SMOKE")
	default:
		timeDisplay = countdownStyle.Width(w - 6).Render(formatCountdown(m.snap.Remaining))
		indicator = warningStyle.Render("◷  WAIT")
	}

	schedule := mutedStyle.Render(fmt.Sprintf("last %s   next %s   interval %s",
		formatClock(m.snap.LastCigarette),
		formatClock(m.snap.NextCigarette),
		formatDuration(m.snap.Interval),
	))

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		schedule,
	)
	if m.snap.Overrun() && !m.snap.WindowClosed {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (m trackerModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today")

	count := fmt.Sprintf("  %-16s %s", "Cigarettes", highlightStyle.Render(fmt.Sprintf("%d", m.snap.CigaretteCount)))
	saved := fmt.Sprintf("  %-16s %s", "Money saved", successStyle.Render(formatMoney(m.snap.MoneySavedCents)))
	rows := []string{title, count, saved}

	if m.snap.MeanHeldMs > 0 {
		rows = append(rows, fmt.Sprintf("  %-16s %s", "Avg wait held", highlightStyle.Render(formatMs(m.snap.MeanHeldMs))))
	}

	rows = append(rows, "", mutedStyle.Render("s: smoke  u: undo  r: reset day"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m trackerModel) renderSuggestionPanel(w int) string {
	text := warningStyle.Render("You keep waiting well past the timer. Consider loosening your goal in Settings.")
	hint := mutedStyle.Render("d: dismiss")
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, text, hint))
}
