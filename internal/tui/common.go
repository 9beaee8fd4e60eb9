package tui

import (
	"fmt"
	"time"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTracker viewState = iota
	viewHistory
	viewStats
	viewSettings
)

var viewNames = []string{"Tracker", "History", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type smokedMsg struct{}

type cancelledMsg struct{}

type dayResetMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatCountdown renders the remaining wait, or the overrun counting
// up once the wait has elapsed.
func formatCountdown(remaining time.Duration) string {
	if remaining < 0 {
		return "+" + formatDuration(-remaining)
	}
	return formatDuration(remaining)
}

func formatMs(ms int64) string {
	return formatDuration(time.Duration(ms) * time.Millisecond)
}

func formatMoney(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.Local().Format("15:04")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
