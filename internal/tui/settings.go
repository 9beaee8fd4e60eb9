package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pacer/internal/engine"
	"github.com/sadopc/pacer/internal/pacing"
)

type settingsModel struct {
	engine *engine.Engine
	width  int
	height int

	current    pacing.Settings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	price       *string
	perPack     *string
	mode        *string
	quota       *string
	windowStart *string
	windowEnd   *string
	spacing     *string
	usualDaily  *string
}

func newSettingsModel(e *engine.Engine) settingsModel {
	pr, pp, md, qt := "", "", "", ""
	ws, we, sp, ud := "", "", "", ""
	return settingsModel{
		engine:      e,
		current:     e.Snapshot().Settings,
		price:       &pr,
		perPack:     &pp,
		mode:        &md,
		quota:       &qt,
		windowStart: &ws,
		windowEnd:   &we,
		spacing:     &sp,
		usualDaily:  &ud,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m settingsModel) refresh() tea.Cmd {
	// Settings are read straight from the engine on each update.
	return nil
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter):
			return m.showForm()
		}
	}
	m.current = m.engine.Snapshot().Settings
	return m, nil
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	s := m.engine.Snapshot().Settings
	m.current = s

	*m.price = formatMoney(s.PackPriceCents)
	*m.perPack = strconv.Itoa(s.CigarettesPerPack)
	*m.mode = string(s.Mode)
	*m.quota = strconv.Itoa(s.DailyQuota)
	*m.windowStart = minutesToClock(s.WindowStartMin)
	*m.windowEnd = minutesToClock(s.WindowEndMin)
	*m.spacing = fmt.Sprintf("%d:%02d", s.SpacingHours, s.SpacingMinutes)
	*m.usualDaily = strconv.Itoa(s.UsualDaily)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Pack price").Description("e.g. 10.00").Value(m.price),
			huh.NewInput().Title("Cigarettes per pack").Value(m.perPack),
			huh.NewInput().Title("Usual daily cigarettes").Description("before you started pacing").Value(m.usualDaily),
		).Title("Pack"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Pacing mode").
				Options(
					huh.NewOption("Daily quota over a window", "quota"),
					huh.NewOption("Fixed spacing between cigarettes", "spacing"),
				).Value(m.mode),
			huh.NewInput().Title("Daily quota").Value(m.quota),
			huh.NewInput().Title("Window start").Description("HH:MM").Value(m.windowStart),
			huh.NewInput().Title("Window end").Description("HH:MM").Value(m.windowEnd),
			huh.NewInput().Title("Spacing").Description("H:MM between cigarettes").Value(m.spacing),
		).Title("Pacing"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m.saveSettings()
	}

	return m, cmd
}

// saveSettings parses the form back into Settings. Unparseable fields
// keep their previous value; the store normalizes the rest.
func (m settingsModel) saveSettings() (settingsModel, tea.Cmd) {
	s := m.current

	if cents, ok := parseMoney(*m.price); ok {
		s.PackPriceCents = cents
	}
	if n, err := strconv.Atoi(strings.TrimSpace(*m.perPack)); err == nil {
		s.CigarettesPerPack = n
	}
	s.Mode = pacing.Mode(*m.mode)
	if n, err := strconv.Atoi(strings.TrimSpace(*m.quota)); err == nil {
		s.DailyQuota = n
	}
	if v, ok := parseClock(*m.windowStart); ok {
		s.WindowStartMin = v
	}
	if v, ok := parseClock(*m.windowEnd); ok {
		s.WindowEndMin = v
	}
	if h, min, ok := parseHoursMinutes(*m.spacing); ok {
		s.SpacingHours = h
		s.SpacingMinutes = min
	}
	if n, err := strconv.Atoi(strings.TrimSpace(*m.usualDaily)); err == nil {
		s.UsualDaily = n
	}

	if err := m.engine.SaveSettings(s); err != nil {
		return m, errorStatus("Save error: %v", err)
	}
	m.current = m.engine.Snapshot().Settings
	return m, func() tea.Msg {
		return statusMsg{text: "Settings saved, timer restarted"}
	}
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	s := m.current
	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit")

	modeDesc := fmt.Sprintf("%d per day, %s–%s",
		s.DailyQuota, minutesToClock(s.WindowStartMin), minutesToClock(s.WindowEndMin))
	if s.Mode == pacing.ModeSpacing {
		modeDesc = fmt.Sprintf("one every %d:%02d", s.SpacingHours, s.SpacingMinutes)
	}

	rows := []string{
		title,
		"",
		settingRow("Mode", string(s.Mode)),
		settingRow("Goal", modeDesc),
		settingRow("Interval", formatDuration(pacing.ComputeInterval(s))),
		settingRow("Pack price", formatMoney(s.PackPriceCents)),
		settingRow("Per pack", strconv.Itoa(s.CigarettesPerPack)),
		settingRow("Usual daily", strconv.Itoa(s.UsualDaily)),
		"",
		hint,
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	l := lipgloss.NewStyle().Width(16).Render(label)
	return fmt.Sprintf("  %s %s", l, highlightStyle.Render(value))
}

func minutesToClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

func parseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func parseHoursMinutes(s string) (int, int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

func parseMoney(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.SplitN(s, ".", 2)
	units, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || units < 0 {
		return 0, false
	}
	cents := units * 100
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || c < 0 {
			return 0, false
		}
		cents += c
	}
	return cents, true
}
