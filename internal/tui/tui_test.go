package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pacer/internal/engine"
	"github.com/sadopc/pacer/internal/notify"
	"github.com/sadopc/pacer/internal/pacing"
	"github.com/sadopc/pacer/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestEngine(t *testing.T, s *store.Store, clock *fakeClock) *engine.Engine {
	t.Helper()
	e, err := engine.New(s, clock, notify.Noop{}, engine.DefaultSuggestionPolicy())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// ============================================================
// Tracker model
// ============================================================

func TestTrackerInit(t *testing.T) {
	s := newTestStore(t)
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, s, clock)

	m := newTrackerModel(e)
	if m.snap.CigaretteCount != 0 {
		t.Fatal("fresh tracker should have zero cigarettes")
	}
	if m.snap.Remaining != 48*time.Minute {
		t.Fatalf("Remaining = %v, want 48m", m.snap.Remaining)
	}
}

func TestTrackerTickUpdatesSnapshot(t *testing.T) {
	s := newTestStore(t)
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, s, clock)

	m := newTrackerModel(e)
	clock.now = clock.now.Add(5 * time.Minute)
	m, _ = m.update(tickMsg(clock.now))

	if m.snap.Remaining != 43*time.Minute {
		t.Fatalf("Remaining = %v, want 43m", m.snap.Remaining)
	}
}

func TestTrackerSmokeKey(t *testing.T) {
	s := newTestStore(t)
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, s, clock)

	m := newTrackerModel(e)
	clock.now = clock.now.Add(10 * time.Minute)
	m, cmd := m.update(keyPress('s'))

	if m.snap.CigaretteCount != 1 {
		t.Fatalf("CigaretteCount = %d, want 1", m.snap.CigaretteCount)
	}
	if m.snap.Remaining != 48*time.Minute {
		t.Fatalf("Remaining = %v, want fresh 48m", m.snap.Remaining)
	}
	if cmd == nil {
		t.Fatal("smoke should emit a message")
	}
	if _, ok := cmd().(smokedMsg); !ok {
		t.Fatal("smoke should emit smokedMsg")
	}
}

func TestTrackerUndoKey(t *testing.T) {
	s := newTestStore(t)
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, s, clock)

	m := newTrackerModel(e)
	m, _ = m.update(keyPress('s'))
	m, _ = m.update(keyPress('u'))

	if m.snap.CigaretteCount != 0 {
		t.Fatalf("CigaretteCount = %d, want 0 after undo", m.snap.CigaretteCount)
	}
}

func TestTrackerUndoAtZeroIsNoop(t *testing.T) {
	s := newTestStore(t)
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, s, clock)

	m := newTrackerModel(e)
	m, cmd := m.update(keyPress('u'))

	if cmd != nil {
		t.Fatal("undo at zero should not emit a message")
	}
	if m.snap.CigaretteCount != 0 {
		t.Fatal("count should stay zero")
	}
}

func TestTrackerResetKey(t *testing.T) {
	s := newTestStore(t)
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, s, clock)

	m := newTrackerModel(e)
	m, _ = m.update(keyPress('s'))
	m, _ = m.update(keyPress('r'))

	if m.snap.CigaretteCount != 0 {
		t.Fatalf("CigaretteCount = %d, want 0 after reset", m.snap.CigaretteCount)
	}
}

func TestTrackerView(t *testing.T) {
	s := newTestStore(t)
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, s, clock)

	m := newTrackerModel(e)
	m.setSize(80, 24)
	view := m.view()
	if view == "" {
		t.Fatal("view should render")
	}
}

// ============================================================
// History model
// ============================================================

func sampleDaily() []pacing.DailyReport {
	return []pacing.DailyReport{
		{Date: "2024-01-08", CigarettesSmoked: 5, Type: pacing.ReportDaily},
		{Date: "2024-01-03", CigarettesSmoked: 10, Type: pacing.ReportDaily},
		{Date: "2024-01-02", CigarettesSmoked: 8, Type: pacing.ReportDaily},
	}
}

func TestHistoryModeCycling(t *testing.T) {
	s := newTestStore(t)
	m := newHistoryModel(s)
	m.setSize(80, 24)
	m, _ = m.update(historyDataMsg{daily: sampleDaily()})

	if m.mode != historyDaily {
		t.Fatal("history should start in daily mode")
	}
	if len(m.rows) != 3 {
		t.Fatalf("daily rows = %d, want 3", len(m.rows))
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyTab})
	if m.mode != historyWeekly {
		t.Fatal("tab should switch to weekly")
	}
	// 2024-01-02/03 are ISO week 1, 2024-01-08 is week 2.
	if len(m.rows) != 2 {
		t.Fatalf("weekly rows = %d, want 2", len(m.rows))
	}
	if m.rows[0].Type != pacing.ReportWeekly {
		t.Fatal("weekly rows should carry the weekly type")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyTab})
	if m.mode != historyMonthly {
		t.Fatal("tab should switch to monthly")
	}
	if len(m.rows) != 1 {
		t.Fatalf("monthly rows = %d, want 1", len(m.rows))
	}
	if m.rows[0].CigarettesSmoked != 23 {
		t.Fatalf("monthly total = %d, want 23", m.rows[0].CigarettesSmoked)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyTab})
	if m.mode != historyDaily {
		t.Fatal("tab should wrap back to daily")
	}
}

func TestHistoryScroll(t *testing.T) {
	s := newTestStore(t)
	m := newHistoryModel(s)
	m.setSize(80, 24)
	m, _ = m.update(historyDataMsg{daily: sampleDaily()})

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	if m.offset != 1 {
		t.Fatalf("offset = %d, want 1", m.offset)
	}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyUp})
	if m.offset != 0 {
		t.Fatalf("offset = %d, want 0", m.offset)
	}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyUp})
	if m.offset != 0 {
		t.Fatal("offset should not go negative")
	}
}

func TestHistoryView(t *testing.T) {
	s := newTestStore(t)
	m := newHistoryModel(s)
	m.setSize(80, 24)
	m, _ = m.update(historyDataMsg{daily: sampleDaily()})

	view := m.view()
	if view == "" {
		t.Fatal("view should render")
	}
}

// ============================================================
// Stats model
// ============================================================

func TestStatsSummaryTotals(t *testing.T) {
	s := newTestStore(t)
	m := newStatsModel(s)
	m.setSize(80, 24)

	daily := []pacing.DailyReport{
		{Date: "2024-01-02", CigarettesSmoked: 8, MoneySavedCents: 1100, Type: pacing.ReportDaily},
		{Date: "2024-01-03", CigarettesSmoked: 10, MoneySavedCents: 1000, Type: pacing.ReportDaily},
	}
	m, _ = m.update(statsDataMsg{daily: daily, meanHeldMs: 1800000})

	view := m.view()
	if view == "" {
		t.Fatal("view should render")
	}
	if m.meanHeldMs != 1800000 {
		t.Fatal("mean held interval not stored")
	}
}

// ============================================================
// Settings helpers
// ============================================================

func TestMinutesToClock(t *testing.T) {
	tests := []struct {
		min  int
		want string
	}{
		{0, "00:00"},
		{420, "07:00"},
		{1380, "23:00"},
		{1439, "23:59"},
	}
	for _, tt := range tests {
		got := minutesToClock(tt.min)
		if got != tt.want {
			t.Errorf("minutesToClock(%d) = %q, want %q", tt.min, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"07:00", 420, true},
		{"23:00", 1380, true},
		{"00:00", 0, true},
		{" 8:30 ", 510, true},
		{"24:00", 0, false},
		{"07:60", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseClock(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseClock(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseHoursMinutes(t *testing.T) {
	h, m, ok := parseHoursMinutes("1:30")
	if !ok || h != 1 || m != 30 {
		t.Fatalf("parseHoursMinutes(1:30) = (%d, %d, %v)", h, m, ok)
	}
	if _, _, ok := parseHoursMinutes("90"); ok {
		t.Fatal("missing colon should fail")
	}
	if _, _, ok := parseHoursMinutes("1:75"); ok {
		t.Fatal("minutes over 59 should fail")
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"10.00", 1000, true},
		{"10", 1000, true},
		{"10.5", 1050, true},
		{"0.05", 5, true},
		{"", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseMoney(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseMoney(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSettingsViewShowsCurrent(t *testing.T) {
	s := newTestStore(t)
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, s, clock)

	m := newSettingsModel(e)
	m.setSize(80, 24)
	view := m.view()
	if view == "" {
		t.Fatal("view should render")
	}
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{time.Minute, "00:01:00"},
		{time.Hour, "01:00:00"},
		{time.Hour + time.Minute + time.Second, "01:01:01"},
		{25 * time.Hour, "25:00:00"},
		{-time.Minute, "00:01:00"},
	}
	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	if got := formatCountdown(10 * time.Minute); got != "00:10:00" {
		t.Errorf("formatCountdown(10m) = %q", got)
	}
	if got := formatCountdown(-2 * time.Minute); got != "+00:02:00" {
		t.Errorf("formatCountdown(-2m) = %q", got)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1450, "14.50"},
	}
	for _, tt := range tests {
		got := formatMoney(tt.cents)
		if got != tt.want {
			t.Errorf("formatMoney(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestFormatClockNil(t *testing.T) {
	if got := formatClock(nil); got != "--:--" {
		t.Errorf("formatClock(nil) = %q, want --:--", got)
	}
}

func TestMinMax(t *testing.T) {
	if min(3, 5) != 3 {
		t.Fatal("min(3,5) should be 3")
	}
	if max(3, 5) != 5 {
		t.Fatal("max(3,5) should be 5")
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 view names, got %d", len(viewNames))
	}
	expected := []string{"Tracker", "History", "Stats", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewTracker != 0 || viewHistory != 1 || viewStats != 2 || viewSettings != 3 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// App
// ============================================================

func TestAppStartsOnTracker(t *testing.T) {
	s := newTestStore(t)
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, s, clock)

	a := NewApp(s, e)
	if a.activeView != viewTracker {
		t.Fatal("app should start on the tracker view")
	}
}

func TestAppTabSwitching(t *testing.T) {
	s := newTestStore(t)
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, s, clock)

	a := NewApp(s, e)
	model, _ := a.Update(keyPress('2'))
	a = model.(App)
	if a.activeView != viewHistory {
		t.Fatal("pressing 2 should switch to history")
	}

	model, _ = a.Update(keyPress('1'))
	a = model.(App)
	if a.activeView != viewTracker {
		t.Fatal("pressing 1 should switch back to tracker")
	}
}
