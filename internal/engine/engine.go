// Package engine implements the countdown between cigarettes: the
// once-per-second tick, the smoke/cancel commands and the daily reset.
// All state mutations go through one mutex so the periodic tick and
// user commands can never interleave their read-modify-write cycles.
package engine

import (
	"sync"
	"time"

	"github.com/sadopc/pacer/internal/logger"
	"github.com/sadopc/pacer/internal/notify"
	"github.com/sadopc/pacer/internal/pacing"
	"github.com/sadopc/pacer/internal/store"
)

// SuggestionPolicy controls when a streak of long waits triggers the
// one-shot "loosen your goal" suggestion.
type SuggestionPolicy struct {
	// Threshold is how far past the allowed interval a wait must go to
	// count toward the streak.
	Threshold time.Duration
	// Streak is how many such waits in a row raise the suggestion.
	Streak int
}

// DefaultSuggestionPolicy mirrors the historical 3 x 15min rule.
func DefaultSuggestionPolicy() SuggestionPolicy {
	return SuggestionPolicy{Threshold: 15 * time.Minute, Streak: 3}
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	Settings        pacing.Settings
	Interval        time.Duration // full allowed wait for the current period
	Remaining       time.Duration // negative while in overrun
	CigaretteCount  int
	LastCigarette   *time.Time
	NextCigarette   *time.Time
	MoneySavedCents int64
	MeanHeldMs      int64
	SuggestLoosen   bool
	WindowClosed    bool // quota mode, outside the active window
}

// Overrun reports whether the allowed wait has fully elapsed.
func (s Snapshot) Overrun() bool { return s.Remaining < 0 }

// Engine owns the persisted TimerState. It is the single writer: every
// mutation (tick, smoke, cancel, settings change, reset) runs under the
// same lock and completes its persistence before the next one starts.
type Engine struct {
	mu       sync.Mutex
	store    *store.Store
	clock    Clock
	notifier notify.Notifier
	policy   SuggestionPolicy

	settings  pacing.Settings
	state     store.TimerState
	remaining time.Duration
	lastDay   string

	streak         int
	suggest        bool
	finishNotified bool
	windowClosed   bool
}

// New loads settings and state, restores the countdown across the
// process gap, and performs a daily reset if the process slept past a
// day boundary (the restart trigger).
func New(st *store.Store, clock Clock, notifier notify.Notifier, policy SuggestionPolicy) (*Engine, error) {
	if policy.Threshold <= 0 || policy.Streak <= 0 {
		policy = DefaultSuggestionPolicy()
	}
	e := &Engine{store: st, clock: clock, notifier: notifier, policy: policy}

	settings, err := st.LoadSettings()
	if err != nil {
		return nil, err
	}
	e.settings = settings

	state, err := st.LoadTimerState()
	if err != nil {
		return nil, err
	}
	e.state = state

	now := e.clock.Now()
	today := dayKey(now)

	if state.LastUpdateMs == 0 {
		// First launch: start a fresh waiting period.
		e.startPeriod(now, e.fullInterval())
		e.lastDay = today
		if err := e.persist(); err != nil {
			return nil, err
		}
		return e, nil
	}

	stale := dayKey(msToTime(state.LastUpdateMs))
	if stale != today {
		e.rollDay(stale, now)
		return e, nil
	}

	e.lastDay = today
	e.remaining = time.Duration(state.IntervalMs)*time.Millisecond - elapsedSince(state.LastUpdateMs, now)
	e.finishNotified = e.remaining <= 0
	return e, nil
}

// Tick advances the countdown by the real wall-clock delta since the
// last persisted update. It runs at 1 Hz and each call finishes its
// write before returning, so ticks never overlap.
func (e *Engine) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	today := dayKey(now)
	if e.lastDay != "" && today != e.lastDay {
		// Day changed: archive and reset instead of decrementing.
		e.rollDay(e.lastDay, now)
		return nil
	}
	e.lastDay = today

	if e.settings.Mode == pacing.ModeQuota && !e.settings.Window().Contains(pacing.TimeOfDay(now)) {
		// Outside the active window the budget must not drain: advance
		// the anchor in memory without decrementing or persisting.
		e.windowClosed = true
		e.state.LastUpdateMs = toMs(now)
		return nil
	}
	e.windowClosed = false

	e.remaining = time.Duration(e.state.IntervalMs)*time.Millisecond - elapsedSince(e.state.LastUpdateMs, now)
	e.state.IntervalMs = e.remaining.Milliseconds()
	e.state.LastUpdateMs = toMs(now)

	if e.remaining <= 0 && !e.finishNotified {
		e.finishNotified = true
		start := now
		if e.state.LastCigaretteMs != nil {
			start = msToTime(*e.state.LastCigaretteMs)
		}
		e.notifier.TimerFinished(start)
		e.notifier.CigaretteAllowed()
		logger.Debug("countdown finished", "at", now)
	}

	return e.persist()
}

// SmokeCigarette records a smoked cigarette: it logs the wait that was
// actually held, accumulates overrun into today's report, advances the
// count and starts a fresh waiting period.
func (e *Engine) SmokeCigarette() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	today := dayKey(now)
	if e.lastDay != "" && today != e.lastDay {
		e.rollDay(e.lastDay, now)
	}

	full := e.fullInterval()
	remaining := time.Duration(e.state.IntervalMs)*time.Millisecond - elapsedSince(e.state.LastUpdateMs, now)
	elapsed := full - remaining
	if elapsed < 0 {
		elapsed = 0
	}

	if err := e.store.AppendHeldInterval(elapsed.Milliseconds()); err != nil {
		logger.Warn("append held interval", "err", err)
	}

	if remaining < 0 {
		if err := e.store.AddOverrunSample(today, (-remaining).Milliseconds()); err != nil {
			logger.Warn("add overrun sample", "err", err)
		}
	}

	// Streak of waits well past the goal suggests the goal is too strict.
	if elapsed-full > e.policy.Threshold {
		e.streak++
		if e.streak >= e.policy.Streak && !e.suggest {
			e.suggest = true
			e.streak = 0
			e.notifier.OverrunThresholdCrossed()
		}
	} else {
		e.streak = 0
	}

	newCount := int(e.state.CigaretteCount) + 1

	avgInterval := elapsed.Milliseconds()
	if report, err := e.store.GetReport(today, pacing.ReportDaily); err == nil && report != nil && newCount > 1 {
		avgInterval = (report.AvgIntervalMs*int64(newCount-1) + elapsed.Milliseconds()) / int64(newCount)
	}
	money := e.settings.MoneySavedCents(newCount)
	if err := e.store.RecordSmoke(today, newCount, avgInterval, money); err != nil {
		logger.Warn("record smoke", "err", err)
	}

	e.state.CigaretteCount = int64(newCount)
	e.startPeriod(now, e.fullInterval())
	return e.persist()
}

// CancelLastCigarette undoes the most recent smoke event. The count
// never goes below zero and the interval is recomputed fresh from the
// decremented count rather than restored from history.
func (e *Engine) CancelLastCigarette() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.CigaretteCount == 0 {
		return nil
	}

	now := e.clock.Now()
	newCount := int(e.state.CigaretteCount) - 1

	today := dayKey(now)
	avgInterval := int64(0)
	if report, err := e.store.GetReport(today, pacing.ReportDaily); err == nil && report != nil {
		avgInterval = report.AvgIntervalMs
	}
	if err := e.store.RecordSmoke(today, newCount, avgInterval, e.settings.MoneySavedCents(newCount)); err != nil {
		logger.Warn("record cancel", "err", err)
	}

	e.state.CigaretteCount = int64(newCount)
	e.startPeriod(now, e.fullInterval())
	return e.persist()
}

// SaveSettings persists new settings and restarts the current waiting
// period under the new interval.
func (e *Engine) SaveSettings(cfg pacing.Settings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg = cfg.Normalized()
	if err := e.store.SaveSettings(cfg); err != nil {
		return err
	}
	e.settings = cfg
	e.startPeriod(e.clock.Now(), e.fullInterval())
	return e.persist()
}

// Refresh reloads settings and state from the store and recomputes the
// countdown from the persisted anchor.
func (e *Engine) Refresh() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	settings, err := e.store.LoadSettings()
	if err != nil {
		return err
	}
	e.settings = settings

	state, err := e.store.LoadTimerState()
	if err != nil {
		return err
	}
	e.state = state
	e.remaining = time.Duration(state.IntervalMs)*time.Millisecond - elapsedSince(state.LastUpdateMs, e.clock.Now())
	return nil
}

// ResetDay archives the current day and starts the next one. The TUI
// exposes it as an explicit command; the tick path reaches the same
// code when it detects a calendar-day change.
func (e *Engine) ResetDay() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.rollDay(dayKey(now), now)
	return nil
}

// ClearSuggestion acknowledges the one-shot goal suggestion.
func (e *Engine) ClearSuggestion() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.suggest = false
}

// Snapshot returns the current presentation view.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Settings:        e.settings,
		Interval:        e.fullInterval(),
		Remaining:       e.remaining,
		CigaretteCount:  int(e.state.CigaretteCount),
		MoneySavedCents: e.settings.MoneySavedCents(int(e.state.CigaretteCount)),
		SuggestLoosen:   e.suggest,
		WindowClosed:    e.windowClosed,
	}
	if e.state.LastCigaretteMs != nil {
		t := msToTime(*e.state.LastCigaretteMs)
		snap.LastCigarette = &t
	}
	if e.state.NextCigaretteMs != nil {
		t := msToTime(*e.state.NextCigaretteMs)
		snap.NextCigarette = &t
	}
	if mean, err := e.store.MeanHeldInterval(); err == nil {
		snap.MeanHeldMs = mean
	}
	return snap
}

// rollDay archives the outgoing date and resets counters for the new
// one. Every store write involved is idempotent, so the three possible
// triggers (midnight tick, restart, explicit reset) can all fire for
// the same date without corrupting history. Callers hold the lock.
func (e *Engine) rollDay(outgoing string, now time.Time) {
	// Archive: synthesize from the live state only when nothing was
	// recorded for the outgoing date yet; an existing report already
	// reflects every smoke event of that day.
	existing, err := e.store.GetReport(outgoing, pacing.ReportDaily)
	if err != nil {
		logger.Warn("read outgoing report", "err", err)
	}
	if existing == nil {
		report := pacing.DailyReport{
			Date:             outgoing,
			CigarettesSmoked: int(e.state.CigaretteCount),
			MoneySavedCents:  e.settings.MoneySavedCents(int(e.state.CigaretteCount)),
			Type:             pacing.ReportDaily,
		}
		if err := e.store.UpsertReport(report); err != nil {
			logger.Warn("archive outgoing report", "err", err)
		}
	}

	// Reset counters and start a fresh period.
	e.state.CigaretteCount = 0
	e.startPeriod(now, e.fullInterval())
	e.lastDay = dayKey(now)
	e.streak = 0
	e.suggest = false
	if err := e.persist(); err != nil {
		logger.Warn("persist reset state", "err", err)
	}

	// Seed the new day; a no-op if the date already has data.
	if err := e.store.SeedEmptyReport(dayKey(now)); err != nil {
		logger.Warn("seed new day", "err", err)
	}

	e.notifier.DailyReset()
	logger.Info("daily reset", "outgoing", outgoing, "today", e.lastDay)
}

// startPeriod begins a new waiting period of the given length at now.
// Callers hold the lock.
func (e *Engine) startPeriod(now time.Time, interval time.Duration) {
	nowMs := toMs(now)
	next := nowMs + interval.Milliseconds()
	e.state.IntervalMs = interval.Milliseconds()
	e.state.LastUpdateMs = nowMs
	e.state.LastCigaretteMs = &nowMs
	e.state.NextCigaretteMs = &next
	e.remaining = interval
	e.finishNotified = false
}

func (e *Engine) fullInterval() time.Duration {
	return pacing.ComputeInterval(e.settings)
}

// persist writes the in-memory state. On failure the in-memory copy
// stays authoritative; the next successful write reconciles.
func (e *Engine) persist() error {
	if err := e.store.SaveTimerState(e.state); err != nil {
		logger.Error("save timer state", "err", err)
		return err
	}
	return nil
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func toMs(t time.Time) int64 {
	return t.UnixMilli()
}

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// elapsedSince clamps negative deltas (a clock set backwards) to zero.
func elapsedSince(anchorMs int64, now time.Time) time.Duration {
	d := now.Sub(msToTime(anchorMs))
	if d < 0 {
		return 0
	}
	return d
}
