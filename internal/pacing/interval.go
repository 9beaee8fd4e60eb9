package pacing

import "time"

const day = 24 * time.Hour

// Window is a daily active time window in minutes since midnight.
// The window may wrap past midnight (End <= Start).
type Window struct {
	StartMin int
	EndMin   int
}

// Window returns the active window configured in the settings.
func (s Settings) Window() Window {
	n := s.Normalized()
	return Window{StartMin: n.WindowStartMin, EndMin: n.WindowEndMin}
}

// Duration is the length of the window. A window whose naive length would
// be zero or negative wraps past midnight, so a full day is added; equal
// start and end therefore means the whole day is active.
func (w Window) Duration() time.Duration {
	d := time.Duration(w.EndMin-w.StartMin) * time.Minute
	if d <= 0 {
		d += day
	}
	return d
}

// Contains reports whether the given time of day falls inside the window.
func (w Window) Contains(tod time.Duration) bool {
	start := time.Duration(w.StartMin) * time.Minute
	end := time.Duration(w.EndMin) * time.Minute
	if end > start {
		return tod >= start && tod < end
	}
	// Wraps midnight (or covers the full day when start == end).
	return tod >= start || tod < end
}

// TimeOfDay returns the duration elapsed since local midnight of t.
func TimeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// ComputeInterval derives the allowed wait between cigarettes from the
// settings. In spacing mode it is the configured delay with a one minute
// floor. In quota mode the active window is divided evenly across the
// daily budget. Deterministic for identical inputs.
func ComputeInterval(s Settings) time.Duration {
	n := s.Normalized()
	if n.Mode == ModeSpacing {
		minutes := n.SpacingHours*60 + n.SpacingMinutes
		if minutes < 1 {
			minutes = 1
		}
		return time.Duration(minutes) * time.Minute
	}
	return n.Window().Duration() / time.Duration(n.DailyQuota)
}
