// Package pacing holds the pure domain logic for cigarette pacing:
// user settings, interval computation, daily reports and their aggregation.
// Nothing in this package touches the clock, the database or the UI.
package pacing

// Mode selects how the waiting interval between cigarettes is derived.
type Mode string

const (
	// ModeQuota spreads a fixed daily budget of cigarettes across an
	// active time window.
	ModeQuota Mode = "quota"
	// ModeSpacing enforces a fixed minimum delay between cigarettes.
	ModeSpacing Mode = "spacing"
)

// Settings is the persisted user configuration.
type Settings struct {
	PackPriceCents    int64
	CigarettesPerPack int
	Mode              Mode

	// Quota mode
	DailyQuota     int
	WindowStartMin int // minutes since midnight
	WindowEndMin   int

	// Spacing mode
	SpacingHours   int
	SpacingMinutes int

	// Baseline consumption for savings estimates.
	UsualDaily int
}

// DefaultSettings mirrors the defaults seeded into a fresh store.
func DefaultSettings() Settings {
	return Settings{
		PackPriceCents:    1000,
		CigarettesPerPack: 20,
		Mode:              ModeQuota,
		DailyQuota:        20,
		WindowStartMin:    7 * 60,
		WindowEndMin:      23 * 60,
		SpacingHours:      1,
		SpacingMinutes:    0,
		UsualDaily:        30,
	}
}

// Normalized clamps out-of-range values so downstream arithmetic never
// divides by zero or sees negative durations.
func (s Settings) Normalized() Settings {
	if s.PackPriceCents < 0 {
		s.PackPriceCents = 0
	}
	if s.CigarettesPerPack < 1 {
		s.CigarettesPerPack = 1
	}
	if s.Mode != ModeSpacing {
		s.Mode = ModeQuota
	}
	if s.DailyQuota < 1 {
		s.DailyQuota = 1
	}
	s.WindowStartMin = clampMinutes(s.WindowStartMin)
	s.WindowEndMin = clampMinutes(s.WindowEndMin)
	if s.SpacingHours < 0 {
		s.SpacingHours = 0
	}
	if s.SpacingMinutes < 0 {
		s.SpacingMinutes = 0
	}
	if s.UsualDaily < 0 {
		s.UsualDaily = 0
	}
	return s
}

func clampMinutes(m int) int {
	if m < 0 {
		return 0
	}
	if m >= 24*60 {
		return 24*60 - 1
	}
	return m
}

// CostPerCigaretteCents returns the price of a single cigarette.
func (s Settings) CostPerCigaretteCents() int64 {
	n := s.Normalized()
	return n.PackPriceCents / int64(n.CigarettesPerPack)
}

// MoneySavedCents estimates savings for a day on which smokedToday
// cigarettes were consumed, against the usual daily baseline.
func (s Settings) MoneySavedCents(smokedToday int) int64 {
	n := s.Normalized()
	notSmoked := n.UsualDaily - smokedToday
	if notSmoked < 0 {
		notSmoked = 0
	}
	return int64(notSmoked) * n.CostPerCigaretteCents()
}
