package store

import (
	"fmt"
	"strconv"

	"github.com/sadopc/pacer/internal/pacing"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadSettings assembles the typed pacing settings from the key/value
// table. A missing or malformed value falls back to its default instead
// of failing the load.
func (s *Store) LoadSettings() (pacing.Settings, error) {
	def := pacing.DefaultSettings()
	out := def

	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return def, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return def, err
		}
		switch key {
		case "pack_price_cents":
			out.PackPriceCents = parseInt64(value, def.PackPriceCents)
		case "cigarettes_per_pack":
			out.CigarettesPerPack = parseInt(value, def.CigarettesPerPack)
		case "mode":
			out.Mode = pacing.Mode(value)
		case "daily_quota":
			out.DailyQuota = parseInt(value, def.DailyQuota)
		case "window_start_min":
			out.WindowStartMin = parseInt(value, def.WindowStartMin)
		case "window_end_min":
			out.WindowEndMin = parseInt(value, def.WindowEndMin)
		case "spacing_hours":
			out.SpacingHours = parseInt(value, def.SpacingHours)
		case "spacing_minutes":
			out.SpacingMinutes = parseInt(value, def.SpacingMinutes)
		case "usual_daily":
			out.UsualDaily = parseInt(value, def.UsualDaily)
		}
	}
	if err := rows.Err(); err != nil {
		return def, err
	}
	return out.Normalized(), nil
}

// SaveSettings writes the typed settings back as key/value upserts.
func (s *Store) SaveSettings(cfg pacing.Settings) error {
	cfg = cfg.Normalized()
	pairs := map[string]string{
		"pack_price_cents":    strconv.FormatInt(cfg.PackPriceCents, 10),
		"cigarettes_per_pack": strconv.Itoa(cfg.CigarettesPerPack),
		"mode":                string(cfg.Mode),
		"daily_quota":         strconv.Itoa(cfg.DailyQuota),
		"window_start_min":    strconv.Itoa(cfg.WindowStartMin),
		"window_end_min":      strconv.Itoa(cfg.WindowEndMin),
		"spacing_hours":       strconv.Itoa(cfg.SpacingHours),
		"spacing_minutes":     strconv.Itoa(cfg.SpacingMinutes),
		"usual_daily":         strconv.Itoa(cfg.UsualDaily),
	}
	for key, value := range pairs {
		if err := s.SetSetting(key, value); err != nil {
			return fmt.Errorf("save setting %q: %w", key, err)
		}
	}
	return nil
}

func parseInt(v string, fallback int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func parseInt64(v string, fallback int64) int64 {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
