package store

import (
	"database/sql"
	"fmt"
)

// LoadTimerState reads the single countdown row.
func (s *Store) LoadTimerState() (TimerState, error) {
	var st TimerState
	var lastCig, nextCig sql.NullInt64

	err := s.db.QueryRow(
		`SELECT interval_ms, cigarette_count, last_update_ms, last_cigarette_ms, next_cigarette_ms
		 FROM timer_state WHERE id = 1`,
	).Scan(&st.IntervalMs, &st.CigaretteCount, &st.LastUpdateMs, &lastCig, &nextCig)
	if err != nil {
		return TimerState{}, fmt.Errorf("load timer state: %w", err)
	}
	if lastCig.Valid {
		st.LastCigaretteMs = &lastCig.Int64
	}
	if nextCig.Valid {
		st.NextCigaretteMs = &nextCig.Int64
	}
	return st, nil
}

// SaveTimerState persists the countdown snapshot. Negative counts are
// clamped to zero before they ever reach disk.
func (s *Store) SaveTimerState(st TimerState) error {
	if st.CigaretteCount < 0 {
		st.CigaretteCount = 0
	}
	_, err := s.db.Exec(
		`UPDATE timer_state
		 SET interval_ms = ?, cigarette_count = ?, last_update_ms = ?,
		     last_cigarette_ms = ?, next_cigarette_ms = ?
		 WHERE id = 1`,
		st.IntervalMs, st.CigaretteCount, st.LastUpdateMs, st.LastCigaretteMs, st.NextCigaretteMs,
	)
	if err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}

// LastCigaretteTime returns the epoch-millis timestamp of the last
// cigarette, or nil if none was recorded yet.
func (s *Store) LastCigaretteTime() (*int64, error) {
	var t sql.NullInt64
	err := s.db.QueryRow(`SELECT last_cigarette_ms FROM timer_state WHERE id = 1`).Scan(&t)
	if err != nil {
		return nil, fmt.Errorf("load last cigarette time: %w", err)
	}
	if !t.Valid {
		return nil, nil
	}
	return &t.Int64, nil
}

// SetLastCigaretteTime stores the timestamp of the most recent cigarette.
func (s *Store) SetLastCigaretteTime(epochMs int64) error {
	_, err := s.db.Exec(`UPDATE timer_state SET last_cigarette_ms = ? WHERE id = 1`, epochMs)
	return err
}

// AppendHeldInterval logs one actually-waited duration between
// cigarettes, feeding the "average held" statistic.
func (s *Store) AppendHeldInterval(durationMs int64) error {
	if durationMs < 0 {
		durationMs = 0
	}
	_, err := s.db.Exec(`INSERT INTO held_intervals (duration_ms) VALUES (?)`, durationMs)
	return err
}

// MeanHeldInterval returns the mean of all logged held durations in
// milliseconds, or zero when none exist.
func (s *Store) MeanHeldInterval() (int64, error) {
	var mean sql.NullFloat64
	err := s.db.QueryRow(`SELECT AVG(duration_ms) FROM held_intervals`).Scan(&mean)
	if err != nil {
		return 0, fmt.Errorf("mean held interval: %w", err)
	}
	if !mean.Valid {
		return 0, nil
	}
	return int64(mean.Float64 + 0.5), nil
}
