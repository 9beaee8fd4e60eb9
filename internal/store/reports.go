package store

import (
	"database/sql"
	"fmt"

	"github.com/sadopc/pacer/internal/pacing"
)

// UpsertReport inserts or replaces the report keyed by (date, type).
// Saving the same date twice keeps exactly one row with the latest
// values, which is what makes duplicate daily-reset triggers harmless.
func (s *Store) UpsertReport(r pacing.DailyReport) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_reports (date, type, cigarettes_smoked, avg_time_exceeded_ms, avg_interval_ms, money_saved_cents)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date, type) DO UPDATE SET
			cigarettes_smoked    = excluded.cigarettes_smoked,
			avg_time_exceeded_ms = excluded.avg_time_exceeded_ms,
			avg_interval_ms      = excluded.avg_interval_ms,
			money_saved_cents    = excluded.money_saved_cents,
			updated_at           = strftime('%Y-%m-%dT%H:%M:%SZ','now')`,
		r.Date, string(r.Type), r.CigarettesSmoked, r.AvgTimeExceededMs, r.AvgIntervalMs, r.MoneySavedCents,
	)
	if err != nil {
		return fmt.Errorf("upsert report %s/%s: %w", r.Date, r.Type, err)
	}
	return nil
}

// SeedEmptyReport writes a zeroed daily report for date, but only when no
// report with recorded activity exists there yet. Re-seeding an already
// populated date is a no-op, which guards against double-reset races.
func (s *Store) SeedEmptyReport(date string) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_reports (date, type) VALUES (?, ?)
		 ON CONFLICT(date, type) DO NOTHING`,
		date, string(pacing.ReportDaily),
	)
	if err != nil {
		return fmt.Errorf("seed report %s: %w", date, err)
	}
	return nil
}

// RecordSmoke updates the activity fields of today's daily report without
// touching the overrun average, which is maintained separately by
// AddOverrunSample.
func (s *Store) RecordSmoke(date string, cigarettes int, avgIntervalMs, moneySavedCents int64) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_reports (date, type, cigarettes_smoked, avg_interval_ms, money_saved_cents)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(date, type) DO UPDATE SET
			cigarettes_smoked = excluded.cigarettes_smoked,
			avg_interval_ms   = excluded.avg_interval_ms,
			money_saved_cents = excluded.money_saved_cents,
			updated_at        = strftime('%Y-%m-%dT%H:%M:%SZ','now')`,
		date, string(pacing.ReportDaily), cigarettes, avgIntervalMs, moneySavedCents,
	)
	if err != nil {
		return fmt.Errorf("record smoke %s: %w", date, err)
	}
	return nil
}

// AddOverrunSample folds one overrun duration into the rolling average of
// the date's daily report. The sample count lives in the row so the
// average survives restarts.
func (s *Store) AddOverrunSample(date string, overrunMs int64) error {
	if overrunMs < 0 {
		overrunMs = 0
	}
	_, err := s.db.Exec(
		`INSERT INTO daily_reports (date, type, avg_time_exceeded_ms, overrun_count)
		 VALUES (?, ?, ?, 1)
		 ON CONFLICT(date, type) DO UPDATE SET
			avg_time_exceeded_ms = (daily_reports.avg_time_exceeded_ms * daily_reports.overrun_count + excluded.avg_time_exceeded_ms)
			                       / (daily_reports.overrun_count + 1),
			overrun_count        = daily_reports.overrun_count + 1,
			updated_at           = strftime('%Y-%m-%dT%H:%M:%SZ','now')`,
		date, string(pacing.ReportDaily), overrunMs,
	)
	if err != nil {
		return fmt.Errorf("add overrun sample %s: %w", date, err)
	}
	return nil
}

// GetReport fetches one report, returning nil when none exists.
func (s *Store) GetReport(date string, typ pacing.ReportType) (*pacing.DailyReport, error) {
	var r pacing.DailyReport
	var t string
	err := s.db.QueryRow(
		`SELECT date, type, cigarettes_smoked, avg_time_exceeded_ms, avg_interval_ms, money_saved_cents
		 FROM daily_reports WHERE date = ? AND type = ?`,
		date, string(typ),
	).Scan(&r.Date, &t, &r.CigarettesSmoked, &r.AvgTimeExceededMs, &r.AvgIntervalMs, &r.MoneySavedCents)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s/%s: %w", date, typ, err)
	}
	r.Type = pacing.ReportType(t)
	return &r, nil
}

// ListReports returns all persisted reports of the given type, most
// recent date first.
func (s *Store) ListReports(typ pacing.ReportType) ([]pacing.DailyReport, error) {
	return s.queryReports(
		`SELECT date, type, cigarettes_smoked, avg_time_exceeded_ms, avg_interval_ms, money_saved_cents
		 FROM daily_reports WHERE type = ? ORDER BY date DESC`,
		string(typ),
	)
}

// ListAllReports returns every persisted report, most recent date first.
func (s *Store) ListAllReports() ([]pacing.DailyReport, error) {
	return s.queryReports(
		`SELECT date, type, cigarettes_smoked, avg_time_exceeded_ms, avg_interval_ms, money_saved_cents
		 FROM daily_reports ORDER BY date DESC`,
	)
}

func (s *Store) queryReports(query string, args ...any) ([]pacing.DailyReport, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []pacing.DailyReport
	for rows.Next() {
		var r pacing.DailyReport
		var t string
		if err := rows.Scan(&r.Date, &t, &r.CigarettesSmoked, &r.AvgTimeExceededMs, &r.AvgIntervalMs, &r.MoneySavedCents); err != nil {
			return nil, err
		}
		r.Type = pacing.ReportType(t)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// ImportLegacyReports parses a pipe-joined report blob in the old
// delimited format and upserts every record. Used to migrate data from
// the previous storage scheme in place.
func (s *Store) ImportLegacyReports(blob string) (int, error) {
	reports := pacing.DecodeReports(blob)
	for i, r := range reports {
		if err := s.UpsertReport(r); err != nil {
			return i, err
		}
	}
	return len(reports), nil
}

// ExportLegacyReports serializes all persisted reports to the old
// delimited format.
func (s *Store) ExportLegacyReports() (string, error) {
	reports, err := s.ListAllReports()
	if err != nil {
		return "", err
	}
	return pacing.EncodeReports(reports), nil
}
