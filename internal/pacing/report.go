package pacing

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// ReportType distinguishes archived daily reports from derived aggregates.
type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
)

// DailyReport summarizes one calendar day (or, for aggregates, one week
// or month) of activity. At most one daily report exists per date.
type DailyReport struct {
	Date              string // ISO date, e.g. "2024-01-31"
	CigarettesSmoked  int
	AvgTimeExceededMs int64
	AvgIntervalMs     int64
	MoneySavedCents   int64
	Type              ReportType
}

// Day parses the report date.
func (r DailyReport) Day() (time.Time, error) {
	return time.Parse("2006-01-02", r.Date)
}

// Aggregate groups daily reports into weekly or monthly summaries.
// Cigarette counts and savings are summed; the interval and overrun
// averages are averaged across the group's reports. The result date is
// the most recent day in the group and results are sorted most recent
// first. Aggregates are always recomputed, never persisted.
func Aggregate(reports []DailyReport, period ReportType) []DailyReport {
	if period != ReportWeekly && period != ReportMonthly {
		return nil
	}

	type bucket struct {
		last        time.Time
		cigarettes  int
		money       int64
		sumInterval int64
		sumExceeded int64
		count       int
	}

	buckets := make(map[string]*bucket)
	for _, r := range reports {
		if r.Type != ReportDaily {
			continue
		}
		d, err := r.Day()
		if err != nil {
			continue
		}

		var key string
		if period == ReportWeekly {
			year, week := d.ISOWeek()
			key = fmt.Sprintf("%04d-W%02d", year, week)
		} else {
			key = d.Format("2006-01")
		}

		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		if d.After(b.last) {
			b.last = d
		}
		b.cigarettes += r.CigarettesSmoked
		b.money += r.MoneySavedCents
		b.sumInterval += r.AvgIntervalMs
		b.sumExceeded += r.AvgTimeExceededMs
		b.count++
	}

	out := make([]DailyReport, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, DailyReport{
			Date:              b.last.Format("2006-01-02"),
			CigarettesSmoked:  b.cigarettes,
			AvgTimeExceededMs: roundMean(b.sumExceeded, b.count),
			AvgIntervalMs:     roundMean(b.sumInterval, b.count),
			MoneySavedCents:   b.money,
			Type:              period,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// MeanExceeded returns the mean overrun of the most recent n daily
// reports, oldest-first input order not required.
func MeanExceeded(reports []DailyReport, n int) int64 {
	daily := make([]DailyReport, 0, len(reports))
	for _, r := range reports {
		if r.Type == ReportDaily {
			daily = append(daily, r)
		}
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })
	if len(daily) > n {
		daily = daily[len(daily)-n:]
	}
	if len(daily) == 0 {
		return 0
	}
	var sum int64
	for _, r := range daily {
		sum += r.AvgTimeExceededMs
	}
	return roundMean(sum, len(daily))
}

func roundMean(sum int64, count int) int64 {
	if count == 0 {
		return 0
	}
	return int64(math.Round(float64(sum) / float64(count)))
}
