package pacing

import (
	"testing"
)

func daily(date string, cigarettes int, exceeded, interval, money int64) DailyReport {
	return DailyReport{
		Date:              date,
		CigarettesSmoked:  cigarettes,
		AvgTimeExceededMs: exceeded,
		AvgIntervalMs:     interval,
		MoneySavedCents:   money,
		Type:              ReportDaily,
	}
}

func TestAggregateWeekly(t *testing.T) {
	// Eight days spanning two ISO weeks: 2024-01-01 (Mon) starts week 1,
	// 2024-01-08 (Mon) starts week 2.
	var reports []DailyReport
	dates := []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-05", "2024-01-06", "2024-01-07",
		"2024-01-08",
	}
	for i, d := range dates {
		reports = append(reports, daily(d, 10+i, int64(i)*1000, 60000, 100))
	}

	weekly := Aggregate(reports, ReportWeekly)
	if len(weekly) != 2 {
		t.Fatalf("expected 2 weekly reports, got %d", len(weekly))
	}

	// Most recent week first.
	if weekly[0].Date != "2024-01-08" {
		t.Fatalf("expected representative date 2024-01-08, got %s", weekly[0].Date)
	}
	if weekly[0].CigarettesSmoked != 17 {
		t.Fatalf("week 2 should sum to 17, got %d", weekly[0].CigarettesSmoked)
	}
	if weekly[1].Date != "2024-01-07" {
		t.Fatalf("expected representative date 2024-01-07, got %s", weekly[1].Date)
	}
	wantWeek1 := 10 + 11 + 12 + 13 + 14 + 15 + 16
	if weekly[1].CigarettesSmoked != wantWeek1 {
		t.Fatalf("week 1 should sum to %d, got %d", wantWeek1, weekly[1].CigarettesSmoked)
	}
	if weekly[1].MoneySavedCents != 700 {
		t.Fatalf("money should sum, got %d", weekly[1].MoneySavedCents)
	}
	if weekly[1].AvgIntervalMs != 60000 {
		t.Fatalf("interval mean wrong: %d", weekly[1].AvgIntervalMs)
	}
	// Week 1 exceeded: mean of 0..6 thousand = 3000.
	if weekly[1].AvgTimeExceededMs != 3000 {
		t.Fatalf("exceeded mean wrong: %d", weekly[1].AvgTimeExceededMs)
	}
	if weekly[0].Type != ReportWeekly {
		t.Fatalf("wrong type: %s", weekly[0].Type)
	}
}

func TestAggregateMonthly(t *testing.T) {
	reports := []DailyReport{
		daily("2024-01-30", 5, 0, 0, 50),
		daily("2024-01-31", 7, 0, 0, 50),
		daily("2024-02-01", 3, 0, 0, 50),
	}

	monthly := Aggregate(reports, ReportMonthly)
	if len(monthly) != 2 {
		t.Fatalf("expected 2 monthly reports, got %d", len(monthly))
	}
	if monthly[0].Date != "2024-02-01" || monthly[0].CigarettesSmoked != 3 {
		t.Fatalf("unexpected february aggregate: %+v", monthly[0])
	}
	if monthly[1].Date != "2024-01-31" || monthly[1].CigarettesSmoked != 12 {
		t.Fatalf("unexpected january aggregate: %+v", monthly[1])
	}
}

func TestAggregateSkipsNonDaily(t *testing.T) {
	reports := []DailyReport{
		daily("2024-01-01", 5, 0, 0, 0),
		{Date: "2024-01-07", CigarettesSmoked: 99, Type: ReportWeekly},
	}
	weekly := Aggregate(reports, ReportWeekly)
	if len(weekly) != 1 || weekly[0].CigarettesSmoked != 5 {
		t.Fatalf("aggregates must not feed on aggregates: %+v", weekly)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil, ReportWeekly); len(got) != 0 {
		t.Fatalf("expected no groups, got %d", len(got))
	}
}

func TestAggregateRejectsDailyPeriod(t *testing.T) {
	reports := []DailyReport{daily("2024-01-01", 5, 0, 0, 0)}
	if got := Aggregate(reports, ReportDaily); got != nil {
		t.Fatalf("daily is not an aggregation period, got %+v", got)
	}
}

func TestMeanExceeded(t *testing.T) {
	reports := []DailyReport{
		daily("2024-01-01", 0, 1000, 0, 0),
		daily("2024-01-02", 0, 2000, 0, 0),
		daily("2024-01-03", 0, 3000, 0, 0),
	}

	if got := MeanExceeded(reports, 7); got != 2000 {
		t.Fatalf("expected 2000, got %d", got)
	}
	// Only the most recent two.
	if got := MeanExceeded(reports, 2); got != 2500 {
		t.Fatalf("expected 2500, got %d", got)
	}
	if got := MeanExceeded(nil, 7); got != 0 {
		t.Fatalf("expected 0 for empty input, got %d", got)
	}
}
