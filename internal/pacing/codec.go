package pacing

import (
	"fmt"
	"strconv"
	"strings"
)

// Report records use the storage format inherited from earlier versions
// of the app: six semicolon-separated fields per report, reports joined
// by "|". The field order is fixed:
//
//	date;cigarettesSmoked;avgTimeExceededMs;avgIntervalMs;moneySavedCents;type
//
// Decoding substitutes a zero value for any malformed numeric field
// instead of failing, so a corrupt blob never breaks the read path.

// EncodeReport serializes a single report.
func EncodeReport(r DailyReport) string {
	return fmt.Sprintf("%s;%d;%d;%d;%d;%s",
		r.Date, r.CigarettesSmoked, r.AvgTimeExceededMs, r.AvgIntervalMs, r.MoneySavedCents, r.Type)
}

// DecodeReport parses a single record, tolerating missing or malformed
// fields.
func DecodeReport(s string) DailyReport {
	parts := strings.Split(s, ";")
	field := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	r := DailyReport{
		Date:              field(0),
		CigarettesSmoked:  int(parseInt(field(1))),
		AvgTimeExceededMs: parseInt(field(2)),
		AvgIntervalMs:     parseInt(field(3)),
		MoneySavedCents:   parseInt(field(4)),
		Type:              ReportType(field(5)),
	}
	switch r.Type {
	case ReportDaily, ReportWeekly, ReportMonthly:
	default:
		r.Type = ReportDaily
	}
	return r
}

// EncodeReports serializes a list of reports as pipe-joined records.
func EncodeReports(reports []DailyReport) string {
	records := make([]string, len(reports))
	for i, r := range reports {
		records[i] = EncodeReport(r)
	}
	return strings.Join(records, "|")
}

// DecodeReports parses a pipe-joined list. Blank input yields no reports.
func DecodeReports(s string) []DailyReport {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	records := strings.Split(s, "|")
	reports := make([]DailyReport, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec) == "" {
			continue
		}
		reports = append(reports, DecodeReport(rec))
	}
	return reports
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
