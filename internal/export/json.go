package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pacer/internal/pacing"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Reports    []jsonReport `json:"reports"`
}

type jsonReport struct {
	Date           string `json:"date"`
	Type           string `json:"type"`
	Cigarettes     int    `json:"cigarettes"`
	AvgIntervalMs  int64  `json:"avg_interval_ms"`
	AvgInterval    string `json:"avg_interval"`
	AvgExceededMs  int64  `json:"avg_exceeded_ms"`
	AvgExceeded    string `json:"avg_exceeded"`
	MoneySavedCent int64  `json:"money_saved_cents"`
	MoneySaved     string `json:"money_saved"`
}

func ToJSON(reports []pacing.DailyReport, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(reports),
	}

	for _, r := range reports {
		export.Reports = append(export.Reports, jsonReport{
			Date:           r.Date,
			Type:           string(r.Type),
			Cigarettes:     r.CigarettesSmoked,
			AvgIntervalMs:  r.AvgIntervalMs,
			AvgInterval:    formatDuration(r.AvgIntervalMs),
			AvgExceededMs:  r.AvgTimeExceededMs,
			AvgExceeded:    formatDuration(r.AvgTimeExceededMs),
			MoneySavedCent: r.MoneySavedCents,
			MoneySaved:     formatMoney(r.MoneySavedCents),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
