package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/pacer/internal/pacing"
)

func ToCSV(reports []pacing.DailyReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Type", "Cigarettes", "Avg Interval", "Avg Exceeded", "Money Saved"}); err != nil {
		return err
	}

	for _, r := range reports {
		row := []string{
			r.Date,
			string(r.Type),
			fmt.Sprintf("%d", r.CigarettesSmoked),
			formatDuration(r.AvgIntervalMs),
			formatDuration(r.AvgTimeExceededMs),
			formatMoney(r.MoneySavedCents),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(ms int64) string {
	secs := ms / 1000
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatMoney(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
