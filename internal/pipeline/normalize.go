package pipeline

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/volpulse/internal/domain/models"
)

// sourceDateLayout is the day/month/year format used by the history table.
const sourceDateLayout = "02/01/2006" // DD/MM/YYYY

// Normalize converts raw table rows of one symbol into typed rows.
//
// It never fails: a date that does not match DD/MM/YYYY becomes nil, and a
// volume that is not a finite number once thousands separators are stripped
// becomes nil. The output has the same length and order as the input.
func Normalize(symbol string, records []models.RawRecord) []models.NormalizedRow {
	out := make([]models.NormalizedRow, 0, len(records))
	for _, rec := range records {
		out = append(out, models.NormalizedRow{
			Symbol: symbol,
			Date:   parseDate(rec.Date),
			Close:  rec.Close,
			Volume: parseVolume(rec.Volume),
		})
	}
	return out
}

func parseDate(s string) *time.Time {
	d, err := time.Parse(sourceDateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &d
}

// parseVolume accepts "1,234,500" style values. NaN and infinities are
// treated as missing.
func parseVolume(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
