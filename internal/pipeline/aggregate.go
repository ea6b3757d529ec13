package pipeline

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/guttosm/volpulse/internal/domain/models"
)

const (
	// avgWindow is the number of trading days averaged, excluding the latest one.
	avgWindow = 14
	// groupedIntFormat renders integers with "." as thousands separator and no decimals.
	groupedIntFormat = "#.###,"
)

// ErrNoData is returned when there are no rows to aggregate.
var ErrNoData = errors.New("no data")

// Aggregate sorts rows by date (most recent first) and computes the average
// volume of the 14 trading days preceding the most recent one.
//
// The returned slice is the sorted input; only the first row carries the
// average. Rows without a date sort last, and ties keep their input order.
// Volumes that failed to parse or are not finite are left out of the mean.
// When no valid average exists the key is kept with an empty value.
func Aggregate(rows []models.NormalizedRow) ([]models.SummaryRow, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	out := make([]models.SummaryRow, len(rows))
	for i, r := range rows {
		out[i] = models.SummaryRow{NormalizedRow: r}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newer(out[i].Date, out[j].Date)
	})

	if len(out) < 2 {
		return out, nil
	}

	end := len(out)
	if end > avgWindow+1 {
		end = avgWindow + 1
	}
	out[0].HasAvgVolume = true
	if mean, ok := meanVolume(out[1:end]); ok && validAverage(mean) {
		out[0].AvgVolume14d = FormatGrouped(int64(math.RoundToEven(mean)))
	}
	return out, nil
}

// Latest aggregates rows and returns the most recent one.
func Latest(rows []models.NormalizedRow) (models.SummaryRow, error) {
	sorted, err := Aggregate(rows)
	if err != nil {
		return models.SummaryRow{}, err
	}
	return sorted[0], nil
}

// FormatGrouped formats n with "." thousands grouping, e.g. 1234567 → "1.234.567".
func FormatGrouped(n int64) string {
	return humanize.FormatInteger(groupedIntFormat, int(n))
}

// newer reports whether a sorts before b: later dates first, nil dates last.
func newer(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}

// validAverage reports whether mean can be rendered as a non-negative int64.
func validAverage(mean float64) bool {
	return !math.IsNaN(mean) && !math.IsInf(mean, 0) && mean >= 0 && mean < math.MaxInt64
}

func meanVolume(rows []models.SummaryRow) (float64, bool) {
	var sum float64
	var n int
	for _, r := range rows {
		if r.Volume == nil || math.IsNaN(*r.Volume) || math.IsInf(*r.Volume, 0) {
			continue
		}
		sum += *r.Volume
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
