package models

import (
	"strconv"
)

// Keys used in the flat representation of a SummaryRow.
const (
	KeySymbol       = "symbol"
	KeyDate         = "date"
	KeyClose        = "close"
	KeyVolume       = "volume"
	KeyAvgVolume14d = "avg_volume_14d"
)

const dateLayout = "2006-01-02"

// SummaryRow is the most recent NormalizedRow of a symbol plus the derived
// 14-day average volume.
//
// HasAvgVolume is false when the average was never computed (a single row);
// in that case the key is left out of the flat representation. When it is
// true, AvgVolume14d may still be empty if no volume in the window parsed.
type SummaryRow struct {
	NormalizedRow
	AvgVolume14d string
	HasAvgVolume bool
}

// Map flattens the row into string values; missing values become "".
func (s SummaryRow) Map() map[string]string {
	out := map[string]string{
		KeySymbol: s.Symbol,
		KeyDate:   "",
		KeyClose:  s.Close,
		KeyVolume: "",
	}
	if s.Date != nil {
		out[KeyDate] = s.Date.Format(dateLayout)
	}
	if s.Volume != nil {
		out[KeyVolume] = strconv.FormatFloat(*s.Volume, 'f', -1, 64)
	}
	if s.HasAvgVolume {
		out[KeyAvgVolume14d] = s.AvgVolume14d
	}
	return out
}

// BatchResult holds one SummaryRow per symbol that yielded data, in request order.
type BatchResult struct {
	Data  []SummaryRow
	Count int
}
