package models

import "time"

// RawRecord is one table row as extracted from the rendered history page.
// All fields hold the cell text untouched (e.g. "10/05/2024", "1,234,500").
type RawRecord struct {
	Date   string
	Close  string
	Volume string
}

// NormalizedRow is a RawRecord with typed date and volume.
//
// Date and Volume are nil when the source text could not be parsed.
type NormalizedRow struct {
	Symbol string
	Date   *time.Time
	Close  string
	Volume *float64
}
