package domain

import (
	"time"
)

// DateLayout is the canonical day-precision layout used in payloads and prompts.
const DateLayout = "2006-01-02"

// RawRow is one uncleaned row as supplied by a source reader.
// The first two source columns are mapped positionally to DateText and ValueText.
type RawRow struct {
	DateText  string `json:"date_text"`
	ValueText string `json:"value_text"`
	Line      int    `json:"line,omitempty"` // 1-based source line, 0 when unknown
}

// Observation is one cleaned (date, value) pair of the series.
type Observation struct {
	Date  time.Time `json:"date" validate:"required"`
	Value float64   `json:"value"`
}

// MonthlyAggregate is the mean value of all observations within one calendar month.
type MonthlyAggregate struct {
	Month Month   `json:"month"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// TruncateDay returns t reduced to midnight UTC of its calendar day.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
