package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"ratelens/pkg/contracts/domain"
)

// DateLayouts are the accepted date formats, tried in order
var DateLayouts = []string{
	domain.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02.01.2006",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// CleanReport summarizes what cleaning did to the raw rows
type CleanReport struct {
	RawRows        int     `json:"raw_rows"`
	Kept           int     `json:"kept"`
	DroppedDates   int     `json:"dropped_dates"`
	DroppedValues  int     `json:"dropped_values"`
	ImputedValues  int     `json:"imputed_values"`
	ImputationMean float64 `json:"imputation_mean"`
}

// Load cleans raw rows into an annotated series
func Load(rows []domain.RawRow) Series {
	s, _ := LoadWithReport(rows)
	return s
}

// LoadWithReport cleans raw rows into an annotated series:
//
//   - rows whose date does not parse are dropped
//   - missing values are replaced by the mean of the parsed values of the
//     remaining rows
//   - if no remaining row has a parsed value there is nothing to impute
//     from and the result is empty
func LoadWithReport(rows []domain.RawRow) (Series, CleanReport) {
	report := CleanReport{RawRows: len(rows)}

	type parsed struct {
		date  time.Time
		value float64
		ok    bool
	}

	dated := make([]parsed, 0, len(rows))
	var known []float64
	for _, row := range rows {
		date, err := ParseDate(row.DateText)
		if err != nil {
			report.DroppedDates++
			continue
		}
		value, ok := ParseValue(row.ValueText)
		if ok {
			known = append(known, value)
		}
		dated = append(dated, parsed{date: date, value: value, ok: ok})
	}

	if len(known) == 0 {
		report.DroppedValues = len(dated)
		return Annotate(NewSeries(nil)), report
	}

	mean := Mean(known)
	report.ImputationMean = mean

	observations := make([]domain.Observation, len(dated))
	for i, p := range dated {
		value := p.value
		if !p.ok {
			value = mean
			report.ImputedValues++
		}
		observations[i] = domain.Observation{Date: p.date, Value: value}
	}
	report.Kept = len(observations)

	return Annotate(NewSeries(observations)), report
}

// ParseDate parses text against DateLayouts and returns the calendar day
// as UTC midnight
func ParseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	var firstErr error
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return domain.TruncateDay(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// ParseValue parses a numeric value. Blank, unparseable, NaN and infinite
// values report ok false.
//
// A single comma is read as the decimal separator when the text has no dot,
// so "76,4560" is 76.456. Thousands separators are not supported: "1,234"
// parses as 1.234 and "1,234,567" or "1,000.5" are unparseable.
func ParseValue(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	if !strings.Contains(text, ".") {
		text = strings.Replace(text, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
