package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MonthLayout is the text form of a Month.
const MonthLayout = "2006-01"

// Month identifies a calendar month (year + month, day-truncated).
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses "YYYY-MM" text into a Month.
func ParseMonth(text string) (Month, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Month{}, fmt.Errorf("month is empty")
	}
	t, err := time.Parse(MonthLayout, text)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", text, err)
	}
	return MonthOf(t), nil
}

// Start returns the first instant of the month in UTC.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the month at midnight UTC.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

// Contains reports whether t falls on any day of the month.
func (m Month) Contains(t time.Time) bool {
	day := TruncateDay(t)
	return !day.Before(m.Start()) && !day.After(m.End())
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalJSON encodes the month as its YYYY-MM string.
func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a YYYY-MM string.
func (m *Month) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseMonth(text)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
