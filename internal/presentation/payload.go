package presentation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Axis and series labels shared by every chart
const (
	DateAxisLabel  = "Date"
	MonthAxisLabel = "Month"
	RateAxisLabel  = "Rate"
	SeriesLabel    = "Rate"
)

// ChartPoint is one plotted value. Label is the x-axis text (a date or a
// month) and ValueLabel the annotation drawn next to the point.
type ChartPoint struct {
	Date       time.Time `json:"date"`
	Label      string    `json:"label"`
	Value      float64   `json:"value"`
	ValueLabel string    `json:"value_label"`
}

// ReferenceLine is a horizontal line across the chart
type ReferenceLine struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	ValueLabel string  `json:"value_label"`
}

// Chart is everything a chart renderer needs
type Chart struct {
	Title          string          `json:"title"`
	XLabel         string          `json:"x_label"`
	YLabel         string          `json:"y_label"`
	SeriesLabel    string          `json:"series_label"`
	Points         []ChartPoint    `json:"points"`
	ReferenceLines []ReferenceLine `json:"reference_lines,omitempty"`
}

// Table is everything a table printer needs. Every row has len(Headers) cells.
type Table struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// FormatValue renders v with two decimals
func FormatValue(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
