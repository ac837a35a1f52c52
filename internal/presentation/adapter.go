package presentation

import (
	"fmt"
	"strconv"
	"strings"

	"ratelens/internal/dataprocessing"
	"ratelens/pkg/contracts/domain"
)

// Reference line labels of the month chart
const (
	MedianLabel = "Median"
	MeanLabel   = "Mean"
)

// PeriodChart charts s. The title names the range only when both bound
// texts were supplied.
func PeriodChart(s dataprocessing.Series, startText, endText string) Chart {
	startText, endText = strings.TrimSpace(startText), strings.TrimSpace(endText)

	title := "Rate change over the whole period"
	if startText != "" && endText != "" {
		title = fmt.Sprintf("Rate change from %s to %s", startText, endText)
	}

	return Chart{
		Title:       title,
		XLabel:      DateAxisLabel,
		YLabel:      RateAxisLabel,
		SeriesLabel: SeriesLabel,
		Points:      seriesPoints(s),
	}
}

// MonthChart charts the rows of one month with median and mean lines
// computed over those rows alone.
func MonthChart(s dataprocessing.Series, m domain.Month) Chart {
	values := s.Values()
	median := dataprocessing.Median(values)
	mean := dataprocessing.Mean(values)

	return Chart{
		Title:       fmt.Sprintf("Rate change for %s", m),
		XLabel:      DateAxisLabel,
		YLabel:      RateAxisLabel,
		SeriesLabel: SeriesLabel,
		Points:      seriesPoints(s),
		ReferenceLines: []ReferenceLine{
			{Label: MedianLabel, Value: median, ValueLabel: FormatValue(median)},
			{Label: MeanLabel, Value: mean, ValueLabel: FormatValue(mean)},
		},
	}
}

// MonthlyChart charts the monthly means
func MonthlyChart(aggs []domain.MonthlyAggregate) Chart {
	points := make([]ChartPoint, len(aggs))
	for i, a := range aggs {
		points[i] = ChartPoint{
			Date:       a.Month.Start(),
			Label:      a.Month.String(),
			Value:      a.Mean,
			ValueLabel: FormatValue(a.Mean),
		}
	}

	return Chart{
		Title:       "Monthly mean rate",
		XLabel:      MonthAxisLabel,
		YLabel:      RateAxisLabel,
		SeriesLabel: SeriesLabel,
		Points:      points,
	}
}

// MonthlyTable lists the monthly means
func MonthlyTable(aggs []domain.MonthlyAggregate) Table {
	rows := make([][]string, len(aggs))
	for i, a := range aggs {
		rows[i] = []string{a.Month.String(), FormatValue(a.Mean), strconv.Itoa(a.Count)}
	}

	return Table{
		Title:   "Monthly mean rate",
		Headers: []string{MonthAxisLabel, "Mean", "Days"},
		Rows:    rows,
	}
}

// DeviationTable lists rows with their deviations from the series mean and
// median
func DeviationTable(s dataprocessing.Series, threshold float64) Table {
	points := s.Points()
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			p.Date.Format(domain.DateLayout),
			FormatValue(p.Value),
			FormatValue(p.DeviationFromMean),
			FormatValue(p.DeviationFromMedian),
		}
	}

	return Table{
		Title:   fmt.Sprintf("Rows with deviation from mean >= %s", FormatValue(threshold)),
		Headers: []string{DateAxisLabel, RateAxisLabel, "Deviation from mean", "Deviation from median"},
		Rows:    rows,
	}
}

func seriesPoints(s dataprocessing.Series) []ChartPoint {
	points := s.Points()
	out := make([]ChartPoint, len(points))
	for i, p := range points {
		out[i] = ChartPoint{
			Date:       p.Date,
			Label:      p.Date.Format(domain.DateLayout),
			Value:      p.Value,
			ValueLabel: FormatValue(p.Value),
		}
	}
	return out
}
