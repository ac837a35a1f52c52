package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"ratelens/internal/presentation"
)

const dataSheet = "Data"

// Workbook writes each chart to its own .xlsx file: the points on a data
// sheet and a line chart drawn from them. Reference lines become flat
// series.
type Workbook struct {
	dir    string
	out    io.Writer
	logger *slog.Logger
}

// NewWorkbook creates a workbook renderer writing into dir. When out is not
// nil the written path is reported there.
func NewWorkbook(dir string, out io.Writer, logger *slog.Logger) *Workbook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workbook{dir: dir, out: out, logger: logger}
}

// RenderChart implements ChartRenderer
func (w *Workbook) RenderChart(ctx context.Context, chart presentation.Chart) error {
	path, err := w.WriteChart(chart)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to write chart workbook",
			slog.String("title", chart.Title),
			slog.String("error", err.Error()))
		return err
	}

	w.logger.InfoContext(ctx, "Chart workbook written",
		slog.String("path", path),
		slog.Int("points", len(chart.Points)))
	if w.out != nil {
		fmt.Fprintf(w.out, "Chart saved to %s\n", path)
	}
	return nil
}

// WriteChart writes chart to <dir>/<title-slug>.xlsx and returns the path
func (w *Workbook) WriteChart(chart presentation.Chart) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return "", err
	}

	header := []interface{}{chart.XLabel, chart.SeriesLabel}
	for _, line := range chart.ReferenceLines {
		header = append(header, line.Label)
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return "", err
	}

	for i, p := range chart.Points {
		row := []interface{}{p.Label, p.Value}
		for _, line := range chart.ReferenceLines {
			row = append(row, line.Value)
		}
		if err := f.SetSheetRow(dataSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return "", err
		}
	}
	if err := f.SetColWidth(dataSheet, "A", "A", 12); err != nil {
		return "", err
	}

	if len(chart.Points) > 0 {
		if err := f.AddChart(dataSheet, "E2", lineChart(chart)); err != nil {
			return "", fmt.Errorf("failed to add chart: %w", err)
		}
	}

	path := filepath.Join(w.dir, slug(chart.Title)+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return path, nil
}

func lineChart(chart presentation.Chart) *excelize.Chart {
	last := len(chart.Points) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", dataSheet, last)

	series := []excelize.ChartSeries{{
		Name:       fmt.Sprintf("%s!$B$1", dataSheet),
		Categories: categories,
		Values:     fmt.Sprintf("%s!$B$2:$B$%d", dataSheet, last),
		Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
	}}
	for i := range chart.ReferenceLines {
		col, _ := excelize.ColumnNumberToName(3 + i)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", dataSheet, col),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", dataSheet, col, col, last),
			Line:       excelize.ChartLine{Type: excelize.ChartLineSolid, Width: 1.5},
			Marker:     excelize.ChartMarker{Symbol: "none"},
		})
	}

	return &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: chart.Title}},
		Legend: excelize.ChartLegend{Position: "top"},
		XAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: chart.XLabel}},
		},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: chart.YLabel}},
		},
		Dimension: excelize.ChartDimension{Width: 960, Height: 540},
	}
}

// slug turns a title into a file name
func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "chart"
	}
	return s
}
