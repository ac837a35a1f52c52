package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"ratelens/internal/presentation"
)

const (
	barWidth  = 40
	barRune   = "█"
	columnGap = "  "
)

// Console writes tables and text charts to a writer. Column widths are
// measured in terminal cells so Cyrillic and CJK labels stay aligned.
type Console struct {
	out io.Writer
}

// NewConsole creates a console renderer writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// PrintTable implements TablePrinter. The first column is left aligned and
// the others right aligned.
func (c *Console) PrintTable(_ context.Context, table presentation.Table) error {
	widths := make([]int, len(table.Headers))
	for i, h := range table.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range table.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeTitle(&b, table.Title)
	writeCells(&b, table.Headers, widths)

	total := 0
	for _, w := range widths {
		total += w
	}
	if len(widths) > 1 {
		total += len(columnGap) * (len(widths) - 1)
	}
	b.WriteString(strings.Repeat("-", total))
	b.WriteByte('\n')

	for _, row := range table.Rows {
		writeCells(&b, row, widths)
	}

	_, err := io.WriteString(c.out, b.String())
	return err
}

// RenderChart implements ChartRenderer with one bar per point
func (c *Console) RenderChart(_ context.Context, chart presentation.Chart) error {
	var b strings.Builder
	writeTitle(&b, chart.Title)

	if len(chart.Points) == 0 {
		b.WriteString("(no points)\n")
		_, err := io.WriteString(c.out, b.String())
		return err
	}

	labelWidth := runewidth.StringWidth(chart.XLabel)
	valueWidth := runewidth.StringWidth(chart.SeriesLabel)
	low, high := math.Inf(1), math.Inf(-1)
	for _, p := range chart.Points {
		labelWidth = max(labelWidth, runewidth.StringWidth(p.Label))
		valueWidth = max(valueWidth, runewidth.StringWidth(p.ValueLabel))
		low, high = math.Min(low, p.Value), math.Max(high, p.Value)
	}
	for _, line := range chart.ReferenceLines {
		low, high = math.Min(low, line.Value), math.Max(high, line.Value)
	}

	fmt.Fprintf(&b, "%s%s%s\n",
		runewidth.FillRight(chart.XLabel, labelWidth), columnGap,
		runewidth.FillLeft(chart.SeriesLabel, valueWidth))

	for _, p := range chart.Points {
		fmt.Fprintf(&b, "%s%s%s%s%s\n",
			runewidth.FillRight(p.Label, labelWidth), columnGap,
			runewidth.FillLeft(p.ValueLabel, valueWidth), columnGap,
			bar(p.Value, low, high))
	}

	for _, line := range chart.ReferenceLines {
		fmt.Fprintf(&b, "%s: %s\n", line.Label, line.ValueLabel)
	}

	_, err := io.WriteString(c.out, b.String())
	return err
}

// bar scales v into [1, barWidth] cells between low and high
func bar(v, low, high float64) string {
	n := barWidth
	if high > low {
		n = 1 + int(math.Round((v-low)/(high-low)*float64(barWidth-1)))
	}
	return strings.Repeat(barRune, n)
}

func writeTitle(b *strings.Builder, title string) {
	if title == "" {
		return
	}
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", runewidth.StringWidth(title)))
	b.WriteByte('\n')
}

func writeCells(b *strings.Builder, cells []string, widths []int) {
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			b.WriteString(columnGap)
			b.WriteString(runewidth.FillLeft(cell, w))
			continue
		}
		if len(widths) == 1 {
			b.WriteString(cell)
			continue
		}
		b.WriteString(runewidth.FillRight(cell, w))
	}
	b.WriteByte('\n')
}
