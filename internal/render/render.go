// Package render draws presentation payloads: console tables and charts,
// and Excel workbooks with line charts.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"ratelens/internal/config"
	"ratelens/internal/files"
	"ratelens/internal/presentation"
)

// ChartRenderer displays a chart and returns once it is done
type ChartRenderer interface {
	RenderChart(ctx context.Context, chart presentation.Chart) error
}

// TablePrinter prints a table and returns once it is done
type TablePrinter interface {
	PrintTable(ctx context.Context, table presentation.Table) error
}

// Multi renders a chart with every renderer in order. All renderers run
// even if one fails; the failures are joined.
type Multi []ChartRenderer

// RenderChart implements ChartRenderer
func (m Multi) RenderChart(ctx context.Context, chart presentation.Chart) error {
	var errs []error
	for _, r := range m {
		if err := r.RenderChart(ctx, chart); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the chart renderer selected by cfg.Mode. The console renderer
// writes to out.
func New(cfg config.RenderConfig, out io.Writer, logger *slog.Logger) (ChartRenderer, error) {
	console := NewConsole(out)

	switch cfg.Mode {
	case "console", "":
		return console, nil
	case "workbook", "both":
		if err := files.NewFileValidator(logger).ValidateOutputDirectory(cfg.OutputDir); err != nil {
			return nil, err
		}
		workbook := NewWorkbook(cfg.OutputDir, out, logger)
		if cfg.Mode == "workbook" {
			return workbook, nil
		}
		return Multi{console, workbook}, nil
	default:
		return nil, fmt.Errorf("unsupported render mode: %s", cfg.Mode)
	}
}
