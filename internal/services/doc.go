// Package services exposes the series operations to the interactive shell
// and the HTTP transport.
//
// SeriesService wraps one cleaned series. Every call validates its request
// with go-playground/validator, runs inside an OpenTelemetry span and
// records command metrics. Invalid input yields an AppError of type
// VALIDATION; a month without rows yields ErrNoDataForMonth, which callers
// report as a notice rather than a failure.
//
//	svc, err := services.LoadSeriesService(ctx, files.NewSourceReader(cfg.Source, logger), path, services.Options{
//	    DefaultThreshold: cfg.Analysis.DefaultThreshold,
//	    Logger:           logger,
//	})
//	view, err := svc.MonthView(ctx, services.MonthRequest{Month: "2023-02"})
//	if errors.Is(err, services.ErrNoDataForMonth) {
//	    // tell the user
//	}
package services
