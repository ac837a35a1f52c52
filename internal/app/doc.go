// Package app assembles serve mode: it wires the series and health
// handlers behind the middleware chain, exposes Prometheus metrics and runs
// the HTTP server with graceful shutdown.
//
// Usage:
//
//	application := app.NewApplication(cfg, series, providers, metrics, logger)
//	if err := application.Run(ctx); err != nil {
//	    return err
//	}
//
// Run returns once SIGINT or SIGTERM arrives or ctx is cancelled and the
// server has drained within Server.ShutdownTimeout.
package app
