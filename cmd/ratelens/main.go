package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ratelens/internal/app"
	"ratelens/internal/config"
	apperrors "ratelens/internal/errors"
	"ratelens/internal/files"
	"ratelens/internal/infrastructure"
	"ratelens/internal/render"
	"ratelens/internal/services"
	"ratelens/internal/shell"
	"ratelens/pkg/contracts"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	file       string
	mode       string
	renderMode string
	command    string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&opts.file, "file", "", "source file (semicolon-delimited text or .xlsx), overrides source.path")
	fs.StringVar(&opts.mode, "mode", "shell", "shell | serve | summary")
	fs.StringVar(&opts.renderMode, "render", "", "console | workbook | both, overrides render.mode")
	fs.StringVar(&opts.command, "c", "", "run one shell command, e.g. \"month 2023-02\", and exit")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.file == "" && fs.NArg() > 0 {
		opts.file = fs.Arg(0)
	}
	switch opts.mode {
	case "shell", "serve", "summary":
	default:
		return opts, fmt.Errorf("unknown mode %q", opts.mode)
	}
	return opts, nil
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.file != "" {
		cfg.Source.Path = opts.file
	}
	if opts.renderMode != "" {
		cfg.Render.Mode = opts.renderMode
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()
	slog.SetDefault(logger)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("OpenTelemetry disabled", slog.String("error", err.Error()))
		providers = infrastructure.NoopProviders(logger)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shut down OpenTelemetry", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreateSeriesMetrics(providers.Meter)
	if err != nil {
		logger.Warn("Series metrics disabled", slog.String("error", err.Error()))
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	logger.InfoContext(ctx, "Starting",
		slog.String("version", contracts.Version),
		slog.String("mode", opts.mode),
		slog.String("source", cfg.Source.Path))

	series, err := services.LoadSeriesService(ctx, files.NewSourceReader(cfg.Source, logger), cfg.Source.Path,
		services.Options{
			DefaultThreshold: cfg.Analysis.DefaultThreshold,
			Tracer:           providers.Tracer,
			Metrics:          metrics,
			Logger:           logger,
		})
	if err != nil {
		reportLoadError(stderr, cfg.Source.Path, err)
		return 1
	}

	if opts.mode == "serve" {
		application := app.NewApplication(cfg, series, providers, metrics, logger)
		fmt.Fprintf(stdout, "Serving %s on http://%s\n", cfg.Source.Path, cfg.Server.Address())
		if err := application.Run(ctx); err != nil {
			logger.ErrorContext(ctx, "Server failed", slog.String("error", err.Error()))
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	charts, err := render.New(cfg.Render, stdout, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	prompter := shell.NewPrompter(stdin, stdout)
	defer prompter.Close()
	sh := shell.New(series, charts, render.NewConsole(stdout), prompter, stdout, logger)

	command := opts.command
	if opts.mode == "summary" {
		command = "summary"
	}
	if command != "" {
		if err := sh.Execute(ctx, command); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := sh.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func reportLoadError(w io.Writer, path string, err error) {
	switch {
	case errors.Is(err, files.ErrSourceNotFound):
		fmt.Fprintf(w, "Error: source file %s not found\n", path)
	case apperrors.IsType(err, apperrors.ErrTypeValidation):
		var appErr *apperrors.AppError
		errors.As(err, &appErr)
		fmt.Fprintf(w, "Error: %s\n", appErr.Message)
	default:
		fmt.Fprintf(w, "Error: cannot load %s: %v\n", path, err)
	}
}
