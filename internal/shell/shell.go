package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-shellwords"

	"ratelens/internal/dataprocessing"
	apperrors "ratelens/internal/errors"
	"ratelens/internal/infrastructure"
	"ratelens/internal/presentation"
	"ratelens/internal/render"
	"ratelens/internal/services"
	"ratelens/pkg/contracts/domain"
)

const menu = `
Choose an action:
  1) period     rate chart for a date range
  2) month      rate chart for one month
  3) summary    monthly mean rates
  4) deviation  rows by deviation from the mean
  5) exit
`

const commandPrompt = "ratelens> "

var errExit = errors.New("exit requested")

var commands = map[string]string{
	"1": "period", "period": "period",
	"2": "month", "month": "month",
	"3": "summary", "summary": "summary",
	"4": "deviation", "deviation": "deviation",
	"5": "exit", "exit": "exit", "quit": "exit", "q": "exit",
	"help": "help", "?": "help",
}

// Shell runs commands read from a Prompter against one series
type Shell struct {
	service  *services.SeriesService
	charts   render.ChartRenderer
	tables   render.TablePrinter
	prompter Prompter
	out      io.Writer
	logger   *slog.Logger
}

// New creates a shell. Notices and errors are written to out.
func New(service *services.SeriesService, charts render.ChartRenderer, tables render.TablePrinter,
	prompter Prompter, out io.Writer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		service:  service,
		charts:   charts,
		tables:   tables,
		prompter: prompter,
		out:      out,
		logger:   infrastructure.WithComponent(logger, "shell"),
	}
}

// Run reads and executes commands until exit, end of input or ctx is done
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprint(s.out, menu)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.prompter.Prompt(commandPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}

		err = s.Execute(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, errExit), errors.Is(err, io.EOF):
			return nil
		default:
			s.report(err)
		}
	}
}

// Execute runs a single command line. Each command gets its own trace id.
func (s *Shell) Execute(ctx context.Context, line string) error {
	args, err := shellwords.Parse(line)
	if err != nil {
		return apperrors.NewAppValidationError(fmt.Sprintf("cannot parse %q", line), err)
	}
	if len(args) == 0 {
		return nil
	}

	name, ok := commands[strings.ToLower(args[0])]
	if !ok {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("unknown command %q, choose 1-5 or type help", args[0]), nil)
	}
	args = args[1:]

	ctx = infrastructure.WithTraceID(ctx, infrastructure.GenerateTraceID())
	s.logger.DebugContext(ctx, "Command started",
		slog.String("command", name),
		slog.Any("args", args))

	switch name {
	case "period":
		err = s.period(ctx, args)
	case "month":
		err = s.month(ctx, args)
	case "summary":
		err = s.summary(ctx)
	case "deviation":
		err = s.deviation(ctx, args)
	case "help":
		fmt.Fprint(s.out, menu)
	case "exit":
		return errExit
	}

	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.WarnContext(ctx, "Command failed",
			slog.String("command", name),
			slog.String("error", err.Error()))
	}
	return err
}

func (s *Shell) period(ctx context.Context, args []string) error {
	var start, end string
	switch {
	case len(args) > 0:
		start = args[0]
		if len(args) > 1 {
			end = args[1]
		}
	default:
		var err error
		if start, err = s.ask("Start date (YYYY-MM-DD, empty for none): "); err != nil {
			return err
		}
		if end, err = s.ask("End date (YYYY-MM-DD, empty for none): "); err != nil {
			return err
		}
	}

	result, err := s.service.PeriodView(ctx, services.PeriodRequest{Start: start, End: end})
	if err != nil {
		return err
	}
	if result.Count == 0 {
		s.notice("No data for the selected period.")
		return nil
	}
	return s.charts.RenderChart(ctx, result.Chart)
}

func (s *Shell) month(ctx context.Context, args []string) error {
	var text string
	if len(args) > 0 {
		text = strings.TrimSpace(args[0])
	}

	for {
		if text != "" {
			if _, err := domain.ParseMonth(text); err == nil {
				break
			}
			s.notice("Invalid month %q, expected YYYY-MM.", text)
		}
		var err error
		if text, err = s.ask("Month (YYYY-MM): "); err != nil {
			return err
		}
	}

	chart, err := s.service.MonthView(ctx, services.MonthRequest{Month: text})
	if errors.Is(err, services.ErrNoDataForMonth) {
		s.notice("No data for month %s.", text)
		return nil
	}
	if err != nil {
		return err
	}
	return s.charts.RenderChart(ctx, chart)
}

func (s *Shell) summary(ctx context.Context) error {
	result, err := s.service.MonthlySummary(ctx)
	if err != nil {
		return err
	}
	if len(result.Aggregates) == 0 {
		s.notice("No data to summarize.")
		return nil
	}
	if err := s.tables.PrintTable(ctx, result.Table); err != nil {
		return err
	}
	return s.charts.RenderChart(ctx, result.Chart)
}

func (s *Shell) deviation(ctx context.Context, args []string) error {
	prompt := fmt.Sprintf("Deviation threshold (empty for %s): ",
		presentation.FormatValue(s.service.DefaultThreshold()))

	var text string
	if len(args) > 0 {
		text = strings.TrimSpace(args[0])
	} else {
		var err error
		if text, err = s.ask(prompt); err != nil {
			return err
		}
	}

	var req services.DeviationRequest
	for text != "" {
		if v, ok := dataprocessing.ParseValue(text); ok {
			req.Threshold = &v
			break
		}
		s.notice("Invalid threshold %q, enter a number.", text)
		var err error
		if text, err = s.ask(prompt); err != nil {
			return err
		}
	}

	result, err := s.service.Deviation(ctx, req)
	if err != nil {
		return err
	}
	if result.Count == 0 {
		s.notice("No rows with deviation from mean >= %s.", presentation.FormatValue(result.Threshold))
		return nil
	}
	return s.tables.PrintTable(ctx, result.Table)
}

func (s *Shell) ask(prompt string) (string, error) {
	line, err := s.prompter.Prompt(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Shell) notice(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// report prints a command failure. Validation failures show only their
// message.
func (s *Shell) report(err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.ErrTypeValidation {
		fmt.Fprintf(s.out, "Error: %s\n", appErr.Message)
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}
