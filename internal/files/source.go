package files

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ratelens/internal/config"
	apperrors "ratelens/internal/errors"
	"ratelens/pkg/contracts/domain"
)

// Options controls how a source is read
type Options struct {
	Delimiter rune
	HasHeader bool
	Sheet     string
}

// OptionsFromConfig converts the source section of the configuration
func OptionsFromConfig(cfg config.SourceConfig) Options {
	return Options{
		Delimiter: cfg.DelimiterRune(),
		HasHeader: cfg.HasHeader,
		Sheet:     cfg.Sheet,
	}
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return config.DefaultDelimiter
	}
	return o.Delimiter
}

// SourceReader validates a source file and reads it with the reader
// matching its extension
type SourceReader struct {
	opts      Options
	validator *FileValidator
	logger    *slog.Logger
}

// NewSourceReader creates a reader for the configured source format
func NewSourceReader(cfg config.SourceConfig, logger *slog.Logger) *SourceReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceReader{
		opts:      OptionsFromConfig(cfg),
		validator: NewFileValidator(logger),
		logger:    logger,
	}
}

// Read returns the raw rows of the file at path
func (r *SourceReader) Read(ctx context.Context, path string) ([]domain.RawRow, error) {
	if err := r.validator.ValidateSource(path); err != nil {
		return nil, err
	}

	var (
		rows []domain.RawRow
		err  error
	)
	if IsWorkbook(path) {
		rows, err = ReadWorkbook(path, r.opts)
	} else {
		rows, err = r.readText(path)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to read source",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	r.logger.InfoContext(ctx, "Source read",
		slog.String("file", path),
		slog.Int("rows", len(rows)))
	return rows, nil
}

func (r *SourceReader) readText(path string) ([]domain.RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open source", err).WithContext("path", path)
	}
	defer file.Close()
	return ReadDelimited(file, r.opts)
}

// IsWorkbook reports whether path names an Excel workbook
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}
