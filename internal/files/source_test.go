package files

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratelens/internal/config"
	apperrors "ratelens/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSourceReader_ReadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(path, []byte("date;value\n2023-01-01;10\n2023-01-15;20\n"), 0o644))

	reader := NewSourceReader(config.Default().Source, testLogger())
	rows, err := reader.Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2023-01-15", rows[1].DateText)
	assert.Equal(t, "20", rows[1].ValueText)
}

func TestSourceReader_ReadWorkbook(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"date", "value"},
		{"2023-01-01", 10},
	})

	reader := NewSourceReader(config.Default().Source, testLogger())
	rows, err := reader.Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "10", rows[0].ValueText)
}

func TestSourceReader_Missing(t *testing.T) {
	reader := NewSourceReader(config.Default().Source, testLogger())
	_, err := reader.Read(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceNotFound))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestFileValidator_ValidateSource(t *testing.T) {
	v := NewFileValidator(testLogger())

	err := v.ValidateSource("")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	err = v.ValidateSource(t.TempDir())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), "is a directory")
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)
	dir := filepath.Join(t.TempDir(), "charts", "nested")

	require.NoError(t, v.ValidateOutputDirectory(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, IsWorkbook("rates.XLSX"))
	assert.True(t, IsWorkbook("dir/rates.xlsm"))
	assert.False(t, IsWorkbook("rates.csv"))
	assert.False(t, IsWorkbook("rates"))
}
