package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratelens/internal/shared/testutil"
	"ratelens/pkg/contracts"
)

// setupWorkdir runs the test in an empty directory with console logging
func setupWorkdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("RATELENS_LOGGING_OUTPUT", "console")
	t.Setenv("RATELENS_LOGGING_LEVEL", "error")
	t.Setenv("RATELENS_TELEMETRY_ENABLE_METRICS", "false")

	testutil.WriteSource(t, dir, "rates.csv", testutil.ScenarioSource)
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "-version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, contracts.GetVersionString())
}

func TestRun_BadMode(t *testing.T) {
	code, _, stderr := runCLI(t, "", "-mode", "batch")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown mode "batch"`)
}

func TestRun_MissingSource(t *testing.T) {
	setupWorkdir(t)

	code, _, stderr := runCLI(t, "", "-file", "missing.csv", "-mode", "summary")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: source file missing.csv not found")
}

func TestRun_NoSourceConfigured(t *testing.T) {
	setupWorkdir(t)

	code, _, stderr := runCLI(t, "", "-mode", "summary")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no source file configured")
}

func TestRun_Summary(t *testing.T) {
	setupWorkdir(t)

	code, stdout, stderr := runCLI(t, "", "-mode", "summary", "rates.csv")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Monthly mean rate")
	assert.Contains(t, stdout, "2023-01")
	assert.Contains(t, stdout, "2023-02")
	assert.Contains(t, stdout, "15.00")
}

func TestRun_OneCommand(t *testing.T) {
	setupWorkdir(t)

	code, stdout, _ := runCLI(t, "", "-file", "rates.csv", "-c", "month 2023-05")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "No data for month 2023-05.")
}

func TestRun_ShellFromPipe(t *testing.T) {
	setupWorkdir(t)

	code, stdout, stderr := runCLI(t, "4\n\nperiod 2023-02-30\n5\n", "-file", "rates.csv")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Rows with deviation from mean >= 5.00")
	assert.Contains(t, stdout, "Error: start must match YYYY-MM-DD")
}

func TestRun_WorkbookRender(t *testing.T) {
	dir := setupWorkdir(t)

	code, stdout, stderr := runCLI(t, "", "-file", "rates.csv", "-render", "workbook", "-c", "month 2023-01")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Chart saved to")

	matches, err := filepath.Glob(filepath.Join(dir, "charts", "*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
