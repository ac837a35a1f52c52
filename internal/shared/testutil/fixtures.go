package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"ratelens/pkg/contracts/domain"
)

// ScenarioSource is a semicolon-delimited source with one unparseable date
// and one missing value. Cleaning keeps three rows and imputes 15 for
// 2023-02-01.
const ScenarioSource = `date;value
2023-01-01;10
2023-01-15;20
bad-date;30
2023-02-01;
`

// ScenarioRows returns the raw rows of ScenarioSource without the header
func ScenarioRows() []domain.RawRow {
	return []domain.RawRow{
		{DateText: "2023-01-01", ValueText: "10", Line: 2},
		{DateText: "2023-01-15", ValueText: "20", Line: 3},
		{DateText: "bad-date", ValueText: "30", Line: 4},
		{DateText: "2023-02-01", ValueText: "", Line: 5},
	}
}

// WriteSource writes content to dir/name and returns the path
func WriteSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source %s: %v", path, err)
	}
	return path
}
