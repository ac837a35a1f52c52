package files

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "ratelens/internal/errors"
	"ratelens/pkg/contracts/domain"
)

// ReadWorkbook reads positional date/value rows from an Excel sheet.
// Cells are read raw so date cells arrive as serial numbers, which are
// converted to domain.DateLayout text.
func ReadWorkbook(path string, opts Options) ([]domain.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil).
				WithContext("path", path)
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).
			WithContext("path", path)
	}

	var rows []domain.RawRow
	for i, record := range records {
		if i == 0 && opts.HasHeader {
			continue
		}
		if isBlank(record) {
			continue
		}
		row := positional(record, i+1)
		row.DateText = serialToDate(row.DateText)
		rows = append(rows, row)
	}

	return rows, nil
}

// serialToDate converts an Excel date serial to DateLayout text and leaves
// any other text untouched
func serialToDate(text string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || serial <= 0 {
		return text
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return text
	}
	return t.Format(domain.DateLayout)
}
