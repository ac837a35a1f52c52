package files

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "ratelens/internal/errors"
	"ratelens/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadDelimited reads positional date/value rows from delimited text
func ReadDelimited(r io.Reader, opts Options) ([]domain.RawRow, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = opts.delimiter()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var rows []domain.RawRow
	headerPending := opts.HasHeader

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, apperrors.NewParsingError(
					fmt.Sprintf("malformed source at line %d", parseErr.Line), err).
					WithContext("line", parseErr.Line)
			}
			return nil, apperrors.NewStorageError("failed to read source", err)
		}

		line, _ := reader.FieldPos(0)
		if headerPending {
			headerPending = false
			continue
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, positional(record, line))
	}

	return rows, nil
}

// positional maps the first two fields to date and value
func positional(record []string, line int) domain.RawRow {
	row := domain.RawRow{Line: line}
	if len(record) > 0 {
		row.DateText = record[0]
	}
	if len(record) > 1 {
		row.ValueText = record[1]
	}
	return row
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
