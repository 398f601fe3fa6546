// Package importer implements the bulk CSV product-import pipeline: line
// parsing, row normalization, image reference reconciliation, batched
// persistence, and the client-side upload orchestration.
package importer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParsedRow is the ordered field list produced from one CSV line.
type ParsedRow struct {
	// RowNum is the 1-based data row index (header excluded).
	RowNum int
	Fields []string
}

// ParseLine splits one CSV line into trimmed fields. A double quote toggles
// quoting; a doubled quote inside a quoted field emits one literal quote; a
// comma outside quotes ends the field. Unbalanced quotes are not rejected:
// a line ending inside quotes yields the accumulated text as the final field.
func ParseLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// ReadRows reads an entire CSV document, skips the header row, and returns
// the data rows with 1-based row numbers. Blank lines are skipped without
// consuming a row number. An empty file, or a file containing only a header,
// is a fatal error per the import error taxonomy.
func ReadRows(r io.Reader) ([]ParsedRow, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows []ParsedRow
	sawHeader := false
	rowNum := 0

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !sawHeader {
			// Header row is present but ignored; columns are positional.
			sawHeader = true
			continue
		}
		rowNum++
		rows = append(rows, ParsedRow{RowNum: rowNum, Fields: ParseLine(line)})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if !sawHeader {
		return nil, fmt.Errorf("file is empty")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no data rows")
	}
	return rows, nil
}
