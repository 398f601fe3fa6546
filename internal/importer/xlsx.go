package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSXRows reads the first sheet of a workbook and returns data rows with
// the same contract as ReadRows: the header row is skipped, blank rows are
// skipped without consuming a row number, fields are trimmed, and an empty or
// header-only sheet is a fatal error.
func ReadXLSXRows(r io.Reader) ([]ParsedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("file is empty")
	}
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	var rows []ParsedRow
	sawHeader := false
	rowNum := 0

	for _, cells := range raw {
		fields := make([]string, len(cells))
		blank := true
		for i, cell := range cells {
			fields[i] = strings.TrimSpace(cell)
			if fields[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if !sawHeader {
			sawHeader = true
			continue
		}
		rowNum++
		rows = append(rows, ParsedRow{RowNum: rowNum, Fields: fields})
	}

	if !sawHeader {
		return nil, fmt.Errorf("file is empty")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no data rows")
	}
	return rows, nil
}
