package extractor

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Vocabulary used to recognize a header row buried below report preamble.
// Bank spreadsheet exports often lead with account metadata before the table.
var headerKeywords = []string{
	"date", "txn", "amount", "debit", "credit", "balance",
	"description", "narration", "particulars", "details",
	"ref", "cheque", "remark", "withdrawal", "deposit",
	"value date", "mode", "merchant", "category",
}

// Rows past this index are never considered header candidates.
const headerScanLimit = 30

var syntheticHeader = regexp.MustCompile(`^(?i)(column|field|unnamed)[ _]?\d+$|^[A-Z]{1,3}$`)

// excelRows parses the first sheet of a workbook into raw rows. Missing
// trailing cells default to empty strings. Degenerate auto-detected headers
// (library placeholders, or leading rows that are clearly not header text)
// trigger a scan for the real header row.
func excelRows(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(grid) == 0 {
		return nil, nil
	}

	headerIdx := 0
	if headersDegenerate(grid[0]) {
		headerIdx = findHeaderRow(grid)
	}

	headers := grid[headerIdx]
	rows := make([]RawRow, 0, len(grid)-headerIdx-1)
	for _, cells := range grid[headerIdx+1:] {
		if rowEmpty(cells) {
			continue
		}
		row := make(RawRow, len(headers))
		for i, h := range headers {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// headersDegenerate reports whether the auto-detected header row is unusable:
// all cells empty, all synthetic placeholders, or nothing resembling header
// vocabulary.
func headersDegenerate(headers []string) bool {
	nonEmpty := 0
	synthetic := 0
	keyworded := 0
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		nonEmpty++
		if syntheticHeader.MatchString(h) {
			synthetic++
		}
		if matchesHeaderKeyword(h) {
			keyworded++
		}
	}
	if nonEmpty == 0 || synthetic == nonEmpty {
		return true
	}
	return keyworded == 0
}

// findHeaderRow scans the leading rows for the first one with at least two
// cells matching the header vocabulary. Falls back to row 0.
func findHeaderRow(grid [][]string) int {
	limit := headerScanLimit
	if limit > len(grid) {
		limit = len(grid)
	}
	for i := 0; i < limit; i++ {
		matches := 0
		for _, cell := range grid[i] {
			if matchesHeaderKeyword(cell) {
				matches++
			}
		}
		if matches >= 2 {
			return i
		}
	}
	return 0
}

func matchesHeaderKeyword(cell string) bool {
	cell = strings.ToLower(strings.TrimSpace(cell))
	if cell == "" {
		return false
	}
	for _, kw := range headerKeywords {
		if strings.Contains(cell, kw) {
			return true
		}
	}
	return false
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
