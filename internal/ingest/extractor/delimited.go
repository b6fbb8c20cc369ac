package extractor

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/gocarina/gocsv"
)

// Delimiters tried against the first line, in order. The one producing the
// most fields wins.
var candidateDelimiters = []rune{',', '\t', '|', ';'}

var multiSpace = regexp.MustCompile(`[ ]{2,}`)

// delimitedRows parses CSV/TSV or freeform delimited text into raw rows.
// The first non-empty line is the header. Freeform text whose lines separate
// columns with runs of spaces (typical for PDF-derived text) is retried with
// those runs collapsed to tabs.
func delimitedRows(data []byte) ([]RawRow, error) {
	lines := nonEmptyLines(string(data))
	if len(lines) == 0 {
		return nil, nil
	}

	delimiter, fields := sniffDelimiter(lines[0])
	if fields < 2 {
		retried := make([]string, len(lines))
		for i, line := range lines {
			retried[i] = multiSpace.ReplaceAllString(line, "\t")
		}
		if d, f := sniffDelimiter(retried[0]); f > fields {
			lines = retried
			delimiter, fields = d, f
		}
	}
	if delimiter == 0 {
		// Single-column file; parse as comma so quoting still works.
		delimiter = ','
	}

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = delimiter
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		r.FieldsPerRecord = -1
		return r
	})

	maps, err := gocsv.CSVToMaps(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		return nil, fmt.Errorf("parse delimited rows: %w", err)
	}

	rows := make([]RawRow, 0, len(maps))
	for _, m := range maps {
		row := make(RawRow, len(m))
		for k, v := range m {
			row[k] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// sniffDelimiter parses the header line with each candidate delimiter and
// returns the one yielding the most fields.
func sniffDelimiter(line string) (rune, int) {
	best := rune(0)
	bestFields := 0
	for _, d := range candidateDelimiters {
		r := csv.NewReader(strings.NewReader(line))
		r.Comma = d
		r.LazyQuotes = true
		record, err := r.Read()
		if err != nil {
			continue
		}
		if len(record) > bestFields {
			bestFields = len(record)
			best = d
		}
	}
	return best, bestFields
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
