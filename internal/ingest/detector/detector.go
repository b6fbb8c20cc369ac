// Package detector classifies statement files into a parseable kind.
// Detection is extension-first; content sniffing is the fallback for files
// uploaded without a useful extension.
package detector

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Kind is the file format a statement export was classified as.
type Kind string

const (
	KindCSV     Kind = "csv"
	KindExcel   Kind = "excel"
	KindJSON    Kind = "json"
	KindText    Kind = "text"
	KindPDF     Kind = "pdf"
	KindUnknown Kind = "unknown"
)

// Detect classifies a file by its extension alone. No content is inspected.
func Detect(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv", ".tsv":
		return KindCSV
	case ".xls", ".xlsx", ".xlsm":
		return KindExcel
	case ".json":
		return KindJSON
	case ".txt":
		return KindText
	case ".pdf":
		return KindPDF
	default:
		return KindUnknown
	}
}

// Magic numbers for the binary formats we accept.
var (
	zipMagic  = []byte{0x50, 0x4B, 0x03, 0x04} // xlsx/xlsm (zip container)
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0} // legacy xls
	pdfMagic  = []byte("%PDF")
)

// DetectContent sniffs the file content when the extension gave no answer.
// Text-like content falls through to KindText so the delimiter sniffer gets
// a chance at it.
func DetectContent(data []byte) Kind {
	switch {
	case bytes.HasPrefix(data, zipMagic), bytes.HasPrefix(data, ole2Magic):
		return KindExcel
	case bytes.HasPrefix(data, pdfMagic):
		return KindPDF
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\xEF\xBB\xBF")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return KindJSON
	}
	if len(trimmed) == 0 {
		return KindUnknown
	}
	return KindText
}
