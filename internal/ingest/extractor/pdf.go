package extractor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// pdfRows extracts the plain text of a PDF statement and feeds it through
// the delimited-text path. Layout reconstruction is out of scope; this
// handles PDFs whose text layer already reads as a table.
func pdfRows(data []byte) ([]RawRow, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	textReader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	text, err := io.ReadAll(textReader)
	if err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}

	return delimitedRows(normalizeBytes(text))
}
