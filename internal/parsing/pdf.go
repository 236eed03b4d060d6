// Package parsing extracts and normalizes resume text from uploaded files.
package parsing

import (
	"bytes"
	"io"
	"strings"

	"github.com/dslipak/pdf"
)

// ExtractTextFromPDF extracts the plain text of a PDF document. Pages whose
// text layer cannot be decoded are skipped rather than failing the whole
// document; scanned PDFs with no text layer yield an empty string.
func ExtractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Message: "unreadable PDF", Cause: err}
	}

	var parts []string
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		parts = append(parts, text)
	}

	return NormalizeText(strings.Join(parts, "\n")), nil
}

// ExtractTextFromReader is a convenience wrapper for streamed uploads.
func ExtractTextFromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &ExtractionError{Message: "reading upload", Cause: err}
	}
	return ExtractTextFromPDF(data)
}
