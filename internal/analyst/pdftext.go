// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyst

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text of the first maxPages pages of the PDF,
// truncated to maxChars with an ellipsis marker. Pages that fail to decode
// are skipped rather than failing the whole extraction.
func ExtractText(pdfPath string, maxPages, maxChars int) (string, error) {
	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var b strings.Builder
	numPages := reader.NumPage()
	if maxPages > 0 && numPages > maxPages {
		numPages = maxPages
	}
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	result := strings.TrimSpace(b.String())
	if maxChars > 0 && len(result) > maxChars {
		result = result[:maxChars] + " ..."
	}
	return result, nil
}
