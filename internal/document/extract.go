// Package document pulls text paragraphs out of uploaded PDFs.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minParagraphLen drops page furniture (headers, page numbers) that is
// too short to carry planning content.
const minParagraphLen = 30

// ExtractParagraphs returns cleaned text paragraphs from raw PDF bytes.
func ExtractParagraphs(content []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var paragraphs []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		paragraphs = append(paragraphs, SplitParagraphs(text)...)
	}

	return paragraphs, nil
}

// SplitParagraphs splits page text on blank lines and keeps paragraphs
// long enough to matter.
func SplitParagraphs(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		clean := strings.TrimSpace(para)
		if len([]rune(clean)) >= minParagraphLen {
			out = append(out, clean)
		}
	}
	return out
}
