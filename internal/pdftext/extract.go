// Package pdftext extracts and searches the plain text of PDF documents.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/liliang-cn/alfred/internal/domain"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses every run of whitespace into a single space
func NormalizeWhitespace(text string) string {
	return whitespace.ReplaceAllString(text, " ")
}

// Extract reads every page of the PDF in r and returns the concatenated,
// whitespace-normalized text in page order. Pages without extractable text
// (for example scanned images) contribute nothing.
func Extract(r io.ReaderAt, size int64) (text string, err error) {
	// The parser panics on some malformed object graphs.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %v", domain.ErrUnreadablePDF, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadablePDF, err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", domain.ErrUnreadablePDF, i, err)
		}
		pages = append(pages, pageText)
	}

	return JoinPages(pages), nil
}

// ExtractBytes is Extract over an in-memory upload
func ExtractBytes(data []byte) (string, error) {
	return Extract(bytes.NewReader(data), int64(len(data)))
}

// JoinPages normalizes each page and joins the non-empty ones with a single
// space, so words on either side of a page break stay apart
func JoinPages(pages []string) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		p = strings.TrimSpace(NormalizeWhitespace(p))
		if p == "" {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}
