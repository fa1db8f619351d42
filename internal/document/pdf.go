// Package document extracts plain text from uploaded attachments.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxUploadBytes bounds a single attachment.
const MaxUploadBytes = 20 << 20

// ErrEmpty is returned for zero-length uploads.
var ErrEmpty = errors.New("document is empty")

// ErrTooLarge is returned when an upload exceeds MaxUploadBytes.
var ErrTooLarge = errors.New("document too large")

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// ReadPDF reads r fully (up to MaxUploadBytes) and extracts its text.
func ReadPDF(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", ErrTooLarge
	}
	return PDFText(data)
}

// PDFText returns the whitespace-normalized text content of a PDF.
func PDFText(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	// the pdf reader panics on some malformed object streams
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to extract pdf text: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	fullText := extraneousWhitespace.ReplaceAllString(builder.String(), " ")
	return strings.TrimSpace(fullText), nil
}
