// Package pdf loads .pdf documents with a pure-Go text extractor.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
	"github.com/SJF-ECNU/paperhelper/internal/loaders/plaintext"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles PDF documents.
type Loader struct {
	extract func(content []byte) (string, error)
}

// New creates a new PDF loader.
func New() *Loader {
	return &Loader{extract: extractText}
}

// SupportedExtensions returns the extensions this loader handles.
func (l *Loader) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Load extracts page text. Unparseable files fall back to decoding the
// raw bytes as Latin-1.
func (l *Loader) Load(_ context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, err := l.extract(raw.Content)
	if err != nil {
		text, err = decodeLatin1(raw.Content)
		if err != nil {
			return nil, err
		}
	}

	return &domain.ParsedDocument{
		Text:  text,
		Title: extractTitle(text, raw.Filename),
	}, nil
}

// extractText joins the plain text of every page with a newline.
func extractText(content []byte) (text string, err error) {
	// The reader panics on some malformed object streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}

func decodeLatin1(content []byte) (string, error) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("decode latin-1: %w", err)
	}
	return string(decoded), nil
}

// extractTitle uses the first non-empty line, falling back to the filename.
func extractTitle(text, filename string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 100 {
			line = line[:100]
		}
		return strings.ToValidUTF8(line, "")
	}

	return plaintext.TitleFromFilename(filename)
}
