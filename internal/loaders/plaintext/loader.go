// Package plaintext loads .txt documents.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles plain text documents.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// SupportedExtensions returns the extensions this loader handles.
func (l *Loader) SupportedExtensions() []string {
	return []string{".txt"}
}

// Load decodes the content as UTF-8, dropping invalid sequences.
func (l *Loader) Load(_ context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	return &domain.ParsedDocument{
		Text:  DecodeUTF8(raw.Content),
		Title: TitleFromFilename(raw.Filename),
	}, nil
}

// DecodeUTF8 converts bytes to a string, dropping invalid UTF-8 and a
// leading byte order mark.
func DecodeUTF8(content []byte) string {
	text := strings.ToValidUTF8(string(content), "")
	return strings.TrimPrefix(text, "\ufeff")
}

// TitleFromFilename extracts a human-readable title from a filename.
func TitleFromFilename(filename string) string {
	name := filepath.Base(filename)

	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}

	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")

	return name
}
