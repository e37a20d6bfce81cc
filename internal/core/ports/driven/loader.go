package driven

import (
	"context"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

// DocumentLoader extracts text from one family of file formats.
type DocumentLoader interface {
	// SupportedExtensions returns the lower-case extensions handled, with dot.
	SupportedExtensions() []string

	// Load extracts the text and title of a stored document.
	// Sections are left empty; the registry segments the text.
	Load(ctx context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error)
}

// LoaderRegistry enforces type and size policy and produces parsed documents.
type LoaderRegistry interface {
	// Supports reports whether the filename's extension has a loader.
	Supports(filename string) bool

	// MaxBytes returns the upload size limit.
	MaxBytes() int64

	// LoadFile reads, extracts and segments the file at path.
	// Returns domain.ErrUnsupportedType or domain.ErrDocumentTooLarge before reading.
	LoadFile(ctx context.Context, path string) (*domain.ParsedDocument, error)
}
