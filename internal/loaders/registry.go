package loaders

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SJF-ECNU/paperhelper/internal/analysis/segmenter"
	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
	"github.com/SJF-ECNU/paperhelper/internal/loaders/markdown"
	"github.com/SJF-ECNU/paperhelper/internal/loaders/pdf"
	"github.com/SJF-ECNU/paperhelper/internal/loaders/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// DefaultMaxBytes is the default upload size limit (25 MB).
const DefaultMaxBytes int64 = 25 * 1024 * 1024

// Registry maps file extensions to loaders.
type Registry struct {
	loaders   map[string]driven.DocumentLoader
	maxBytes  int64
	segmenter *segmenter.Segmenter
}

// NewRegistry creates an empty registry.
// Non-positive maxBytes uses DefaultMaxBytes; a nil segmenter uses defaults.
func NewRegistry(maxBytes int64, seg *segmenter.Segmenter) *Registry {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if seg == nil {
		seg = segmenter.New()
	}
	return &Registry{
		loaders:   make(map[string]driven.DocumentLoader),
		maxBytes:  maxBytes,
		segmenter: seg,
	}
}

// NewDefaultRegistry creates a registry with the built-in loaders.
func NewDefaultRegistry(maxBytes int64, seg *segmenter.Segmenter) *Registry {
	r := NewRegistry(maxBytes, seg)
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers the plain text, markdown and PDF loaders.
func RegisterDefaults(r *Registry) {
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(pdf.New())
}

// Register adds a loader for each of its extensions.
// Later registrations replace earlier ones for the same extension.
func (r *Registry) Register(loader driven.DocumentLoader) {
	for _, ext := range loader.SupportedExtensions() {
		r.loaders[strings.ToLower(ext)] = loader
	}
}

// Extensions returns the supported extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether filename has a registered extension.
func (r *Registry) Supports(filename string) bool {
	_, ok := r.loaders[extension(filename)]
	return ok
}

// MaxBytes returns the upload size limit.
func (r *Registry) MaxBytes() int64 {
	return r.maxBytes
}

// LoadFile checks type and size, extracts the text and segments it.
func (r *Registry) LoadFile(ctx context.Context, path string) (*domain.ParsedDocument, error) {
	ext := extension(path)
	loader, ok := r.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	if info.Size() > r.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d byte limit", domain.ErrDocumentTooLarge, info.Size(), r.maxBytes)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	parsed, err := loader.Load(ctx, &domain.RawDocument{
		Filename: filepath.Base(path),
		Path:     path,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}

	parsed.Sections = r.segmenter.Segment(parsed.Text)
	return parsed, nil
}

func extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
