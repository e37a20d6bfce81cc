// Package markdown loads .md and .markdown documents.
package markdown

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
	"github.com/SJF-ECNU/paperhelper/internal/loaders/plaintext"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

const frontMatterDelim = "---"

// Loader handles Markdown documents.
// Markup is kept so the segmenter can find heading lines.
type Loader struct{}

// New creates a new Markdown loader.
func New() *Loader {
	return &Loader{}
}

// SupportedExtensions returns the extensions this loader handles.
func (l *Loader) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Load decodes the content and removes any YAML front matter block.
func (l *Loader) Load(_ context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := strings.ReplaceAll(plaintext.DecodeUTF8(raw.Content), "\r\n", "\n")

	meta, body, err := splitFrontMatter(text)
	if err != nil {
		return nil, err
	}

	title, _ := meta["title"].(string)
	if title == "" {
		title = extractMarkdownTitle(body, raw.Filename)
	}

	return &domain.ParsedDocument{
		Text:  body,
		Title: strings.TrimSpace(title),
	}, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
// Text without a closed block is returned unchanged.
func splitFrontMatter(text string) (map[string]any, string, error) {
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return nil, text, nil
	}

	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return nil, text, nil
	}

	after := rest[end+len(frontMatterDelim)+1:]
	if after != "" && !strings.HasPrefix(after, "\n") {
		return nil, text, nil
	}

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return nil, "", fmt.Errorf("parse front matter: %w", err)
	}

	return meta, strings.TrimPrefix(after, "\n"), nil
}

// extractMarkdownTitle returns the first H1 heading or falls back to filename.
func extractMarkdownTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	return plaintext.TitleFromFilename(filename)
}
