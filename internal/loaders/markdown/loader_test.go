package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

func TestSupportedExtensions(t *testing.T) {
	exts := New().SupportedExtensions()
	assert.Contains(t, exts, ".md")
	assert.Contains(t, exts, ".markdown")
	assert.Len(t, exts, 2)
}

func TestLoad_KeepsHeadings(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "test.md",
		Content:  []byte("# Heading\nSome content here."),
	}

	parsed, err := New().Load(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "# Heading\nSome content here.", parsed.Text)
	assert.Equal(t, "Heading", parsed.Title)
}

func TestLoad_NilDocument(t *testing.T) {
	_, err := New().Load(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoad_FrontMatter(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "paper.md",
		Content:  []byte("---\ntitle: Attention Study\nauthors: [a, b]\n---\n# Intro\nBody text.\n"),
	}

	parsed, err := New().Load(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Attention Study", parsed.Title)
	assert.Equal(t, "# Intro\nBody text.\n", parsed.Text)
}

func TestLoad_InvalidFrontMatter(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "paper.md",
		Content:  []byte("---\ntitle: [unclosed\n---\nbody"),
	}

	_, err := New().Load(context.Background(), raw)
	assert.Error(t, err)
}

func TestLoad_CRLF(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "win.markdown",
		Content:  []byte("# Title\r\nLine two\r\n"),
	}

	parsed, err := New().Load(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "# Title\nLine two\n", parsed.Text)
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		body    string
		hasMeta bool
	}{
		{name: "no front matter", text: "plain body", body: "plain body"},
		{name: "unclosed block", text: "---\ntitle: x\nbody", body: "---\ntitle: x\nbody"},
		{name: "horizontal rule later", text: "intro\n---\nmore", body: "intro\n---\nmore"},
		{name: "closed block", text: "---\ntitle: x\n---\nbody", body: "body", hasMeta: true},
		{name: "closed block at end", text: "---\ntitle: x\n---", body: "", hasMeta: true},
		{name: "delimiter prefix only", text: "---\ntitle: x\n----\nbody", body: "---\ntitle: x\n----\nbody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := splitFrontMatter(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.body, body)
			if tt.hasMeta {
				assert.Equal(t, "x", meta["title"])
			} else {
				assert.Nil(t, meta)
			}
		})
	}
}

func TestExtractMarkdownTitle(t *testing.T) {
	assert.Equal(t, "Real Title", extractMarkdownTitle("intro\n## Sub\n# Real Title\n", "x.md"))
	assert.Equal(t, "deep learning notes", extractMarkdownTitle("no headings", "deep-learning_notes.md"))
}
