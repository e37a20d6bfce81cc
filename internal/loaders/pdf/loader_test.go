package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

func TestNew(t *testing.T) {
	loader := New()
	require.NotNil(t, loader)
	assert.Equal(t, []string{".pdf"}, loader.SupportedExtensions())
}

func TestLoad_NilDocument(t *testing.T) {
	_, err := New().Load(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoad_ExtractedText(t *testing.T) {
	loader := &Loader{extract: func(_ []byte) (string, error) {
		return "Document Title\n\nSome content here.", nil
	}}

	parsed, err := loader.Load(context.Background(), &domain.RawDocument{Filename: "doc.pdf", Content: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, "Document Title\n\nSome content here.", parsed.Text)
	assert.Equal(t, "Document Title", parsed.Title)
}

func TestLoad_FallbackToLatin1(t *testing.T) {
	loader := &Loader{extract: func(_ []byte) (string, error) {
		return "", errors.New("broken")
	}}

	raw := &domain.RawDocument{Filename: "scan.pdf", Content: []byte{'c', 'a', 'f', 0xe9, ' ', 'n', 'o', 'i', 'r'}}
	parsed, err := loader.Load(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "café noir", parsed.Text)
}

func TestLoad_InvalidPDFUsesFallback(t *testing.T) {
	raw := &domain.RawDocument{Filename: "fake.pdf", Content: []byte("not really a pdf at all")}

	parsed, err := New().Load(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "not really a pdf at all", parsed.Text)
}

func TestExtractText_Invalid(t *testing.T) {
	_, err := extractText([]byte("garbage"))
	assert.Error(t, err)

	_, err = extractText(nil)
	assert.Error(t, err)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filename string
		expected string
	}{
		{name: "first line as title", text: "Document Title\n\nSome content here.", filename: "doc.pdf", expected: "Document Title"},
		{name: "skip empty lines", text: "\n\n\nActual Title\nContent", filename: "doc.pdf", expected: "Actual Title"},
		{name: "fallback to filename", text: "   \n", filename: "my_report.pdf", expected: "my report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractTitle(tt.text, tt.filename))
		})
	}
}
