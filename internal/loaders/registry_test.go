package loaders

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SJF-ECNU/paperhelper/internal/analysis/segmenter"
	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestNewRegistry_Defaults(t *testing.T) {
	r := NewRegistry(0, nil)
	assert.Equal(t, DefaultMaxBytes, r.MaxBytes())
	assert.Empty(t, r.Extensions())

	r = NewDefaultRegistry(1024, nil)
	assert.Equal(t, int64(1024), r.MaxBytes())
	assert.Equal(t, []string{".markdown", ".md", ".pdf", ".txt"}, r.Extensions())
}

func TestSupports(t *testing.T) {
	r := NewDefaultRegistry(0, nil)

	for _, name := range []string{"a.pdf", "b.md", "c.markdown", "d.txt", "E.PDF", "/x/y/Notes.TXT"} {
		assert.True(t, r.Supports(name), name)
	}
	for _, name := range []string{"a.docx", "b", "c.md.exe", ".bashrc"} {
		assert.False(t, r.Supports(name), name)
	}
}

func TestLoadFile_Markdown(t *testing.T) {
	r := NewDefaultRegistry(0, nil)
	path := writeFile(t, "test.md", []byte("# Heading\nSome content here."))

	parsed, err := r.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(parsed.Text, "# Heading"))
	require.NotEmpty(t, parsed.Sections)
	assert.Equal(t, "Heading", parsed.Sections[0].Heading)
	assert.Equal(t, "Heading", parsed.Title)
}

func TestLoadFile_UsesSegmenter(t *testing.T) {
	r := NewDefaultRegistry(0, segmenter.New(segmenter.WithChunkSize(2), segmenter.WithOverlap(0)))
	path := writeFile(t, "words.txt", []byte("one two three four five"))

	parsed, err := r.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, parsed.Sections, 3)
}

func TestLoadFile_EmptyFile(t *testing.T) {
	r := NewDefaultRegistry(0, nil)
	path := writeFile(t, "empty.txt", nil)

	parsed, err := r.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "", parsed.Text)
	assert.Equal(t, []domain.Section{{Heading: "Empty", Body: ""}}, parsed.Sections)
}

func TestLoadFile_Unsupported(t *testing.T) {
	r := NewDefaultRegistry(0, nil)
	path := writeFile(t, "sheet.xlsx", []byte("data"))

	_, err := r.LoadFile(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestLoadFile_TooLarge(t *testing.T) {
	r := NewDefaultRegistry(1024, nil)
	path := writeFile(t, "large.txt", []byte(strings.Repeat("0", 2048)))

	_, err := r.LoadFile(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrDocumentTooLarge)
}

func TestLoadFile_AtLimit(t *testing.T) {
	r := NewDefaultRegistry(16, nil)
	path := writeFile(t, "exact.txt", []byte(strings.Repeat("a", 16)))

	_, err := r.LoadFile(context.Background(), path)
	assert.NoError(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	r := NewDefaultRegistry(0, nil)
	_, err := r.LoadFile(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnsupportedType)
}
