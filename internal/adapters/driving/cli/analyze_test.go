package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

const paperText = "Machine learning improves performance of models.\n" +
	"We trained neural networks on datasets."

func TestAnalyzeCmd_RequiresArgs(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestAnalyzeCmd_PrintsSummary(t *testing.T) {
	setupTestServices(t)
	path := writeFile(t, "paper.txt", paperText)

	out, err := execute(t, "analyze", path)
	require.NoError(t, err)

	assert.Contains(t, out, "File:     paper.txt")
	assert.Contains(t, out, "Status:   completed")
	assert.Contains(t, out, "Summary:  Machine learning improves performance of models. We trained neural networks on datasets.")
	assert.Contains(t, out, "Keywords: machine, learning, improves")
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	setupTestServices(t)
	path := writeFile(t, "notes.md", "# Notes\n"+paperText)

	out, err := execute(t, "analyze", "--format", "json", path)
	require.NoError(t, err)

	var records []domain.DocumentRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusCompleted, records[0].Status)
	assert.Equal(t, "Notes", records[0].Metadata["title"])
	require.NotNil(t, records[0].Artifacts)
}

func TestAnalyzeCmd_SkipsUnsupported(t *testing.T) {
	setupTestServices(t)
	good := writeFile(t, "paper.txt", paperText)
	bad := writeFile(t, "slides.pptx", "binary")

	out, err := execute(t, "analyze", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents could not be analysed")
	assert.Contains(t, out, "Skipping "+bad)
	assert.Contains(t, out, "Status:   completed")
}

func TestAnalyzeCmd_MissingFile(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "analyze", "/does/not/exist.txt")
	require.Error(t, err)
	assert.Contains(t, out, "Skipping /does/not/exist.txt")
}

func TestAnalyzeCmd_InvalidFormat(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "analyze", "--format", "xml", "a.txt")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
