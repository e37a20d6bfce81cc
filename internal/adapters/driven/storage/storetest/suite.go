// Package storetest holds behaviour checks shared by every RecordStore
// implementation.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Factory returns a fresh, empty store.
type Factory func(t *testing.T) driven.RecordStore

// SampleArtifacts returns a small but complete artifact bundle.
func SampleArtifacts() domain.DocumentArtifacts {
	return domain.DocumentArtifacts{
		Summary: "Machine learning improves performance of models.",
		MindMap: domain.MindMap{
			Nodes: []domain.MindMapNode{
				{ID: "node-1", Label: "machine", Weight: 1.45},
				{ID: "node-2", Label: "learning", Weight: 1.4},
			},
			Edges: []domain.MindMapEdge{
				{Source: "node-1", Target: "node-2", Weight: 0.5},
			},
		},
		Glossary: []domain.GlossaryEntry{
			{
				Term:       "Machine",
				Definition: "Key concept related to machine discovered in the document.",
				Score:      1.0,
				References: []string{"Intro"},
			},
		},
	}
}

// NewRecord returns a processing record with metadata.
func NewRecord(id string) *domain.DocumentRecord {
	r := domain.NewDocumentRecord(id, "paper.md", "/data/"+id+"/paper.md",
		time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC))
	r.Metadata["content_length"] = "1024"
	_ = r.MarkProcessing()
	return r
}

// Run exercises the RecordStore contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("get missing", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetRecord(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("save invalid", func(t *testing.T) {
		store := newStore(t)
		assert.ErrorIs(t, store.SaveRecord(context.Background(), nil), domain.ErrInvalidInput)
		assert.ErrorIs(t, store.SaveRecord(context.Background(), &domain.DocumentRecord{}), domain.ErrInvalidInput)
	})

	t.Run("save and get", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		record := NewRecord("abc123")

		require.NoError(t, store.SaveRecord(ctx, record))

		got, err := store.GetRecord(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.Filename, got.Filename)
		assert.Equal(t, record.StoragePath, got.StoragePath)
		assert.Equal(t, domain.StatusProcessing, got.Status)
		assert.True(t, record.UploadedAt.Equal(got.UploadedAt))
		assert.Nil(t, got.Error)
		assert.Nil(t, got.Artifacts)
		assert.Equal(t, "1024", got.Metadata["content_length"])
	})

	t.Run("upsert replaces record", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		record := NewRecord("abc123")
		require.NoError(t, store.SaveRecord(ctx, record))

		require.NoError(t, record.Complete(SampleArtifacts()))
		require.NoError(t, store.SaveRecord(ctx, record))

		got, err := store.GetRecord(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, got.Status)
		require.NotNil(t, got.Artifacts)
		assert.Equal(t, SampleArtifacts(), *got.Artifacts)

		all, err := store.ListRecords(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("failed record keeps message", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		record := NewRecord("failed1")
		require.NoError(t, record.Fail("summarize stage: boom"))
		require.NoError(t, store.SaveRecord(ctx, record))

		got, err := store.GetRecord(ctx, "failed1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, got.Status)
		assert.Equal(t, "summarize stage: boom", got.ErrorMessage())
		assert.Nil(t, got.Artifacts)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		record := NewRecord("copy1")
		require.NoError(t, store.SaveRecord(ctx, record))

		record.Metadata["content_length"] = "changed"
		got, err := store.GetRecord(ctx, "copy1")
		require.NoError(t, err)
		assert.Equal(t, "1024", got.Metadata["content_length"])

		got.Filename = "mutated"
		again, err := store.GetRecord(ctx, "copy1")
		require.NoError(t, err)
		assert.Equal(t, "paper.md", again.Filename)
	})

	t.Run("list empty", func(t *testing.T) {
		store := newStore(t)
		all, err := store.ListRecords(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("list keyed by id", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			require.NoError(t, store.SaveRecord(ctx, NewRecord(fmt.Sprintf("id%d", i))))
		}

		all, err := store.ListRecords(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for id, r := range all {
			assert.Equal(t, id, r.ID)
		}
	})

	t.Run("concurrent saves", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, store.SaveRecord(ctx, NewRecord(fmt.Sprintf("c%d", i))))
			}(i)
		}
		wg.Wait()

		all, err := store.ListRecords(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 10)
	})
}
