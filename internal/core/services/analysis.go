package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driving"
	"github.com/SJF-ECNU/paperhelper/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// Metadata keys set on every ingested record.
const (
	MetaContentLength = "content_length"
	MetaTitle         = "title"
)

// AnalysisRecorder receives lifecycle events for instrumentation.
type AnalysisRecorder interface {
	RecordStatus(status domain.DocumentStatus)
	AnalysisStarted()
	AnalysisFinished()
}

// AnalysisOption configures an AnalysisService.
type AnalysisOption func(*AnalysisService)

// WithMaxWorkers bounds the number of concurrent background analyses.
func WithMaxWorkers(n int) AnalysisOption {
	return func(s *AnalysisService) {
		if n > 0 {
			s.maxWorkers = int64(n)
		}
	}
}

// WithRecorder attaches lifecycle instrumentation.
func WithRecorder(r AnalysisRecorder) AnalysisOption {
	return func(s *AnalysisService) {
		s.recorder = r
	}
}

// WithClock overrides the time source used for UploadedAt.
func WithClock(now func() time.Time) AnalysisOption {
	return func(s *AnalysisService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides document ID generation.
func WithIDGenerator(fn func() string) AnalysisOption {
	return func(s *AnalysisService) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// AnalysisService ingests uploads and runs their analysis in the background.
// The record store is the only state shared between analyses.
type AnalysisService struct {
	store      driven.RecordStore
	loaders    driven.LoaderRegistry
	pipeline   driven.AnalysisPipeline
	storageDir string

	maxWorkers int64
	recorder   AnalysisRecorder
	now        func() time.Time
	newID      func() string

	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewAnalysisService creates an analysis service.
// Uploads are stored below storageDir, one directory per document.
func NewAnalysisService(
	store driven.RecordStore,
	loaders driven.LoaderRegistry,
	pipeline driven.AnalysisPipeline,
	storageDir string,
	opts ...AnalysisOption,
) *AnalysisService {
	s := &AnalysisService{
		store:      store,
		loaders:    loaders,
		pipeline:   pipeline,
		storageDir: storageDir,
		maxWorkers: int64(domain.DefaultSettings().MaxWorkers),
		recorder:   nopRecorder{},
		now:        time.Now,
		newID:      NewDocumentID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	s.sem = semaphore.NewWeighted(s.maxWorkers)
	return s
}

// NewDocumentID returns a random 32-character hex token.
func NewDocumentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Ingest stores the upload, loads it and schedules its analysis.
func (s *AnalysisService) Ingest(ctx context.Context, filename string, content io.Reader) (*domain.DocumentRecord, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is empty", domain.ErrInvalidInput)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: content is nil", domain.ErrInvalidInput)
	}

	id := s.newID()
	name := SanitizeFilename(filename, id)
	if !s.loaders.Supports(name) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, filepath.Ext(name))
	}

	dir := filepath.Join(s.storageDir, id)
	path := filepath.Join(dir, name)
	if err := s.writeUpload(dir, path, content); err != nil {
		return nil, err
	}

	parsed, err := s.loaders.LoadFile(ctx, path)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("load document: %w", err)
	}

	record := domain.NewDocumentRecord(id, name, path, s.now())
	if err := record.MarkProcessing(); err != nil {
		return nil, err
	}
	record.Metadata[MetaContentLength] = strconv.Itoa(utf8.RuneCountInString(parsed.Text))
	if parsed.Title != "" {
		record.Metadata[MetaTitle] = parsed.Title
	}

	if err := s.store.SaveRecord(ctx, record); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("save record: %w", err)
	}
	s.recorder.RecordStatus(domain.StatusProcessing)
	logger.Debug("ingested %s as %s (%d sections)", name, id, len(parsed.Sections))

	s.schedule(id, parsed)
	return record, nil
}

// writeUpload copies content to path, enforcing the size limit.
// The document directory is removed on any failure.
func (s *AnalysisService) writeUpload(dir, path string, content io.Reader) (err error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create document directory: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(dir)
		}
	}()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}

	limit := s.loaders.MaxBytes()
	n, copyErr := io.Copy(f, io.LimitReader(content, limit+1))
	closeErr := f.Close()
	if copyErr != nil {
		return fmt.Errorf("write upload: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close upload: %w", closeErr)
	}
	if n > limit {
		return fmt.Errorf("%w: upload exceeds %d byte limit", domain.ErrDocumentTooLarge, limit)
	}
	return nil
}

// schedule runs the analysis in the background, bounded by maxWorkers.
// Background analyses are detached from the caller's context.
func (s *AnalysisService) schedule(id string, parsed *domain.ParsedDocument) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx := context.Background()
		if err := s.sem.Acquire(ctx, 1); err != nil {
			logger.Error("analysis %s not started: %v", id, err)
			return
		}
		defer s.sem.Release(1)

		if _, err := s.Analyze(ctx, id, parsed); err != nil {
			logger.Error("analysis %s failed: %v", id, err)
		}
	}()
}

// Analyze runs the pipeline for an existing record and stores the outcome.
func (s *AnalysisService) Analyze(ctx context.Context, documentID string, parsed *domain.ParsedDocument) (*domain.DocumentRecord, error) {
	if parsed == nil {
		return nil, fmt.Errorf("%w: parsed document is nil", domain.ErrInvalidInput)
	}

	record, err := s.store.GetRecord(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	switch {
	case record.Status == domain.StatusPending:
		if err := record.MarkProcessing(); err != nil {
			return nil, err
		}
		if err := s.store.SaveRecord(ctx, record); err != nil {
			return nil, fmt.Errorf("save record: %w", err)
		}
		s.recorder.RecordStatus(domain.StatusProcessing)
	case record.Status.IsTerminal():
		return nil, &domain.TransitionError{From: record.Status, To: domain.StatusProcessing}
	}

	s.recorder.AnalysisStarted()
	defer s.recorder.AnalysisFinished()

	state := &driven.AnalysisState{
		DocumentID: record.ID,
		Filename:   record.Filename,
		Text:       parsed.Text,
		Sections:   parsed.Sections,
	}

	start := time.Now()
	artifacts, runErr := s.pipeline.Run(ctx, state)
	logger.Timing("analysis "+documentID, time.Since(start))

	if runErr != nil {
		if err := record.Fail(runErr.Error()); err != nil {
			return nil, err
		}
		if err := s.store.SaveRecord(ctx, record); err != nil {
			return nil, errors.Join(runErr, fmt.Errorf("save record: %w", err))
		}
		s.recorder.RecordStatus(domain.StatusFailed)
		return record, runErr
	}

	if err := record.Complete(*artifacts); err != nil {
		return nil, err
	}
	if err := s.store.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}
	s.recorder.RecordStatus(domain.StatusCompleted)
	logger.Debug("analysis %s completed: %d glossary entries", documentID, len(artifacts.Glossary))

	return record, nil
}

// Get retrieves a record by ID.
func (s *AnalysisService) Get(ctx context.Context, documentID string) (*domain.DocumentRecord, error) {
	return s.store.GetRecord(ctx, documentID)
}

// List returns all records keyed by ID.
func (s *AnalysisService) List(ctx context.Context) (map[string]domain.DocumentRecord, error) {
	return s.store.ListRecords(ctx)
}

// Artifacts returns the artifacts of a completed record.
func (s *AnalysisService) Artifacts(ctx context.Context, documentID string) (*domain.DocumentArtifacts, error) {
	record, err := s.store.GetRecord(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if record.Artifacts == nil {
		return nil, fmt.Errorf("%w: document %s is %s", domain.ErrArtifactsUnavailable, documentID, record.Status)
	}
	return record.Artifacts, nil
}

// Wait blocks until every scheduled background analysis has finished.
func (s *AnalysisService) Wait() {
	s.wg.Wait()
}

// SanitizeFilename reduces an upload name to its base name.
// Names with nothing left fall back to upload-<id>.
func SanitizeFilename(filename, id string) string {
	name := filepath.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	switch name {
	case "", ".", "..", "/":
		return "upload-" + id
	}
	return name
}

type nopRecorder struct{}

func (nopRecorder) RecordStatus(domain.DocumentStatus) {}
func (nopRecorder) AnalysisStarted()                   {}
func (nopRecorder) AnalysisFinished()                  {}
