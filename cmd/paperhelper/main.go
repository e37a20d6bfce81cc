// Command paperhelper analyses documents into summaries, mind maps and glossaries.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/SJF-ECNU/paperhelper/internal/adapters/driven/config/file"
	"github.com/SJF-ECNU/paperhelper/internal/adapters/driven/storage/jsonfile"
	"github.com/SJF-ECNU/paperhelper/internal/adapters/driven/storage/memory"
	"github.com/SJF-ECNU/paperhelper/internal/adapters/driven/storage/sqlite"
	"github.com/SJF-ECNU/paperhelper/internal/adapters/driving/cli"
	"github.com/SJF-ECNU/paperhelper/internal/analysis"
	"github.com/SJF-ECNU/paperhelper/internal/analysis/segmenter"
	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
	"github.com/SJF-ECNU/paperhelper/internal/core/services"
	"github.com/SJF-ECNU/paperhelper/internal/loaders"
	"github.com/SJF-ECNU/paperhelper/internal/logger"
	"github.com/SJF-ECNU/paperhelper/internal/metrics"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

var _ services.AnalysisRecorder = (*metrics.Metrics)(nil)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute(ctx)
	if closeErr := cli.Shutdown(); closeErr != nil {
		logger.Warn("close stores: %v", closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// bootstrap builds the services from the resolved settings.
func bootstrap(opts cli.BootstrapOptions) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	if opts.SettingsOnly {
		return &cli.Services{Settings: settingsService}, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	logger.Section("Settings")
	logger.Debug("storage=%s backend=%s workers=%d chunk=%d/%d",
		settings.StoragePath, settings.StoreBackend, settings.MaxWorkers, settings.ChunkSize, settings.ChunkOverlap)

	analysisService, gatherer, closeStore, err := buildAnalysis(settings)
	if err != nil {
		return nil, err
	}

	return &cli.Services{
		Analysis: analysisService,
		Settings: settingsService,
		Metrics:  gatherer,
		Close:    closeStore,
	}, nil
}

// buildAnalysis wires the record store, loaders, pipeline and metrics.
func buildAnalysis(settings *domain.Settings) (*services.AnalysisService, prometheus.Gatherer, func() error, error) {
	store, closeStore, err := openRecordStore(settings)
	if err != nil {
		return nil, nil, nil, err
	}

	seg := segmenter.New(
		segmenter.WithChunkSize(settings.ChunkSize),
		segmenter.WithOverlap(settings.ChunkOverlap),
	)
	registry := loaders.NewDefaultRegistry(settings.MaxUploadBytes(), seg)

	pipeline, err := analysis.NewDefaultPipeline(analysis.Config{
		analysis.StageSegment: {
			"chunk_size": settings.ChunkSize,
			"overlap":    settings.ChunkOverlap,
		},
		analysis.StageSummarize: {
			"max_sentences": settings.SummarySentences,
		},
	})
	if err != nil {
		_ = closeStore()
		return nil, nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		_ = closeStore()
		return nil, nil, nil, err
	}

	pipeline.Observe(m.ObserveStage)
	pipeline.Observe(func(stage string, elapsed time.Duration, err error) {
		logger.Timing(stage, elapsed)
		if err != nil {
			logger.Debug("stage %s failed: %v", stage, err)
		}
	})

	svc := services.NewAnalysisService(store, registry, pipeline, settings.StoragePath,
		services.WithMaxWorkers(settings.MaxWorkers),
		services.WithRecorder(m),
	)
	return svc, reg, closeStore, nil
}

// openRecordStore opens the configured backend below the storage path.
func openRecordStore(settings *domain.Settings) (driven.RecordStore, func() error, error) {
	noop := func() error { return nil }

	switch settings.StoreBackend {
	case domain.StoreJSON:
		store, err := jsonfile.NewStore(settings.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open json store: %w", err)
		}
		return store, noop, nil

	case domain.StoreSQLite:
		store, err := sqlite.NewStore(settings.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store.RecordStore(), store.Close, nil

	case domain.StoreMemory:
		return memory.NewRecordStore(), noop, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, settings.StoreBackend)
	}
}
