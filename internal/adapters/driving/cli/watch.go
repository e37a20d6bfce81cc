package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/SJF-ECNU/paperhelper/internal/adapters/driving/watcher"
	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/logger"
	"github.com/SJF-ECNU/paperhelper/internal/metrics"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Analyse documents as they appear in a directory",
	Long: `Watch a directory and submit every new or changed document for analysis.
Runs until interrupted. With --metrics-addr, prometheus metrics are served
on http://<addr>/metrics while watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchMetricsAddr string
	watchDebounce    time.Duration
)

func init() {
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address (e.g. :9090)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "Quiet period before a changed file is submitted")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}

	w, err := watcher.New(args[0], analysisService,
		watcher.WithDebounce(watchDebounce),
		watcher.WithMaxBytes(uploadLimit()),
		watcher.OnSubmit(func(path string, record *domain.DocumentRecord, err error) {
			if err != nil {
				cmd.PrintErrf("Skipped %s: %v\n", path, err)
				return
			}
			cmd.Printf("Queued %s as %s\n", path, record.ID)
		}),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if watchMetricsAddr != "" {
		if metricsGatherer == nil {
			return errors.New("metrics not configured")
		}
		stop, err := serveMetrics(watchMetricsAddr)
		if err != nil {
			return err
		}
		defer stop()
		cmd.Printf("Serving metrics on %s/metrics\n", watchMetricsAddr)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Dir())
	if err := w.Run(ctx); err != nil {
		return err
	}

	cmd.Println("Waiting for running analyses...")
	analysisService.Wait()
	return nil
}

// uploadLimit returns the configured upload size limit, or zero when
// settings are unavailable so the watcher keeps its default.
func uploadLimit() int64 {
	if settingsService == nil {
		return 0
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("read settings: %v", err)
		return 0
	}
	return settings.MaxUploadBytes()
}

// serveMetrics starts the metrics server and returns its shutdown func.
func serveMetrics(addr string) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(metricsGatherer))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Surface bind failures before reporting the server as started.
	select {
	case err := <-errCh:
		return nil, fmt.Errorf("metrics server: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown: %v", err)
		}
	}, nil
}
