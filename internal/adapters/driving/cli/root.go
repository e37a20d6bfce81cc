// Package cli implements the paperhelper command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driving"
	"github.com/SJF-ECNU/paperhelper/internal/logger"
)

// Annotation values telling the root command which services to build.
const (
	annotationServices = "paperhelper/services"
	servicesNone       = "none"
	servicesSettings   = "settings"
)

// Services bundles what the commands call into.
type Services struct {
	Analysis driving.AnalysisService
	Settings driving.SettingsService

	// Metrics is served by `watch --metrics-addr`. Optional.
	Metrics prometheus.Gatherer

	// Close releases stores once the command finished. Optional.
	Close func() error
}

// BootstrapOptions is passed to the Bootstrap function.
type BootstrapOptions struct {
	// ConfigDir is the --config-dir flag; empty means the default location.
	ConfigDir string

	// SettingsOnly asks for the settings service alone, so configuration
	// can be repaired even when the current values are invalid.
	SettingsOnly bool
}

// Bootstrap builds services once flags are parsed.
type Bootstrap func(opts BootstrapOptions) (*Services, error)

var (
	version = "dev"

	verbose   bool
	configDir string

	bootstrap       Bootstrap
	analysisService driving.AnalysisService
	settingsService driving.SettingsService
	metricsGatherer prometheus.Gatherer
	closeServices   func() error
)

var rootCmd = &cobra.Command{
	Use:   "paperhelper",
	Short: "Summarise documents into mind maps and glossaries",
	Long: `paperhelper extracts the text of PDF, Markdown and plain text documents,
then produces a summary, a keyword mind map and a glossary for each one.

Every document is tracked as a record that moves from processing to
completed or failed. Records and their artifacts can be listed and exported.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.paperhelper)")
}

// SetVersion sets the version reported by `paperhelper version`.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services for commands.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices injects services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	analysisService = s.Analysis
	settingsService = s.Settings
	metricsGatherer = s.Metrics
	closeServices = s.Close
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	need := cmd.Annotations[annotationServices]
	if builtin(cmd) {
		need = servicesNone
	}
	if need == servicesNone || bootstrap == nil {
		return nil
	}
	if need == servicesSettings && settingsService != nil {
		return nil
	}
	if need == "" && analysisService != nil {
		return nil
	}

	s, err := bootstrap(BootstrapOptions{
		ConfigDir:    configDir,
		SettingsOnly: need == servicesSettings,
	})
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

// builtin reports cobra's generated help and completion commands.
func builtin(cmd *cobra.Command) bool {
	if cmd.Name() == "help" {
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "completion"
}

// Shutdown releases whatever the bootstrap opened. Safe to call more than once.
func Shutdown() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

func requireAnalysis() error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}
	return nil
}
