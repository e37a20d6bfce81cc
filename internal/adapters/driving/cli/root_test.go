package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SJF-ECNU/paperhelper/internal/adapters/driven/storage/memory"
	"github.com/SJF-ECNU/paperhelper/internal/analysis"
	"github.com/SJF-ECNU/paperhelper/internal/core/services"
	"github.com/SJF-ECNU/paperhelper/internal/loaders"
	"github.com/SJF-ECNU/paperhelper/internal/metrics"
)

// setupTestServices wires in-memory services and resets command state.
func setupTestServices(t *testing.T) *services.AnalysisService {
	t.Helper()

	pipeline, err := analysis.NewDefaultPipeline(nil)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	svc := services.NewAnalysisService(
		memory.NewRecordStore(),
		loaders.NewDefaultRegistry(0, nil),
		pipeline,
		t.TempDir(),
		services.WithRecorder(m),
	)

	SetServices(&Services{
		Analysis: svc,
		Settings: services.NewSettingsService(memory.NewConfigStore()),
		Metrics:  reg,
	})
	resetFlags()

	t.Cleanup(func() {
		SetServices(&Services{})
		bootstrap = nil
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return svc
}

func resetFlags() {
	verbose = false
	configDir = ""
	analyzeFormat = formatText
	documentFormat = formatText
	artifactsFormat = formatJSON
	watchMetricsAddr = ""
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "paperhelper", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"analyze", "document", "watch", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestBootstrap_FullServices(t *testing.T) {
	svc := setupTestServices(t)
	SetServices(&Services{})

	var got []BootstrapOptions
	closed := 0
	SetBootstrap(func(opts BootstrapOptions) (*Services, error) {
		got = append(got, opts)
		return &Services{Analysis: svc, Close: func() error { closed++; return nil }}, nil
	})

	_, err := execute(t, "--config-dir", "/tmp/ph", "document", "list")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, BootstrapOptions{ConfigDir: "/tmp/ph"}, got[0])

	require.NoError(t, Shutdown())
	require.NoError(t, Shutdown())
	assert.Equal(t, 1, closed)
}

func TestBootstrap_SettingsOnly(t *testing.T) {
	setupTestServices(t)
	SetServices(&Services{})

	var got []BootstrapOptions
	SetBootstrap(func(opts BootstrapOptions) (*Services, error) {
		got = append(got, opts)
		return &Services{Settings: services.NewSettingsService(memory.NewConfigStore())}, nil
	})

	_, err := execute(t, "config", "list")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].SettingsOnly)
}

func TestBootstrap_SkippedForVersion(t *testing.T) {
	setupTestServices(t)

	called := false
	SetBootstrap(func(BootstrapOptions) (*Services, error) {
		called = true
		return nil, assert.AnError
	})

	_, err := execute(t, "version")
	require.NoError(t, err)
	assert.False(t, called)
}

func TestBootstrap_Error(t *testing.T) {
	setupTestServices(t)
	SetServices(&Services{})
	SetBootstrap(func(BootstrapOptions) (*Services, error) {
		return nil, assert.AnError
	})

	_, err := execute(t, "document", "list")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCommands_WithoutServices(t *testing.T) {
	setupTestServices(t)
	SetServices(&Services{})

	_, err := execute(t, "document", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis service not configured")

	_, err = execute(t, "config", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestVersionCmd_Executes(t *testing.T) {
	setupTestServices(t)
	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "paperhelper version test-version-1.0.0")
}

func TestBootstrap_SkippedForHelp(t *testing.T) {
	setupTestServices(t)
	SetServices(&Services{})

	called := false
	SetBootstrap(func(BootstrapOptions) (*Services, error) {
		called = true
		return nil, assert.AnError
	})

	out, err := execute(t, "help", "analyze")
	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, out, "analyze [file]...")
}
