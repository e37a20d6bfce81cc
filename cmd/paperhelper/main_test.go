package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SJF-ECNU/paperhelper/internal/adapters/driven/storage/jsonfile"
	"github.com/SJF-ECNU/paperhelper/internal/adapters/driving/cli"
	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/services"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range services.EnvVars() {
		t.Setenv(env, "")
	}
}

func TestBootstrap_SettingsOnly(t *testing.T) {
	clearEnv(t)

	s, err := bootstrap(cli.BootstrapOptions{ConfigDir: t.TempDir(), SettingsOnly: true})
	require.NoError(t, err)
	assert.NotNil(t, s.Settings)
	assert.Nil(t, s.Analysis)
}

func TestBootstrap_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(services.EnvMaxWorkers, "many")

	_, err := bootstrap(cli.BootstrapOptions{ConfigDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), services.EnvMaxWorkers)

	s, err := bootstrap(cli.BootstrapOptions{ConfigDir: t.TempDir(), SettingsOnly: true})
	require.NoError(t, err)
	assert.NotNil(t, s.Settings)
}

func TestBuildAnalysis_Backends(t *testing.T) {
	for _, backend := range domain.AllStoreBackends() {
		t.Run(backend.String(), func(t *testing.T) {
			settings := domain.DefaultSettings()
			settings.StoragePath = t.TempDir()
			settings.StoreBackend = backend

			svc, gatherer, closeStore, err := buildAnalysis(&settings)
			require.NoError(t, err)
			defer func() { assert.NoError(t, closeStore()) }()

			record, err := svc.Ingest(context.Background(), "paper.txt",
				strings.NewReader("Machine learning improves performance of models."))
			require.NoError(t, err)
			svc.Wait()

			got, err := svc.Get(context.Background(), record.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCompleted, got.Status)

			families, err := gatherer.Gather()
			require.NoError(t, err)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			assert.Contains(t, names, "paperhelper_documents_total")
			assert.Contains(t, names, "paperhelper_stage_duration_seconds")
		})
	}
}

func TestBuildAnalysis_JSONLayout(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.StoragePath = t.TempDir()

	svc, _, closeStore, err := buildAnalysis(&settings)
	require.NoError(t, err)
	defer closeStore()

	record, err := svc.Ingest(context.Background(), "paper.txt", strings.NewReader("Short text."))
	require.NoError(t, err)
	svc.Wait()

	_, err = os.Stat(filepath.Join(settings.StoragePath, jsonfile.DefaultFilename))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(settings.StoragePath, record.ID, "paper.txt"))
	require.NoError(t, err)
}

func TestOpenRecordStore_Unknown(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.StoreBackend = "redis"

	_, _, err := openRecordStore(&settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
