package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyStoragePath      = "storage.path"
	keyStoreBackend     = "storage.backend"
	keyMaxUploadMB      = "storage.max_upload_mb"
	keyMaxWorkers       = "analysis.max_workers"
	keyChunkSize        = "analysis.chunk_size"
	keyChunkOverlap     = "analysis.chunk_overlap"
	keySummarySentences = "analysis.summary_sentences"
)

// Environment variables override the config file.
const (
	EnvStoragePath = "PAPERHELPER_STORAGE_PATH"
	EnvMaxWorkers  = "PAPERHELPER_MAX_WORKERS"
	EnvStore       = "PAPERHELPER_STORE"
	EnvMaxUploadMB = "PAPERHELPER_MAX_UPLOAD_MB"
)

// setting binds a config key to a Settings field.
type setting struct {
	env     string
	numeric bool
	get func(s *domain.Settings) string
	set func(s *domain.Settings, value string) error
}

func intSetting(env string, field func(s *domain.Settings) *int) setting {
	return setting{
		env:     env,
		numeric: true,
		get:     func(s *domain.Settings) string { return strconv.Itoa(*field(s)) },
		set: func(s *domain.Settings, value string) error {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidInput, value)
			}
			*field(s) = n
			return nil
		},
	}
}

var settings = map[string]setting{
	keyStoragePath: {
		env: EnvStoragePath,
		get: func(s *domain.Settings) string { return s.StoragePath },
		set: func(s *domain.Settings, value string) error {
			s.StoragePath = value
			return nil
		},
	},
	keyStoreBackend: {
		env: EnvStore,
		get: func(s *domain.Settings) string { return s.StoreBackend.String() },
		set: func(s *domain.Settings, value string) error {
			s.StoreBackend = domain.StoreBackend(strings.ToLower(strings.TrimSpace(value)))
			return nil
		},
	},
	keyMaxUploadMB:      intSetting(EnvMaxUploadMB, func(s *domain.Settings) *int { return &s.MaxUploadMB }),
	keyMaxWorkers:       intSetting(EnvMaxWorkers, func(s *domain.Settings) *int { return &s.MaxWorkers }),
	keyChunkSize:        intSetting("", func(s *domain.Settings) *int { return &s.ChunkSize }),
	keyChunkOverlap:     intSetting("", func(s *domain.Settings) *int { return &s.ChunkOverlap }),
	keySummarySentences: intSetting("", func(s *domain.Settings) *int { return &s.SummarySentences }),
}

// SettingsService resolves settings from defaults, the config store and
// the environment, in increasing precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(key string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get resolves and validates the current settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	resolved, err := s.resolve()
	if err != nil {
		return nil, err
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// Value returns the effective value of one key.
func (s *SettingsService) Value(key string) (string, error) {
	def, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	resolved, err := s.resolve()
	if err != nil {
		return "", err
	}
	return def.get(resolved), nil
}

// Set validates value against the other file settings and persists it.
func (s *SettingsService) Set(key, value string) error {
	def, ok := settings[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	candidate, err := s.fromFile()
	if err != nil {
		return err
	}
	if err := def.set(candidate, value); err != nil {
		return err
	}
	if err := candidate.Validate(); err != nil {
		return err
	}

	// Store integers as integers so the TOML file stays typed.
	var stored any = def.get(candidate)
	if def.numeric {
		stored, _ = strconv.Atoi(def.get(candidate))
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the supported setting keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvVars maps each overridable key to its environment variable.
func EnvVars() map[string]string {
	vars := make(map[string]string)
	for k, def := range settings {
		if def.env != "" {
			vars[k] = def.env
		}
	}
	return vars
}

// fromFile applies config store values over the defaults.
func (s *SettingsService) fromFile() (*domain.Settings, error) {
	resolved := domain.DefaultSettings()
	if s.configStore == nil {
		return &resolved, nil
	}

	for key, def := range settings {
		val, ok := s.configStore.Get(key)
		if !ok {
			continue
		}
		if err := def.set(&resolved, fmt.Sprint(val)); err != nil {
			return nil, fmt.Errorf("config %s: %w", key, err)
		}
	}
	return &resolved, nil
}

// resolve applies environment overrides over the file settings.
func (s *SettingsService) resolve() (*domain.Settings, error) {
	resolved, err := s.fromFile()
	if err != nil {
		return nil, err
	}

	for _, def := range settings {
		if def.env == "" {
			continue
		}
		val, ok := s.lookupEnv(def.env)
		if !ok || strings.TrimSpace(val) == "" {
			continue
		}
		if err := def.set(resolved, val); err != nil {
			return nil, fmt.Errorf("%s: %w", def.env, err)
		}
	}
	return resolved, nil
}
