package driving

import "github.com/SJF-ECNU/paperhelper/internal/core/domain"

// SettingsService resolves and edits application settings.
type SettingsService interface {
	// Get resolves settings from defaults, the config file and environment.
	// The result is validated.
	Get() (*domain.Settings, error)

	// Value returns the effective value of one setting key.
	Value(key string) (string, error)

	// Set validates and persists one setting key.
	Set(key, value string) error

	// Keys returns the supported setting keys, sorted.
	Keys() []string
}
