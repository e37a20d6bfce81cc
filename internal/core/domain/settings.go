package domain

import (
	"fmt"
	"strings"
)

// StoreBackend selects the record store implementation.
type StoreBackend string

// Available store backends.
const (
	// StoreJSON keeps all records in one JSON file.
	StoreJSON StoreBackend = "json"

	// StoreSQLite keeps records in a SQLite database.
	StoreSQLite StoreBackend = "sqlite"

	// StoreMemory keeps records in process memory only.
	StoreMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreJSON, StoreSQLite, StoreMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// AllStoreBackends returns every supported backend.
func AllStoreBackends() []StoreBackend {
	return []StoreBackend{StoreJSON, StoreSQLite, StoreMemory}
}

// Settings is the explicit application configuration, built once at
// startup and passed to constructors.
type Settings struct {
	// StoragePath is the root directory for uploads and the record store.
	StoragePath string

	// StoreBackend selects the record store.
	StoreBackend StoreBackend

	// MaxUploadMB is the upload size limit in megabytes.
	MaxUploadMB int

	// MaxWorkers bounds concurrent background analyses.
	MaxWorkers int

	// ChunkSize is the number of words per section.
	ChunkSize int

	// ChunkOverlap is the number of words repeated between sections.
	ChunkOverlap int

	// SummarySentences is the number of sentences in a summary.
	SummarySentences int
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		StoragePath:      "./storage",
		StoreBackend:     StoreJSON,
		MaxUploadMB:      25,
		MaxWorkers:       2,
		ChunkSize:        1200,
		ChunkOverlap:     150,
		SummarySentences: 3,
	}
}

// MaxUploadBytes returns the upload size limit in bytes.
func (s Settings) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) * 1024 * 1024
}

// Validate checks that every setting is usable.
func (s Settings) Validate() error {
	var problems []string

	if strings.TrimSpace(s.StoragePath) == "" {
		problems = append(problems, "storage path is empty")
	}
	if !s.StoreBackend.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown store backend %q", s.StoreBackend))
	}
	if s.MaxUploadMB <= 0 {
		problems = append(problems, "max upload size must be positive")
	}
	if s.MaxWorkers <= 0 {
		problems = append(problems, "max workers must be positive")
	}
	if s.ChunkSize <= 0 {
		problems = append(problems, "chunk size must be positive")
	}
	if s.ChunkOverlap < 0 {
		problems = append(problems, "chunk overlap must not be negative")
	}
	if s.SummarySentences <= 0 {
		problems = append(problems, "summary sentences must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}
