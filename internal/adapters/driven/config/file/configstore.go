package file

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

const (
	// DefaultDirName is the config directory created below the home directory.
	DefaultDirName = ".paperhelper"

	// FileName is the settings file inside the config directory.
	FileName = "config.toml"
)

// ConfigStore keeps settings in a TOML file.
// Values are addressed by dotted key and written back as nested tables.
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// NewConfigStore opens dir/config.toml, creating dir when needed.
// An empty dir means ~/.paperhelper. A missing file is an empty store.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		dir = filepath.Join(home, DefaultDirName)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	values, err := readValues(path)
	if err != nil {
		return nil, err
	}
	return &ConfigStore{path: path, values: values}, nil
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values))
}

// Set writes the whole file. On a failed write the previous value is kept.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.writeLocked(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *ConfigStore) Path() string {
	return s.path
}

// writeLocked replaces the file through a temp file in the same directory,
// so readers never see a partial document.
func (s *ConfigStore) writeLocked() error {
	data, err := toml.Marshal(nest(s.values))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func readValues(path string) (map[string]any, error) {
	values := make(map[string]any)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	flatten(values, "", tree)
	return values, nil
}

// flatten copies tree into dst with table names joined by dots.
func flatten(dst map[string]any, prefix string, tree map[string]any) {
	for name, v := range tree {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if table, ok := v.(map[string]any); ok {
			flatten(dst, key, table)
			continue
		}
		dst[key] = v
	}
}

// nest turns dotted keys back into tables. When a key names both a value
// and a table ("storage" and "storage.path") the table is kept.
func nest(flat map[string]any) map[string]any {
	tree := make(map[string]any)

	// Deepest keys first, so tables exist before scalars could claim them.
	keys := slices.SortedFunc(maps.Keys(flat), func(a, b string) int {
		return strings.Count(b, ".") - strings.Count(a, ".")
	})
	for _, key := range keys {
		parts := strings.Split(key, ".")
		table := tree
		for _, name := range parts[:len(parts)-1] {
			child, ok := table[name].(map[string]any)
			if !ok {
				child = make(map[string]any)
				table[name] = child
			}
			table = child
		}

		leaf := parts[len(parts)-1]
		if _, isTable := table[leaf].(map[string]any); !isTable {
			table[leaf] = flat[key]
		}
	}
	return tree
}
