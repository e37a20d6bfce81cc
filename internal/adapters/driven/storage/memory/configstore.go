package memory

import (
	"sort"
	"sync"

	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in process memory. Nothing survives a restart.
type ConfigStore struct {
	values sync.Map
}

// NewConfigStore returns an empty store, optionally seeded with values.
func NewConfigStore(seed ...map[string]any) *ConfigStore {
	s := &ConfigStore{}
	for _, m := range seed {
		for k, v := range m {
			s.values.Store(k, v)
		}
	}
	return s
}

func (s *ConfigStore) Get(key string) (any, bool) {
	return s.values.Load(key)
}

func (s *ConfigStore) Set(key string, value any) error {
	s.values.Store(key, value)
	return nil
}

func (s *ConfigStore) Keys() []string {
	var keys []string
	s.values.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

// Path is ":memory:", matching the sqlite convention for unbacked stores.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
