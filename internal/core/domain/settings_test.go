package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreBackend_IsValid(t *testing.T) {
	for _, b := range AllStoreBackends() {
		assert.True(t, b.IsValid(), b.String())
	}
	assert.False(t, StoreBackend("redis").IsValid())
	assert.False(t, StoreBackend("").IsValid())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "./storage", s.StoragePath)
	assert.Equal(t, StoreJSON, s.StoreBackend)
	assert.Equal(t, 25, s.MaxUploadMB)
	assert.Equal(t, 2, s.MaxWorkers)
	assert.Equal(t, 1200, s.ChunkSize)
	assert.Equal(t, 150, s.ChunkOverlap)
	assert.Equal(t, 3, s.SummarySentences)
	assert.NoError(t, s.Validate())
}

func TestSettings_MaxUploadBytes(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, int64(25*1024*1024), s.MaxUploadBytes())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
		errMsg string
	}{
		{name: "empty storage path", modify: func(s *Settings) { s.StoragePath = " " }, errMsg: "storage path is empty"},
		{name: "unknown backend", modify: func(s *Settings) { s.StoreBackend = "redis" }, errMsg: `unknown store backend "redis"`},
		{name: "zero upload", modify: func(s *Settings) { s.MaxUploadMB = 0 }, errMsg: "max upload size must be positive"},
		{name: "zero workers", modify: func(s *Settings) { s.MaxWorkers = 0 }, errMsg: "max workers must be positive"},
		{name: "zero chunk", modify: func(s *Settings) { s.ChunkSize = 0 }, errMsg: "chunk size must be positive"},
		{name: "negative overlap", modify: func(s *Settings) { s.ChunkOverlap = -1 }, errMsg: "chunk overlap must not be negative"},
		{name: "zero sentences", modify: func(s *Settings) { s.SummarySentences = 0 }, errMsg: "summary sentences must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			err := s.Validate()
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSettings_ValidateCollectsAll(t *testing.T) {
	s := Settings{}
	err := s.Validate()
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "storage path is empty")
	assert.Contains(t, err.Error(), "max workers must be positive")
}
