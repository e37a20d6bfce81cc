package driven

// ConfigStore holds raw setting values under dotted keys such as
// "analysis.chunk_size". Typing and validation belong to the settings
// service; a store only keeps what it was given.
type ConfigStore interface {
	// Get returns the value stored under key.
	Get(key string) (any, bool)

	// Set stores value under key. Persistent stores write through.
	Set(key string, value any) error

	// Keys lists the stored keys in sorted order.
	Keys() []string

	// Path identifies where the values live.
	Path() string
}
