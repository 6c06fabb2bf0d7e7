package driven

// ConfigStore holds raw settings under dot-notation keys such as
// "retrieval.top_k". Values keep the type the backend decoded them as
// (TOML integers are int64); the settings service converts them.
type ConfigStore interface {
	// Get returns the value stored under key.
	Get(key string) (any, bool)

	// Set stores value under key. File backends write through.
	Set(key string, value any) error

	// Save flushes every value to the backend.
	Save() error
}
