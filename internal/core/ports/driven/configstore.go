package driven

// ConfigStore is the key/value store behind margin's settings.
// Keys are dotted paths such as "highlight.color". Writes persist
// immediately; a missing key means "use the default".
type ConfigStore interface {
	// Get returns the raw value stored under key.
	Get(key string) (any, bool)

	// GetString returns the value as a string, or "" if absent or not a string.
	GetString(key string) string

	// GetInt returns the value as an int, or 0 if absent or not numeric.
	GetInt(key string) int

	// GetFloat returns the value as a float64, or 0 if absent or not numeric.
	GetFloat(key string) float64

	// Set stores value under key.
	Set(key string, value any) error

	// Unset removes key so the default applies again. Unknown keys are ignored.
	Unset(key string) error

	// Save flushes the store.
	Save() error

	// Load rereads the store.
	Load() error

	// Path locates the backing file, or ":memory:".
	Path() string
}
