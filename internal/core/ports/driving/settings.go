package driving

import "github.com/custodia-labs/margin/internal/core/domain"

// SettingsService reads and writes margin's settings. Unset keys read
// as their defaults.
type SettingsService interface {
	// Get returns the effective settings.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// Set parses value for key, validates the result and persists it.
	Set(key, value string) error

	// Reset removes key so its default applies again.
	Reset(key string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Keys lists the configurable keys.
	Keys() []string
}
