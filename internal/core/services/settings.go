package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyProjectID           = "project.id"
	KeyHighlightColor      = "highlight.color"
	KeyResolverConfidence  = "resolver.min_confidence"
	KeyWatchIntervalMillis = "watch.interval_ms"
	KeyStorageDataDir      = "storage.data_dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Project: domain.ProjectSettings{
			ID: s.getString(KeyProjectID, defaults.Project.ID),
		},
		Display: domain.DisplaySettings{
			HighlightColor: s.getColor(defaults.Display.HighlightColor),
		},
		Resolver: domain.ResolverSettings{
			MinConfidence: s.getConfidence(defaults.Resolver.MinConfidence),
		},
		Watch: domain.WatchSettings{
			Interval: s.getInterval(defaults.Watch.Interval),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(KeyProjectID, settings.Project.ID); err != nil {
		return fmt.Errorf("save project id: %w", err)
	}
	if err := s.configStore.Set(KeyHighlightColor, settings.Display.HighlightColor); err != nil {
		return fmt.Errorf("save highlight color: %w", err)
	}
	if err := s.configStore.Set(KeyResolverConfidence, settings.Resolver.MinConfidence); err != nil {
		return fmt.Errorf("save resolver confidence: %w", err)
	}
	if err := s.configStore.Set(KeyWatchIntervalMillis, settings.Watch.Interval.Milliseconds()); err != nil {
		return fmt.Errorf("save watch interval: %w", err)
	}

	return nil
}

// Set updates a single setting by its config key.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case KeyProjectID:
		settings.Project.ID = value
	case KeyHighlightColor:
		settings.Display.HighlightColor = value
	case KeyResolverConfidence:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.Resolver.MinConfidence = f
	case KeyWatchIntervalMillis:
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Watch.Interval = time.Duration(ms) * time.Millisecond
	case KeyStorageDataDir:
		// Read at startup only; not part of AppSettings.
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save data dir: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Reset removes a stored value so the default applies again.
func (s *SettingsService) Reset(key string) error {
	if !s.isKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

func (s *SettingsService) isKey(key string) bool {
	for _, k := range s.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Keys lists the configurable keys.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyProjectID,
		KeyHighlightColor,
		KeyResolverConfidence,
		KeyWatchIntervalMillis,
		KeyStorageDataDir,
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getColor(defaultVal string) string {
	val := s.configStore.GetString(KeyHighlightColor)
	if !domain.IsHexColor(val) {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getConfidence(defaultVal float64) float64 {
	if _, exists := s.configStore.Get(KeyResolverConfidence); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(KeyResolverConfidence)
	if val < 0 || val > 1 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInterval(defaultVal time.Duration) time.Duration {
	ms := s.configStore.GetInt(KeyWatchIntervalMillis)
	if ms <= 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}
