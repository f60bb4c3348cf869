package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultProjectID, s.Project.ID)
	assert.Equal(t, DefaultHighlightColor, s.Display.HighlightColor)
	assert.Equal(t, DefaultMinResolverConfidence, s.Resolver.MinConfidence)
	assert.Equal(t, time.Second, s.Watch.Interval)
	assert.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"empty project", func(s *AppSettings) { s.Project.ID = "" }},
		{"bad colour", func(s *AppSettings) { s.Display.HighlightColor = "red" }},
		{"confidence too high", func(s *AppSettings) { s.Resolver.MinConfidence = 1.2 }},
		{"zero interval", func(s *AppSettings) { s.Watch.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrValidation)
		})
	}
}
