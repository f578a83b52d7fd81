package store

import (
	"fyne.io/fyne/v2"

	"github.com/careassist/care-reminder/pkg/models"
)

// SettingsStore persists presentation settings in fyne Preferences
type SettingsStore struct {
	prefs fyne.Preferences
}

// NewSettingsStore creates a SettingsStore over the app's preferences
func NewSettingsStore(prefs fyne.Preferences) *SettingsStore {
	return &SettingsStore{prefs: prefs}
}

// Load reads settings, defaulting every flag to off
func (ss *SettingsStore) Load() models.Settings {
	return models.Settings{
		AutoStart:    ss.prefs.BoolWithFallback("auto_start", false),
		LargeText:    ss.prefs.BoolWithFallback("large_text", false),
		HighContrast: ss.prefs.BoolWithFallback("high_contrast", false),
	}
}

// Save writes all settings
func (ss *SettingsStore) Save(settings models.Settings) {
	ss.prefs.SetBool("auto_start", settings.AutoStart)
	ss.prefs.SetBool("large_text", settings.LargeText)
	ss.prefs.SetBool("high_contrast", settings.HighContrast)
}
