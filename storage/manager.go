package storage

import (
	"encoding/json"
	"fmt"
	"grannysporch/models"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	appDirName       = "GrannysPorch"
	settingsFileName = "settings.json"
)

// Manager handles settings persistence. None of its methods report errors to
// the caller: a broken settings file must never stop the form from working.
type Manager struct {
	dataPath string
	log      zerolog.Logger
}

// NewManager creates a storage manager rooted at the per-user application
// data directory. If that directory cannot be determined the current
// directory is used instead.
func NewManager(log zerolog.Logger) *Manager {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Warn().Err(err).Msg("user config directory unavailable, using current directory")
		configDir = "."
	}
	return NewManagerAt(filepath.Join(configDir, appDirName), log)
}

// NewManagerAt creates a storage manager that keeps its files in dir
func NewManagerAt(dir string, log zerolog.Logger) *Manager {
	return &Manager{
		dataPath: dir,
		log:      log.With().Str("component", "storage").Logger(),
	}
}

// SettingsPath returns the full path of the settings file
func (m *Manager) SettingsPath() string {
	return filepath.Join(m.dataPath, settingsFileName)
}

// LoadSettings loads the settings from disk. A missing, unreadable or
// malformed file yields empty settings.
func (m *Manager) LoadSettings() *models.Settings {
	settings, err := m.readSettings()
	if err != nil {
		m.log.Warn().Err(err).Str("path", m.SettingsPath()).Msg("using default settings")
		return models.DefaultSettings()
	}
	return settings
}

// SaveSettings writes the settings to disk, creating the directory first.
// Failures are logged and otherwise ignored.
func (m *Manager) SaveSettings(settings *models.Settings) {
	if err := m.writeSettings(settings); err != nil {
		m.log.Warn().Err(err).Str("path", m.SettingsPath()).Msg("could not save settings")
		return
	}
	m.log.Debug().Str("path", m.SettingsPath()).Msg("settings saved")
}

func (m *Manager) readSettings() (*models.Settings, error) {
	data, err := os.ReadFile(m.SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var settings *models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	// a file containing just "null" decodes without error
	if settings == nil {
		return models.DefaultSettings(), nil
	}
	return settings, nil
}

func (m *Manager) writeSettings(settings *models.Settings) error {
	if settings == nil {
		settings = models.DefaultSettings()
	}
	if err := os.MkdirAll(m.dataPath, 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.WriteFile(m.SettingsPath(), data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
