// Package settings persists the last-used fetch options between runs,
// the way the Stogram companion remembers its form state.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Settings holds the last-used fetch options.
type Settings struct {
	Browser   string    `json:"browser"`
	MediaType string    `json:"media_type"`
	PostLimit int       `json:"post_limit"`
	Username  string    `json:"username"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Manager handles settings persistence.
type Manager struct {
	path string
}

// NewManager creates a settings manager storing under the user data
// directory.
func NewManager() (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Manager{path: filepath.Join(dataDir, "settings.json")}, nil
}

// NewManagerAt creates a settings manager over an explicit file path.
func NewManagerAt(path string) *Manager {
	return &Manager{path: path}
}

// Load reads the stored settings. A missing file yields zero-value
// settings, not an error.
func (m *Manager) Load() (*Settings, error) {
	file, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer file.Close()

	var s Settings
	if err := json.NewDecoder(file).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	return &s, nil
}

// Save writes the settings, stamping UpdatedAt.
func (m *Manager) Save(s *Settings) error {
	s.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	// Write to a temporary file first, then rename for atomicity.
	tempPath := m.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tempPath, m.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	return nil
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// getDataDirectory returns the platform data directory for stogramctl.
func getDataDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "stogramctl"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "stogramctl"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "stogramctl"), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "stogramctl"), nil
		}
		return filepath.Join(home, ".local", "share", "stogramctl"), nil
	}
}
