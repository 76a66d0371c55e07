package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"cccm/config/models"
	"cccm/config/storage"
)

const (
	// StoreFileName is the store file in the user's home directory
	StoreFileName = "claude-configs.cccm"
	// LegacyStoreFileName is the pre-.cccm store file, migrated on first use
	LegacyStoreFileName = ".claude_configs.json"
)

// Options customise NewManager. Empty fields use defaults.
type Options struct {
	HomeDir      string
	StorePath    string
	SettingsPath string
	Logger       *log.Logger
}

// Manager locates the store and settings files and loads/saves the store
type Manager struct {
	homeDir      string
	storePath    string
	lockPath     string
	settingsPath string
	settings     *Settings
	logger       *log.Logger
}

// NewManager resolves paths, reads settings and migrates a legacy store file
func NewManager(opts Options) (*Manager, error) {
	homeDir := opts.HomeDir
	if homeDir == "" {
		var err error
		homeDir, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		settingsPath = filepath.Join(ConfigDir(homeDir), SettingsFileName)
	}
	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, Errorf(KindValidation, "check settings", settingsPath, err)
	}

	storePath := opts.StorePath
	if storePath == "" && settings.StorePath != "" {
		storePath = expandHome(settings.StorePath, homeDir)
	}
	if storePath == "" {
		storePath = filepath.Join(homeDir, StoreFileName)
		legacyPath := filepath.Join(homeDir, LegacyStoreFileName)

		if storage.ShouldMigrateStore(legacyPath, storePath) {
			if err := storage.MigrateStore(legacyPath, storePath); err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  Failed to migrate store: %v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "✅ Migrated profiles from %s to %s\n", legacyPath, storePath)
			}
		}
	}

	// The lock lives with the settings so the home directory only holds the store
	lockPath := filepath.Join(ConfigDir(homeDir), filepath.Base(storePath)+".lock")

	logger.Printf("store: %s", storePath)
	logger.Printf("settings: %s", settingsPath)

	return &Manager{
		homeDir:      homeDir,
		storePath:    storePath,
		lockPath:     lockPath,
		settingsPath: settingsPath,
		settings:     settings,
		logger:       logger,
	}, nil
}

// StorePath returns the path to the store file
func (m *Manager) StorePath() string {
	return m.storePath
}

// LockPath returns the advisory lock file taken while saving the store
func (m *Manager) LockPath() string {
	return m.lockPath
}

// SettingsPath returns the path to the settings file
func (m *Manager) SettingsPath() string {
	return m.settingsPath
}

// Settings returns the loaded settings
func (m *Manager) Settings() *Settings {
	return m.settings
}

// Logger returns the diagnostic logger
func (m *Manager) Logger() *log.Logger {
	return m.logger
}

// Load reads the store. Corruption falls back to an empty store; the cause
// is only reported on the diagnostic logger.
func (m *Manager) Load() *models.Store {
	store, err := Load(m.storePath)
	if err != nil {
		m.logger.Printf("store unreadable, starting empty: %v", err)
	}
	return store
}

// Save persists the store
func (m *Manager) Save(store *models.Store) error {
	return SaveWithLock(m.storePath, m.lockPath, store)
}

// Update loads the store, applies fn and saves the result. Nothing is
// written when fn fails.
func (m *Manager) Update(fn func(store *models.Store) error) (*models.Store, error) {
	store := m.Load()
	if err := fn(store); err != nil {
		return store, err
	}
	if err := m.Save(store); err != nil {
		return store, err
	}
	return store, nil
}

// TargetCandidates returns the ordered list of target config paths
func (m *Manager) TargetCandidates() []string {
	if len(m.settings.TargetPaths) > 0 {
		paths := make([]string, 0, len(m.settings.TargetPaths))
		for _, p := range m.settings.TargetPaths {
			paths = append(paths, expandHome(p, m.homeDir))
		}
		return paths
	}
	return DefaultTargetCandidates(m.homeDir, os.Getenv("APPDATA"))
}

// EnvFilePath returns where the Unix env writer puts its export script
func (m *Manager) EnvFilePath() string {
	if m.settings.EnvFile != "" {
		return expandHome(m.settings.EnvFile, m.homeDir)
	}
	return filepath.Join(ConfigDir(m.homeDir), EnvFileName)
}

// DefaultTargetCandidates returns the Claude Code config locations in lookup
// order. The APPDATA location is only included when appData is set.
func DefaultTargetCandidates(homeDir, appData string) []string {
	paths := []string{
		filepath.Join(homeDir, ".claude", "config.json"),
		filepath.Join(homeDir, ".config", "claude", "config.json"),
	}
	if appData != "" {
		paths = append(paths, filepath.Join(appData, "Claude", "config.json"))
	}
	return paths
}
