package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cccm/config/storage"

	"github.com/BurntSushi/toml"
)

const (
	// SettingsFileName is the optional TOML file configuring cccm itself
	SettingsFileName = "settings.toml"
	// EnvFileName is the export script written by the Unix env writer
	EnvFileName = "active.env"

	DefaultBaseURLVar = "ANTHROPIC_BASE_URL"
	DefaultTokenVar   = "ANTHROPIC_AUTH_TOKEN"
)

// Settings holds user preferences read from settings.toml. Every field is
// optional; zero values fall back to the built-in defaults.
type Settings struct {
	StorePath   string   `toml:"store_path,omitempty"`
	TargetPaths []string `toml:"target_paths,omitempty"`
	SetEnv      *bool    `toml:"set_env,omitempty"`
	BaseURLVar  string   `toml:"base_url_var,omitempty"`
	TokenVar    string   `toml:"token_var,omitempty"`
	EnvFile     string   `toml:"env_file,omitempty"`
}

// ConfigDir returns the directory holding settings.toml and active.env,
// honouring XDG_CONFIG_HOME
func ConfigDir(homeDir string) string {
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(xdgConfigHome, "cccm")
}

// LoadSettings decodes the settings file. A missing file is not an error.
func LoadSettings(path string) (*Settings, error) {
	settings := &Settings{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}

	if _, err := toml.DecodeFile(path, settings); err != nil {
		return &Settings{}, Errorf(KindParse, "parse settings", path, err)
	}
	return settings, nil
}

// SaveSettings writes settings back as TOML, creating the directory if needed
func SaveSettings(path string, settings *Settings) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return Errorf(KindIO, "encode settings", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Errorf(KindIO, "create settings directory", filepath.Dir(path), err)
	}
	if err := storage.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return Errorf(KindIO, "write settings", path, err)
	}
	return nil
}

// EnvEnabled reports whether switches also persist environment variables.
// Defaults to on for Windows, where the target tool reads them from the registry.
func (s *Settings) EnvEnabled() bool {
	if s.SetEnv != nil {
		return *s.SetEnv
	}
	return runtime.GOOS == "windows"
}

// EnvNames returns the base URL and token variable names
func (s *Settings) EnvNames() (string, string) {
	baseURLVar, tokenVar := s.BaseURLVar, s.TokenVar
	if baseURLVar == "" {
		baseURLVar = DefaultBaseURLVar
	}
	if tokenVar == "" {
		tokenVar = DefaultTokenVar
	}
	return baseURLVar, tokenVar
}

// Validate rejects settings that would make a switch ambiguous
func (s *Settings) Validate() error {
	baseURLVar, tokenVar := s.EnvNames()
	if baseURLVar == tokenVar {
		return fmt.Errorf("base_url_var and token_var must differ (both %q)", baseURLVar)
	}
	for _, p := range s.TargetPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("target_paths contains an empty entry")
		}
	}
	return nil
}

// expandHome replaces a leading ~ with homeDir
func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
