// Package switcher propagates a profile into the target tool's config file
// and, optionally, into user-level environment variables.
package switcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cccm/config"
	"cccm/config/models"
	"cccm/config/storage"
	"cccm/internal/envvars"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Keys owned by cccm in the target config; everything else is left alone
const (
	BaseURLKey = "baseURL"
	APIKeyKey  = "apiKey"
)

// Result describes a completed switch
type Result struct {
	Path       string // target config written
	BackupPath string // empty when no prior file existed
	EnvApplied bool
}

// Target is the live state of the target config
type Target struct {
	Path    string
	BaseURL string
	APIKey  string
}

// Switcher writes profiles into the target config
type Switcher struct {
	candidates []string
	env        envvars.Writer
	baseURLVar string
	tokenVar   string
	backups    *storage.BackupManager
}

// Option configures a Switcher
type Option func(*Switcher)

// WithEnv also sets baseURLVar and tokenVar through w on every switch
func WithEnv(w envvars.Writer, baseURLVar, tokenVar string) Option {
	return func(s *Switcher) {
		s.env = w
		s.baseURLVar = baseURLVar
		s.tokenVar = tokenVar
	}
}

// WithClock sets the clock used for backup names
func WithClock(now func() time.Time) Option {
	return func(s *Switcher) {
		s.backups = storage.NewBackupManager(now)
	}
}

// New creates a Switcher over the ordered candidate paths
func New(candidates []string, opts ...Option) *Switcher {
	s := &Switcher{
		candidates: candidates,
		backups:    storage.NewBackupManager(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// locate returns the first existing candidate, or the first candidate when none exist
func (s *Switcher) locate() (string, bool, error) {
	if len(s.candidates) == 0 {
		return "", false, config.Errorf(config.KindNotFound, "resolve target config", "", errors.New("no candidate paths configured"))
	}
	for _, p := range s.candidates {
		if storage.FileExists(p) {
			return p, true, nil
		}
	}
	return s.candidates[0], false, nil
}

// ResolvePath returns the target config path, creating the parent directory
// of the default candidate when no candidate exists yet
func (s *Switcher) ResolvePath() (string, error) {
	path, exists, err := s.locate()
	if err != nil {
		return "", err
	}
	if !exists {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", config.Errorf(config.KindIO, "create config directory", filepath.Dir(path), err)
		}
	}
	return path, nil
}

// Switch writes profile's base URL and API key into the target config.
// An existing file is backed up first; a failed backup aborts the switch.
// When an env writer is configured and it fails, the target file is rolled
// back to its pre-switch contents.
func (s *Switcher) Switch(profile models.Profile) (*Result, error) {
	path, err := s.ResolvePath()
	if err != nil {
		return nil, err
	}
	result := &Result{Path: path}

	existed := storage.FileExists(path)
	var original []byte
	if existed {
		backupPath, err := s.backups.CreateBackup(path)
		if err != nil {
			return nil, config.Errorf(config.KindIO, "back up target config", path, err)
		}
		result.BackupPath = backupPath

		original, err = os.ReadFile(path)
		if err != nil {
			return nil, config.Errorf(config.KindIO, "read target config", path, err)
		}
	}

	updated, err := MergeCredentials(original, profile.BaseURL, profile.APIKey)
	if err != nil {
		return nil, config.Errorf(config.KindParse, "parse target config", path, err)
	}

	if err := storage.AtomicWriteFile(path, updated, 0600); err != nil {
		return nil, config.Errorf(config.KindIO, "write target config", path, err)
	}

	if s.env == nil {
		return result, nil
	}

	vars := []envvars.Var{
		{Name: s.baseURLVar, Value: profile.BaseURL},
		{Name: s.tokenVar, Value: profile.APIKey},
	}
	if err := s.env.Write(vars); err != nil {
		if rbErr := rollback(path, existed, original); rbErr != nil {
			return nil, config.Errorf(config.KindEnvWrite, "set environment variables", "",
				fmt.Errorf("%w; restoring %s also failed: %v", err, path, rbErr))
		}
		return nil, config.Errorf(config.KindEnvWrite, "set environment variables", "", err)
	}
	result.EnvApplied = true

	return result, nil
}

// Revert undoes the file write of a completed switch: the backup is copied
// back, or a file the switch created is removed. Environment variables keep
// the values the switch gave them.
func (s *Switcher) Revert(result *Result) error {
	if result.BackupPath != "" {
		if err := s.backups.RestoreFromBackup(result.Path, result.BackupPath); err != nil {
			return config.Errorf(config.KindIO, "revert target config", result.Path, err)
		}
		return nil
	}
	if err := os.Remove(result.Path); err != nil && !os.IsNotExist(err) {
		return config.Errorf(config.KindIO, "revert target config", result.Path, err)
	}
	return nil
}

// rollback puts the target file back the way it was before the switch
func rollback(path string, existed bool, original []byte) error {
	if !existed {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return storage.AtomicWriteFile(path, original, 0600)
}

// MergeCredentials sets baseURL and apiKey on the JSON object in original,
// preserving every other key and its position, and returns pretty-printed
// JSON. Empty input is treated as {}.
func MergeCredentials(original []byte, baseURL, apiKey string) ([]byte, error) {
	content := string(original)
	if strings.TrimSpace(content) == "" {
		content = "{}"
	}

	if !gjson.Valid(content) {
		return nil, fmt.Errorf("invalid JSON content")
	}
	if !gjson.Parse(content).IsObject() {
		return nil, fmt.Errorf("target config is not a JSON object")
	}

	content, err := sjson.Set(content, BaseURLKey, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s field: %w", BaseURLKey, err)
	}
	content, err = sjson.Set(content, APIKeyKey, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s field: %w", APIKeyKey, err)
	}

	return pretty.Pretty([]byte(content)), nil
}

// Current reads the owned fields of the live target config
func (s *Switcher) Current() (*Target, error) {
	path, exists, err := s.locate()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, config.Errorf(config.KindNotFound, "read target config", path, os.ErrNotExist)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, config.Errorf(config.KindIO, "read target config", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, config.Errorf(config.KindParse, "parse target config", path, errors.New("invalid JSON content"))
	}

	result := gjson.ParseBytes(data)
	return &Target{
		Path:    path,
		BaseURL: result.Get(BaseURLKey).String(),
		APIKey:  result.Get(APIKeyKey).String(),
	}, nil
}

// Backups lists backups of the resolved target config, oldest first
func (s *Switcher) Backups() (string, []storage.Backup, error) {
	path, _, err := s.locate()
	if err != nil {
		return "", nil, err
	}
	backups, err := s.backups.ListBackups(path)
	if err != nil {
		return path, nil, config.Errorf(config.KindIO, "list backups", filepath.Dir(path), err)
	}
	return path, backups, nil
}

// RestoreLatest restores the target config from its newest backup
func (s *Switcher) RestoreLatest() (string, error) {
	path, _, err := s.locate()
	if err != nil {
		return "", err
	}
	backupPath, err := s.backups.RestoreFromLatestBackup(path)
	if err != nil {
		return "", config.Errorf(config.KindIO, "restore target config", path, err)
	}
	return backupPath, nil
}

// Restore restores the target config from backupPath. A bare file name is
// looked up next to the target config.
func (s *Switcher) Restore(backupPath string) (string, error) {
	path, _, err := s.locate()
	if err != nil {
		return "", err
	}
	if filepath.Base(backupPath) == backupPath {
		backupPath = filepath.Join(filepath.Dir(path), backupPath)
	}
	if err := s.backups.RestoreFromBackup(path, backupPath); err != nil {
		return "", config.Errorf(config.KindIO, "restore target config", path, err)
	}
	return backupPath, nil
}

// Prune deletes all but the newest keep backups
func (s *Switcher) Prune(keep int) ([]string, error) {
	path, _, err := s.locate()
	if err != nil {
		return nil, err
	}
	removed, err := s.backups.Prune(path, keep)
	if err != nil {
		return removed, config.Errorf(config.KindIO, "prune backups", filepath.Dir(path), err)
	}
	return removed, nil
}
