package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"cccm/config/models"
	"cccm/config/storage"
	"cccm/config/validation"
)

// CreatedLayout matches the ISO-8601 form JavaScript's toISOString produces
const CreatedLayout = "2006-01-02T15:04:05.000Z"

// now is replaced in tests
var now = time.Now

// Load reads the store file at path. A missing or empty file yields the zero
// store. An unreadable or corrupt file also yields the zero store: the returned
// error is diagnostic only and the store is always usable. Saving afterwards
// overwrites the corrupt file.
func Load(path string) (*models.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewStore(), nil
		}
		return models.NewStore(), Errorf(KindIO, "read store", path, err)
	}

	if len(data) == 0 {
		return models.NewStore(), nil
	}

	var store models.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return models.NewStore(), Errorf(KindParse, "parse store", path, err)
	}
	if store.Profiles == nil {
		store.Profiles = map[string]models.Profile{}
	}
	return &store, nil
}

// Save writes the whole store as pretty-printed JSON, replacing the file
// atomically while holding an exclusive lock on <path>.lock
func Save(path string, store *models.Store) error {
	return SaveWithLock(path, path+".lock", store)
}

// SaveWithLock is Save with the advisory lock taken on lockPath
func SaveWithLock(path, lockPath string, store *models.Store) error {
	if store.Profiles == nil {
		store.Profiles = map[string]models.Profile{}
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return Errorf(KindIO, "serialize store", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Errorf(KindIO, "create store directory", filepath.Dir(path), err)
	}

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return Errorf(KindIO, "create lock directory", filepath.Dir(lockPath), err)
	}
	lock, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return Errorf(KindIO, "open lock file", lockPath, err)
	}
	defer lock.Close()

	if err := lockFileExclusive(lock); err != nil {
		return Errorf(KindIO, "lock store", path, err)
	}
	defer func() {
		if err := unlockFile(lock); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to unlock file: %v\n", err)
		}
	}()

	if err := storage.AtomicWriteFile(path, data, 0600); err != nil {
		return Errorf(KindIO, "write store", path, err)
	}
	return nil
}

// Add inserts a new profile. Name, base URL and API key are required after
// trimming; an existing name is rejected. The store is unchanged on failure.
func Add(store *models.Store, name, baseURL, apiKey, description string) error {
	validation.Normalize(&name, &baseURL, &apiKey, &description)

	if err := validation.NewValidator().ValidateProfile(name, baseURL, apiKey); err != nil {
		return err
	}
	if _, exists := store.Profiles[name]; exists {
		return validation.Duplicate(name)
	}

	if store.Profiles == nil {
		store.Profiles = map[string]models.Profile{}
	}
	store.Profiles[name] = models.Profile{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Description: description,
		Created:     now().UTC().Format(CreatedLayout),
	}
	return nil
}

// Edit replaces the fields of an existing profile. The name is fixed and the
// created timestamp is preserved.
func Edit(store *models.Store, name, baseURL, apiKey, description string) error {
	validation.Normalize(&name, &baseURL, &apiKey, &description)

	existing, ok := store.Profiles[name]
	if !ok {
		return NotFound(name)
	}
	if err := validation.NewValidator().ValidateProfile(name, baseURL, apiKey); err != nil {
		return err
	}

	store.Profiles[name] = models.Profile{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Description: description,
		Created:     existing.Created,
	}
	return nil
}

// Delete removes a profile, clearing current if it pointed at it
func Delete(store *models.Store, name string) error {
	if _, ok := store.Profiles[name]; !ok {
		return NotFound(name)
	}

	delete(store.Profiles, name)
	if store.Current != nil && *store.Current == name {
		store.Current = nil
	}
	return nil
}

// SetCurrent marks name as the active profile
func SetCurrent(store *models.Store, name string) error {
	if _, ok := store.Profiles[name]; !ok {
		return NotFound(name)
	}
	store.Current = &name
	return nil
}

// Get returns a profile by name
func Get(store *models.Store, name string) (models.Profile, error) {
	profile, ok := store.Profiles[name]
	if !ok {
		return models.Profile{}, NotFound(name)
	}
	return profile, nil
}

// Names returns the profile names in sorted order
func Names(store *models.Store) []string {
	names := make([]string, 0, len(store.Profiles))
	for name := range store.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CurrentProfile returns the active profile, if any
func CurrentProfile(store *models.Store) (string, models.Profile, bool) {
	name := store.CurrentName()
	if name == "" {
		return "", models.Profile{}, false
	}
	profile, ok := store.Profiles[name]
	return name, profile, ok
}

// ExportFileName returns the default export file name for t
func ExportFileName(t time.Time) string {
	return "claude-configs-" + t.UTC().Format("2006-01-02") + ".cccm"
}

// Export serialises the whole store for download
func Export(store *models.Store) ([]byte, error) {
	if store.Profiles == nil {
		store.Profiles = map[string]models.Profile{}
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return nil, Errorf(KindIO, "serialize store", "", err)
	}
	return data, nil
}

// Import parses a full store payload. Unlike Load it fails on malformed input.
// The result replaces the persisted store wholesale; a current pointer naming
// a profile that isn't in the payload is cleared.
func Import(data []byte) (*models.Store, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Errorf(KindParse, "parse import", "", err)
	}
	if _, ok := raw["profiles"]; !ok {
		return nil, Errorf(KindParse, "parse import", "", errors.New("missing \"profiles\" field"))
	}

	var store models.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, Errorf(KindParse, "parse import", "", err)
	}
	if store.Profiles == nil {
		store.Profiles = map[string]models.Profile{}
	}
	if store.Current != nil {
		if _, ok := store.Profiles[*store.Current]; !ok {
			store.Current = nil
		}
	}
	return &store, nil
}
