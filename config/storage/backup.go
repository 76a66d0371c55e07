package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	backupPrefix = "config.backup."
	backupSuffix = ".json"

	// BackupTimeLayout is the ISO timestamp with ':' and '.' replaced by '-', whole seconds
	BackupTimeLayout = "2006-01-02T15-04-05"
)

// BackupManager manages config.backup.<timestamp>.json files that sit next to
// a target config file. Backups are never removed unless Prune is called.
type BackupManager struct {
	now func() time.Time
}

// NewBackupManager creates a new BackupManager. A nil clock means time.Now.
func NewBackupManager(now func() time.Time) *BackupManager {
	if now == nil {
		now = time.Now
	}
	return &BackupManager{now: now}
}

// BackupName returns the backup file name for t, e.g. config.backup.2024-01-01T00-00-00.json
func BackupName(t time.Time) string {
	return backupPrefix + t.UTC().Format(BackupTimeLayout) + backupSuffix
}

// CreateBackup copies filePath to a timestamped sibling and returns its path.
// A backup taken in the same second as an existing one gets a -N suffix.
func (bm *BackupManager) CreateBackup(filePath string) (string, error) {
	dir := filepath.Dir(filePath)
	stamp := bm.now().UTC().Format(BackupTimeLayout)

	for n := 0; n < 1000; n++ {
		name := backupPrefix + stamp + backupSuffix
		if n > 0 {
			name = fmt.Sprintf("%s%s-%d%s", backupPrefix, stamp, n, backupSuffix)
		}
		backupPath := filepath.Join(dir, name)

		err := CopyFile(filePath, backupPath)
		if err == nil {
			return backupPath, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to create backup: %w", err)
		}
	}
	return "", fmt.Errorf("failed to create backup: too many backups for %s", stamp)
}

// Backup describes one backup file on disk
type Backup struct {
	Path  string
	Taken time.Time
	seq   int
}

// parseBackupName extracts the timestamp and collision sequence from a backup file name
func parseBackupName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return time.Time{}, 0, false
	}
	core := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
	if len(core) < len(BackupTimeLayout) {
		return time.Time{}, 0, false
	}

	taken, err := time.Parse(BackupTimeLayout, core[:len(BackupTimeLayout)])
	if err != nil {
		return time.Time{}, 0, false
	}

	rest := core[len(BackupTimeLayout):]
	if rest == "" {
		return taken, 0, true
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(rest, "-"))
	if err != nil || !strings.HasPrefix(rest, "-") || seq <= 0 {
		return time.Time{}, 0, false
	}
	return taken, seq, true
}

// ListBackups returns the backups next to filePath, oldest first
func (bm *BackupManager) ListBackups(filePath string) ([]Backup, error) {
	dir := filepath.Dir(filePath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var backups []Backup
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		taken, seq, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		backups = append(backups, Backup{Path: filepath.Join(dir, entry.Name()), Taken: taken, seq: seq})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Taken.Equal(backups[j].Taken) {
			return backups[i].Taken.Before(backups[j].Taken)
		}
		return backups[i].seq < backups[j].seq
	})

	return backups, nil
}

// Prune removes old backups, retaining only the newest keep files.
// It returns the removed paths.
func (bm *BackupManager) Prune(filePath string, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	backups, err := bm.ListBackups(filePath)
	if err != nil {
		return nil, err
	}

	numToRemove := len(backups) - keep
	if numToRemove <= 0 {
		return nil, nil
	}

	var removed []string
	for _, old := range backups[:numToRemove] {
		if err := os.Remove(old.Path); err != nil {
			return removed, fmt.Errorf("failed to remove old backup %s: %w", old.Path, err)
		}
		removed = append(removed, old.Path)
	}
	return removed, nil
}

// RestoreFromBackup overwrites filePath with the contents of backupPath
func (bm *BackupManager) RestoreFromBackup(filePath, backupPath string) error {
	if filepath.Dir(backupPath) != filepath.Dir(filePath) {
		return fmt.Errorf("backup path %s is not next to %s", backupPath, filePath)
	}
	if _, _, ok := parseBackupName(filepath.Base(backupPath)); !ok {
		return fmt.Errorf("backup path %s is not a valid backup for %s", backupPath, filePath)
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := AtomicWriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}
	return nil
}

// RestoreFromLatestBackup restores filePath from its most recent backup and
// returns the backup used
func (bm *BackupManager) RestoreFromLatestBackup(filePath string) (string, error) {
	backups, err := bm.ListBackups(filePath)
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", fmt.Errorf("no backup files found for %s", filePath)
	}

	latest := backups[len(backups)-1].Path
	return latest, bm.RestoreFromBackup(filePath, latest)
}
