package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// AtomicWriteFile writes data to a temporary file in the target directory and
// renames it over filePath, so readers never see a half-written file.
func AtomicWriteFile(filePath string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmpFile.Name()) // no-op after a successful rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	// Keep the mode of an existing file, otherwise use perm
	mode := perm
	if info, err := os.Stat(filePath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpFile.Name(), mode); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filePath); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// CopyFile copies src to dst byte for byte, preserving the source mode
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		os.Remove(dst)
		return err
	}
	if err := dstFile.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

// ShouldMigrateStore reports whether a legacy store exists and the new one doesn't
func ShouldMigrateStore(oldPath, newPath string) bool {
	return FileExists(oldPath) && !FileExists(newPath)
}

// MigrateStore copies the legacy store file to newPath and renames the old
// file to <oldPath>.backup. The payload must be valid JSON.
func MigrateStore(oldPath, newPath string) error {
	data, err := os.ReadFile(oldPath)
	if err != nil {
		return fmt.Errorf("failed to read old store file: %w", err)
	}

	if len(data) == 0 {
		return fmt.Errorf("old store file is empty")
	}

	var temp interface{}
	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("old store file format is invalid: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if err := AtomicWriteFile(newPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write new store file: %w", err)
	}

	// The migrated copy is authoritative now; a failed rename only leaves a stale file behind
	if err := os.Rename(oldPath, oldPath+".backup"); err != nil {
		return fmt.Errorf("store migrated but old file could not be renamed: %w", err)
	}

	return nil
}
