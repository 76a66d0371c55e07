// Package envvars persists user-level environment variables so that newly
// started processes see them.
package envvars

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"cccm/config/storage"
)

// Var is one environment variable assignment
type Var struct {
	Name  string
	Value string
}

// Writer persists variables through some OS mechanism
type Writer interface {
	Write(vars []Var) error
}

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateNames rejects names a shell or the registry can't hold
func ValidateNames(vars []Var) error {
	for _, v := range vars {
		if !validName.MatchString(v.Name) {
			return fmt.Errorf("invalid environment variable name %q", v.Name)
		}
	}
	return nil
}

// quote wraps s in single quotes for POSIX shells
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ExportLines renders vars as POSIX export statements, one per line
func ExportLines(vars []Var) string {
	var b strings.Builder
	for _, v := range vars {
		fmt.Fprintf(&b, "export %s=%s\n", v.Name, quote(v.Value))
	}
	return b.String()
}

// valueStore is a named-value store that can be read back, so a partial
// write can be undone
type valueStore interface {
	Get(name string) (value string, ok bool, err error)
	Set(name, value string) error
	Delete(name string) error
}

// writeAll sets every variable in store. When one fails, the variables
// already written are put back to their previous values, or removed if they
// didn't exist.
func writeAll(store valueStore, vars []Var) error {
	type prior struct {
		value string
		ok    bool
	}

	priors := make([]prior, len(vars))
	for i, v := range vars {
		value, ok, err := store.Get(v.Name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", v.Name, err)
		}
		priors[i] = prior{value: value, ok: ok}
	}

	for i, v := range vars {
		if err := store.Set(v.Name, v.Value); err != nil {
			setErr := fmt.Errorf("failed to set %s: %w", v.Name, err)
			for j := i - 1; j >= 0; j-- {
				var undoErr error
				if priors[j].ok {
					undoErr = store.Set(vars[j].Name, priors[j].value)
				} else {
					undoErr = store.Delete(vars[j].Name)
				}
				if undoErr != nil {
					return fmt.Errorf("%w; restoring %s also failed: %v", setErr, vars[j].Name, undoErr)
				}
			}
			return setErr
		}
	}
	return nil
}

// FileWriter writes an export script that shell startup files source.
// Variables take effect in shells started after the write.
type FileWriter struct {
	Path string
}

// Write replaces the script with exports for vars
func (w *FileWriter) Write(vars []Var) error {
	if err := ValidateNames(vars); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(w.Path), 0755); err != nil {
		return fmt.Errorf("failed to create env directory: %w", err)
	}

	content := "# Generated by cccm switch; do not edit\n" + ExportLines(vars)
	if err := storage.AtomicWriteFile(w.Path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	return nil
}
