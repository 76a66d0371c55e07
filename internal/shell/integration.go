package shell

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"cccm/config/storage"
)

// Marker opens and closes the block cccm owns in a shell rc file
const (
	BeginMarker = "# >>> cccm >>>"
	EndMarker   = "# <<< cccm <<<"
)

const hookTemplate = `{{.Begin}}
# Load the environment of the active cccm profile
if [ -f {{.EnvFile}} ]; then
  . {{.EnvFile}}
fi
{{.End}}
`

// Generator renders the rc-file hook that sources the env script
type Generator struct {
	EnvFile string
}

// NewGenerator creates a generator for the given env script path
func NewGenerator(envFile string) *Generator {
	return &Generator{EnvFile: envFile}
}

// Generate returns the hook block
func (g *Generator) Generate() (string, error) {
	tmpl, err := template.New("hook").Parse(hookTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]string{
		"Begin":   BeginMarker,
		"End":     EndMarker,
		"EnvFile": "'" + strings.ReplaceAll(g.EnvFile, "'", `'\''`) + "'",
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RCFile picks the rc file for the user's shell from $SHELL
func RCFile(homeDir, shellPath string) (string, error) {
	switch {
	case strings.Contains(shellPath, "zsh"):
		return filepath.Join(homeDir, ".zshrc"), nil
	case strings.Contains(shellPath, "bash"):
		return filepath.Join(homeDir, ".bashrc"), nil
	default:
		return "", fmt.Errorf("unsupported shell: %q", shellPath)
	}
}

// ErrUnbalancedHook means the rc file holds a cccm marker without its
// partner, so the block boundaries can't be trusted
var ErrUnbalancedHook = errors.New("unbalanced cccm hook markers")

// StripHook removes a previously installed hook block from content. Markers
// must come in begin/end pairs; anything else is left for the user to fix.
func StripHook(content string) (string, error) {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	inBlock := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == BeginMarker:
			if inBlock {
				return "", fmt.Errorf("%w: nested %q on line %d", ErrUnbalancedHook, BeginMarker, i+1)
			}
			inBlock = true
		case trimmed == EndMarker:
			if !inBlock {
				return "", fmt.Errorf("%w: %q on line %d has no opening marker", ErrUnbalancedHook, EndMarker, i+1)
			}
			inBlock = false
		case !inBlock:
			kept = append(kept, line)
		}
	}
	if inBlock {
		return "", fmt.Errorf("%w: %q is never closed", ErrUnbalancedHook, BeginMarker)
	}
	return strings.Join(kept, "\n"), nil
}

// Install writes the hook into rcFile, replacing an existing block.
// It reports whether an old block was replaced.
func (g *Generator) Install(rcFile string) (bool, error) {
	hook, err := g.Generate()
	if err != nil {
		return false, err
	}

	existing, err := os.ReadFile(rcFile)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", rcFile, err)
	}

	content := string(existing)
	replaced := strings.Contains(content, BeginMarker) || strings.Contains(content, EndMarker)
	if replaced {
		content, err = StripHook(content)
		if err != nil {
			return false, fmt.Errorf("%s: %w; remove the cccm block by hand and rerun install", rcFile, err)
		}
	}
	content = strings.TrimRight(content, "\n")
	if content != "" {
		content += "\n\n"
	}
	content += hook

	if err := os.MkdirAll(filepath.Dir(rcFile), 0755); err != nil {
		return false, err
	}
	if err := storage.AtomicWriteFile(rcFile, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to update %s: %w", rcFile, err)
	}
	return replaced, nil
}
