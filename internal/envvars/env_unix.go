//go:build !windows

package envvars

// Default returns the platform env writer: an export script at envFile
func Default(envFile string) Writer {
	return &FileWriter{Path: envFile}
}
