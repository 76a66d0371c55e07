package utils

import "unicode/utf8"

// MaskAPIKey masks the API key for display, keeping four characters at each end
func MaskAPIKey(key string) string {
	if utf8.RuneCountInString(key) <= 8 {
		return "****"
	}
	runes := []rune(key)
	return string(runes[:4]) + "****" + string(runes[len(runes)-4:])
}

// Truncate shortens s to at most n runes, ending in "…" when cut
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
