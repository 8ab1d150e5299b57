package combine

import (
	"os"
	"strings"
	"unicode/utf8"
)

// readText returns the file's content with surrounding whitespace trimmed.
// It reports false when the file cannot be read or is not valid UTF-8.
func readText(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(data) {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
