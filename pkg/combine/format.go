package combine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SeparatorWidth is the number of dashes in the rule between two blocks.
const SeparatorWidth = 100

// ErrRelativePath is returned when a walked path does not live under the walk root.
var ErrRelativePath = errors.New("failed to get relative path")

var separator = "\n" + strings.Repeat("-", SeparatorWidth) + "\n\n"

// Format renders one file block. Every block but the first starts with the separator.
// Empty content is rendered as "<path>: (EMPTY FILE)".
func Format(first bool, relPath, content string) string {
	var b strings.Builder
	if !first {
		b.WriteString(separator)
	}
	if content == "" {
		fmt.Fprintf(&b, "%s: (EMPTY FILE)", relPath)
	} else {
		fmt.Fprintf(&b, "%s:\n%s", relPath, content)
	}
	return b.String()
}

// RelativePath strips root from path, keeping the platform separator.
// When root is the file itself, its base name is used.
func RelativePath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRelativePath, path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s is not under %s", ErrRelativePath, path, root)
	}
	if rel == "." {
		return filepath.Base(path), nil
	}
	return rel, nil
}
