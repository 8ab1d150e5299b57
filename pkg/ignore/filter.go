package ignore

import (
	"os"
	"path/filepath"
	"strings"
)

// Entry is a walked filesystem node.
type Entry struct {
	Path string // Path as produced by the walk, i.e. joined onto the walk root.
	Dir  bool   // True for directories, including symlinks that resolve to one.
}

// Filter decides whether an entry survives.
type Filter func(Entry) bool

// FolderAllowed rejects the entry when any named component of its path is an
// ignored folder. Every component counts, so exclusion is inherited by all
// descendants and also applies when the name only appears above the walk root.
func FolderAllowed(e Entry, p Policy) bool {
	for _, name := range Components(e.Path) {
		if p.IgnoresFolder(name) {
			return false
		}
	}
	return true
}

// FileAllowed rejects files whose base name is ignored. Directories always pass
// so that their permitted children can still be reached.
func FileAllowed(e Entry, p Policy) bool {
	if e.Dir {
		return true
	}
	return !p.IgnoresFile(filepath.Base(e.Path))
}

// ExtensionAllowed checks a file's extension against the rules.
// Directories and files without an extension always pass.
func ExtensionAllowed(e Entry, r ExtensionRules) bool {
	if e.Dir {
		return true
	}
	ext, ok := Extension(e.Path)
	if !ok {
		return true
	}
	return r.Allows(ext)
}

// Chain composes the predicates in order: folder, file name, extension.
func Chain(p Policy, r ExtensionRules) Filter {
	return func(e Entry) bool {
		return FolderAllowed(e, p) && FileAllowed(e, p) && ExtensionAllowed(e, r)
	}
}

// Components splits path into its named components, dropping the volume,
// the root, and "." and ".." elements.
func Components(path string) []string {
	path = filepath.Clean(path)
	path = path[len(filepath.VolumeName(path)):]

	var names []string
	for _, part := range strings.Split(path, string(os.PathSeparator)) {
		switch part {
		case "", ".", "..":
			continue
		}
		names = append(names, part)
	}
	return names
}
