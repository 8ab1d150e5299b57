// Package ignore holds the exclusion policy and the filter predicates that decide
// which walked entries make it into the combined output.
package ignore

import (
	"github.com/samber/lo"
)

// Policy is the set of names that must never appear in the output.
// Matching is exact string equality; there is no globbing and no case folding.
type Policy struct {
	IgnoredFolders    []string // Folder names excluded together with everything beneath them.
	IgnoredFiles      []string // File base names excluded wherever they appear.
	IgnoredExtensions []string // Extensions merged into the deny list of every run.
}

// NewPolicy builds a policy from the stored configuration lists.
// Duplicates are dropped; nil lists are treated as empty.
func NewPolicy(folders, files, extensions []string) Policy {
	return Policy{
		IgnoredFolders:    lo.Uniq(folders),
		IgnoredFiles:      lo.Uniq(files),
		IgnoredExtensions: lo.Uniq(extensions),
	}
}

// WithIgnoredFile returns a copy of the policy that also ignores the given file name.
// It is the run-specific second phase of policy construction and leaves p untouched.
func (p Policy) WithIgnoredFile(name string) Policy {
	if name == "" || lo.Contains(p.IgnoredFiles, name) {
		return p
	}
	files := make([]string, 0, len(p.IgnoredFiles)+1)
	files = append(files, p.IgnoredFiles...)
	p.IgnoredFiles = append(files, name)
	return p
}

// IgnoresFolder reports whether name is an ignored folder name.
func (p Policy) IgnoresFolder(name string) bool {
	return lo.Contains(p.IgnoredFolders, name)
}

// IgnoresFile reports whether name is an ignored file name.
func (p Policy) IgnoresFile(name string) bool {
	return lo.Contains(p.IgnoredFiles, name)
}
