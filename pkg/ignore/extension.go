package ignore

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// ErrExtensionConflict is returned when the allow list and the deny list share an extension.
var ErrExtensionConflict = errors.New("the extensions and ignore list must not overlap")

// ExtensionRules holds the resolved extension allow and deny lists for a run.
type ExtensionRules struct {
	Allow []string // When non-empty, only these extensions pass.
	Deny  []string // User deny list merged with the policy's ignored extensions.
}

// NewExtensionRules merges the user supplied deny list with the policy's ignored extensions.
func NewExtensionRules(allow, deny []string, p Policy) ExtensionRules {
	return ExtensionRules{
		Allow: lo.Uniq(allow),
		Deny:  lo.Uniq(append(append([]string{}, deny...), p.IgnoredExtensions...)),
	}
}

// Validate fails if an extension is both allowed and denied.
func (r ExtensionRules) Validate() error {
	if len(r.Allow) == 0 || len(r.Deny) == 0 {
		return nil
	}
	if common := lo.Intersect(r.Allow, r.Deny); len(common) > 0 {
		return fmt.Errorf("%w: %s", ErrExtensionConflict, strings.Join(common, ", "))
	}
	return nil
}

// Allows reports whether ext passes the rules. The allow list, when present,
// takes precedence over the deny list.
func (r ExtensionRules) Allows(ext string) bool {
	if len(r.Allow) > 0 {
		return lo.Contains(r.Allow, ext)
	}
	return !lo.Contains(r.Deny, ext)
}

// Extension returns the raw extension of the last element of path, without the dot.
// Names without a dot, and names whose only dot is the leading one (".bashrc"),
// have no extension. "archive." has the empty extension.
func Extension(path string) (string, bool) {
	name := filepath.Base(path)
	if name == ".." {
		return "", false
	}
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return "", false
	}
	return name[i+1:], true
}
