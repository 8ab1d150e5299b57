package combine

import (
	"reposynth/pkg/ignore"
)

// Options holds the resolved settings for a single run.
type Options struct {
	Root   string                // Directory to walk.
	Output string                // Output file path; empty means standard output.
	Policy ignore.Policy         // Exclusion policy as loaded from storage.
	Rules  ignore.ExtensionRules // Resolved extension allow and deny lists.
}

// Stats summarises a finished run.
type Stats struct {
	Written int // Files rendered into the output.
	Skipped int // Files that passed the filters but could not be read as text.
}
