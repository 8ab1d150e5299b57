package combine

import (
	"io/fs"
	"os"
	"path/filepath"

	"reposynth/pkg/ignore"

	"go.uber.org/zap"
)

// Walk traverses root in lexical order and calls fn for every regular file that passes keep.
// A symlinked root is followed, but reported paths stay under root as given.
// Entries that cannot be accessed, broken symlinks and special files (pipes,
// sockets, devices) are skipped. Directories rejected by keep are pruned.
// An error returned by fn stops the walk.
func Walk(root string, keep ignore.Filter, logger *zap.Logger, fn func(ignore.Entry) error) error {
	walkRoot := resolveRoot(root)
	if walkRoot != root {
		logger.Debug("Following symlinked root", zap.String("root", root), zap.String("target", walkRoot))
	}

	return filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		path = rebase(root, walkRoot, path)
		if err != nil {
			logger.Debug("Skipping inaccessible path", zap.String("path", path), zap.Error(err))
			return nil
		}

		entry, mode, ok := toEntry(path, d)
		if !ok {
			logger.Debug("Skipping broken symlink", zap.String("path", path))
			return nil
		}

		if !keep(entry) {
			if entry.Dir && d.IsDir() {
				logger.Debug("Skipping ignored directory", zap.String("directory", path))
				return filepath.SkipDir
			}
			logger.Debug("Skipping ignored entry", zap.String("path", path))
			return nil
		}

		if entry.Dir {
			return nil
		}
		if !mode.IsRegular() {
			logger.Debug("Skipping special file", zap.String("path", path), zap.Stringer("mode", mode))
			return nil
		}
		return fn(entry)
	})
}

// resolveRoot returns the target of root when root is a symlink, root otherwise.
func resolveRoot(root string) string {
	info, err := os.Lstat(root)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return root
	}
	target, err := filepath.EvalSymlinks(root)
	if err != nil {
		return root
	}
	return target
}

// rebase maps a path found under walkRoot back under root.
func rebase(root, walkRoot, path string) string {
	if walkRoot == root {
		return path
	}
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}

// toEntry resolves symlinks so that a link to a directory counts as a directory.
// The returned mode is the type of the resolved target. It reports false when
// the link target cannot be resolved.
func toEntry(path string, d fs.DirEntry) (ignore.Entry, fs.FileMode, bool) {
	if d.Type()&fs.ModeSymlink == 0 {
		return ignore.Entry{Path: path, Dir: d.IsDir()}, d.Type(), true
	}
	info, err := os.Stat(path)
	if err != nil {
		return ignore.Entry{}, 0, false
	}
	return ignore.Entry{Path: path, Dir: info.IsDir()}, info.Mode().Type(), true
}
