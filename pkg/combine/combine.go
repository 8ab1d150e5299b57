// Package combine walks a directory tree and concatenates the text of every
// file that survives the exclusion policy into a single stream.
package combine

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"reposynth/pkg/ignore"

	"go.uber.org/zap"
)

// walk is replaced in tests.
var walk = Walk

// Run validates opts, then walks opts.Root and writes one block per included
// file to the output file, or to stdout when no output file is set.
func Run(opts Options, stdout io.Writer, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()

	if err := opts.Rules.Validate(); err != nil {
		return Stats{}, err
	}

	policy := opts.Policy
	if opts.Output != "" {
		policy = policy.WithIgnoredFile(filepath.Base(opts.Output))
	}

	sink, err := OpenSink(opts.Output, stdout)
	if err != nil {
		logger.Error("Failed to open output", zap.String("file", opts.Output), zap.Error(err))
		return Stats{}, err
	}

	logger.Info("Starting combination process",
		zap.String("directory", opts.Root),
		zap.String("output", sink.Name()))

	stats, walkErr := emit(opts.Root, ignore.Chain(policy, opts.Rules), sink, logger)
	if err := sink.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if walkErr != nil {
		logger.Error("Combination process failed", zap.Error(walkErr))
		return stats, walkErr
	}

	logger.Info("Combination process completed",
		zap.Int("written", stats.Written),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("elapsed", time.Since(startTime)))
	return stats, nil
}

// emit pushes every surviving file through read, format and write, in walk order.
func emit(root string, keep ignore.Filter, sink *Sink, logger *zap.Logger) (Stats, error) {
	var stats Stats
	err := walk(root, keep, logger, func(e ignore.Entry) error {
		relPath, err := RelativePath(root, e.Path)
		if err != nil {
			return err
		}

		content, ok := readText(e.Path)
		if !ok {
			logger.Debug("Skipping unreadable or non-text file", zap.String("file", e.Path))
			stats.Skipped++
			return nil
		}

		if err := sink.WriteBlock(Format(stats.Written == 0, relPath, content)); err != nil {
			return err
		}
		stats.Written++
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("failed to combine %s: %w", root, err)
	}
	return stats, nil
}
