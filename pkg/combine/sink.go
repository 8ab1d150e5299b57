package combine

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Sink writes formatted blocks to exactly one destination.
type Sink struct {
	name   string
	writer *bufio.Writer
	file   *os.File
}

// OpenSink truncates or creates the file at path, or falls back to stdout when path is empty.
func OpenSink(path string, stdout io.Writer) (*Sink, error) {
	if path == "" {
		return &Sink{name: "stdout", writer: bufio.NewWriter(stdout)}, nil
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return &Sink{name: path, writer: bufio.NewWriter(file), file: file}, nil
}

// Name identifies the destination, "stdout" or the file path.
func (s *Sink) Name() string {
	return s.name
}

// WriteBlock writes block followed by a newline.
func (s *Sink) WriteBlock(block string) error {
	if _, err := s.writer.WriteString(block); err != nil {
		return fmt.Errorf("failed to write to %s: %w", s.name, err)
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write to %s: %w", s.name, err)
	}
	return nil
}

// Close flushes pending output and closes the file, if any.
func (s *Sink) Close() error {
	flushErr := s.writer.Flush()
	if s.file != nil {
		if err := s.file.Close(); err != nil && flushErr == nil {
			return fmt.Errorf("failed to close %s: %w", s.name, err)
		}
	}
	if flushErr != nil {
		return fmt.Errorf("failed to flush %s: %w", s.name, flushErr)
	}
	return nil
}
