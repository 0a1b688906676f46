package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Open opens the log destination named by path for appending.
// An empty path discards output; "-" writes to stderr.
func Open(path string) (io.WriteCloser, error) {
	switch path {
	case "":
		return nopCloser{io.Discard}, nil
	case "-":
		return nopCloser{os.Stderr}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
