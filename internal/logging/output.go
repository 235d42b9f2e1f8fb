package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// NewWriter resolves a log output setting to a writer:
//   - "stderr" or "" writes to os.Stderr
//   - "stdout" writes to os.Stdout
//   - "file:///path/to/file" or any path containing a separator appends to that file
func NewWriter(output string) (io.Writer, error) {
	switch {
	case output == "" || output == "stderr":
		return os.Stderr, nil
	case output == "stdout":
		return os.Stdout, nil
	case strings.HasPrefix(output, "file://"):
		return openLogFile(strings.TrimPrefix(output, "file://"))
	case strings.Contains(output, "://"):
		return nil, fmt.Errorf("unsupported log output: %s", output)
	case strings.ContainsAny(output, `/\`):
		return openLogFile(output)
	default:
		return nil, fmt.Errorf("unsupported log output: %s", output)
	}
}

func openLogFile(path string) (io.Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}
