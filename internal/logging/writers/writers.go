// Package writers creates io.Writers for the configured logging sinks.
package writers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SinkTarget classifies an output specification.
type SinkTarget string

const (
	TargetStdout SinkTarget = "stdout"
	TargetStderr SinkTarget = "stderr"
	TargetFile   SinkTarget = "file"
)

// ForOutput creates a writer for an output specification:
//   - "" or "stdout"                - os.Stdout
//   - "stderr"                      - os.Stderr
//   - "file:///path" or a bare path - an append-mode file, directories created
func ForOutput(output string) (io.Writer, error) {
	switch {
	case output == "" || output == "stdout":
		return os.Stdout, nil
	case output == "stderr":
		return os.Stderr, nil
	case strings.HasPrefix(output, "file://"):
		return openAppendFile(strings.TrimPrefix(output, "file://"))
	case looksLikePath(output):
		return openAppendFile(output)
	default:
		return nil, fmt.Errorf("unsupported output target: %s", output)
	}
}

// Target classifies an output specification without opening it.
func Target(output string) SinkTarget {
	switch output {
	case "", "stdout":
		return TargetStdout
	case "stderr":
		return TargetStderr
	default:
		return TargetFile
	}
}

func looksLikePath(s string) bool {
	if strings.Contains(s, "://") && !strings.HasPrefix(s, "file://") {
		return false
	}
	return strings.ContainsAny(s, `/\`)
}

func openAppendFile(path string) (io.Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}
