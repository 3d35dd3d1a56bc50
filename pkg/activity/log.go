package activity

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Sink receives formatted log lines.
type Sink interface {
	Append(line string) error
	Close() error
}

var errClosed = errors.New("activity log is closed")

// FileLog is an append-only UTF-8 text file, one line per entry.
type FileLog struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// OpenFileLog opens (creating if needed) the log at path for appending.
func OpenFileLog(path string) (*FileLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open activity log: %w", err)
	}
	return &FileLog{path: path, f: f}, nil
}

// Path returns the log file location.
func (l *FileLog) Path() string {
	return l.path
}

// Append writes line followed by a newline in a single write.
func (l *FileLog) Append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return errClosed
	}
	if _, err := l.f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append to activity log: %w", err)
	}
	return nil
}

// Close releases the file handle. Further appends fail.
func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// Tail returns the last n lines of the log at path (all lines when n <= 0).
// A missing log reads as empty.
func Tail(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open activity log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lines = append(lines, line)
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}
	return lines, nil
}
