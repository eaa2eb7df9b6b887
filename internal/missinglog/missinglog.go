package missinglog

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry identifies one catalog record that failed rating resolution.
type Entry struct {
	Provider    string
	Title       string
	Year        int
	JustWatchID string
}

// Log appends missing-match entries to a plain text file, one line per
// call. The file is created lazily on first append.
type Log struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New creates a missing-match log writing to path.
func New(path string) (*Log, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("missing log path required")
	}
	return &Log{path: path, now: time.Now}, nil
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Append durably records one entry. Lines are never rewritten.
func (l *Log) Append(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create missing log directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open missing log: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(l.formatLine(entry)); err != nil {
		return fmt.Errorf("append missing log: %w", err)
	}
	return nil
}

// ReadAll returns every recorded line, oldest first. A log that was never
// written reads as empty.
func (l *Log) ReadAll() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open missing log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read missing log: %w", err)
	}
	return lines, nil
}

// Count returns the number of recorded lines.
func (l *Log) Count() (int, error) {
	lines, err := l.ReadAll()
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

func (l *Log) formatLine(entry Entry) string {
	year := "N/A"
	if entry.Year > 0 {
		year = fmt.Sprintf("%d", entry.Year)
	}
	jwID := entry.JustWatchID
	if jwID == "" {
		jwID = "N/A"
	}
	return fmt.Sprintf("%s - %s: %s (%s) - JustWatch ID: %s\n",
		l.now().Format("2006-01-02 15:04:05"),
		entry.Provider,
		entry.Title,
		year,
		jwID,
	)
}
