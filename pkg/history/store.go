package history

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Conversion tags understood by the counters. Any other non-empty tag (for
// example "error") only bumps the request count.
const (
	TypeDecimalToRoman = "decimal_to_roman"
	TypeRomanToDecimal = "roman_to_decimal"
	TypeError          = "error"
)

const (
	// DefaultLogPath is the default history log file name.
	DefaultLogPath = "istorija.txt"
	// DefaultCounterPath is the default counter file name.
	DefaultCounterPath = "duomenys.txt"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("history: store closed")

// Recorder receives one line per handled request.
type Recorder interface {
	Record(ctx context.Context, message, conversionType string) error
}

// Discard is a Recorder that drops every entry.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(context.Context, string, string) error { return nil }

// Options configures a Store.
type Options struct {
	LogPath     string
	CounterPath string
	// Now overrides the clock used for the startup line.
	Now func() time.Time
}

// Store owns the append-only history log and the counter file. Writes are
// serialised so a single Store can be shared between front ends.
type Store struct {
	mu          sync.Mutex
	logPath     string
	counterPath string
	log         *os.File
	closed      bool
}

var _ Recorder = (*Store)(nil)

// Open prepares both files, repairs a malformed counter file, counts the
// start-up, and writes a start line to the log. Callers must Close the store.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logPath := strings.TrimSpace(opts.LogPath)
	if logPath == "" {
		logPath = DefaultLogPath
	}
	counterPath := strings.TrimSpace(opts.CounterPath)
	if counterPath == "" {
		counterPath = DefaultCounterPath
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	for _, path := range []string{logPath, counterPath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("history: mkdir %s: %w", dir, err)
			}
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("history: open log: %w", err)
	}

	s := &Store{
		logPath:     logPath,
		counterPath: counterPath,
		log:         f,
	}

	counters, err := s.readCounters()
	if err != nil {
		counters = Counters{}
	}
	counters.Initiated++
	if err := s.writeCounters(counters); err != nil {
		_ = f.Close()
		return nil, err
	}

	started := "Application started at " + now().Format("2006-01-02 15:04:05")
	if err := s.appendLine(started); err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

// LogPath returns the history log location.
func (s *Store) LogPath() string { return s.logPath }

// CounterPath returns the counter file location.
func (s *Store) CounterPath() string { return s.counterPath }

// Record appends message to the log and updates the counters for
// conversionType.
func (s *Store) Record(ctx context.Context, message, conversionType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if err := s.appendLine(message); err != nil {
		return err
	}

	counters, err := s.readCounters()
	if err != nil {
		counters = Counters{}
	}
	counters.apply(strings.TrimSpace(conversionType))
	return s.writeCounters(counters)
}

// History returns the log lines in write order.
func (s *Store) History(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	data, err := os.ReadFile(s.logPath)
	if err != nil {
		return nil, fmt.Errorf("history: read log: %w", err)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("history: scan log: %w", err)
	}
	return lines, nil
}

// Counters returns the current counter snapshot.
func (s *Store) Counters(ctx context.Context) (Counters, error) {
	if err := ctx.Err(); err != nil {
		return Counters{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Counters{}, ErrClosed
	}
	return s.readCounters()
}

// CountersText returns the counter file content as stored on disk.
func (s *Store) CountersText(ctx context.Context) (string, error) {
	counters, err := s.Counters(ctx)
	if err != nil {
		return "", err
	}
	text, _ := counters.MarshalText()
	return string(text), nil
}

// Clear truncates the log and resets every counter to zero.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if err := s.log.Truncate(0); err != nil {
		return fmt.Errorf("history: truncate log: %w", err)
	}
	return s.writeCounters(Counters{})
}

// Close flushes and closes the log. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	syncErr := s.log.Sync()
	closeErr := s.log.Close()
	return errors.Join(syncErr, closeErr)
}

func (s *Store) appendLine(line string) error {
	line = strings.ReplaceAll(line, "\n", " ")
	if _, err := s.log.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("history: append log: %w", err)
	}
	return nil
}

func (s *Store) readCounters() (Counters, error) {
	data, err := os.ReadFile(s.counterPath)
	if err != nil {
		return Counters{}, fmt.Errorf("history: read counters: %w", err)
	}
	var counters Counters
	if err := counters.UnmarshalText(data); err != nil {
		return Counters{}, err
	}
	return counters, nil
}

func (s *Store) writeCounters(counters Counters) error {
	data, _ := counters.MarshalText()

	tmp := s.counterPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("history: write counters: %w", err)
	}
	if err := os.Rename(tmp, s.counterPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("history: replace counters: %w", err)
	}
	return nil
}
