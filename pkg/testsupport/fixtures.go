package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-numerals/pkg/history"
)

// StartTime is the clock reading used by OpenStore for the start-up line.
var StartTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

// StartLine is the first history line written by a store from OpenStore.
const StartLine = "Application started at 2024-05-01 09:30:00"

// OpenStore opens a history store in a temporary directory with a fixed
// clock. The store is closed when the test ends.
func OpenStore(t *testing.T) *history.Store {
	t.Helper()

	dir := t.TempDir()
	store, err := history.Open(Context(), history.Options{
		LogPath:     filepath.Join(dir, history.DefaultLogPath),
		CounterPath: filepath.Join(dir, history.DefaultCounterPath),
		Now:         func() time.Time { return StartTime },
	})
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file without its trailing newlines.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return strings.TrimRight(string(MustReadGolden(t, path)), "\n")
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
