package history_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-numerals/pkg/history"
)

var fixedNow = func() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
}

func openStore(t *testing.T, dir string) *history.Store {
	t.Helper()

	store, err := history.Open(context.Background(), history.Options{
		LogPath:     filepath.Join(dir, "istorija.txt"),
		CounterPath: filepath.Join(dir, "duomenys.txt"),
		Now:         fixedNow,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_InitialisesFiles(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	ctx := context.Background()

	lines, err := store.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if diff := cmp.Diff([]string{"Application started at 2024-03-09 14:05:07"}, lines); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	text, err := store.CountersText(ctx)
	if err != nil {
		t.Fatalf("counters text: %v", err)
	}
	want := "Number of times code was initiated: 1\n" +
		"Number of requests: 0\n" +
		"Number of Roman to decimal conversions: 0\n" +
		"Number of decimal to Roman conversions: 0\n"
	if text != want {
		t.Fatalf("counter text mismatch:\n%s", text)
	}

	raw, err := os.ReadFile(store.CounterPath())
	if err != nil {
		t.Fatalf("read counter file: %v", err)
	}
	if string(raw) != want {
		t.Fatalf("counter file mismatch:\n%s", raw)
	}
}

func TestRecord_UpdatesCounters(t *testing.T) {
	store := openStore(t, t.TempDir())
	ctx := context.Background()

	entries := []struct{ message, kind string }{
		{"10 is a DecimalNumber, and its converted value is X", history.TypeDecimalToRoman},
		{"X is a RomanNumber, and its converted value is 10.", history.TypeRomanToDecimal},
		{"XLIX is a RomanNumber, and its converted value is 49.", history.TypeRomanToDecimal},
		{"Decimal value 0 is outside the supported range (1-3999).", history.TypeError},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry.message, entry.kind); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := store.Counters(ctx)
	if err != nil {
		t.Fatalf("counters: %v", err)
	}
	want := history.Counters{Initiated: 1, Requests: 4, RomanToDecimal: 2, DecimalToRoman: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("counters mismatch (-want +got):\n%s", diff)
	}

	lines, err := store.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(lines) != 5 || lines[4] != entries[3].message {
		t.Fatalf("unexpected history: %q", lines)
	}
}

func TestOpen_CountsEachStartAndKeepsHistory(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := openStore(t, dir)
	if err := first.Record(ctx, "5 is a DecimalNumber, and its converted value is V", history.TypeDecimalToRoman); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := openStore(t, dir)
	got, err := second.Counters(ctx)
	if err != nil {
		t.Fatalf("counters: %v", err)
	}
	want := history.Counters{Initiated: 2, Requests: 1, DecimalToRoman: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("counters mismatch (-want +got):\n%s", diff)
	}

	lines, err := second.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 history lines, got %q", lines)
	}
}

func TestOpen_RepairsCorruptCounterFile(t *testing.T) {
	dir := t.TempDir()
	counterPath := filepath.Join(dir, "duomenys.txt")
	if err := os.WriteFile(counterPath, []byte("Number of requests: 7\n"), 0o644); err != nil {
		t.Fatalf("seed counters: %v", err)
	}

	store := openStore(t, dir)
	got, err := store.Counters(context.Background())
	if err != nil {
		t.Fatalf("counters: %v", err)
	}
	if diff := cmp.Diff(history.Counters{Initiated: 1}, got); diff != "" {
		t.Fatalf("counters mismatch (-want +got):\n%s", diff)
	}
}

func TestClear_ResetsLogAndCounters(t *testing.T) {
	store := openStore(t, t.TempDir())
	ctx := context.Background()

	if err := store.Record(ctx, "I is a RomanNumber, and its converted value is 1.", history.TypeRomanToDecimal); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	lines, err := store.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty history, got %q", lines)
	}
	got, err := store.Counters(ctx)
	if err != nil {
		t.Fatalf("counters: %v", err)
	}
	if diff := cmp.Diff(history.Counters{}, got); diff != "" {
		t.Fatalf("counters mismatch (-want +got):\n%s", diff)
	}

	if err := store.Record(ctx, "after clear", history.TypeError); err != nil {
		t.Fatalf("record after clear: %v", err)
	}
	lines, _ = store.History(ctx)
	if diff := cmp.Diff([]string{"after clear"}, lines); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ClosedRejectsOperations(t *testing.T) {
	store := openStore(t, t.TempDir())
	ctx := context.Background()

	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := store.Record(ctx, "late", history.TypeError); !errors.Is(err, history.ErrClosed) {
		t.Fatalf("record after close = %v, want ErrClosed", err)
	}
	if _, err := store.History(ctx); !errors.Is(err, history.ErrClosed) {
		t.Fatalf("history after close = %v, want ErrClosed", err)
	}
	if err := store.Clear(ctx); !errors.Is(err, history.ErrClosed) {
		t.Fatalf("clear after close = %v, want ErrClosed", err)
	}
}

func TestRecord_ConcurrentWritersAreSerialised(t *testing.T) {
	store := openStore(t, t.TempDir())
	ctx := context.Background()

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if err := store.Record(ctx, "concurrent entry", history.TypeRomanToDecimal); err != nil {
					t.Errorf("record: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := store.Counters(ctx)
	if err != nil {
		t.Fatalf("counters: %v", err)
	}
	if got.Requests != writers*perWriter || got.RomanToDecimal != writers*perWriter {
		t.Fatalf("lost updates: %+v", got)
	}
}

func TestRecord_FlattensMultilineMessages(t *testing.T) {
	store := openStore(t, t.TempDir())
	ctx := context.Background()

	if err := store.Record(ctx, "first\nsecond", history.TypeError); err != nil {
		t.Fatalf("record: %v", err)
	}
	lines, _ := store.History(ctx)
	if last := lines[len(lines)-1]; last != "first second" {
		t.Fatalf("unexpected last line %q", last)
	}
}

func TestRecord_HonoursContext(t *testing.T) {
	store := openStore(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Record(ctx, "cancelled", history.TypeError); !errors.Is(err, context.Canceled) {
		t.Fatalf("record = %v, want context.Canceled", err)
	}
}

func TestDiscard(t *testing.T) {
	if err := history.Discard.Record(context.Background(), "ignored", history.TypeError); err != nil {
		t.Fatalf("discard record: %v", err)
	}
}

func TestCounters_UnmarshalRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"Number of requests: 1\n",
		"a: 1\nb: 2\nc: 3\nd: x\n",
		"a: 1\nb: 2\nc: 3\nd: -4\n",
		"a 1\nb: 2\nc: 3\nd: 4\n",
		"a: 1\nb: 2\nc: 3\nd: 4\ne: 5\n",
	}
	for _, input := range cases {
		var c history.Counters
		if err := c.UnmarshalText([]byte(input)); !errors.Is(err, history.ErrCorruptCounters) {
			t.Errorf("UnmarshalText(%q) = %v, want ErrCorruptCounters", strings.TrimSpace(input), err)
		}
	}
}
