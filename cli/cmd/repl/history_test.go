package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_AddAndReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.utf8")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"a -> 1", modeBind},
		{"list", modeCtrl},
		{"a -> 1", modeBind}, // moves to the end
		{"b -> 2", modeBind},
		{"b -> 2", modeBind}, // repeated, ignored
		{"  ", modeBind},     // blank, ignored
		{"list", modeBind},   // same line, other mode
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error: %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"list", modeCtrl},
		{"a -> 1", modeBind},
		{"b -> 2", modeBind},
		{"list", modeBind},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}
}

func TestHistory_Entry(t *testing.T) {
	t.Parallel()

	h := NewHistory("")
	_ = h.Add("x -> 1", modeBind)

	if e, err := h.Entry(0); err != nil || e.Line != "x -> 1" {
		t.Errorf("Entry(0) = %v, %v", e, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestHistory_LoadUnprefixed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.utf8")

	err := os.WriteFile(path, []byte("a -> 1\n\nC:quit\nB:b -> 2\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{
		{"a -> 1", modeBind},
		{"quit", modeCtrl},
		{"b -> 2", modeBind},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}
