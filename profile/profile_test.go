package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Start_EmptyMode(t *testing.T) {
	t.Parallel()

	s := Profiler{Path: t.TempDir()}.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("expected no-op stopper, got %T", s)
	}

	s.Stop()
	s.Stop()
}

func TestProfiler_Start_UnknownMode(t *testing.T) {
	t.Parallel()

	s := Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("expected no-op stopper, got %T", s)
	}
}

func TestModes_Sorted(t *testing.T) {
	t.Parallel()

	modes := Modes()
	if !slices.IsSorted(modes) {
		t.Errorf("modes not sorted: %v", modes)
	}

	if Enabled() != (len(modes) > 0) {
		t.Errorf("Enabled() = %v with %d modes", Enabled(), len(modes))
	}
}
