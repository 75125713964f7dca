package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// writeFile writes content to name in dir and returns its resolved path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatal(err)
	}

	return resolved
}

// TestWithSourceFilesEmpty tests that an empty source list stores nothing.
func TestWithSourceFilesEmpty(t *testing.T) {
	t.Parallel()

	for _, sources := range [][]string{nil, {}} {
		ctx := WithSourceFiles(t.Context(), sources)
		if srcs := SourceFilesFrom(ctx); srcs != nil {
			t.Errorf("WithSourceFiles(%v) stored %v", sources, srcs)
		}
	}

	if srcs := SourceFilesFrom(context.Background()); srcs != nil {
		t.Errorf("empty context has sources %v", srcs)
	}
}

func TestBuildSourceFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "first.mimolu", "a -> 1;")
	second := writeFile(t, dir, "second.mimolu", "b -> 2;")

	link := filepath.Join(dir, "link.mimolu")
	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	stdin := strings.NewReader("c -> 3;")

	tests := []struct {
		name      string
		sources   []string
		wantPaths []string
		wantStdin bool
	}{
		{
			name:      "single file",
			sources:   []string{first},
			wantPaths: []string{first},
		},
		{
			name:      "order kept",
			sources:   []string{second, first},
			wantPaths: []string{second, first},
		},
		{
			name:      "duplicate paths",
			sources:   []string{first, first, first},
			wantPaths: []string{first},
		},
		{
			name:      "symlink duplicate",
			sources:   []string{first, link, second},
			wantPaths: []string{first, second},
		},
		{
			name:      "stdin last",
			sources:   []string{StdinSource, first},
			wantPaths: []string{first},
			wantStdin: true,
		},
		{
			name:      "stdin collapsed",
			sources:   []string{StdinSource, StdinSource, StdinSource},
			wantPaths: []string{},
			wantStdin: true,
		},
		{
			name: "nonexistent skipped",
			sources: []string{
				filepath.Join(dir, "missing.mimolu"),
				second,
			},
			wantPaths: []string{second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srcs := buildSourceFiles(tt.sources, stdin)
			if srcs == nil {
				t.Fatal("buildSourceFiles returned nil")
			}

			if got := srcs.Paths(); !slices.Equal(got, tt.wantPaths) {
				t.Errorf("Paths() = %v, want %v", got, tt.wantPaths)
			}

			if got := srcs.Stdin() != nil; got != tt.wantStdin {
				t.Errorf("has stdin = %v, want %v", got, tt.wantStdin)
			}
		})
	}
}

func TestBuildSourceFiles_AllNonexistent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	srcs := buildSourceFiles([]string{
		filepath.Join(dir, "one"),
		filepath.Join(dir, "two"),
	}, strings.NewReader(""))
	if srcs != nil {
		t.Errorf("expected nil sources, got %v", srcs.Paths())
	}
}

// TestBuildSourceFiles_Relative tests that relative and absolute paths to the
// same file are deduplicated. It changes the working directory, so it cannot
// run in parallel.
func TestBuildSourceFiles_Relative(t *testing.T) {
	dir := t.TempDir()
	abs := writeFile(t, dir, "app.mimolu", "a -> 1;")

	t.Chdir(dir)

	srcs := buildSourceFiles([]string{"app.mimolu", abs}, nil)
	if srcs == nil {
		t.Fatal("buildSourceFiles returned nil")
	}

	if got := srcs.Paths(); !slices.Equal(got, []string{abs}) {
		t.Errorf("Paths() = %v, want [%s]", got, abs)
	}
}

func TestContextDefaults(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	if OutputFrom(ctx) != io.Writer(os.Stdout) {
		t.Error("default output is not stdout")
	}

	if stdinFrom(ctx) != io.Reader(os.Stdin) {
		t.Error("default input is not stdin")
	}

	if CacheFrom(ctx) == nil {
		t.Error("default cache is nil")
	}

	if DefinesFrom(ctx) != nil {
		t.Error("default defines are not empty")
	}

	var sb strings.Builder

	ctx = WithOutput(ctx, &sb)
	if OutputFrom(ctx) != io.Writer(&sb) {
		t.Error("WithOutput not honored")
	}
}
