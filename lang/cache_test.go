package lang

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestCache_LoadString_Memoizes(t *testing.T) {
	t.Parallel()

	var c Cache

	const doc = `a, b -> 1, 2, 3;`

	first, err := c.LoadString(t.Context(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := c.LoadString(t.Context(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Len() != 1 {
		t.Errorf("expected 1 cached document, got %d", c.Len())
	}

	wantMapping(t, second, first)

	// Callers get independent copies
	first["a"] = Text("changed")
	delete(first, "b")

	third, err := c.LoadString(t.Context(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMapping(t, third, Mapping{"a": Int(1), "b": Array(Int(2), Int(3))})
}

func TestCache_KeyedByOptions(t *testing.T) {
	t.Parallel()

	var c Cache

	const doc = `a -> N;`

	one, err := c.LoadString(t.Context(), doc,
		WithSubstitutions(Substitutions{"N": Int(1)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	two, err := c.LoadString(t.Context(), doc,
		WithSubstitutions(Substitutions{"N": Int(2)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMapping(t, one, Mapping{"a": Int(1)})
	wantMapping(t, two, Mapping{"a": Int(2)})

	_, err = c.LoadString(t.Context(), doc,
		WithSubstitutions(Substitutions{"N": Int(2)}),
		WithMaxDepth(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Len() != 3 {
		t.Errorf("expected 3 cached documents, got %d", c.Len())
	}

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", c.Len())
	}
}

func TestCache_Errors(t *testing.T) {
	t.Parallel()

	var c Cache

	for range 2 {
		m, err := c.LoadString(t.Context(), `a -> M;`)
		if m != nil || !errors.Is(err, ErrUnresolvedIdentifier) {
			t.Fatalf("got %v, %v; want ErrUnresolvedIdentifier", m, err)
		}
	}

	if c.Len() != 1 {
		t.Errorf("expected failed document cached once, got %d", c.Len())
	}
}

func TestCache_Canceled(t *testing.T) {
	t.Parallel()

	var c Cache

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := c.LoadString(ctx, `a -> 1;`); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if c.Len() != 0 {
		t.Errorf("canceled load should not be cached, got %d", c.Len())
	}
}

func TestCache_Load(t *testing.T) {
	t.Parallel()

	var c Cache

	dir := t.TempDir()
	path := filepath.Join(dir, "app.mimolu")

	if err := os.WriteFile(path, []byte("a -> 1;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := c.Load(t.Context(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMapping(t, m, Mapping{"a": Int(1)})

	// Changed content is a new document
	if err := os.WriteFile(path, []byte("a -> 2;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err = c.Load(t.Context(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMapping(t, m, Mapping{"a": Int(2)})

	if _, err := c.Load(t.Context(), filepath.Join(dir, "missing")); !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	var (
		c  Cache
		wg sync.WaitGroup
	)

	docs := []string{
		`a -> 1;`,
		`a, b -> 1, 2, 3;`,
		`x -> [1, [2, 3]];`,
	}

	for i := range 60 {
		wg.Go(func() {
			doc := docs[i%len(docs)]

			m, err := c.LoadReader(t.Context(), strings.NewReader(doc))
			if err != nil {
				t.Errorf("unexpected error: %v", err)

				return
			}

			m["scratch"] = Int(int64(i))
		})
	}

	wg.Wait()

	if c.Len() != len(docs) {
		t.Errorf("expected %d cached documents, got %d", len(docs), c.Len())
	}

	m, err := c.LoadString(t.Context(), docs[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := m.Get("scratch"); ok {
		t.Error("cached mapping was modified by a caller")
	}
}
