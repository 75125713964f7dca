package lang

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// Cache memoizes loaded documents by content, so a document read several
// times (e.g. by each command of a REPL session) is parsed only once.
//
// Entries are keyed by a hash of the document text, the substitutions and
// the maximum nesting depth. Every call returns its own copy of the cached
// mapping. The zero Cache is empty and ready to use. A Cache is safe for
// concurrent use.
type Cache struct {
	entries sync.Map // key string → *cacheEntry
}

// cacheEntry holds the outcome of loading one document.
type cacheEntry struct {
	once sync.Once
	m    Mapping
	err  error
}

// Load reads the document at path and returns its mapping, parsing it only
// if the same content has not been loaded before.
func (c *Cache) Load(ctx context.Context, path string, opts ...Option) (Mapping, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("path", path))
	}
	defer file.Close()

	m, err := c.LoadReader(ctx, file, opts...)
	if err != nil {
		return nil, WrapError(err).With(slog.String("path", path))
	}

	return m, nil
}

// LoadReader reads a document from r and returns its mapping.
func (c *Cache) LoadReader(ctx context.Context, r io.Reader, opts ...Option) (Mapping, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return c.LoadString(ctx, string(data), opts...)
}

// LoadString returns the mapping of doc.
//
// Cancellation of ctx is observed before the lookup only; a document that
// begins parsing is always parsed to completion so that its outcome can be
// shared.
func (c *Cache) LoadString(ctx context.Context, doc string, opts ...Option) (Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, context.Cause(ctx)
	}

	cfg := makeOptions(opts...)
	key := cacheKey(doc, cfg)

	value, cacheHit := c.entries.LoadOrStore(key, new(cacheEntry))

	entry, ok := value.(*cacheEntry)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	cfg.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		entry.m, entry.err = LoadString(context.WithoutCancel(ctx), doc, opts...)
	})

	if entry.err != nil {
		return nil, entry.err
	}

	return entry.m.Clone(), nil
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// Clear removes all cached documents.
func (c *Cache) Clear() {
	c.entries.Clear()
}

// cacheKey hashes everything that determines the mapping of doc.
func cacheKey(doc string, cfg options) string {
	h := xxh3.New()

	_, _ = h.Write([]byte(doc))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strconv.Itoa(cfg.maxDepth)))

	for _, name := range cfg.subs.Names() {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{'='})
		_, _ = h.Write([]byte(cfg.subs[name].String()))
	}

	return strconv.FormatUint(h.Sum64(), 36)
}
