package lang

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/readahead"

	"github.com/ardnew/mimolu/log"
)

// DefaultMaxDepth is the default maximum nesting depth of array literals.
const DefaultMaxDepth = 100

// options holds the configuration shared by the load and evaluation
// functions.
type options struct {
	subs     Substitutions
	logger   log.Logger // zero value discards all messages
	maxDepth int
}

// Option configures loading or evaluation behavior.
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithSubstitutions sets the identifiers available to value expressions.
func WithSubstitutions(subs Substitutions) Option {
	return func(o *options) {
		o.subs = subs
	}
}

// WithLogger sets the logger that receives trace and debug messages.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxDepth sets the maximum nesting depth of array literals.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// Load reads the document at path and returns its mapping.
//
// A file that cannot be read is reported as [ErrReadInput]; any problem with
// its content is reported as [ErrParse].
func Load(ctx context.Context, path string, opts ...Option) (Mapping, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("path", path))
	}
	defer file.Close()

	m, err := LoadReader(ctx, file, opts...)
	if err != nil {
		return nil, WrapError(err).With(slog.String("path", path))
	}

	return m, nil
}

// LoadReader reads a document from r and returns its mapping.
func LoadReader(ctx context.Context, r io.Reader, opts ...Option) (Mapping, error) {
	// Wrap reader with async read-ahead so reading overlaps with decoding.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return LoadString(ctx, string(data), opts...)
}

// LoadString parses doc and returns its mapping.
//
// Comments are removed from each line, the document is split into
// statements, blank statements are skipped, and each binding is merged in
// order so that later statements override earlier keys. The first error
// aborts the load; no partial mapping is returned.
func LoadString(ctx context.Context, doc string, opts ...Option) (Mapping, error) {
	cfg := makeOptions(opts...)

	stmts := SplitStatements(removeComments(doc))

	cfg.logger.TraceContext(ctx, "split statements",
		slog.Int("source_bytes", len(doc)),
		slog.Int("statement_count", len(stmts)),
		slog.Int("substitution_count", len(cfg.subs)),
	)

	m := make(Mapping, len(stmts))

	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, context.Cause(ctx)
		}

		b, err := BindStatement(stmt, cfg.subs, opts...)
		if err != nil {
			cfg.logger.DebugContext(ctx, "statement rejected",
				slog.Any("error", err))

			return nil, err
		}

		m.Merge(b)

		cfg.logger.TraceContext(ctx, "statement bound",
			slog.Int("statement", stmt.Index),
			slog.Int("line", stmt.Line),
			slog.Any("keys", b.Keys()),
		)
	}

	cfg.logger.TraceContext(ctx, "load complete",
		slog.Int("key_count", len(m)))

	return m, nil
}
