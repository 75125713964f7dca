package cmd

import (
	"context"
	"log/slog"
	"maps"
	"strings"

	"github.com/ardnew/mimolu/lang"
	"github.com/ardnew/mimolu/log"
)

// ParseDefines parses command-line definitions of the form NAME=LITERAL into
// substitutions. LITERAL is a single value expression and may refer to names
// defined before it.
func ParseDefines(defs []string) (lang.Substitutions, error) {
	subs := make(lang.Substitutions, len(defs))

	for _, def := range defs {
		name, literal, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)

		if !ok || !lang.IsIdentifier(name) {
			return nil, ErrInvalidDefine.With(slog.String("define", def))
		}

		v, err := lang.EvaluateValue(literal, subs)
		if err != nil {
			return nil, ErrInvalidDefine.Wrap(err).
				With(slog.String("define", def))
		}

		subs[name] = v
	}

	return subs, nil
}

// LoadSources loads every source in srcs, in order, and merges their
// mappings so that later sources override earlier ones.
//
// Each document may refer by name to any identifier-shaped key bound by the
// documents before it. Definitions stored in ctx by [WithDefines] shadow
// such keys. Documents are loaded through the cache stored in ctx by
// [WithCache].
func LoadSources(ctx context.Context, srcs SourceFiles) (lang.Mapping, error) {
	merged := make(lang.Mapping)

	if srcs == nil || srcs.IsZero() {
		return merged, nil
	}

	cache := CacheFrom(ctx)

	for _, path := range srcs.Paths() {
		m, err := cache.Load(ctx, path, loadOptions(ctx, merged)...)
		if err != nil {
			return nil, err
		}

		log.TraceContext(ctx, "source loaded",
			slog.String("source", path),
			slog.Int("key_count", len(m)),
		)

		maps.Copy(merged, m)
	}

	if r := srcs.Stdin(); r != nil {
		m, err := cache.LoadReader(ctx, r, loadOptions(ctx, merged)...)
		if err != nil {
			return nil, lang.WrapError(err).
				With(slog.String("source", StdinSource))
		}

		maps.Copy(merged, m)
	}

	return merged, nil
}

// loadOptions returns the options for loading a document after the
// documents merged into prior.
func loadOptions(ctx context.Context, prior lang.Mapping) []lang.Option {
	defines := DefinesFrom(ctx)

	subs := make(lang.Substitutions, len(prior)+len(defines))
	maps.Copy(subs, prior.Substitutions())
	maps.Copy(subs, defines)

	return []lang.Option{
		lang.WithSubstitutions(subs),
		lang.WithLogger(log.Default()),
	}
}

// sourcesOrStdin returns the sources stored in ctx, or standard input if
// none were given.
func sourcesOrStdin(ctx context.Context) SourceFiles {
	if srcs := SourceFilesFrom(ctx); srcs != nil && !srcs.IsZero() {
		return srcs
	}

	return buildSourceFiles([]string{StdinSource}, stdinFrom(ctx))
}
