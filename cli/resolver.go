package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mimolu/lang"
	"github.com/ardnew/mimolu/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads config files
// written in MiMoLu syntax, loading each document through cache.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, cache), "/path/to/config")
//
// Each key names a flag. Flag names with hyphens (e.g., "log-level") may
// also be written with underscores (e.g., "log_level"). Values convert as
// follows:
//   - Integers become their decimal text, parsed by the flag's own mapper
//   - Texts are used as-is; booleans are written "true" or "false"
//   - Arrays become lists, for flags accepting repeated values
//
// Example config file:
//
//	log-level, log-format -> "debug", "json";
//	log_pretty -> "false";
//	source -> ["base.mimolu", "site.mimolu"];
//
// Command-line flags override config file values. A config file that fails
// to load is reported as a warning and otherwise ignored.
func resolve(ctx context.Context, cache *lang.Cache) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		m, err := cache.LoadReader(ctx, r, lang.WithLogger(log.Default()))
		if err != nil {
			log.WarnContext(ctx, "ignoring invalid configuration",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		cfg := make(config, len(m))
		for key, v := range m.All() {
			cfg[key] = flagNative(v)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for MiMoLu configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already loaded successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := r[name]; ok {
			return value, nil
		}
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flagNative converts v to the form kong's mappers decode: strings for
// scalars and []any for arrays.
func flagNative(v lang.Value) any {
	if i, ok := v.Int(); ok {
		return strconv.FormatInt(i, 10)
	}

	if s, ok := v.Text(); ok {
		return s
	}

	elems := make([]any, 0, v.Len())
	for _, e := range v.Elems() {
		elems = append(elems, flagNative(e))
	}

	return elems
}
