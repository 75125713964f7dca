package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/mimolu/log"
)

// Check loads each source document on its own and reports whether it is
// valid.
type Check struct {
	Files []string `arg:"" help:"Files to check or '-' for stdin (default: --source or stdin)." name:"file" optional:"" type:"existingfile"`
	Quiet bool     `       help:"Report failures only."                                                                                short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs := sourcesOrStdin(ctx)
	if len(c.Files) > 0 {
		srcs = buildSourceFiles(c.Files, stdinFrom(ctx))
	}

	if srcs == nil {
		return nil
	}

	var (
		cache  = CacheFrom(ctx)
		out    = OutputFrom(ctx)
		total  int
		failed int
	)

	report := func(name string, err error) {
		total++

		switch {
		case err != nil:
			failed++

			log.DebugContext(ctx, "check failed",
				slog.String("source", name),
				slog.Any("error", err),
			)

			fmt.Fprintf(out, "%s: %v\n", name, err)

		case !c.Quiet:
			fmt.Fprintf(out, "%s: ok\n", name)
		}
	}

	for _, path := range srcs.Paths() {
		_, err := cache.Load(ctx, path, loadOptions(ctx, nil)...)
		report(path, err)
	}

	if r := srcs.Stdin(); r != nil {
		_, err := cache.LoadReader(ctx, r, loadOptions(ctx, nil)...)
		report(StdinSource, err)
	}

	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", failed),
			slog.Int("total", total),
		)
	}

	return nil
}
