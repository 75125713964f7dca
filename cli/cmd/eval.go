package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/mimolu/lang"
)

// Eval loads the source documents and prints the values bound to keys.
type Eval struct {
	Keys   []string `arg:"" help:"Keys to print (default: all)"                 name:"key" optional:""`
	Raw    bool     `       help:"Print text values without quotes"                                     short:"r"`
	Indent int      `       help:"Indent width when printing all keys" default:"2"                       short:"i"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := LoadSources(ctx, sourcesOrStdin(ctx))
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "eval"))
	}

	out := OutputFrom(ctx)

	if len(e.Keys) == 0 {
		return m.Format(ctx, out, e.Indent)
	}

	values := make([]lang.Value, len(e.Keys))

	for i, key := range e.Keys {
		v, ok := m.Get(key)
		if !ok {
			return ErrUndefinedKey.
				Wrap(fmt.Errorf("%q", key)).
				With(slog.String("key", key))
		}

		values[i] = v
	}

	for _, v := range values {
		if _, err := fmt.Fprintln(out, e.render(v)); err != nil {
			return err
		}
	}

	return nil
}

func (e *Eval) render(v lang.Value) string {
	if s, ok := v.Text(); ok && e.Raw {
		return s
	}

	return v.String()
}
