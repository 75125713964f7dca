package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/mimolu/lang"
)

// Fmt loads the source documents and re-emits the merged mapping in the
// chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native MiMoLu syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// Native formats input as native MiMoLu syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output (0 for one line)" short:"i"`

	Source string `arg:"" help:"Source input file or '-' for stdin (default: --source or stdin)." name:"source" optional:"" type:"existingfile"`
}

// Run executes the native fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := loadFormatSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return m.Format(ctx, OutputFrom(ctx), f.Indent)
}

// JSON loads input and outputs it as a JSON object.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`

	Source string `arg:"" help:"Source input file or '-' for stdin (default: --source or stdin)." name:"source" optional:"" type:"existingfile"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := loadFormatSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return m.FormatJSON(ctx, OutputFrom(ctx), j.Indent)
}

// YAML loads input and outputs it as a YAML mapping.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Source string `arg:"" help:"Source input file or '-' for stdin (default: --source or stdin)." name:"source" optional:"" type:"existingfile"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := loadFormatSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	return m.FormatYAML(ctx, OutputFrom(ctx), y.Indent)
}

// loadFormatSource loads the document named by source, or the command's
// sources if source is empty.
func loadFormatSource(
	ctx context.Context,
	source, format string,
) (lang.Mapping, error) {
	srcs := sourcesOrStdin(ctx)
	if source != "" {
		srcs = buildSourceFiles([]string{source}, stdinFrom(ctx))
	}

	m, err := LoadSources(ctx, srcs)
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("format", format))
	}

	return m, nil
}
