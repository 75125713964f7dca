package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes m in native MiMoLu syntax to the writer, one statement per
// key in sorted key order. Loading the output yields a mapping equal to m.
//
// With indent > 0 each statement is written on its own line; otherwise all
// statements share a single line.
func (m Mapping) Format(_ context.Context, w io.Writer, indent int) error {
	count := 0
	for key, v := range m.All() {
		if count > 0 && indent == 0 {
			if _, err := fmt.Fprint(w, " "); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprint(w, key, " ", Arrow, " "); err != nil {
			return err
		}

		if err := formatValue(v, w, indent, 0); err != nil {
			return err
		}

		if _, err := fmt.Fprint(w, string(Terminator)); err != nil {
			return err
		}

		if indent > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		count++
	}

	if indent > 0 || count == 0 {
		return nil
	}

	// Final newline
	_, err := fmt.Fprintln(w)

	return err
}

// FormatJSON writes m as a JSON object to the writer.
func (m Mapping) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(m, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(m)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes m as a YAML mapping to the writer.
func (m Mapping) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, m.Native(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// formatValue writes v in literal syntax. Arrays nested more than one level
// deep are broken across lines when indent > 0.
func formatValue(v Value, w io.Writer, indent, depth int) error {
	if v.Kind() != KindArray || indent == 0 || !hasNestedArray(v) {
		_, err := fmt.Fprint(w, v.String())

		return err
	}

	if _, err := fmt.Fprintln(w, "["); err != nil {
		return err
	}

	for _, e := range v.elems {
		if _, err := fmt.Fprint(w, strings.Repeat(" ", (depth+1)*indent)); err != nil {
			return err
		}

		if err := formatValue(e, w, indent, depth+1); err != nil {
			return err
		}

		// Always add comma for easier editing
		if _, err := fmt.Fprintln(w, ","); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, strings.Repeat(" ", depth*indent), "]")

	return err
}

func hasNestedArray(v Value) bool {
	for _, e := range v.elems {
		if e.Kind() == KindArray {
			return true
		}
	}

	return false
}
