package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/mimolu/lang"
)

func TestFmtRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	app := writeFile(t, dir, "app.mimolu", "# sample\nb, a -> 'x', 1, 2;\n")
	other := writeFile(t, dir, "other.mimolu", "c -> 3;")

	tests := []struct {
		name    string
		run     func(ctx context.Context) error
		sources []string
		stdin   string
		want    string
	}{
		{
			name: "native argument",
			run:  (&Native{Indent: 2, Source: app}).Run,
			want: "a -> [1, 2];\nb -> \"x\";\n",
		},
		{
			name:    "native argument over sources",
			run:     (&Native{Indent: 0, Source: app}).Run,
			sources: []string{other},
			want:    `a -> [1, 2]; b -> "x";` + "\n",
		},
		{
			name:    "native sources",
			run:     (&Native{Indent: 0}).Run,
			sources: []string{app, other},
			want:    `a -> [1, 2]; b -> "x"; c -> 3;` + "\n",
		},
		{
			name:  "native stdin",
			run:   (&Native{Indent: 2}).Run,
			stdin: "k -> 5;",
			want:  "k -> 5;\n",
		},
		{
			name:  "native explicit stdin",
			run:   (&Native{Indent: 2, Source: StdinSource}).Run,
			stdin: "k -> [1, [2, 3]];",
			want:  "k -> [\n  1,\n  [2, 3],\n];\n",
		},
		{
			name: "json",
			run:  (&JSON{Indent: 0, Source: app}).Run,
			want: `{"a":[1,2],"b":"x"}` + "\n",
		},
		{
			name:  "yaml",
			run:   (&YAML{Indent: 2}).Run,
			stdin: "name -> 'mimolu';",
			want:  "name: mimolu\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, out := commandContext(t, tt.sources, tt.stdin, nil)

			if err := tt.run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("output mismatch:\nwant: %q\ngot:  %q", tt.want, got)
			}
		})
	}
}

func TestFmtRun_InvalidSyntax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"missing arrow", "test 123;", lang.ErrMalformedStatement},
		{"unclosed array", "test -> [1, 2;", lang.ErrMalformedStatement},
		{"float", "test -> 1.5;", lang.ErrInvalidValue},
		{"arity", "a, b, c -> 1, 2;", lang.ErrArityMismatch},
		{"unresolved", "a -> M;", lang.ErrUnresolvedIdentifier},
	}

	for _, tt := range tests {
		for name, run := range map[string]func(context.Context) error{
			"native": (&Native{Indent: 2}).Run,
			"json":   (&JSON{Indent: 2}).Run,
			"yaml":   (&YAML{Indent: 2}).Run,
		} {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				t.Parallel()

				ctx, out := commandContext(t, nil, tt.input, nil)

				err := run(ctx)
				if !errors.Is(err, tt.want) {
					t.Fatalf("Run() error = %v, want %v", err, tt.want)
				}

				if out.Len() != 0 {
					t.Errorf("Run() wrote output on error: %q", out.String())
				}

				if !strings.Contains(err.Error(), "statement 1") {
					t.Errorf("error %q does not locate the statement", err)
				}
			})
		}
	}
}
