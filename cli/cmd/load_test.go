package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/mimolu/lang"
)

func TestParseDefines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		defs    []string
		want    lang.Substitutions
		wantErr error
	}{
		{
			name: "none",
			want: lang.Substitutions{},
		},
		{
			name: "literals",
			defs: []string{`N=3`, `Name="mimolu"`, `Pair=[1, 2]`, ` Spaced = 'x' `},
			want: lang.Substitutions{
				"N":      lang.Int(3),
				"Name":   lang.Text("mimolu"),
				"Pair":   lang.Array(lang.Int(1), lang.Int(2)),
				"Spaced": lang.Text("x"),
			},
		},
		{
			name: "refers to earlier",
			defs: []string{`N=3`, `Both=[N, N]`},
			want: lang.Substitutions{
				"N":    lang.Int(3),
				"Both": lang.Array(lang.Int(3), lang.Int(3)),
			},
		},
		{
			name: "redefined",
			defs: []string{`N=3`, `N=4`},
			want: lang.Substitutions{"N": lang.Int(4)},
		},
		{name: "no equals", defs: []string{`N`}, wantErr: ErrInvalidDefine},
		{name: "bad name", defs: []string{`log-level=1`}, wantErr: ErrInvalidDefine},
		{name: "empty name", defs: []string{`=1`}, wantErr: ErrInvalidDefine},
		{name: "bad literal", defs: []string{`N=1.5`}, wantErr: lang.ErrInvalidValue},
		{name: "two values", defs: []string{`N=1, 2`}, wantErr: lang.ErrMalformedStatement},
		{name: "forward reference", defs: []string{`A=B`, `B=1`}, wantErr: lang.ErrUnresolvedIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDefines(tt.defs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDefines(%q) error %v, want %v", tt.defs, err, tt.wantErr)
				}

				if !errors.Is(err, ErrInvalidDefine) {
					t.Errorf("error %v is not ErrInvalidDefine", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseDefines(%q) error: %v", tt.defs, err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("ParseDefines(%q) = %v, want %v", tt.defs, got, tt.want)
			}

			for name, w := range tt.want {
				if v, ok := got.Lookup(name); !ok || !v.Equal(w) {
					t.Errorf("%s = %v, want %v", name, v, w)
				}
			}
		})
	}
}

func TestLoadSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := writeFile(t, dir, "base.mimolu", "port, host -> 8080, 'localhost';\nlevel -> 'info';\n")
	site := writeFile(t, dir, "site.mimolu", "level -> 'debug';\nurl -> [host, port];\n")
	bad := writeFile(t, dir, "bad.mimolu", "x -> [1];\n")

	tests := []struct {
		name    string
		sources []string
		stdin   string
		defines lang.Substitutions
		want    lang.Mapping
		wantErr error
	}{
		{
			name:    "later overrides earlier",
			sources: []string{base, site},
			want: lang.Mapping{
				"port":  lang.Int(8080),
				"host":  lang.Text("localhost"),
				"level": lang.Text("debug"),
				"url":   lang.Array(lang.Text("localhost"), lang.Int(8080)),
			},
		},
		{
			name:    "defines shadow earlier keys",
			sources: []string{base, site},
			defines: lang.Substitutions{"port": lang.Int(9000)},
			want: lang.Mapping{
				"port":  lang.Int(8080),
				"host":  lang.Text("localhost"),
				"level": lang.Text("debug"),
				"url":   lang.Array(lang.Text("localhost"), lang.Int(9000)),
			},
		},
		{
			name:    "stdin read last",
			sources: []string{StdinSource, base},
			stdin:   "level -> 'warn';",
			want: lang.Mapping{
				"port":  lang.Int(8080),
				"host":  lang.Text("localhost"),
				"level": lang.Text("warn"),
			},
		},
		{
			name:    "reference before definition",
			sources: []string{site, base},
			wantErr: lang.ErrUnresolvedIdentifier,
		},
		{
			name:    "invalid document",
			sources: []string{base, bad},
			wantErr: lang.ErrInvalidValue,
		},
		{
			name: "no sources",
			want: lang.Mapping{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := WithDefines(t.Context(), tt.defines)
			srcs := buildSourceFiles(tt.sources, strings.NewReader(tt.stdin))

			got, err := LoadSources(ctx, srcs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadSources error %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("LoadSources error: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("LoadSources = %v, want %v", got, tt.want)
			}

			for key, w := range tt.want {
				if v, ok := got.Get(key); !ok || !v.Equal(w) {
					t.Errorf("%s = %v, want %v", key, v, w)
				}
			}
		})
	}
}

func TestLoadSources_SharedCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "app.mimolu", "a -> 1;")

	var cache lang.Cache

	ctx := WithCache(t.Context(), &cache)
	srcs := buildSourceFiles([]string{path}, nil)

	for range 3 {
		if _, err := LoadSources(ctx, srcs); err != nil {
			t.Fatalf("LoadSources error: %v", err)
		}
	}

	if cache.Len() != 1 {
		t.Errorf("expected 1 cached document, got %d", cache.Len())
	}
}
