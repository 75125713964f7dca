package repl

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/mimolu/lang"
	"github.com/ardnew/mimolu/log"
)

func newTestSession() *Session {
	return NewSession(
		lang.Mapping{"port": lang.Int(8080)},
		lang.Substitutions{"Host": lang.Text("localhost")},
		log.Logger{},
	)
}

func TestSession_Bind(t *testing.T) {
	t.Parallel()

	s := newTestSession()

	steps := []struct {
		stmt    string
		want    lang.Binding
		wantErr error
	}{
		{
			stmt: "url -> [Host, port];",
			want: lang.Binding{{Key: "url", Value: lang.Array(lang.Text("localhost"), lang.Int(8080))}},
		},
		{
			stmt: "a, b -> 1, 2, 3",
			want: lang.Binding{
				{Key: "a", Value: lang.Int(1)},
				{Key: "b", Value: lang.Array(lang.Int(2), lang.Int(3))},
			},
		},
		{
			stmt: "c -> b",
			want: lang.Binding{{Key: "c", Value: lang.Array(lang.Int(2), lang.Int(3))}},
		},
		{stmt: "d -> missing", wantErr: lang.ErrUnresolvedIdentifier},
		{stmt: "d, e, f -> 1, 2", wantErr: lang.ErrArityMismatch},
		{stmt: "d 1", wantErr: lang.ErrMalformedStatement},
	}

	for _, step := range steps {
		got, err := s.Bind(t.Context(), step.stmt)
		if step.wantErr != nil {
			if !errors.Is(err, step.wantErr) {
				t.Fatalf("Bind(%q) error = %v, want %v", step.stmt, err, step.wantErr)
			}

			continue
		}

		if err != nil {
			t.Fatalf("Bind(%q) error: %v", step.stmt, err)
		}

		if !slices.EqualFunc(got, step.want, func(a, b lang.Pair) bool {
			return a.Key == b.Key && a.Value.Equal(b.Value)
		}) {
			t.Errorf("Bind(%q) = %v, want %v", step.stmt, got, step.want)
		}
	}

	if got, want := s.Keys(), []string{"a", "b", "c", "port", "url"}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestSession_DefinesShadowKeys(t *testing.T) {
	t.Parallel()

	s := newTestSession()

	if _, err := s.Bind(t.Context(), `Host -> "example.com"`); err != nil {
		t.Fatal(err)
	}

	b, err := s.Bind(t.Context(), "h -> Host")
	if err != nil {
		t.Fatal(err)
	}

	if want := lang.Text("localhost"); !b[0].Value.Equal(want) {
		t.Errorf("h = %v, want %v", b[0].Value, want)
	}
}

func TestSession_Names(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	_, _ = s.Bind(t.Context(), "log-level, level -> 'info', 'debug'")

	if got, want := s.Names(), []string{"Host", "level", "port"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestSession_Reset(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	_, _ = s.Bind(t.Context(), "port -> 1")
	_, _ = s.Bind(t.Context(), "extra -> 2")

	s.Reset()

	m := s.Mapping()
	if v, _ := m.Get("port"); len(m) != 1 || !v.Equal(lang.Int(8080)) {
		t.Errorf("Reset() left %v", m)
	}

	// The returned mapping is a copy.
	m["port"] = lang.Int(0)
	if v, _ := s.Mapping().Get("port"); !v.Equal(lang.Int(8080)) {
		t.Errorf("Mapping() shares state: port = %v", v)
	}
}

func TestSession_FormatReplace(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	_, _ = s.Bind(t.Context(), "peers -> [1, [2, 3]]")

	var buf bytes.Buffer
	if err := s.Format(t.Context(), &buf); err != nil {
		t.Fatal(err)
	}

	before := s.Mapping()

	if err := s.Replace(t.Context(), buf.String()); err != nil {
		t.Fatalf("Replace(formatted) error: %v", err)
	}

	after := s.Mapping()
	if len(after) != len(before) {
		t.Fatalf("Replace changed keys: %v -> %v", before, after)
	}

	for key, v := range before {
		if w, ok := after.Get(key); !ok || !w.Equal(v) {
			t.Errorf("%s = %v, want %v", key, w, v)
		}
	}

	if err := s.Replace(t.Context(), "x -> Host; y -> [1];"); !errors.Is(err, lang.ErrInvalidValue) {
		t.Fatalf("Replace(invalid) error = %v", err)
	}

	if len(s.Mapping()) != len(before) {
		t.Error("failed Replace modified the session")
	}
}
