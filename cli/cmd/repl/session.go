package repl

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/mimolu/lang"
	"github.com/ardnew/mimolu/log"
)

// Session is the state of an interactive session: the mapping built from the
// loaded sources and every statement entered since, and the substitutions
// defined on the command line.
//
// Statements entered may refer by name to any key bound before them.
// Command-line definitions shadow such keys.
type Session struct {
	initial lang.Mapping
	current lang.Mapping
	defines lang.Substitutions
	logger  log.Logger
}

// NewSession returns a session starting from initial.
func NewSession(
	initial lang.Mapping,
	defines lang.Substitutions,
	logger log.Logger,
) *Session {
	if initial == nil {
		initial = make(lang.Mapping)
	}

	return &Session{
		initial: initial.Clone(),
		current: initial.Clone(),
		defines: defines,
		logger:  logger,
	}
}

// Bind binds one statement and merges the result into the session mapping.
// The mapping is unchanged if the statement is invalid.
func (s *Session) Bind(ctx context.Context, text string) (lang.Binding, error) {
	b, err := lang.ParseStatement(text, s.Substitutions(),
		lang.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}

	s.current.Merge(b)

	s.logger.TraceContext(ctx, "repl bind",
		slog.Any("keys", b.Keys()),
		slog.Int("key_count", len(s.current)),
	)

	return b, nil
}

// Replace loads doc as a complete document, resolving identifiers against the
// command-line definitions only, and makes the result the session mapping.
func (s *Session) Replace(ctx context.Context, doc string) error {
	m, err := lang.LoadString(ctx, doc,
		lang.WithSubstitutions(s.defines),
		lang.WithLogger(s.logger),
	)
	if err != nil {
		return err
	}

	s.current = m

	return nil
}

// Substitutions returns the identifiers visible to the next statement.
func (s *Session) Substitutions() lang.Substitutions {
	subs := s.current.Substitutions()
	maps.Copy(subs, s.defines)

	return subs
}

// Names returns the sorted identifiers that may appear in a value.
func (s *Session) Names() []string {
	var names []string

	for name := range s.Substitutions() {
		if lang.IsIdentifier(name) {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}

// Keys returns the bound keys in sorted order.
func (s *Session) Keys() []string { return s.current.Keys() }

// Mapping returns a copy of the session mapping.
func (s *Session) Mapping() lang.Mapping { return s.current.Clone() }

// Reset restores the mapping loaded when the session began.
func (s *Session) Reset() { s.current = s.initial.Clone() }

// Format writes the session mapping in native syntax.
func (s *Session) Format(ctx context.Context, w io.Writer) error {
	return s.current.Format(ctx, w, defaultIndent)
}
