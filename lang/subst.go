package lang

import "maps"

// Substitutions maps bare identifiers appearing in value expressions to the
// values spliced in their place. It is only ever read by this package.
type Substitutions map[string]Value

// Lookup returns the value bound to name.
func (s Substitutions) Lookup(name string) (Value, bool) {
	v, ok := s[name]

	return v, ok
}

// Names returns the bound identifiers in sorted order.
func (s Substitutions) Names() []string {
	return sortedKeys(s)
}

// With returns a copy of s that also binds name to v.
func (s Substitutions) With(name string, v Value) Substitutions {
	c := maps.Clone(s)
	if c == nil {
		c = make(Substitutions, 1)
	}

	c[name] = v

	return c
}
