package lang

import (
	"encoding/json"
	"iter"
	"maps"
)

// Mapping is the result of loading a document: every key bound by any
// statement, each to the value bound by the last statement naming it.
type Mapping map[string]Value

// Merge binds every pair of b into m, replacing existing keys.
func (m Mapping) Merge(b Binding) {
	for key, v := range b.All() {
		m[key] = v
	}
}

// Get returns the value bound to key.
func (m Mapping) Get(key string) (Value, bool) {
	v, ok := m[key]

	return v, ok
}

// Keys returns the bound keys in sorted order.
func (m Mapping) Keys() []string {
	return sortedKeys(m)
}

// All returns an iterator over the key/value pairs in sorted key order.
func (m Mapping) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, key := range m.Keys() {
			if !yield(key, m[key]) {
				return
			}
		}
	}
}

// Clone returns a copy of m. Values are immutable and are shared.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return nil
	}

	return maps.Clone(m)
}

// Substitutions returns the bindings of m as substitutions, so that one
// document may be referenced by name from another.
func (m Mapping) Substitutions() Substitutions {
	return Substitutions(m.Clone())
}

// Native converts m to a map of native Go values; see [Value.Native].
func (m Mapping) Native() map[string]any {
	result := make(map[string]any, len(m))
	for key, v := range m {
		result[key] = v.Native()
	}

	return result
}

// MarshalJSON encodes m as a JSON object of native values.
func (m Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Native())
}

// MarshalJSON encodes v as its native JSON representation.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}
