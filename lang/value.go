package lang

import (
	"slices"
	"strconv"
	"strings"
)

// MinArrayLen is the minimum number of elements in an array value, at every
// nesting depth.
const MinArrayLen = 2

// Kind indicates the variant held by a [Value].
type Kind uint8

const (
	// KindInvalid is the kind of the zero Value. It never passes [Validate].
	KindInvalid Kind = iota

	// KindInteger represents a signed 64-bit integer.
	KindInteger

	// KindText represents a string.
	KindText

	// KindArray represents an ordered sequence of values.
	KindArray
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"

	case KindText:
		return "Text"

	case KindArray:
		return "Array"

	default:
		return "Invalid"
	}
}

// Value is an immutable Integer, Text, or Array.
type Value struct {
	kind  Kind
	num   int64
	text  string
	elems []Value
}

// Int returns an Integer value.
func Int(i int64) Value {
	return Value{kind: KindInteger, num: i}
}

// Text returns a Text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Array returns an Array value holding a copy of elems.
// The result is not validated; see [Validate].
func Array(elems ...Value) Value {
	return Value{kind: KindArray, elems: slices.Clone(elems)}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer held by v and whether v is an Integer.
func (v Value) Int() (int64, bool) {
	return v.num, v.kind == KindInteger
}

// Text returns the string held by v and whether v is a Text.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Elems returns a copy of the elements of an Array, or nil for any other kind.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}

	return slices.Clone(v.elems)
}

// Len returns the number of elements of an Array, or 0 for any other kind.
func (v Value) Len() int {
	if v.kind != KindArray {
		return 0
	}

	return len(v.elems)
}

// Index returns the i'th element of an Array.
// It panics if v is not an Array or i is out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray {
		panic("lang: Index of non-array value")
	}

	return v.elems[i]
}

// Equal reports whether v and o hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindInteger:
		return v.num == o.num

	case KindText:
		return v.text == o.text

	case KindArray:
		return slices.EqualFunc(v.elems, o.elems, Value.Equal)

	default:
		return true
	}
}

// String returns v in MiMoLu literal syntax, e.g. 5, "x", or [1, [2, 3]].
func (v Value) String() string {
	var sb strings.Builder

	v.writeTo(&sb)

	return sb.String()
}

func (v Value) writeTo(sb *strings.Builder) {
	switch v.kind {
	case KindInteger:
		sb.WriteString(strconv.FormatInt(v.num, 10))

	case KindText:
		sb.WriteString(strconv.Quote(v.text))

	case KindArray:
		sb.WriteByte('[')

		for i, e := range v.elems {
			if i > 0 {
				sb.WriteString(", ")
			}

			e.writeTo(sb)
		}

		sb.WriteByte(']')

	default:
		sb.WriteString("<invalid>")
	}
}

// Native converts v to its native Go representation: int64, string, or []any.
// The zero Value converts to nil.
func (v Value) Native() any {
	switch v.kind {
	case KindInteger:
		return v.num

	case KindText:
		return v.text

	case KindArray:
		result := make([]any, 0, len(v.elems))
		for _, e := range v.elems {
			result = append(result, e.Native())
		}

		return result

	default:
		return nil
	}
}
