// Package lang parses MiMoLu documents, a configuration format that binds
// one or more keys to one or more literal values per statement.
//
// # Grammar
//
// A document is a sequence of statements separated by ';'. The final
// statement may omit its terminator, and blank statements are ignored.
// Comments start with '#' or "//" outside a string literal and run to the end
// of the line.
//
// Informal EBNF:
//
//	Document   → (Statement? ';')* Statement?
//	Statement  → Keys '->' ValueList
//	Keys       → Key (',' Key)*
//	ValueList  → Expr (',' Expr)* ','?
//	Expr       → Integer | String | Array | Identifier
//	Array      → '[' (Expr (',' Expr)* ','?)? ']'
//
// Integers are signed 64-bit, written in decimal or with a 0x, 0o, or 0b
// prefix, with optional '_' digit separators. Strings are quoted with '"' or
// '\'' and support the usual backslash escapes. Identifiers are replaced by
// their binding in the [Substitutions] given with [WithSubstitutions]; no
// other evaluation takes place.
//
// Every array must hold at least [MinArrayLen] elements, at every depth.
//
// # Binding
//
// The values of a statement are bound to its keys in order. When there are
// more values than keys, the excess values, together with the value in the
// last key's position, are collected into one array bound to the last key:
//
//	a, b -> 1, 2, 3;   # a = 1, b = [2, 3]
//	a -> 1, 2;         # a = [1, 2]
//	a, b, c -> 1, 2;   # error: 3 key(s) but 2 value(s)
//
// Statements are merged into a [Mapping] in document order, so a key bound
// by a later statement replaces the value of an earlier one.
//
// # Errors
//
// Every problem with the content of a document is reported as an [*Error]
// matching [ErrParse] with [errors.Is], further classified as
// [ErrMalformedStatement], [ErrUnresolvedIdentifier], [ErrInvalidValue], or
// [ErrArityMismatch]. Failure to read a document is reported as
// [ErrReadInput]. Loading stops at the first error.
package lang
