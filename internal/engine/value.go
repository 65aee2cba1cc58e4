package engine

import "fmt"

// ValueType identifies which arm of the [Value] union is populated.
//
// The constants mirror the SQLite fundamental datatypes; every value that
// crosses the engine boundary is exactly one of these five.
type ValueType int

// Engine datatypes.
const (
	TypeNull ValueType = iota
	TypeInteger
	TypeReal
	TypeText
	TypeBlob
)

// String returns the datatype name used in error messages.
func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "NULL"
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	case TypeText:
		return "TEXT"
	case TypeBlob:
		return "BLOB"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// Value is the engine's typed value: a closed tagged union over the five
// SQLite datatypes. Only the field matching Type is meaningful.
//
// Values are constructed through [Null], [Integer], [Real], [Text] and
// [Blob]; the zero value is a NULL.
type Value struct {
	Type  ValueType
	Int   int64
	Float float64
	Str   string
	Bytes []byte
}

// Null returns the NULL value.
func Null() Value { return Value{Type: TypeNull} }

// Integer returns a 64-bit signed integer value.
func Integer(v int64) Value { return Value{Type: TypeInteger, Int: v} }

// Real returns a 64-bit float value.
func Real(v float64) Value { return Value{Type: TypeReal, Float: v} }

// Text returns a UTF-8 string value.
func Text(v string) Value { return Value{Type: TypeText, Str: v} }

// Blob returns a byte-sequence value. The slice is not copied.
func Blob(v []byte) Value { return Value{Type: TypeBlob, Bytes: v} }

// Row is one fetched result row: a fixed-width ordered sequence of values,
// one per column. Rows are indexable by position only; column names live on
// the statement metadata.
type Row []Value

// NamedParam pairs a declared parameter name (including its leading
// ':'/'@'/'$' sigil) with the value bound to it.
type NamedParam struct {
	Name  string
	Value Value
}

type paramsKind int

const (
	paramsNone paramsKind = iota
	paramsPositional
	paramsNamed
)

// Params is the bound-parameter set for one statement execution. Exactly one
// variant is populated: none, positional, or named. Construct through
// [NoParams], [Positional] or [Named]; the variants are never mixed.
type Params struct {
	kind       paramsKind
	positional []Value
	named      []NamedParam
}

// NoParams returns the empty parameter set.
func NoParams() Params { return Params{kind: paramsNone} }

// Positional returns an ordered positional parameter set.
func Positional(values []Value) Params {
	return Params{kind: paramsPositional, positional: values}
}

// Named returns a named parameter set. Order follows the statement's
// declared parameter order, not the caller's mapping order.
func Named(params []NamedParam) Params {
	return Params{kind: paramsNamed, named: params}
}

// IsEmpty reports whether no parameters are bound.
func (p Params) IsEmpty() bool { return p.kind == paramsNone }

// Len returns the number of bound values.
func (p Params) Len() int {
	switch p.kind {
	case paramsPositional:
		return len(p.positional)
	case paramsNamed:
		return len(p.named)
	default:
		return 0
	}
}
