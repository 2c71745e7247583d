// Package value implements the tagged Value variant used across FileCleaner:
// ExprLang literals and runtime results, and TableStore cell contents.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value currently holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindF64
	KindString
	KindPtr
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindF64:
		return "f64"
	case KindString:
		return "string"
	case KindPtr:
		return "ptr"
	default:
		return "unknown"
	}
}

// rank orders variants for synchronize's widening rule: bool -> int -> f64 -> string.
// Null and Ptr never widen; they participate in equality only.
func (k Kind) rank() int {
	switch k {
	case KindBool:
		return 0
	case KindInt64:
		return 1
	case KindF64:
		return 2
	case KindString:
		return 3
	default:
		return -1
	}
}

// Value is a sum of {int64, f64, string, bool, opaque-pointer, null}.
type Value struct {
	kind    Kind
	i       int64
	f       float64
	s       string
	b       bool
	ptr     any
	ptrName string
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// NewBool wraps a bool.
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewInt64 wraps an int64.
func NewInt64(i int64) Value { return Value{kind: KindInt64, i: i} }

// NewF64 wraps a float64.
func NewF64(f float64) Value { return Value{kind: KindF64, f: f} }

// NewString wraps a string.
func NewString(s string) Value { return Value{kind: KindString, s: s} }

// NewPtr wraps a named opaque pointer. The Value does not own the pointee.
func NewPtr(name string, p any) Value { return Value{kind: KindPtr, ptr: p, ptrName: name} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNull() bool  { return v.kind == KindNull }
func (v Value) Bool() bool    { return v.b }
func (v Value) Int64() int64  { return v.i }
func (v Value) F64() float64  { return v.f }
func (v Value) Str() string   { return v.s }
func (v Value) Ptr() any      { return v.ptr }
func (v Value) PtrName() string { return v.ptrName }

// AsBool coerces the Value to bool regardless of variant.
func (v Value) AsBool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt64:
		return v.i != 0
	case KindF64:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindNull:
		return false
	default:
		return v.ptr != nil
	}
}

// AsInt64 coerces the Value to int64. String parsing falls back to zero on failure.
func (v Value) AsInt64() int64 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindInt64:
		return v.i
	case KindF64:
		return int64(v.f)
	case KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
			if ferr != nil {
				return 0
			}
			return int64(f)
		}
		return n
	default:
		return 0
	}
}

// AsF64 coerces the Value to float64. String parsing falls back to zero on failure.
func (v Value) AsF64() float64 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindInt64:
		return float64(v.i)
	case KindF64:
		return v.f
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// AsString coerces the Value to its textual representation.
func (v Value) AsString() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindF64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindNull:
		return ""
	default:
		return fmt.Sprintf("%v", v.ptr)
	}
}

// Synchronize widens the lesser-typed operand to the greater's type so both
// operands share a variant. Bool, Int64, F64 and String widen in that order;
// Null and Ptr never synchronize with anything and report failure.
func Synchronize(left, right Value) (Value, Value, bool) {
	if left.kind == right.kind {
		return left, right, true
	}

	lr, rr := left.kind.rank(), right.kind.rank()
	if lr < 0 || rr < 0 {
		return left, right, false
	}

	target := left.kind
	if rr > lr {
		target = right.kind
	}

	return widen(left, target), widen(right, target), true
}

func widen(v Value, target Kind) Value {
	if v.kind == target {
		return v
	}
	switch target {
	case KindInt64:
		return NewInt64(v.AsInt64())
	case KindF64:
		return NewF64(v.AsF64())
	case KindString:
		return NewString(v.AsString())
	default:
		return v
	}
}
