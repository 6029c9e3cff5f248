// File: strata/value.go
package strata

import (
	"fmt"

	"github.com/spf13/cast"
)

// Kind identifies the scalar type of a declared field.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindInt
	KindFloat
	KindString
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a tagged union over the four scalar kinds. A Value always holds
// exactly one scalar; absence is expressed by the (Value, bool) pair at
// lookup sites, never by a null variant.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// BoolValue wraps a boolean.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// IntValue wraps an integer.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// FloatValue wraps a float.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// StringValue wraps a string.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind { return v.kind }

// Bool unwraps a boolean value. It panics if the value holds another kind.
func (v Value) Bool() bool {
	v.mustBe(KindBool)
	return v.b
}

// Int64 unwraps an integer value. It panics if the value holds another kind.
func (v Value) Int64() int64 {
	v.mustBe(KindInt)
	return v.i
}

// Float64 unwraps a float value. It panics if the value holds another kind.
func (v Value) Float64() float64 {
	v.mustBe(KindFloat)
	return v.f
}

// String unwraps a string value. It panics if the value holds another kind.
func (v Value) String() string {
	v.mustBe(KindString)
	return v.s
}

// Interface returns the wrapped scalar as an any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("strata: %s accessor called on %s value", k, v.kind))
	}
}

// Coerce converts a raw source value to the requested kind. Sources hand
// back whatever their backing format produced (TOML integers, YAML bools,
// environment strings, json.Number); conversion is weakly typed in the
// usual configuration sense: "8080" coerces to int, 1 coerces to "1".
// Input that cannot represent the requested kind (e.g. "555-4321" as int)
// is an error, never a zero value.
func Coerce(raw any, kind Kind) (Value, error) {
	switch kind {
	case KindBool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case KindInt:
		i, err := cast.ToInt64E(raw)
		if err != nil {
			return Value{}, err
		}
		return IntValue(i), nil
	case KindFloat:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	case KindString:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	default:
		return Value{}, fmt.Errorf("unknown kind %v", kind)
	}
}
