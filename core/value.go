package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParseValue is returned when a literal cannot be coerced into the requested kind.
var ErrParseValue = errors.New("cannot parse value")

// ErrUnknownKind is returned for a value type name that is not part of the union.
var ErrUnknownKind = errors.New("unknown value type")

// Kind tags the payload held by a Value.
type Kind int

const (
	// KindInvalid is the zero Value's kind.
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindVector2
	KindVector3
	KindList
)

// String returns the canonical type name of the kind.
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
	case KindVector2:
		return "Vector2"
	case KindVector3:
		return "Vector3"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// ParseKind maps a type name used in tree definitions to a Kind. Names are
// case-insensitive; "vec2" and "vec3" are accepted as aliases. Lists cannot be
// written as literals and are therefore not parseable.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bool":
		return KindBool, nil
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "string":
		return KindString, nil
	case "vector2", "vec2":
		return KindVector2, nil
	case "vector3", "vec3":
		return KindVector3, nil
	default:
		return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// Vec2 is a two component vector.
type Vec2 struct{ X, Y float64 }

// Vec3 is a three component vector.
type Vec3 struct{ X, Y, Z float64 }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// SqrMagnitude returns the squared length of v.
func (v Vec3) SqrMagnitude() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Handle is an opaque reference to an external object (for example a sensed
// entity) stored on the blackboard.
type Handle interface {
	HandleID() string
}

// Value is a closed tagged union of everything a blackboard can hold.
// The zero Value is invalid.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	v2   Vec2
	v3   Vec3
	list []Handle
}

// Bool returns a bool Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an int Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Vector2 returns a Vector2 Value.
func Vector2(v Vec2) Value { return Value{kind: KindVector2, v2: v} }

// Vector3 returns a Vector3 Value.
func Vector3(v Vec3) Value { return Value{kind: KindVector3, v3: v} }

// List returns a list Value holding a copy of the handles.
func List(handles ...Handle) Value {
	cp := make([]Handle, len(handles))
	copy(cp, handles)
	return Value{kind: KindList, list: cp}
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value holds a payload.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsBool returns the bool payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the int payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float payload.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsVector2 returns the Vector2 payload.
func (v Value) AsVector2() (Vec2, bool) { return v.v2, v.kind == KindVector2 }

// AsVector3 returns the Vector3 payload.
func (v Value) AsVector3() (Vec3, bool) { return v.v3, v.kind == KindVector3 }

// AsList returns a copy of the list payload.
func (v Value) AsList() ([]Handle, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]Handle, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// Equal reports whether both values have the same kind and payload. Values of
// different kinds are never equal, so Int(10) is not equal to Float(10).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindVector2:
		return v.v2 == o.v2
	case KindVector3:
		return v.v3 == o.v3
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i].HandleID() != o.list[i].HandleID() {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Compare orders v against o. ok is false when the kinds differ or the kind
// has no ordering (only int, float and string are ordered).
func (v Value) Compare(o Value) (cmp int, ok bool) {
	if v.kind != o.kind {
		return 0, false
	}
	switch v.kind {
	case KindInt:
		return compareOrdered(v.i, o.i), true
	case KindFloat:
		return compareOrdered(v.f, o.f), true
	case KindString:
		return strings.Compare(v.s, o.s), true
	default:
		return 0, false
	}
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Interface returns the payload as a plain Go value. Lists become []string of
// handle ids.
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
	case KindVector2:
		return v.v2
	case KindVector3:
		return v.v3
	case KindList:
		ids := make([]string, len(v.list))
		for i, h := range v.list {
			ids[i] = h.HandleID()
		}
		return ids
	default:
		return nil
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.kind {
	case KindInvalid:
		return "<invalid>"
	case KindVector2:
		return fmt.Sprintf("(%g, %g)", v.v2.X, v.v2.Y)
	case KindVector3:
		return fmt.Sprintf("(%g, %g, %g)", v.v3.X, v.v3.Y, v.v3.Z)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// ParseValue coerces a literal into a Value of the given kind. Vector
// components are comma separated.
func ParseValue(kind Kind, literal string) (Value, error) {
	switch kind {
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(literal))
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q as bool", ErrParseValue, literal)
		}
		return Bool(b), nil
	case KindInt:
		i, err := strconv.ParseInt(strings.TrimSpace(literal), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q as int", ErrParseValue, literal)
		}
		return Int(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(literal), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q as float", ErrParseValue, literal)
		}
		return Float(f), nil
	case KindString:
		return String(literal), nil
	case KindVector2:
		c, err := parseComponents(literal, 2)
		if err != nil {
			return Value{}, err
		}
		return Vector2(Vec2{c[0], c[1]}), nil
	case KindVector3:
		c, err := parseComponents(literal, 3)
		if err != nil {
			return Value{}, err
		}
		return Vector3(Vec3{c[0], c[1], c[2]}), nil
	default:
		return Value{}, fmt.Errorf("%w: %s literals are not supported", ErrParseValue, kind)
	}
}

// ParseTypedValue is ParseValue with the kind given by name.
func ParseTypedValue(typeName, literal string) (Value, error) {
	kind, err := ParseKind(typeName)
	if err != nil {
		return Value{}, err
	}
	return ParseValue(kind, literal)
}

func parseComponents(literal string, n int) ([]float64, error) {
	parts := strings.Split(literal, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: %q needs %d components, got %d", ErrParseValue, literal, n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: component %d of %q", ErrParseValue, i, literal)
		}
		out[i] = f
	}
	return out, nil
}
