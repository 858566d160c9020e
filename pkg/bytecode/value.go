package bytecode

import "fmt"

// ValueKind tags the variant a Value holds.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindFloat
	KindBool
	KindNil
	KindString
	KindSelf
	KindCallInfo
)

var valueKindNames = map[ValueKind]string{
	KindInt:      "int",
	KindFloat:    "float",
	KindBool:     "bool",
	KindNil:      "nil",
	KindString:   "string",
	KindSelf:     "self",
	KindCallInfo: "call-info",
}

func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Value is a tagged union over every value MiniRuby's value pool or VM
// stack can hold. Exactly one of the typed fields is meaningful,
// selected by Kind.
type Value struct {
	Kind     ValueKind
	Int      int64
	Float    float64
	Bool     bool
	Str      string
	CallInfo CallInfo
}

// CallInfo is a compile-time-only record consumed by OpCall: the
// native function's name and how many arguments the call site passed.
type CallInfo struct {
	Name     string
	ArgCount int
}

func IntValue(v int64) Value      { return Value{Kind: KindInt, Int: v} }
func FloatValue(v float64) Value  { return Value{Kind: KindFloat, Float: v} }
func BoolValue(v bool) Value      { return Value{Kind: KindBool, Bool: v} }
func StringValue(v string) Value  { return Value{Kind: KindString, Str: v} }
func NilValue() Value             { return Value{Kind: KindNil} }
func SelfValue() Value            { return Value{Kind: KindSelf} }
func CallInfoValue(name string, argc int) Value {
	return Value{Kind: KindCallInfo, CallInfo: CallInfo{Name: name, ArgCount: argc}}
}

// Equal reports whether two values are equal under MiniRuby's runtime
// == operator, which compares an int and a float by numeric value
// across kinds. This is the comparison OpEqual performs; the value
// pool uses equalKind instead, since pool de-duplication must keep an
// int literal and a float literal of equal magnitude in distinct slots.
func (v Value) Equal(other Value) bool {
	if v.Kind == KindInt && other.Kind == KindFloat {
		return float64(v.Int) == other.Float
	}
	if v.Kind == KindFloat && other.Kind == KindInt {
		return v.Float == float64(other.Int)
	}
	return v.equalKind(other)
}

// equalKind reports structural equality with the kind itself treated
// as part of the value's identity: an int and a float are never equal
// here, even at the same magnitude. Used by the value pool's
// de-duplication and by Chunk.Equal's pool comparison.
func (v Value) equalKind(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int == other.Int
	case KindFloat:
		return v.Float == other.Float
	case KindBool:
		return v.Bool == other.Bool
	case KindNil, KindSelf:
		return true
	case KindString:
		return v.Str == other.Str
	case KindCallInfo:
		return v.CallInfo == other.CallInfo
	}
	return false
}

// Truthy implements MiniRuby's truthiness rule: nil and false are
// falsy, everything else is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNil:
		return "nil"
	case KindString:
		return v.Str
	case KindSelf:
		return "self"
	case KindCallInfo:
		return fmt.Sprintf("CallInfo{%s/%d}", v.CallInfo.Name, v.CallInfo.ArgCount)
	}
	return "<invalid value>"
}
