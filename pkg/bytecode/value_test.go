package bytecode

import "testing"

func TestValue_EqualCrossKindNumeric(t *testing.T) {
	if !IntValue(3).Equal(FloatValue(3.0)) {
		t.Error("expected int(3) to equal float(3.0)")
	}
	if !FloatValue(3.0).Equal(IntValue(3)) {
		t.Error("expected float(3.0) to equal int(3)")
	}
	if IntValue(3).Equal(FloatValue(3.5)) {
		t.Error("expected int(3) to not equal float(3.5)")
	}
}

func TestValue_EqualSameKind(t *testing.T) {
	if !StringValue("a").Equal(StringValue("a")) {
		t.Error("expected equal strings to be Equal")
	}
	if StringValue("a").Equal(StringValue("b")) {
		t.Error("expected differing strings to not be Equal")
	}
	if !NilValue().Equal(NilValue()) {
		t.Error("expected nil to equal nil")
	}
	if !BoolValue(true).Equal(BoolValue(true)) {
		t.Error("expected equal bools to be Equal")
	}
}

func TestValue_EqualDifferentKinds(t *testing.T) {
	if StringValue("3").Equal(IntValue(3)) {
		t.Error("expected a string and an int to never be Equal")
	}
}

func TestValue_EqualKindTreatsIntAndFloatAsDistinct(t *testing.T) {
	if IntValue(3).equalKind(FloatValue(3.0)) {
		t.Error("expected equalKind to treat int(3) and float(3.0) as distinct")
	}
	if !IntValue(3).equalKind(IntValue(3)) {
		t.Error("expected equalKind to treat equal ints as equal")
	}
}

func TestValue_Truthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{NilValue(), false},
		{BoolValue(false), false},
		{BoolValue(true), true},
		{IntValue(0), true},
		{StringValue(""), true},
		{SelfValue(), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("%v.Truthy() = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestValue_String(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{IntValue(3), "3"},
		{FloatValue(3.5), "3.5"},
		{BoolValue(true), "true"},
		{BoolValue(false), "false"},
		{NilValue(), "nil"},
		{StringValue("hi"), "hi"},
		{SelfValue(), "self"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("%#v.String() = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestValueKind_String(t *testing.T) {
	if KindInt.String() != "int" {
		t.Errorf("KindInt.String() = %q, want %q", KindInt.String(), "int")
	}
	if ValueKind(99).String() != "unknown" {
		t.Errorf("unknown kind should stringify to %q", "unknown")
	}
}
