package jsvalue

import (
	"math"
	"testing"
)

func TestToNumberConversions(t *testing.T) {
	_, ctx := newTestContext()
	cases := []struct {
		in   Value
		want float64
	}{
		{Undefined, math.NaN()},
		{Null, 0},
		{Boolean(true), 1},
		{Boolean(false), 0},
		{Number(42), 42},
		{String("  42  "), 42},
		{String("0x1A"), 26},
		{String(""), 0},
	}
	for _, c := range cases {
		got, sig := ToNumber(ctx, c.in)
		if sig != nil {
			t.Fatalf("ToNumber(%v): %v", c.in, sig)
		}
		if math.IsNaN(c.want) {
			if !math.IsNaN(got) {
				t.Errorf("ToNumber(%v) = %v, want NaN", c.in, got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("ToNumber(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestToNumberRejectsSymbolAndBigInt(t *testing.T) {
	_, ctx := newTestContext()
	if _, sig := ToNumber(ctx, NewSymbol("s", true)); sig == nil {
		t.Error("ToNumber(symbol) should throw TypeError")
	}
	if _, sig := ToNumber(ctx, NewBigIntFromInt64(1)); sig == nil {
		t.Error("ToNumber(bigint) should throw TypeError")
	}
}

func TestToStringValueConversions(t *testing.T) {
	_, ctx := newTestContext()
	cases := []struct {
		in   Value
		want string
	}{
		{Undefined, "undefined"},
		{Null, "null"},
		{Boolean(true), "true"},
		{Number(3.5), "3.5"},
		{String("hi"), "hi"},
	}
	for _, c := range cases {
		got, sig := ToStringValue(ctx, c.in)
		if sig != nil {
			t.Fatalf("ToStringValue(%v): %v", c.in, sig)
		}
		if string(got) != c.want {
			t.Errorf("ToStringValue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToPrimitiveUsesValueOfThenToString(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	o := NewObject(r, r.ObjectPrototype)
	r.defMethod(o, "valueOf", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return Number(7), nil
	})
	got, sig := ToPrimitive(ctx, o, HintNumber)
	if sig != nil {
		t.Fatalf("ToPrimitive: %v", sig)
	}
	if asNumber(t, got) != 7 {
		t.Errorf("ToPrimitive(hint number) = %v, want 7", got)
	}
}

func TestSameValueAndSameValueZero(t *testing.T) {
	if SameValue(Number(0), Number(negZero())) {
		t.Error("SameValue(+0, -0) should be false")
	}
	if !SameValueZero(Number(0), Number(negZero())) {
		t.Error("SameValueZero(+0, -0) should be true")
	}
	nanV := Number(nan())
	if !SameValue(nanV, nanV) {
		t.Error("SameValue(NaN, NaN) should be true")
	}
}

func TestStrictEquals(t *testing.T) {
	if !StrictEquals(Number(1), Number(1)) {
		t.Error("StrictEquals(1, 1) should be true")
	}
	if StrictEquals(Number(1), String("1")) {
		t.Error("StrictEquals(1, \"1\") should be false: no coercion")
	}
	if StrictEquals(Number(nan()), Number(nan())) {
		t.Error("StrictEquals(NaN, NaN) should be false")
	}
}

func TestToIntegerOrInfinity(t *testing.T) {
	_, ctx := newTestContext()
	got, sig := ToIntegerOrInfinity(ctx, Number(3.9))
	if sig != nil || got != 3 {
		t.Errorf("ToIntegerOrInfinity(3.9) = %v, want 3", got)
	}
	got, sig = ToIntegerOrInfinity(ctx, Number(math.Inf(1)))
	if sig != nil || !math.IsInf(got, 1) {
		t.Errorf("ToIntegerOrInfinity(+Infinity) = %v, want +Infinity", got)
	}
}

func TestToInt32AndToUint32Wrapping(t *testing.T) {
	_, ctx := newTestContext()
	i32, sig := ToInt32(ctx, Number(4294967295))
	if sig != nil || i32 != -1 {
		t.Errorf("ToInt32(4294967295) = %v, want -1", i32)
	}
	u32, sig := ToUint32(ctx, Number(-1))
	if sig != nil || u32 != 4294967295 {
		t.Errorf("ToUint32(-1) = %v, want 4294967295", u32)
	}
}
