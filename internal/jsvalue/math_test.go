package jsvalue

import (
	"math"
	"testing"
)

func TestMathUnaryMethods(t *testing.T) {
	_, ctx := newTestContext()
	mathObj, sig := Get(ctx, ctx.Realm.Global, "Math", ctx.Realm.Global)
	if sig != nil {
		t.Fatalf("Math lookup: %v", sig)
	}
	m := mathObj.(*Object)

	cases := []struct {
		method string
		arg    float64
		want   float64
	}{
		{"abs", -5, 5},
		{"ceil", 4.1, 5},
		{"floor", 4.9, 4},
		{"round", 4.5, 5},
		{"round", -4.5, -4},
		{"trunc", -4.7, -4},
		{"sqrt", 9, 3},
		{"sign", -3, -1},
		{"sign", 0, 0},
	}
	for _, c := range cases {
		got := asNumber(t, call(t, ctx, m, c.method, Number(c.arg)))
		if got != c.want {
			t.Errorf("Math.%s(%v) = %v, want %v", c.method, c.arg, got, c.want)
		}
	}
}

func TestMathMinMax(t *testing.T) {
	_, ctx := newTestContext()
	mathObj, _ := Get(ctx, ctx.Realm.Global, "Math", ctx.Realm.Global)
	m := mathObj.(*Object)

	if got := asNumber(t, call(t, ctx, m, "min", Number(3), Number(1), Number(2))); got != 1 {
		t.Errorf("Math.min(3,1,2) = %v, want 1", got)
	}
	if got := asNumber(t, call(t, ctx, m, "max", Number(3), Number(1), Number(2))); got != 3 {
		t.Errorf("Math.max(3,1,2) = %v, want 3", got)
	}
	if got := asNumber(t, call(t, ctx, m, "min")); !math.IsInf(got, 1) {
		t.Errorf("Math.min() = %v, want +Infinity", got)
	}
	if got := asNumber(t, call(t, ctx, m, "max", Number(1), Number(math.NaN()))); !math.IsNaN(got) {
		t.Errorf("Math.max with a NaN argument should be NaN, got %v", got)
	}
}

func TestMathPowAtan2(t *testing.T) {
	_, ctx := newTestContext()
	mathObj, _ := Get(ctx, ctx.Realm.Global, "Math", ctx.Realm.Global)
	m := mathObj.(*Object)

	if got := asNumber(t, call(t, ctx, m, "pow", Number(2), Number(10))); got != 1024 {
		t.Errorf("Math.pow(2,10) = %v, want 1024", got)
	}
	if got := asNumber(t, call(t, ctx, m, "atan2", Number(0), Number(-1))); math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("Math.atan2(0,-1) = %v, want pi", got)
	}
}

func TestMathConstants(t *testing.T) {
	_, ctx := newTestContext()
	mathObj, _ := Get(ctx, ctx.Realm.Global, "Math", ctx.Realm.Global)
	m := mathObj.(*Object)

	pi, sig := Get(ctx, m, "PI", m)
	if sig != nil {
		t.Fatalf("Math.PI lookup: %v", sig)
	}
	if float64(pi.(Number)) != math.Pi {
		t.Errorf("Math.PI = %v, want %v", pi, math.Pi)
	}
}
