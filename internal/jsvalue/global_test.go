package jsvalue

import (
	"math"
	"testing"
)

func TestGlobalParseInt(t *testing.T) {
	_, ctx := newTestContext()
	cases := []struct {
		in    string
		radix float64
		want  float64
	}{
		{"42", 0, 42},
		{"  42px", 0, 42},
		{"0x1F", 0, 31},
		{"1F", 16, 31},
		{"-10", 2, -2},
		{"+10", 0, 10},
		{"", 0, math.NaN()},
		{"abc", 10, math.NaN()},
	}
	g := ctx.Realm.Global
	for _, c := range cases {
		var args []Value
		if c.radix == 0 {
			args = []Value{String(c.in)}
		} else {
			args = []Value{String(c.in), Number(c.radix)}
		}
		got := asNumber(t, call(t, ctx, g, "parseInt", args...))
		if math.IsNaN(c.want) {
			if !math.IsNaN(got) {
				t.Errorf("parseInt(%q, %v) = %v, want NaN", c.in, c.radix, got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("parseInt(%q, %v) = %v, want %v", c.in, c.radix, got, c.want)
		}
	}
}

func TestGlobalParseFloat(t *testing.T) {
	_, ctx := newTestContext()
	g := ctx.Realm.Global
	cases := []struct {
		in   string
		want float64
	}{
		{"3.14abc", 3.14},
		{"  -2.5e3xyz", -2500},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
	}
	for _, c := range cases {
		got := asNumber(t, call(t, ctx, g, "parseFloat", String(c.in)))
		if got != c.want {
			t.Errorf("parseFloat(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if got := asNumber(t, call(t, ctx, g, "parseFloat", String("xyz"))); !math.IsNaN(got) {
		t.Errorf("parseFloat(xyz) = %v, want NaN", got)
	}
}

func TestGlobalIsNaNIsFinite(t *testing.T) {
	_, ctx := newTestContext()
	g := ctx.Realm.Global
	if !asBool(t, call(t, ctx, g, "isNaN", String("foo"))) {
		t.Error("isNaN(\"foo\") should coerce and be true")
	}
	if asBool(t, call(t, ctx, g, "isFinite", String("foo"))) {
		t.Error("isFinite(\"foo\") should coerce to NaN and be false")
	}
	if !asBool(t, call(t, ctx, g, "isFinite", Number(1))) {
		t.Error("isFinite(1) should be true")
	}
}

func TestURIEncodeDecodeRoundTrip(t *testing.T) {
	_, ctx := newTestContext()
	g := ctx.Realm.Global
	original := "hello world/?=&café"
	encoded := asString(t, call(t, ctx, g, "encodeURIComponent", String(original)))
	decoded := asString(t, call(t, ctx, g, "decodeURIComponent", String(encoded)))
	if decoded != original {
		t.Errorf("round trip failed: got %q, want %q", decoded, original)
	}
	if asString(t, call(t, ctx, g, "encodeURIComponent", String("a b"))) != "a%20b" {
		t.Errorf("encodeURIComponent(\"a b\") mismatch")
	}
	if asString(t, call(t, ctx, g, "encodeURI", String("a b/c"))) != "a%20b/c" {
		t.Error("encodeURI should leave reserved characters like '/' unescaped")
	}
}

func TestGlobalConstructorsBound(t *testing.T) {
	_, ctx := newTestContext()
	g := ctx.Realm.Global
	for _, name := range []string{"Object", "Array", "String", "Number", "Map", "Set", "ArrayBuffer", "Int8Array", "Float64Array", "Error", "TypeError"} {
		v, sig := Get(ctx, g, name, g)
		if sig != nil {
			t.Fatalf("looking up %s: %v", name, sig)
		}
		if _, ok := v.(*Object); !ok {
			t.Errorf("global.%s is not bound to an object", name)
		}
	}
}
