package jsvalue

import "testing"

func TestStringCharAndCodePointAccess(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	proto := r.StringPrototype
	s := String("hello")
	if got := asString(t, methodOn(t, ctx, s, proto, "charAt", Number(1))); got != "e" {
		t.Errorf("charAt(1) = %q, want e", got)
	}
	if got := asNumber(t, methodOn(t, ctx, s, proto, "charCodeAt", Number(0))); got != 104 {
		t.Errorf("charCodeAt(0) = %v, want 104", got)
	}
	if got := asString(t, methodOn(t, ctx, s, proto, "at", Number(-1))); got != "o" {
		t.Errorf("at(-1) = %q, want o", got)
	}
}

func TestStringIndexOfIncludesStartsEndsWith(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	proto := r.StringPrototype
	s := String("hello world")
	if got := asNumber(t, methodOn(t, ctx, s, proto, "indexOf", String("world"))); got != 6 {
		t.Errorf("indexOf(world) = %v, want 6", got)
	}
	if !asBool(t, methodOn(t, ctx, s, proto, "includes", String("lo w"))) {
		t.Error("includes(\"lo w\") should be true")
	}
	if !asBool(t, methodOn(t, ctx, s, proto, "startsWith", String("hello"))) {
		t.Error("startsWith(hello) should be true")
	}
	if !asBool(t, methodOn(t, ctx, s, proto, "endsWith", String("world"))) {
		t.Error("endsWith(world) should be true")
	}
}

func TestStringSliceSubstringConcat(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	proto := r.StringPrototype
	s := String("hello world")
	if got := asString(t, methodOn(t, ctx, s, proto, "slice", Number(0), Number(5))); got != "hello" {
		t.Errorf("slice(0,5) = %q, want hello", got)
	}
	if got := asString(t, methodOn(t, ctx, s, proto, "substring", Number(6))); got != "world" {
		t.Errorf("substring(6) = %q, want world", got)
	}
	if got := asString(t, methodOn(t, ctx, String("ab"), proto, "concat", String("cd"))); got != "abcd" {
		t.Errorf("concat(cd) = %q, want abcd", got)
	}
}

func TestStringCaseConversion(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	proto := r.StringPrototype
	if got := asString(t, methodOn(t, ctx, String("Hello"), proto, "toLowerCase")); got != "hello" {
		t.Errorf("toLowerCase() = %q, want hello", got)
	}
	if got := asString(t, methodOn(t, ctx, String("Hello"), proto, "toUpperCase")); got != "HELLO" {
		t.Errorf("toUpperCase() = %q, want HELLO", got)
	}
}

func TestStringTrimPadRepeat(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	proto := r.StringPrototype
	if got := asString(t, methodOn(t, ctx, String("  hi  "), proto, "trim")); got != "hi" {
		t.Errorf("trim() = %q, want hi", got)
	}
	if got := asString(t, methodOn(t, ctx, String("5"), proto, "padStart", Number(3), String("0"))); got != "005" {
		t.Errorf("padStart(3, \"0\") = %q, want 005", got)
	}
	if got := asString(t, methodOn(t, ctx, String("ab"), proto, "repeat", Number(3))); got != "ababab" {
		t.Errorf("repeat(3) = %q, want ababab", got)
	}
}

func TestStringSplit(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	proto := r.StringPrototype
	parts := methodOn(t, ctx, String("a,b,c"), proto, "split", String(","))
	po := parts.(*Object)
	if arrayLength(po) != 3 {
		t.Fatalf("split(\",\") length = %d, want 3", arrayLength(po))
	}
	v, _ := Get(ctx, po, "1", po)
	if asString(t, v) != "b" {
		t.Errorf("split(\",\")[1] = %v, want b", v)
	}
}

func TestStringReplaceAndReplaceAll(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	proto := r.StringPrototype
	if got := asString(t, methodOn(t, ctx, String("foo bar foo"), proto, "replace", String("foo"), String("baz"))); got != "baz bar foo" {
		t.Errorf("replace(foo, baz) = %q, want \"baz bar foo\"", got)
	}
	if got := asString(t, methodOn(t, ctx, String("foo bar foo"), proto, "replaceAll", String("foo"), String("baz"))); got != "baz bar baz" {
		t.Errorf("replaceAll(foo, baz) = %q, want \"baz bar baz\"", got)
	}
}
