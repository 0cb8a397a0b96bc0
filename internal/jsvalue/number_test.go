package jsvalue

import "testing"

func TestNumberToFixed(t *testing.T) {
	_, ctx := newTestContext()
	proto := ctx.Realm.NumberPrototype
	if got := asString(t, methodOn(t, ctx, Number(3.14159), proto, "toFixed", Number(2))); got != "3.14" {
		t.Errorf("toFixed(2) = %q, want 3.14", got)
	}
	if got := asString(t, methodOn(t, ctx, Number(5), proto, "toFixed")); got != "5" {
		t.Errorf("toFixed() = %q, want 5", got)
	}
}

func TestNumberToStringRadix(t *testing.T) {
	_, ctx := newTestContext()
	proto := ctx.Realm.NumberPrototype
	if got := asString(t, methodOn(t, ctx, Number(255), proto, "toString", Number(16))); got != "ff" {
		t.Errorf("toString(16) = %q, want ff", got)
	}
	if got := asString(t, methodOn(t, ctx, Number(5), proto, "toString", Number(2))); got != "101" {
		t.Errorf("toString(2) = %q, want 101", got)
	}
}

func TestNumberToStringInvalidRadixThrows(t *testing.T) {
	_, ctx := newTestContext()
	proto := ctx.Realm.NumberPrototype
	fnVal, sig := Get(ctx, proto, "toString", proto)
	if sig != nil {
		t.Fatalf("lookup: %v", sig)
	}
	fn := fnVal.(*Object)
	if _, sig := fn.Callable.Invoke(ctx, Number(5), []Value{Number(1)}); sig == nil {
		t.Error("toString(1) should throw RangeError")
	}
}

func TestNumberIsIntegerIsSafeInteger(t *testing.T) {
	_, ctx := newTestContext()
	ctor := ctx.Realm.NumberConstructor
	if !asBool(t, call(t, ctx, ctor, "isInteger", Number(5))) {
		t.Error("isInteger(5) should be true")
	}
	if asBool(t, call(t, ctx, ctor, "isInteger", Number(5.5))) {
		t.Error("isInteger(5.5) should be false")
	}
	if asBool(t, call(t, ctx, ctor, "isInteger", String("5"))) {
		t.Error("isInteger(\"5\") should be false: Number.isInteger does not coerce")
	}
	if !asBool(t, call(t, ctx, ctor, "isSafeInteger", Number(maxSafeInteger))) {
		t.Error("isSafeInteger(MAX_SAFE_INTEGER) should be true")
	}
	if asBool(t, call(t, ctx, ctor, "isSafeInteger", Number(maxSafeInteger+2))) {
		t.Error("isSafeInteger(MAX_SAFE_INTEGER+2) should be false")
	}
}
