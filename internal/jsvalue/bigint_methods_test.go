package jsvalue

import (
	"math/big"
	"testing"
)

func TestBigIntAsIntN(t *testing.T) {
	_, ctx := newTestContext()
	ctor := ctx.Realm.BigIntConstructor

	got := call(t, ctx, ctor, "asIntN", Number(8), NewBigInt(big.NewInt(255)))
	bi, ok := got.(*BigInt)
	if !ok {
		t.Fatalf("expected *BigInt, got %T", got)
	}
	if bi.Int().Int64() != -1 {
		t.Errorf("asIntN(8, 255) = %v, want -1", bi.Int())
	}
}

func TestBigIntAsUintN(t *testing.T) {
	_, ctx := newTestContext()
	ctor := ctx.Realm.BigIntConstructor

	got := call(t, ctx, ctor, "asUintN", Number(8), NewBigInt(big.NewInt(-1)))
	bi := got.(*BigInt)
	if bi.Int().Int64() != 255 {
		t.Errorf("asUintN(8, -1) = %v, want 255", bi.Int())
	}
}

func TestBigIntToString(t *testing.T) {
	_, ctx := newTestContext()
	proto := ctx.Realm.BigIntPrototype
	v := NewBigInt(big.NewInt(255))
	if got := asString(t, methodOn(t, ctx, v, proto, "toString", Number(16))); got != "ff" {
		t.Errorf("toString(16) = %q, want ff", got)
	}
}

func TestBigIntConstructorIsNotConstructible(t *testing.T) {
	_, ctx := newTestContext()
	ctor := ctx.Realm.BigIntConstructor
	hc := ctor.Callable.(*HostConstructor)
	if _, sig := hc.ConstructFn(ctx, nil, ctor, nil); sig == nil {
		t.Error("new BigInt() should throw TypeError")
	}
	v, sig := hc.CallFn(ctx, Undefined, []Value{String("42")})
	if sig != nil {
		t.Fatalf("BigInt(\"42\"): %v", sig)
	}
	if v.(*BigInt).Int().Int64() != 42 {
		t.Errorf("BigInt(\"42\") = %v, want 42", v)
	}
}
