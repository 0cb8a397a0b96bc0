package jsvalue

import "testing"

func TestSymbolDescriptionAndToString(t *testing.T) {
	_, ctx := newTestContext()
	ctor := ctx.Realm.SymbolConstructor
	s, sig := ctor.Callable.Invoke(ctx, Undefined, []Value{String("mySym")})
	if sig != nil {
		t.Fatalf("Symbol(\"mySym\"): %v", sig)
	}
	sym, ok := s.(*Symbol)
	if !ok {
		t.Fatalf("expected *Symbol, got %T", s)
	}
	proto := ctx.Realm.SymbolPrototype
	if got := asString(t, methodOn(t, ctx, sym, proto, "toString")); got != "Symbol(mySym)" {
		t.Errorf("toString() = %q, want Symbol(mySym)", got)
	}
	desc, sig := Get(ctx, proto, "description", sym)
	if sig != nil {
		t.Fatalf("description lookup: %v", sig)
	}
	if asString(t, desc) != "mySym" {
		t.Errorf("description = %v, want mySym", desc)
	}
}

func TestSymbolForInterning(t *testing.T) {
	_, ctx := newTestContext()
	ctor := ctx.Realm.SymbolConstructor
	a := call(t, ctx, ctor, "for", String("shared"))
	b := call(t, ctx, ctor, "for", String("shared"))
	if a != b {
		t.Error("Symbol.for should return the same symbol for the same key")
	}
	key := call(t, ctx, ctor, "keyFor", a)
	if asString(t, key) != "shared" {
		t.Errorf("Symbol.keyFor(a) = %v, want shared", key)
	}
}

func TestSymbolConstructorNotConstructible(t *testing.T) {
	_, ctx := newTestContext()
	ctor := ctx.Realm.SymbolConstructor
	hc := ctor.Callable.(*HostConstructor)
	if _, sig := hc.ConstructFn(ctx, nil, ctor, nil); sig == nil {
		t.Error("new Symbol() should throw TypeError")
	}
}
