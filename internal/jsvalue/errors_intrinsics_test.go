package jsvalue

import "testing"

func construct(t *testing.T, ctx *EvaluationContext, ctor *Object, args ...Value) *Object {
	t.Helper()
	hc, ok := ctor.Callable.(*HostConstructor)
	if !ok || hc.ConstructFn == nil {
		t.Fatalf("%s is not constructible", hc.FnName)
	}
	v, sig := hc.ConstructFn(ctx, args, ctor, nil)
	if sig != nil {
		t.Fatalf("new %s(...): %v", hc.FnName, sig)
	}
	return v.(*Object)
}

func TestErrorToString(t *testing.T) {
	_, ctx := newTestContext()
	e := construct(t, ctx, ctx.Realm.TypeErrorConstructor, String("bad value"))
	proto := ctx.Realm.TypeErrorPrototype
	if got := asString(t, methodOn(t, ctx, e, proto, "toString")); got != "TypeError: bad value" {
		t.Errorf("toString() = %q, want %q", got, "TypeError: bad value")
	}
}

func TestErrorPrototypeChain(t *testing.T) {
	_, ctx := newTestContext()
	e := construct(t, ctx, ctx.Realm.RangeErrorConstructor, String("out of range"))
	if e.proto != ctx.Realm.RangeErrorPrototype {
		t.Error("RangeError instance should chain to RangeErrorPrototype")
	}
	if ctx.Realm.RangeErrorPrototype.proto != ctx.Realm.ErrorPrototype {
		t.Error("RangeErrorPrototype should chain to ErrorPrototype")
	}
}

func TestErrorCauseOption(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	opts := NewObject(r, r.ObjectPrototype)
	cause := String("root cause")
	opts.DefineOwn("cause", DataProperty(cause, true, true, true))
	e := construct(t, ctx, r.ErrorConstructor, String("wrapped"), opts)
	got, sig := Get(ctx, e, "cause", e)
	if sig != nil {
		t.Fatalf("cause lookup: %v", sig)
	}
	if asString(t, got) != "root cause" {
		t.Errorf("cause = %v, want %q", got, "root cause")
	}
}

func TestErrorWithoutCauseHasNoOwnCause(t *testing.T) {
	_, ctx := newTestContext()
	e := construct(t, ctx, ctx.Realm.ErrorConstructor, String("plain"))
	if _, ok := e.GetOwnProperty("cause"); ok {
		t.Error("Error without an options.cause should not have an own cause property")
	}
}
