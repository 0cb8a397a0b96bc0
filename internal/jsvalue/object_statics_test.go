package jsvalue

import "testing"

func newPlainObject(r *Realm, props map[string]Value) *Object {
	o := NewObject(r, r.ObjectPrototype)
	for k, v := range props {
		o.DefineOwn(k, DataProperty(v, true, true, true))
	}
	return o
}

func TestObjectKeysValuesEntries(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.ObjectConstructor
	o := newPlainObject(r, map[string]Value{"a": Number(1), "b": Number(2)})

	keys := call(t, ctx, ctor, "keys", o)
	if arrayLength(keys.(*Object)) != 2 {
		t.Errorf("Object.keys length = %d, want 2", arrayLength(keys.(*Object)))
	}
	values := call(t, ctx, ctor, "values", o)
	if arrayLength(values.(*Object)) != 2 {
		t.Errorf("Object.values length = %d, want 2", arrayLength(values.(*Object)))
	}
	entries := call(t, ctx, ctor, "entries", o)
	if arrayLength(entries.(*Object)) != 2 {
		t.Errorf("Object.entries length = %d, want 2", arrayLength(entries.(*Object)))
	}
}

func TestObjectAssign(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.ObjectConstructor
	target := newPlainObject(r, map[string]Value{"a": Number(1)})
	src := newPlainObject(r, map[string]Value{"b": Number(2)})
	merged := call(t, ctx, ctor, "assign", target, src)
	v, sig := Get(ctx, merged.(*Object), "b", merged.(*Object))
	if sig != nil || asNumber(t, v) != 2 {
		t.Errorf("assign result.b = %v, want 2", v)
	}
}

func TestObjectFreezeAndIsFrozen(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.ObjectConstructor
	o := newPlainObject(r, map[string]Value{"a": Number(1)})
	call(t, ctx, ctor, "freeze", o)
	if !asBool(t, call(t, ctx, ctor, "isFrozen", o)) {
		t.Error("isFrozen should be true after freeze")
	}
	if _, sig := Set(ctx, o, "a", Number(2)); sig != nil {
		t.Fatalf("Set on a frozen object should fail silently, not throw: %v", sig)
	}
	v, _ := Get(ctx, o, "a", o)
	if asNumber(t, v) != 1 {
		t.Error("a frozen object's property should not change after a Set attempt")
	}
}

func TestObjectCreateWithNullProto(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.ObjectConstructor
	o := call(t, ctx, ctor, "create", Null)
	if o.(*Object).Prototype() != nil {
		t.Error("Object.create(null) should produce an object with no prototype")
	}
}

func TestObjectGetSetPrototypeOf(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.ObjectConstructor
	o := NewObject(r, r.ObjectPrototype)
	newProto := NewObject(r, nil)
	call(t, ctx, ctor, "setPrototypeOf", o, newProto)
	got := call(t, ctx, ctor, "getPrototypeOf", o)
	if got.(*Object) != newProto {
		t.Error("getPrototypeOf should return the prototype set via setPrototypeOf")
	}
}

func TestObjectDefinePropertyNonWritable(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.ObjectConstructor
	o := NewObject(r, r.ObjectPrototype)
	descriptor := newPlainObject(r, map[string]Value{"value": Number(5), "writable": Boolean(false)})
	call(t, ctx, ctor, "defineProperty", o, String("x"), descriptor)
	if _, sig := Set(ctx, o, "x", Number(99)); sig != nil {
		t.Fatalf("Set on a non-writable property should fail silently: %v", sig)
	}
	v, _ := Get(ctx, o, "x", o)
	if asNumber(t, v) != 5 {
		t.Errorf("x = %v, want 5 (non-writable property should not change)", v)
	}
}

func TestObjectGetOwnPropertyDescriptor(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.ObjectConstructor
	o := newPlainObject(r, map[string]Value{"a": Number(1)})
	desc := call(t, ctx, ctor, "getOwnPropertyDescriptor", o, String("a"))
	descObj := desc.(*Object)
	v, _ := Get(ctx, descObj, "value", descObj)
	if asNumber(t, v) != 1 {
		t.Errorf("descriptor.value = %v, want 1", v)
	}
	writable, _ := Get(ctx, descObj, "writable", descObj)
	if !asBool(t, writable) {
		t.Error("descriptor.writable should be true")
	}
}

func TestObjectIsSameValue(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.ObjectConstructor
	if !asBool(t, call(t, ctx, ctor, "is", Number(1), Number(1))) {
		t.Error("Object.is(1, 1) should be true")
	}
	if asBool(t, call(t, ctx, ctor, "is", Number(0), Number(negZero()))) {
		t.Error("Object.is(0, -0) should be false")
	}
	if !asBool(t, call(t, ctx, ctor, "is", Number(nan()), Number(nan()))) {
		t.Error("Object.is(NaN, NaN) should be true")
	}
}

func nan() float64 {
	var z float64
	return z / z
}

func TestObjectFromEntries(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.ObjectConstructor
	entries := r.NewArrayFromSlice([]Value{
		r.NewArrayFromSlice([]Value{String("a"), Number(1)}),
		r.NewArrayFromSlice([]Value{String("b"), Number(2)}),
	})
	o := call(t, ctx, ctor, "fromEntries", entries)
	v, sig := Get(ctx, o.(*Object), "b", o.(*Object))
	if sig != nil || asNumber(t, v) != 2 {
		t.Errorf("fromEntries result.b = %v, want 2", v)
	}
}

func TestObjectHasOwnPropertyAndPrototypeChain(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	parent := newPlainObject(r, map[string]Value{"inherited": Number(1)})
	child := NewObject(r, parent)
	child.DefineOwn("own", DataProperty(Number(2), true, true, true))

	if !asBool(t, methodOn(t, ctx, child, r.ObjectPrototype, "hasOwnProperty", String("own"))) {
		t.Error("hasOwnProperty(own) should be true")
	}
	if asBool(t, methodOn(t, ctx, child, r.ObjectPrototype, "hasOwnProperty", String("inherited"))) {
		t.Error("hasOwnProperty(inherited) should be false")
	}
	if !asBool(t, methodOn(t, ctx, parent, r.ObjectPrototype, "isPrototypeOf", child)) {
		t.Error("parent.isPrototypeOf(child) should be true")
	}
}

func TestObjectToStringTag(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	o := NewObject(r, r.ObjectPrototype)
	if got := asString(t, methodOn(t, ctx, o, r.ObjectPrototype, "toString")); got != "[object Object]" {
		t.Errorf("toString() = %q, want [object Object]", got)
	}
	a := r.NewArrayFromSlice(nil)
	if got := asString(t, methodOn(t, ctx, a, r.ObjectPrototype, "toString")); got != "[object Array]" {
		t.Errorf("toString() on array = %q, want [object Array]", got)
	}
}
