package jsvalue

import "testing"

func TestMapBasics(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	m, sig := r.MapConstructor.Callable.(*HostConstructor).ConstructFn(ctx, nil, r.MapConstructor, nil)
	if sig != nil {
		t.Fatalf("new Map(): %v", sig)
	}
	mo := m.(*Object)

	call(t, ctx, mo, "set", String("k"), Number(1))
	if got := asNumber(t, call(t, ctx, mo, "get", String("k"))); got != 1 {
		t.Errorf("map.get(k) = %v, want 1", got)
	}
	if !asBool(t, call(t, ctx, mo, "has", String("k"))) {
		t.Error("map.has(k) should be true")
	}
	size, sig := Get(ctx, mo, "size", mo)
	if sig != nil || asNumber(t, size) != 1 {
		t.Errorf("map.size = %v, want 1", size)
	}
	call(t, ctx, mo, "delete", String("k"))
	if asBool(t, call(t, ctx, mo, "has", String("k"))) {
		t.Error("map.has(k) should be false after delete")
	}
}

func TestMapSameValueZeroKeys(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	m, _ := r.MapConstructor.Callable.(*HostConstructor).ConstructFn(ctx, nil, r.MapConstructor, nil)
	mo := m.(*Object)

	call(t, ctx, mo, "set", Number(0), String("zero"))
	if got := asString(t, call(t, ctx, mo, "get", Number(negZero()))); got != "zero" {
		t.Errorf("map should treat +0 and -0 as the same key, got %v", got)
	}
}

func negZero() float64 {
	var z float64
	return -z
}

func TestSetBasics(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	s, sig := r.SetConstructor.Callable.(*HostConstructor).ConstructFn(ctx, nil, r.SetConstructor, nil)
	if sig != nil {
		t.Fatalf("new Set(): %v", sig)
	}
	so := s.(*Object)

	call(t, ctx, so, "add", Number(1))
	call(t, ctx, so, "add", Number(1))
	call(t, ctx, so, "add", Number(2))
	size, sig := Get(ctx, so, "size", so)
	if sig != nil || asNumber(t, size) != 2 {
		t.Errorf("set.size = %v, want 2 (duplicate adds should not grow it)", size)
	}
	call(t, ctx, so, "delete", Number(1))
	if asBool(t, call(t, ctx, so, "has", Number(1))) {
		t.Error("set.has(1) should be false after delete")
	}
}

func TestWeakMapRejectsNonObjectKey(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	wm, sig := r.WeakMapConstructor.Callable.(*HostConstructor).ConstructFn(ctx, nil, r.WeakMapConstructor, nil)
	if sig != nil {
		t.Fatalf("new WeakMap(): %v", sig)
	}
	wmo := wm.(*Object)
	sig = callThrows(t, ctx, wmo, "set", String("not-an-object"), Number(1))
	if sig == nil {
		t.Fatal("expected TypeError for a non-object WeakMap key")
	}

	key := NewObject(r, r.ObjectPrototype)
	call(t, ctx, wmo, "set", key, Number(42))
	if got := asNumber(t, call(t, ctx, wmo, "get", key)); got != 42 {
		t.Errorf("wm.get(key) = %v, want 42", got)
	}
}
