package jsvalue

import "testing"

func newTestContext() (*Realm, *EvaluationContext) {
	r := NewRealm()
	return r, &EvaluationContext{Realm: r}
}

func call(t *testing.T, ctx *EvaluationContext, owner *Object, name string, args ...Value) Value {
	t.Helper()
	fnVal, sig := Get(ctx, owner, name, owner)
	if sig != nil {
		t.Fatalf("looking up %s: %v", name, sig)
	}
	fn, ok := fnVal.(*Object)
	if !ok || fn.Callable == nil {
		t.Fatalf("%s is not callable", name)
	}
	v, sig := fn.Callable.Invoke(ctx, owner, args)
	if sig != nil {
		t.Fatalf("%s(%v) threw: %v", name, args, sig)
	}
	return v
}

func callThrows(t *testing.T, ctx *EvaluationContext, owner *Object, name string, args ...Value) *ThrowSignal {
	t.Helper()
	fnVal, sig := Get(ctx, owner, name, owner)
	if sig != nil {
		t.Fatalf("looking up %s: %v", name, sig)
	}
	fn, ok := fnVal.(*Object)
	if !ok || fn.Callable == nil {
		t.Fatalf("%s is not callable", name)
	}
	_, sig = fn.Callable.Invoke(ctx, owner, args)
	if sig == nil {
		t.Fatalf("%s(%v) did not throw", name, args)
	}
	return sig
}

func methodOn(t *testing.T, ctx *EvaluationContext, this Value, proto *Object, name string, args ...Value) Value {
	t.Helper()
	fnVal, sig := Get(ctx, proto, name, proto)
	if sig != nil {
		t.Fatalf("looking up %s: %v", name, sig)
	}
	fn, ok := fnVal.(*Object)
	if !ok || fn.Callable == nil {
		t.Fatalf("%s is not callable", name)
	}
	v, sig := fn.Callable.Invoke(ctx, this, args)
	if sig != nil {
		t.Fatalf("%s.%s(%v) threw: %v", this, name, args, sig)
	}
	return v
}

func asString(t *testing.T, v Value) string {
	t.Helper()
	s, ok := v.(String)
	if !ok {
		t.Fatalf("expected String, got %T (%v)", v, v)
	}
	return string(s)
}

func asNumber(t *testing.T, v Value) float64 {
	t.Helper()
	n, ok := v.(Number)
	if !ok {
		t.Fatalf("expected Number, got %T (%v)", v, v)
	}
	return float64(n)
}

func asBool(t *testing.T, v Value) bool {
	t.Helper()
	b, ok := v.(Boolean)
	if !ok {
		t.Fatalf("expected Boolean, got %T (%v)", v, v)
	}
	return bool(b)
}
