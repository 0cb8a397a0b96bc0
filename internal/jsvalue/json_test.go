package jsvalue

import "testing"

func jsonObj(t *testing.T, ctx *EvaluationContext) *Object {
	t.Helper()
	v, sig := Get(ctx, ctx.Realm.Global, "JSON", ctx.Realm.Global)
	if sig != nil {
		t.Fatalf("JSON lookup: %v", sig)
	}
	return v.(*Object)
}

func TestJSONParsePrimitives(t *testing.T) {
	_, ctx := newTestContext()
	j := jsonObj(t, ctx)

	if got := asNumber(t, call(t, ctx, j, "parse", String("42"))); got != 42 {
		t.Errorf("parse(42) = %v", got)
	}
	if got := asString(t, call(t, ctx, j, "parse", String(`"hi"`))); got != "hi" {
		t.Errorf("parse(\"hi\") = %v", got)
	}
	if got := asBool(t, call(t, ctx, j, "parse", String("true"))); !got {
		t.Error("parse(true) should be true")
	}
	if v := call(t, ctx, j, "parse", String("null")); !IsNull(v) {
		t.Errorf("parse(null) = %v, want null", v)
	}
}

func TestJSONParseObjectAndArray(t *testing.T) {
	_, ctx := newTestContext()
	j := jsonObj(t, ctx)

	v := call(t, ctx, j, "parse", String(`{"a":1,"b":[2,3,"x"]}`))
	o, ok := v.(*Object)
	if !ok {
		t.Fatalf("expected object, got %T", v)
	}
	a, sig := Get(ctx, o, "a", o)
	if sig != nil || asNumber(t, a) != 1 {
		t.Errorf("a = %v", a)
	}
	b, sig := Get(ctx, o, "b", o)
	if sig != nil {
		t.Fatalf("b lookup: %v", sig)
	}
	barr := b.(*Object)
	if arrayLength(barr) != 3 {
		t.Errorf("b.length = %d, want 3", arrayLength(barr))
	}
}

func TestJSONParseSyntaxError(t *testing.T) {
	_, ctx := newTestContext()
	j := jsonObj(t, ctx)
	sig := callThrows(t, ctx, j, "parse", String("{not json"))
	if sig == nil {
		t.Fatal("expected a throw")
	}
}

func TestJSONParseReviver(t *testing.T) {
	_, ctx := newTestContext()
	j := jsonObj(t, ctx)
	r := ctx.Realm
	doubler := r.newFunction("doubler", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if n, ok := secondArg(args).(Number); ok {
			return Number(float64(n) * 2), nil
		}
		return secondArg(args), nil
	})
	v := call(t, ctx, j, "parse", String(`{"x":1,"y":2}`), doubler)
	o := v.(*Object)
	x, _ := Get(ctx, o, "x", o)
	y, _ := Get(ctx, o, "y", o)
	if asNumber(t, x) != 2 || asNumber(t, y) != 4 {
		t.Errorf("reviver did not apply: x=%v y=%v", x, y)
	}
}

func TestJSONStringifyRoundTrip(t *testing.T) {
	_, ctx := newTestContext()
	j := jsonObj(t, ctx)

	parsed := call(t, ctx, j, "parse", String(`{"a":1,"b":[true,null,"s"]}`))
	out := asString(t, call(t, ctx, j, "stringify", parsed))
	reparsed := call(t, ctx, j, "parse", String(out))
	out2 := asString(t, call(t, ctx, j, "stringify", reparsed))
	if out != out2 {
		t.Errorf("stringify is not stable under round trip: %q vs %q", out, out2)
	}
}

func TestJSONStringifyIndent(t *testing.T) {
	_, ctx := newTestContext()
	j := jsonObj(t, ctx)
	obj := call(t, ctx, j, "parse", String(`{"a":1}`))
	out := asString(t, call(t, ctx, j, "stringify", obj, Undefined, Number(2)))
	want := "{\n  \"a\": 1\n}"
	if out != want {
		t.Errorf("stringify with indent = %q, want %q", out, want)
	}
}

func TestJSONStringifyDropsUndefinedAndFunctions(t *testing.T) {
	_, ctx := newTestContext()
	j := jsonObj(t, ctx)
	r := ctx.Realm
	o := NewObject(r, r.ObjectPrototype)
	o.DefineOwn("a", DataProperty(Undefined, true, true, true))
	o.DefineOwn("b", DataProperty(r.newFunction("f", 0, nil), true, true, true))
	o.DefineOwn("c", DataProperty(Number(1), true, true, true))
	out := asString(t, call(t, ctx, j, "stringify", o))
	if out != `{"c":1}` {
		t.Errorf("stringify dropped-keys case = %q, want %q", out, `{"c":1}`)
	}
}

func TestJSONStringifyCircularThrows(t *testing.T) {
	_, ctx := newTestContext()
	j := jsonObj(t, ctx)
	r := ctx.Realm
	o := NewObject(r, r.ObjectPrototype)
	o.DefineOwn("self", DataProperty(o, true, true, true))
	sig := callThrows(t, ctx, j, "stringify", o)
	if sig == nil {
		t.Fatal("expected circular-structure throw")
	}
}
