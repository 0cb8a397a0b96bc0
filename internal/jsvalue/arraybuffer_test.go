package jsvalue

import "testing"

func TestArrayBufferConstructAndSlice(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ab := construct(t, ctx, r.ArrayBufferConstructor, Number(8))
	byteLength, sig := Get(ctx, ab, "byteLength", ab)
	if sig != nil || asNumber(t, byteLength) != 8 {
		t.Errorf("byteLength = %v, want 8", byteLength)
	}
	sliced := call(t, ctx, ab, "slice", Number(2), Number(5))
	slicedLen, sig := Get(ctx, sliced.(*Object), "byteLength", sliced)
	if sig != nil || asNumber(t, slicedLen) != 3 {
		t.Errorf("slice(2,5).byteLength = %v, want 3", slicedLen)
	}
}

func TestArrayBufferNegativeLengthThrows(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	hc := r.ArrayBufferConstructor.Callable.(*HostConstructor)
	if _, sig := hc.ConstructFn(ctx, []Value{Number(-1)}, r.ArrayBufferConstructor, nil); sig == nil {
		t.Error("new ArrayBuffer(-1) should throw RangeError")
	}
}

func TestArrayBufferIsView(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ab := construct(t, ctx, r.ArrayBufferConstructor, Number(4))
	ta := construct(t, ctx, r.TypedArrayKinds[Int8Kind].Constructor, ab)
	if !asBool(t, call(t, ctx, r.ArrayBufferConstructor, "isView", ta)) {
		t.Error("ArrayBuffer.isView(typedArray) should be true")
	}
	if asBool(t, call(t, ctx, r.ArrayBufferConstructor, "isView", ab)) {
		t.Error("ArrayBuffer.isView(arrayBuffer) should be false")
	}
}

func TestDataViewGetSetRoundTrip(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ab := construct(t, ctx, r.ArrayBufferConstructor, Number(8))
	dv := construct(t, ctx, r.DataViewConstructor, ab)

	call(t, ctx, dv, "setInt32", Number(0), Number(-42), Boolean(true))
	got := call(t, ctx, dv, "getInt32", Number(0), Boolean(true))
	if asNumber(t, got) != -42 {
		t.Errorf("getInt32(0, little-endian) = %v, want -42", got)
	}

	call(t, ctx, dv, "setFloat64", Number(0), Number(3.5))
	gotF := call(t, ctx, dv, "getFloat64", Number(0))
	if asNumber(t, gotF) != 3.5 {
		t.Errorf("getFloat64(0) = %v, want 3.5", gotF)
	}
}

func TestDataViewOutOfBoundsThrows(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ab := construct(t, ctx, r.ArrayBufferConstructor, Number(2))
	dv := construct(t, ctx, r.DataViewConstructor, ab)
	if sig := callThrows(t, ctx, dv, "getInt32", Number(0)); sig == nil {
		t.Error("getInt32 past the end of a 2-byte buffer should throw RangeError")
	}
}

func TestDataViewWithOffsetAndLength(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ab := construct(t, ctx, r.ArrayBufferConstructor, Number(8))
	dv := construct(t, ctx, r.DataViewConstructor, ab, Number(4), Number(4))
	byteLength, sig := Get(ctx, dv, "byteLength", dv)
	if sig != nil || asNumber(t, byteLength) != 4 {
		t.Errorf("byteLength = %v, want 4", byteLength)
	}
	byteOffset, sig := Get(ctx, dv, "byteOffset", dv)
	if sig != nil || asNumber(t, byteOffset) != 4 {
		t.Errorf("byteOffset = %v, want 4", byteOffset)
	}
}
