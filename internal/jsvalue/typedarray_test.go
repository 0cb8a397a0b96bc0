package jsvalue

import "testing"

func TestTypedArrayConstructFromLength(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.TypedArrayKinds[Uint8Kind].Constructor
	ta := construct(t, ctx, ctor, Number(4))
	length, sig := Get(ctx, ta, "length", ta)
	if sig != nil || asNumber(t, length) != 4 {
		t.Errorf("length = %v, want 4", length)
	}
	byteLength, sig := Get(ctx, ta, "byteLength", ta)
	if sig != nil || asNumber(t, byteLength) != 4 {
		t.Errorf("byteLength = %v, want 4", byteLength)
	}
}

func TestTypedArrayConstructFromArrayLike(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.TypedArrayKinds[Int32Kind].Constructor
	ta := construct(t, ctx, ctor, r.NewArrayFromSlice([]Value{Number(1), Number(2), Number(3)}))
	got := ta.Data.(*typedArrayData)
	if got.length() != 3 {
		t.Fatalf("length = %d, want 3", got.length())
	}
	for i, want := range []float64{1, 2, 3} {
		v := got.kind.Read(got.byteSlice(i), true)
		if asNumber(t, v) != want {
			t.Errorf("element %d = %v, want %v", i, v, want)
		}
	}
}

func TestTypedArrayClampedWrites(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.TypedArrayKinds[Uint8ClampedKind].Constructor
	ta := construct(t, ctx, ctor, Number(3))
	data := ta.Data.(*typedArrayData)
	data.setIndex(ctx, 0, Number(-10))
	data.setIndex(ctx, 1, Number(300))
	data.setIndex(ctx, 2, Number(120.4))
	want := []float64{0, 255, 120}
	for i, w := range want {
		v := data.kind.Read(data.byteSlice(i), true)
		if asNumber(t, v) != w {
			t.Errorf("element %d = %v, want %v", i, v, w)
		}
	}
}

func TestTypedArrayViewOverBuffer(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	buf := r.NewArrayBuffer(8)
	ctor := r.TypedArrayKinds[Int16Kind].Constructor
	ta := construct(t, ctx, ctor, buf)
	length, sig := Get(ctx, ta, "length", ta)
	if sig != nil || asNumber(t, length) != 4 {
		t.Errorf("length over 8-byte buffer = %v, want 4", length)
	}
	bufferVal, sig := Get(ctx, ta, "buffer", ta)
	if sig != nil {
		t.Fatalf("buffer accessor: %v", sig)
	}
	if bufferVal.(*Object) != buf {
		t.Error("TypedArray.prototype.buffer should return the original ArrayBuffer object")
	}
}

func TestTypedArrayFillSetSubarray(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.TypedArrayKinds[Uint8Kind].Constructor
	ta := construct(t, ctx, ctor, Number(5))

	call(t, ctx, ta, "fill", Number(7))
	data := ta.Data.(*typedArrayData)
	for i := 0; i < 5; i++ {
		if asNumber(t, data.kind.Read(data.byteSlice(i), true)) != 7 {
			t.Fatalf("fill(7) did not set index %d", i)
		}
	}

	call(t, ctx, ta, "set", r.NewArrayFromSlice([]Value{Number(1), Number(2)}), Number(1))
	if asNumber(t, data.kind.Read(data.byteSlice(1), true)) != 1 {
		t.Error("set([1,2], 1) should write 1 at index 1")
	}
	if asNumber(t, data.kind.Read(data.byteSlice(2), true)) != 2 {
		t.Error("set([1,2], 1) should write 2 at index 2")
	}

	sub := call(t, ctx, ta, "subarray", Number(1), Number(3))
	subTA := sub.(*Object).Data.(*typedArrayData)
	if subTA.length() != 2 {
		t.Fatalf("subarray(1,3) length = %d, want 2", subTA.length())
	}
	data.setIndex(ctx, 1, Number(99))
	if asNumber(t, subTA.kind.Read(subTA.byteSlice(0), true)) != 99 {
		t.Error("subarray should share the backing buffer with its source")
	}
}

func TestTypedArrayIndexOfIncludesJoin(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.TypedArrayKinds[Int8Kind].Constructor
	ta := construct(t, ctx, ctor, r.NewArrayFromSlice([]Value{Number(1), Number(2), Number(3)}))

	if asNumber(t, call(t, ctx, ta, "indexOf", Number(2))) != 1 {
		t.Error("indexOf(2) should be 1")
	}
	if !asBool(t, call(t, ctx, ta, "includes", Number(3))) {
		t.Error("includes(3) should be true")
	}
	if asBool(t, call(t, ctx, ta, "includes", Number(9))) {
		t.Error("includes(9) should be false")
	}
	if got := asString(t, call(t, ctx, ta, "join", String("-"))); got != "1-2-3" {
		t.Errorf("join(\"-\") = %q, want 1-2-3", got)
	}
}

func TestTypedArrayMapReduceReverse(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.TypedArrayKinds[Int32Kind].Constructor
	ta := construct(t, ctx, ctor, r.NewArrayFromSlice([]Value{Number(1), Number(2), Number(3)}))

	double := r.newFunction("double", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return Number(asNumber(t, args[0]) * 2), nil
	})
	mapped := call(t, ctx, ta, "map", double)
	mappedTA := mapped.(*Object).Data.(*typedArrayData)
	if asNumber(t, mappedTA.kind.Read(mappedTA.byteSlice(1), true)) != 4 {
		t.Error("map(double) should double each element")
	}

	sum := r.newFunction("sum", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return Number(asNumber(t, args[0]) + asNumber(t, args[1])), nil
	})
	total := call(t, ctx, ta, "reduce", sum, Number(0))
	if asNumber(t, total) != 6 {
		t.Errorf("reduce(sum, 0) = %v, want 6", total)
	}

	call(t, ctx, ta, "reverse")
	data := ta.Data.(*typedArrayData)
	if asNumber(t, data.kind.Read(data.byteSlice(0), true)) != 3 {
		t.Error("reverse() should put the last element first")
	}
}

func TestTypedArrayOfAndFrom(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.TypedArrayKinds[Uint16Kind].Constructor

	viaOf := call(t, ctx, ctor, "of", Number(5), Number(6), Number(7))
	ofTA := viaOf.(*Object).Data.(*typedArrayData)
	if ofTA.length() != 3 {
		t.Fatalf("TypedArray.of(5,6,7) length = %d, want 3", ofTA.length())
	}

	viaFrom := call(t, ctx, ctor, "from", r.NewArrayFromSlice([]Value{Number(8), Number(9)}))
	fromTA := viaFrom.(*Object).Data.(*typedArrayData)
	if fromTA.length() != 2 {
		t.Fatalf("TypedArray.from([8,9]) length = %d, want 2", fromTA.length())
	}
}

func TestTypedArrayAbstractNotConstructible(t *testing.T) {
	_, ctx := newTestContext()
	ctor := ctx.Realm.TypedArrayConstructor
	hc := ctor.Callable.(*HostConstructor)
	if _, sig := hc.ConstructFn(ctx, nil, ctor, nil); sig == nil {
		t.Error("the abstract TypedArray class should not be directly constructible")
	}
}

func TestBigInt64ArrayRoundTrip(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ctor := r.TypedArrayKinds[BigInt64Kind].Constructor
	ta := construct(t, ctx, ctor, Number(1))
	data := ta.Data.(*typedArrayData)
	neg := NewBigIntFromInt64(-1)
	if _, sig := data.setIndex(ctx, 0, neg); sig != nil {
		t.Fatalf("setIndex(BigInt64, -1): %v", sig)
	}
	got := data.kind.Read(data.byteSlice(0), true)
	bi, ok := got.(*BigInt)
	if !ok || bi.Int().Int64() != -1 {
		t.Errorf("BigInt64Array round trip of -1 = %v", got)
	}
}
