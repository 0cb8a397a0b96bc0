package jsvalue

import "testing"

func arr(r *Realm, vals ...Value) *Object { return r.NewArrayFromSlice(vals) }

func TestArrayPushPopShiftUnshift(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	a := arr(r, Number(1), Number(2))

	call(t, ctx, a, "push", Number(3))
	if arrayLength(a) != 3 {
		t.Fatalf("push: length = %d, want 3", arrayLength(a))
	}
	popped := call(t, ctx, a, "pop")
	if asNumber(t, popped) != 3 {
		t.Errorf("pop() = %v, want 3", popped)
	}
	call(t, ctx, a, "unshift", Number(0))
	if v, _ := Get(ctx, a, "0", a); asNumber(t, v) != 0 {
		t.Error("unshift(0) should put 0 at index 0")
	}
	shifted := call(t, ctx, a, "shift")
	if asNumber(t, shifted) != 0 {
		t.Errorf("shift() = %v, want 0", shifted)
	}
}

func TestArrayConcatJoinSlice(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	a := arr(r, Number(1), Number(2))
	b := arr(r, Number(3))
	concatenated := call(t, ctx, a, "concat", b)
	if arrayLength(concatenated.(*Object)) != 3 {
		t.Errorf("concat length = %d, want 3", arrayLength(concatenated.(*Object)))
	}
	if got := asString(t, call(t, ctx, a, "join", String("-"))); got != "1-2" {
		t.Errorf("join(\"-\") = %q, want 1-2", got)
	}
	sliced := call(t, ctx, a, "slice", Number(0), Number(1))
	if arrayLength(sliced.(*Object)) != 1 {
		t.Errorf("slice(0,1) length = %d, want 1", arrayLength(sliced.(*Object)))
	}
}

func TestArraySplice(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	a := arr(r, Number(1), Number(2), Number(3), Number(4))
	removed := call(t, ctx, a, "splice", Number(1), Number(2), Number(9))
	if arrayLength(removed.(*Object)) != 2 {
		t.Fatalf("splice removed length = %d, want 2", arrayLength(removed.(*Object)))
	}
	if arrayLength(a) != 3 {
		t.Fatalf("array length after splice = %d, want 3", arrayLength(a))
	}
	v, _ := Get(ctx, a, "1", a)
	if asNumber(t, v) != 9 {
		t.Errorf("a[1] after splice = %v, want 9", v)
	}
}

func TestArrayIndexOfIncludes(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	a := arr(r, Number(1), Number(2), Number(3))
	if asNumber(t, call(t, ctx, a, "indexOf", Number(2))) != 1 {
		t.Error("indexOf(2) should be 1")
	}
	if asNumber(t, call(t, ctx, a, "lastIndexOf", Number(2))) != 1 {
		t.Error("lastIndexOf(2) should be 1")
	}
	if !asBool(t, call(t, ctx, a, "includes", Number(3))) {
		t.Error("includes(3) should be true")
	}
}

func TestArrayMapFilterForEach(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	a := arr(r, Number(1), Number(2), Number(3))

	double := r.newFunction("double", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return Number(asNumber(t, args[0]) * 2), nil
	})
	mapped := call(t, ctx, a, "map", double)
	v1, _ := Get(ctx, mapped.(*Object), "1", mapped.(*Object))
	if asNumber(t, v1) != 4 {
		t.Errorf("map(double)[1] = %v, want 4", v1)
	}

	isEven := r.newFunction("isEven", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return Boolean(int64(asNumber(t, args[0]))%2 == 0), nil
	})
	filtered := call(t, ctx, a, "filter", isEven)
	if arrayLength(filtered.(*Object)) != 1 {
		t.Errorf("filter(isEven) length = %d, want 1", arrayLength(filtered.(*Object)))
	}

	var sum float64
	adder := r.newFunction("adder", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		sum += asNumber(t, args[0])
		return Undefined, nil
	})
	call(t, ctx, a, "forEach", adder)
	if sum != 6 {
		t.Errorf("forEach sum = %v, want 6", sum)
	}
}

func TestArraySomeEveryFind(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	a := arr(r, Number(1), Number(2), Number(3))

	gtTwo := r.newFunction("gtTwo", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return Boolean(asNumber(t, args[0]) > 2), nil
	})
	if !asBool(t, call(t, ctx, a, "some", gtTwo)) {
		t.Error("some(gtTwo) should be true")
	}
	if asBool(t, call(t, ctx, a, "every", gtTwo)) {
		t.Error("every(gtTwo) should be false")
	}
	found := call(t, ctx, a, "find", gtTwo)
	if asNumber(t, found) != 3 {
		t.Errorf("find(gtTwo) = %v, want 3", found)
	}
}

func TestArrayReduceSortReverse(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	a := arr(r, Number(3), Number(1), Number(2))

	sum := r.newFunction("sum", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return Number(asNumber(t, args[0]) + asNumber(t, args[1])), nil
	})
	total := call(t, ctx, a, "reduce", sum, Number(0))
	if asNumber(t, total) != 6 {
		t.Errorf("reduce(sum, 0) = %v, want 6", total)
	}

	call(t, ctx, a, "sort")
	first, _ := Get(ctx, a, "0", a)
	if asNumber(t, first) != 1 {
		t.Errorf("sort() first element = %v, want 1", first)
	}

	call(t, ctx, a, "reverse")
	firstAfterReverse, _ := Get(ctx, a, "0", a)
	if asNumber(t, firstAfterReverse) != 3 {
		t.Errorf("reverse() first element = %v, want 3", firstAfterReverse)
	}
}

func TestArrayFlatAndFlatMap(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	nested := arr(r, Number(1), arr(r, Number(2), Number(3)), Number(4))
	flat := call(t, ctx, nested, "flat")
	if arrayLength(flat.(*Object)) != 4 {
		t.Errorf("flat() length = %d, want 4", arrayLength(flat.(*Object)))
	}

	a := arr(r, Number(1), Number(2))
	dup := r.newFunction("dup", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return arr(r, args[0], args[0]), nil
	})
	flatMapped := call(t, ctx, a, "flatMap", dup)
	if arrayLength(flatMapped.(*Object)) != 4 {
		t.Errorf("flatMap(dup) length = %d, want 4", arrayLength(flatMapped.(*Object)))
	}
}

func TestArrayImmutableVariants(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	a := arr(r, Number(1), Number(2), Number(3))

	withResult := call(t, ctx, a, "with", Number(1), Number(9))
	v, _ := Get(ctx, withResult.(*Object), "1", withResult.(*Object))
	if asNumber(t, v) != 9 {
		t.Errorf("with(1, 9)[1] = %v, want 9", v)
	}
	orig, _ := Get(ctx, a, "1", a)
	if asNumber(t, orig) != 2 {
		t.Error("with() should not mutate the source array")
	}

	reversed := call(t, ctx, a, "toReversed")
	first, _ := Get(ctx, reversed.(*Object), "0", reversed.(*Object))
	if asNumber(t, first) != 3 {
		t.Errorf("toReversed()[0] = %v, want 3", first)
	}
	origFirst, _ := Get(ctx, a, "0", a)
	if asNumber(t, origFirst) != 1 {
		t.Error("toReversed() should not mutate the source array")
	}
}

func TestArrayIsArray(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	ok, sig := IsArrayValue(ctx, arr(r, Number(1)))
	if sig != nil || !ok {
		t.Error("IsArrayValue should be true for an array")
	}
	ok, sig = IsArrayValue(ctx, String("not an array"))
	if sig != nil || ok {
		t.Error("IsArrayValue should be false for a string")
	}
}
