package jsvalue

import (
	"strconv"
)

// arrayData is an Array's internal-slot marker. Elements live as normal
// own data properties keyed by canonical index strings (so holes are
// simply absent keys); the struct exists to flag the kind consistently
// with every other payload-bearing ObjectKind.
type arrayData struct{}

func newArrayData() *arrayData { return &arrayData{} }

// NewArray allocates an empty Array of the given length.
func (r *Realm) NewArray(length int) *Object {
	o := newBareObject(r, ArrayKind, "Array")
	o.proto = r.ArrayPrototype
	o.Data = newArrayData()
	o.DefineOwn("length", DataProperty(Number(length), true, false, false))
	return o
}

// NewArrayFromSlice builds a dense Array containing exactly elems, in
// order, with a fresh identity in this realm.
func (r *Realm) NewArrayFromSlice(elems []Value) *Object {
	o := r.NewArray(len(elems))
	for i, v := range elems {
		o.DefineOwn(strconv.Itoa(i), DataProperty(v, true, true, true))
	}
	return o
}

func arrayLength(o *Object) int {
	d, ok := o.props.get("length")
	if !ok {
		return 0
	}
	return int(d.Value.(Number))
}

// arraySetLength implements ArraySetLength (ECMA-262 §10.4.2.4): the
// Array length invariant that shrinking removes trailing indexed
// entries in descending order, stopping and clamping at the first
// non-configurable one.
func arraySetLength(ctx *EvaluationContext, o *Object, v Value) (bool, *ThrowSignal) {
	numberLen, sig := ToNumber(ctx, v)
	if sig != nil {
		return false, sig
	}
	newLen, sig := ToUint32(ctx, v)
	if sig != nil {
		return false, sig
	}
	if float64(newLen) != numberLen {
		return false, ctx.ThrowRange("Invalid array length")
	}
	lengthDesc, _ := o.props.get("length")
	oldLen := uint32(lengthDesc.Value.(Number))
	if newLen >= oldLen {
		lengthDesc.Value = Number(newLen)
		return true, nil
	}
	if !lengthDesc.Writable {
		return false, nil
	}
	lengthDesc.Value = Number(newLen)
	for idx := oldLen; idx > newLen; idx-- {
		key := strconv.FormatUint(uint64(idx-1), 10)
		if d, ok := o.props.get(key); ok {
			if !d.Configurable {
				lengthDesc.Value = Number(idx)
				return false, nil
			}
			o.props.delete(key)
		}
	}
	return true, nil
}

// arrayDefineIndex implements ArrayDefineOwnProperty's integer-index
// branch: defining beyond the current length extends it, unless length
// is non-writable.
func arrayDefineIndex(ctx *EvaluationContext, o *Object, idx uint32, desc *PropertyDescriptor) (bool, *ThrowSignal) {
	lengthDesc, _ := o.props.get("length")
	oldLen := uint32(lengthDesc.Value.(Number))
	if idx >= oldLen && !lengthDesc.Writable {
		return false, nil
	}
	key := strconv.FormatUint(uint64(idx), 10)
	current, has := o.props.get(key)
	if !has {
		current = nil
	}
	if !validateAndApply(o, key, desc, current, o.extensible) {
		return false, nil
	}
	if idx >= oldLen {
		lengthDesc.Value = Number(idx + 1)
	}
	return true, nil
}

// ---- Array construction & identity helpers --------------------------------

// IsArrayValue implements the abstract operation IsArray, which unwraps
// Proxies transitively, throwing if a revoked proxy is found anywhere in
// the chain (§8).
func IsArrayValue(ctx *EvaluationContext, v Value) (bool, *ThrowSignal) {
	o, ok := v.(*Object)
	if !ok {
		return false, nil
	}
	target, hitRevoked := UnwrapProxy(o)
	if hitRevoked {
		return false, ctx.ThrowType("cannot perform 'isArray' on a revoked proxy")
	}
	return target.ObjKind == ArrayKind, nil
}

// IterableOrArrayLikeToSlice realizes an argument as a Go slice: it
// prefers @@iterator, falling back to treating the value as an
// array-like object with a numeric length. Used by Function.prototype.apply,
// Array.from, spread-like helpers, and TypedArray.from.
func IterableOrArrayLikeToSlice(ctx *EvaluationContext, v Value) ([]Value, *ThrowSignal) {
	o, ok := v.(*Object)
	if !ok {
		return nil, ctx.ThrowType("CreateListFromArrayLike called on non-object")
	}
	if iterMethod, sig := GetSymbol(ctx, o, ctx.Realm.WellKnown.Iterator, o); sig != nil {
		return nil, sig
	} else if fn, ok := iterMethod.(*Object); ok && fn.Callable != nil {
		return drainIterable(ctx, o, fn)
	}
	length, sig := ToLength(ctx, mustGet(ctx, o, "length"))
	if sig != nil {
		return nil, sig
	}
	out := make([]Value, int(length))
	for i := range out {
		val, sig := Get(ctx, o, strconv.Itoa(i), o)
		if sig != nil {
			return nil, sig
		}
		out[i] = val
	}
	return out, nil
}

func mustGet(ctx *EvaluationContext, o *Object, key string) Value {
	v, sig := Get(ctx, o, key, o)
	if sig != nil {
		return Undefined
	}
	return v
}

// drainIterable runs the @@iterator protocol to completion, collecting
// every yielded value. It has no suspension points of its own (§5): it
// calls .next() synchronously in a loop, which is valid because this
// core only deals with synchronous iterables; async iteration is an
// external-collaborator concern per §1.
func drainIterable(ctx *EvaluationContext, obj *Object, iterMethod *Object) ([]Value, *ThrowSignal) {
	iterVal, sig := iterMethod.Callable.Invoke(ctx, obj, nil)
	if sig != nil {
		return nil, sig
	}
	iter, ok := iterVal.(*Object)
	if !ok {
		return nil, ctx.ThrowType("Result of the Symbol.iterator method is not an object")
	}
	nextVal, sig := Get(ctx, iter, "next", iter)
	if sig != nil {
		return nil, sig
	}
	next, ok := nextVal.(*Object)
	if !ok || next.Callable == nil {
		return nil, ctx.ThrowType("Iterator result next is not callable")
	}
	var out []Value
	for {
		resultVal, sig := next.Callable.Invoke(ctx, iter, nil)
		if sig != nil {
			return nil, sig
		}
		result, ok := resultVal.(*Object)
		if !ok {
			return nil, ctx.ThrowType("Iterator result is not an object")
		}
		done, sig := Get(ctx, result, "done", result)
		if sig != nil {
			return nil, sig
		}
		if ToBoolean(done) {
			return out, nil
		}
		value, sig := Get(ctx, result, "value", result)
		if sig != nil {
			return nil, sig
		}
		out = append(out, value)
	}
}

// NewIteratorResult builds a plain {value, done} iterator result object.
func (r *Realm) NewIteratorResult(value Value, done bool) *Object {
	o := NewObject(r, r.ObjectPrototype)
	o.DefineOwn("value", DataProperty(value, true, true, true))
	o.DefineOwn("done", DataProperty(Boolean(done), true, true, true))
	return o
}

// newArrayIterator builds the iterator object returned by
// entries/keys/values: it owns a mutable index and exhausted bit and is
// its own @@iterator (§4.E).
func (r *Realm) newArrayIterator(source *Object, kind string) *Object {
	o := NewObject(r, r.ObjectPrototype)
	index := 0
	r.defMethod(o, "next", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		length := arrayIterableLength(ctx, source)
		if index >= length {
			return r.NewIteratorResult(Undefined, true), nil
		}
		i := index
		index++
		switch kind {
		case "keys":
			return r.NewIteratorResult(Number(i), false), nil
		case "values":
			v, sig := Get(ctx, source, strconv.Itoa(i), source)
			if sig != nil {
				return nil, sig
			}
			return r.NewIteratorResult(v, false), nil
		default: // entries
			v, sig := Get(ctx, source, strconv.Itoa(i), source)
			if sig != nil {
				return nil, sig
			}
			return r.NewIteratorResult(r.NewArrayFromSlice([]Value{Number(i), v}), false), nil
		}
	})
	r.defSymbolMethod(o, r.WellKnown.Iterator, "[Symbol.iterator]", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return o, nil
	})
	return o
}

func arrayIterableLength(ctx *EvaluationContext, o *Object) int {
	if o.ObjKind == ArrayKind {
		return arrayLength(o)
	}
	if ta, ok := o.Data.(*typedArrayData); ok {
		return ta.length()
	}
	n, _ := ToLength(ctx, mustGet(ctx, o, "length"))
	return int(n)
}
