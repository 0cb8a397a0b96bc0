package jsvalue

import (
	"sort"
	"strconv"
	"strings"
)

// thisArrayLike coerces `this` to an object (per the Open Question in
// §9: array methods must ToObject rather than return null for
// non-Array receivers) and reads its current length.
func thisArrayLike(ctx *EvaluationContext, this Value) (*Object, int, *ThrowSignal) {
	o, sig := ToObject(ctx, this)
	if sig != nil {
		return nil, 0, sig
	}
	length, sig := ToLength(ctx, mustGet(ctx, o, "length"))
	if sig != nil {
		return nil, 0, sig
	}
	return o, int(length), nil
}

func arrayHas(o *Object, i int) bool { return o.HasOwn(strconv.Itoa(i)) }

func arrayGet(ctx *EvaluationContext, o *Object, i int) (Value, *ThrowSignal) {
	return Get(ctx, o, strconv.Itoa(i), o)
}

func arraySet(ctx *EvaluationContext, o *Object, i int, v Value) *ThrowSignal {
	_, sig := CreateDataProperty(ctx, o, strconv.Itoa(i), v)
	return sig
}

func callFn(ctx *EvaluationContext, fnVal Value, this Value, args []Value, opName string) (Value, *ThrowSignal) {
	fn, ok := fnVal.(*Object)
	if !ok || fn.Callable == nil {
		return nil, ctx.ThrowType("%s: callback is not a function", opName)
	}
	return fn.Callable.Invoke(ctx, this, args)
}

func normalizeIndex(n float64, length int) int {
	if n < 0 {
		n += float64(length)
	}
	if n < 0 {
		n = 0
	}
	if n > float64(length) {
		n = float64(length)
	}
	return int(n)
}

func (r *Realm) installArray() {
	proto := r.ArrayPrototype

	r.defMethod(proto, "push", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		for _, v := range args {
			if sig := arraySet(ctx, o, length, v); sig != nil {
				return nil, sig
			}
			length++
		}
		if _, sig := Set(ctx, o, "length", Number(length)); sig != nil {
			return nil, sig
		}
		return Number(length), nil
	})

	r.defMethod(proto, "pop", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if length == 0 {
			_, sig := Set(ctx, o, "length", Number(0))
			return Undefined, sig
		}
		v, sig := arrayGet(ctx, o, length-1)
		if sig != nil {
			return nil, sig
		}
		Delete(o, strconv.Itoa(length-1))
		if _, sig := Set(ctx, o, "length", Number(length-1)); sig != nil {
			return nil, sig
		}
		return v, nil
	})

	r.defMethod(proto, "shift", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if length == 0 {
			_, sig := Set(ctx, o, "length", Number(0))
			return Undefined, sig
		}
		first, sig := arrayGet(ctx, o, 0)
		if sig != nil {
			return nil, sig
		}
		for i := 1; i < length; i++ {
			if arrayHas(o, i) {
				v, sig := arrayGet(ctx, o, i)
				if sig != nil {
					return nil, sig
				}
				if sig := arraySet(ctx, o, i-1, v); sig != nil {
					return nil, sig
				}
			} else {
				Delete(o, strconv.Itoa(i-1))
			}
		}
		Delete(o, strconv.Itoa(length-1))
		if _, sig := Set(ctx, o, "length", Number(length-1)); sig != nil {
			return nil, sig
		}
		return first, nil
	})

	r.defMethod(proto, "unshift", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		n := len(args)
		for i := length - 1; i >= 0; i-- {
			if arrayHas(o, i) {
				v, sig := arrayGet(ctx, o, i)
				if sig != nil {
					return nil, sig
				}
				if sig := arraySet(ctx, o, i+n, v); sig != nil {
					return nil, sig
				}
			} else {
				Delete(o, strconv.Itoa(i+n))
			}
		}
		for i, v := range args {
			if sig := arraySet(ctx, o, i, v); sig != nil {
				return nil, sig
			}
		}
		if _, sig := Set(ctx, o, "length", Number(length+n)); sig != nil {
			return nil, sig
		}
		return Number(length + n), nil
	})

	r.defMethod(proto, "reverse", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		for lo, hi := 0, length-1; lo < hi; lo, hi = lo+1, hi-1 {
			loHas, hiHas := arrayHas(o, lo), arrayHas(o, hi)
			loVal, sig := arrayGet(ctx, o, lo)
			if sig != nil {
				return nil, sig
			}
			hiVal, sig := arrayGet(ctx, o, hi)
			if sig != nil {
				return nil, sig
			}
			switch {
			case loHas && hiHas:
				arraySet(ctx, o, lo, hiVal)
				arraySet(ctx, o, hi, loVal)
			case hiHas && !loHas:
				arraySet(ctx, o, lo, hiVal)
				Delete(o, strconv.Itoa(hi))
			case loHas && !hiHas:
				arraySet(ctx, o, hi, loVal)
				Delete(o, strconv.Itoa(lo))
			}
		}
		return o, nil
	})

	r.defMethod(proto, "concat", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, this)
		if sig != nil {
			return nil, sig
		}
		items := append([]Value{Value(o)}, args...)
		out := r.NewArray(0)
		n := 0
		for _, item := range items {
			isArr, sig := IsArrayValue(ctx, item)
			if sig != nil {
				return nil, sig
			}
			if isArr {
				src := item.(*Object)
				srcLen := arrayLength(src)
				for i := 0; i < srcLen; i++ {
					if arrayHas(src, i) {
						v, sig := arrayGet(ctx, src, i)
						if sig != nil {
							return nil, sig
						}
						arraySet(ctx, out, n, v)
					}
					n++
				}
			} else {
				arraySet(ctx, out, n, item)
				n++
			}
		}
		Set(ctx, out, "length", Number(n))
		return out, nil
	})

	r.defMethod(proto, "join", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		sep := ","
		if len(args) > 0 && !IsUndefined(args[0]) {
			s, sig := ToStringValue(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			sep = string(s)
		}
		var parts []string
		for i := 0; i < length; i++ {
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			if IsNullish(v) {
				parts = append(parts, "")
				continue
			}
			s, sig := ToStringValue(ctx, v)
			if sig != nil {
				return nil, sig
			}
			parts = append(parts, string(s))
		}
		return String(strings.Join(parts, sep)), nil
	})

	r.defMethod(proto, "toString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, this)
		if sig != nil {
			return nil, sig
		}
		joinVal, sig := Get(ctx, o, "join", o)
		if sig != nil {
			return nil, sig
		}
		if fn, ok := joinVal.(*Object); ok && fn.Callable != nil {
			return fn.Callable.Invoke(ctx, o, nil)
		}
		return String("[object Array]"), nil
	})

	r.defMethod(proto, "slice", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		start, end := 0, length
		if len(args) > 0 && !IsUndefined(args[0]) {
			n, sig := ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			start = normalizeIndex(n, length)
		}
		if len(args) > 1 && !IsUndefined(args[1]) {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			end = normalizeIndex(n, length)
		}
		out := r.NewArray(0)
		n := 0
		for i := start; i < end; i++ {
			if arrayHas(o, i) {
				v, sig := arrayGet(ctx, o, i)
				if sig != nil {
					return nil, sig
				}
				arraySet(ctx, out, n, v)
			}
			n++
		}
		Set(ctx, out, "length", Number(n))
		return out, nil
	})

	r.defMethod(proto, "splice", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		start := 0
		if len(args) > 0 {
			n, sig := ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			start = normalizeIndex(n, length)
		}
		deleteCount := length - start
		if len(args) > 1 {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			if n < 0 {
				n = 0
			}
			if n > float64(length-start) {
				n = float64(length - start)
			}
			deleteCount = int(n)
		} else if len(args) == 0 {
			deleteCount = 0
		}
		var items []Value
		if len(args) > 2 {
			items = args[2:]
		}
		removed := r.NewArray(0)
		for i := 0; i < deleteCount; i++ {
			if arrayHas(o, start+i) {
				v, sig := arrayGet(ctx, o, start+i)
				if sig != nil {
					return nil, sig
				}
				arraySet(ctx, removed, i, v)
			}
		}
		Set(ctx, removed, "length", Number(deleteCount))

		shift := len(items) - deleteCount
		if shift < 0 {
			for i := start; i < length-deleteCount; i++ {
				from, to := i+deleteCount, i+len(items)
				if arrayHas(o, from) {
					v, sig := arrayGet(ctx, o, from)
					if sig != nil {
						return nil, sig
					}
					arraySet(ctx, o, to, v)
				} else {
					Delete(o, strconv.Itoa(to))
				}
			}
			for i := length - 1; i >= length+shift; i-- {
				Delete(o, strconv.Itoa(i))
			}
		} else if shift > 0 {
			for i := length - deleteCount - 1; i >= start; i-- {
				from, to := i+deleteCount, i+len(items)
				if arrayHas(o, from) {
					v, sig := arrayGet(ctx, o, from)
					if sig != nil {
						return nil, sig
					}
					arraySet(ctx, o, to, v)
				} else {
					Delete(o, strconv.Itoa(to))
				}
			}
		}
		for i, v := range items {
			arraySet(ctx, o, start+i, v)
		}
		if _, sig := Set(ctx, o, "length", Number(length+shift)); sig != nil {
			return nil, sig
		}
		return removed, nil
	})

	r.defMethod(proto, "indexOf", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if length == 0 || len(args) == 0 {
			return Number(-1), nil
		}
		target := args[0]
		start := 0
		if len(args) > 1 {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			start = normalizeIndex(n, length)
		}
		for i := start; i < length; i++ {
			if !arrayHas(o, i) {
				continue
			}
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			if StrictEquals(v, target) {
				return Number(i), nil
			}
		}
		return Number(-1), nil
	})

	r.defMethod(proto, "lastIndexOf", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if length == 0 || len(args) == 0 {
			return Number(-1), nil
		}
		target := args[0]
		start := length - 1
		if len(args) > 1 {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			if n < 0 {
				n += float64(length)
			} else if n > float64(length-1) {
				n = float64(length - 1)
			}
			start = int(n)
		}
		for i := start; i >= 0; i-- {
			if !arrayHas(o, i) {
				continue
			}
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			if StrictEquals(v, target) {
				return Number(i), nil
			}
		}
		return Number(-1), nil
	})

	r.defMethod(proto, "includes", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		var target Value = Undefined
		if len(args) > 0 {
			target = args[0]
		}
		start := 0
		if len(args) > 1 {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			start = normalizeIndex(n, length)
		}
		for i := start; i < length; i++ {
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			if SameValueZero(v, target) {
				return Boolean(true), nil
			}
		}
		return Boolean(false), nil
	})

	iterate := func(name string, visit func(ctx *EvaluationContext, o *Object, length int, fn *Object, thisArg Value) (Value, *ThrowSignal)) {
		r.defMethod(proto, name, 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			o, length, sig := thisArrayLike(ctx, this)
			if sig != nil {
				return nil, sig
			}
			if len(args) == 0 {
				return nil, ctx.ThrowType("%s requires a callback function", name)
			}
			fn, ok := args[0].(*Object)
			if !ok || fn.Callable == nil {
				return nil, ctx.ThrowType("%s callback is not a function", name)
			}
			var thisArg Value = Undefined
			if len(args) > 1 {
				thisArg = args[1]
			}
			return visit(ctx, o, length, fn, thisArg)
		})
	}

	iterate("forEach", func(ctx *EvaluationContext, o *Object, length int, fn *Object, thisArg Value) (Value, *ThrowSignal) {
		for i := 0; i < length; i++ {
			if !arrayHas(o, i) {
				continue
			}
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			if _, sig := fn.Callable.Invoke(ctx, thisArg, []Value{v, Number(i), o}); sig != nil {
				return nil, sig
			}
		}
		return Undefined, nil
	})

	iterate("map", func(ctx *EvaluationContext, o *Object, length int, fn *Object, thisArg Value) (Value, *ThrowSignal) {
		out := r.NewArray(length)
		for i := 0; i < length; i++ {
			if !arrayHas(o, i) {
				continue
			}
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			result, sig := fn.Callable.Invoke(ctx, thisArg, []Value{v, Number(i), o})
			if sig != nil {
				return nil, sig
			}
			arraySet(ctx, out, i, result)
		}
		return out, nil
	})

	iterate("filter", func(ctx *EvaluationContext, o *Object, length int, fn *Object, thisArg Value) (Value, *ThrowSignal) {
		out := r.NewArray(0)
		n := 0
		for i := 0; i < length; i++ {
			if !arrayHas(o, i) {
				continue
			}
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			keep, sig := fn.Callable.Invoke(ctx, thisArg, []Value{v, Number(i), o})
			if sig != nil {
				return nil, sig
			}
			if ToBoolean(keep) {
				arraySet(ctx, out, n, v)
				n++
			}
		}
		Set(ctx, out, "length", Number(n))
		return out, nil
	})

	iterate("some", func(ctx *EvaluationContext, o *Object, length int, fn *Object, thisArg Value) (Value, *ThrowSignal) {
		for i := 0; i < length; i++ {
			if !arrayHas(o, i) {
				continue
			}
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			result, sig := fn.Callable.Invoke(ctx, thisArg, []Value{v, Number(i), o})
			if sig != nil {
				return nil, sig
			}
			if ToBoolean(result) {
				return Boolean(true), nil
			}
		}
		return Boolean(false), nil
	})

	iterate("every", func(ctx *EvaluationContext, o *Object, length int, fn *Object, thisArg Value) (Value, *ThrowSignal) {
		for i := 0; i < length; i++ {
			if !arrayHas(o, i) {
				continue
			}
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			result, sig := fn.Callable.Invoke(ctx, thisArg, []Value{v, Number(i), o})
			if sig != nil {
				return nil, sig
			}
			if !ToBoolean(result) {
				return Boolean(false), nil
			}
		}
		return Boolean(true), nil
	})

	find := func(name string, reverse, wantIndex bool) {
		r.defMethod(proto, name, 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			o, length, sig := thisArrayLike(ctx, this)
			if sig != nil {
				return nil, sig
			}
			if len(args) == 0 {
				return nil, ctx.ThrowType("%s requires a callback function", name)
			}
			fn, ok := args[0].(*Object)
			if !ok || fn.Callable == nil {
				return nil, ctx.ThrowType("%s callback is not a function", name)
			}
			var thisArg Value = Undefined
			if len(args) > 1 {
				thisArg = args[1]
			}
			indices := make([]int, length)
			for i := range indices {
				indices[i] = i
			}
			if reverse {
				for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
					indices[i], indices[j] = indices[j], indices[i]
				}
			}
			for _, i := range indices {
				v, sig := arrayGet(ctx, o, i)
				if sig != nil {
					return nil, sig
				}
				result, sig := fn.Callable.Invoke(ctx, thisArg, []Value{v, Number(i), o})
				if sig != nil {
					return nil, sig
				}
				if ToBoolean(result) {
					if wantIndex {
						return Number(i), nil
					}
					return v, nil
				}
			}
			if wantIndex {
				return Number(-1), nil
			}
			return Undefined, nil
		})
	}
	find("find", false, false)
	find("findIndex", false, true)
	find("findLast", true, false)
	find("findLastIndex", true, true)

	reduceImpl := func(name string, reverse bool) {
		r.defMethod(proto, name, 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			o, length, sig := thisArrayLike(ctx, this)
			if sig != nil {
				return nil, sig
			}
			if len(args) == 0 {
				return nil, ctx.ThrowType("%s requires a callback function", name)
			}
			fn, ok := args[0].(*Object)
			if !ok || fn.Callable == nil {
				return nil, ctx.ThrowType("%s callback is not a function", name)
			}
			indices := make([]int, 0, length)
			for i := 0; i < length; i++ {
				indices = append(indices, i)
			}
			if reverse {
				for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
					indices[i], indices[j] = indices[j], indices[i]
				}
			}
			var acc Value
			start := 0
			if len(args) > 1 {
				acc = args[1]
			} else {
				for start < len(indices) && !arrayHas(o, indices[start]) {
					start++
				}
				if start >= len(indices) {
					return nil, ctx.ThrowType("Reduce of empty array with no initial value")
				}
				v, sig := arrayGet(ctx, o, indices[start])
				if sig != nil {
					return nil, sig
				}
				acc = v
				start++
			}
			for _, i := range indices[start:] {
				if !arrayHas(o, i) {
					continue
				}
				v, sig := arrayGet(ctx, o, i)
				if sig != nil {
					return nil, sig
				}
				result, sig := fn.Callable.Invoke(ctx, Undefined, []Value{acc, v, Number(i), o})
				if sig != nil {
					return nil, sig
				}
				acc = result
			}
			return acc, nil
		})
	}
	reduceImpl("reduce", false)
	reduceImpl("reduceRight", true)

	r.defMethod(proto, "at", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		n := 0.0
		if len(args) > 0 {
			n, sig = ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
		}
		idx := int(n)
		if idx < 0 {
			idx += length
		}
		if idx < 0 || idx >= length {
			return Undefined, nil
		}
		return arrayGet(ctx, o, idx)
	})

	r.defMethod(proto, "fill", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		var v Value = Undefined
		if len(args) > 0 {
			v = args[0]
		}
		start, end := 0, length
		if len(args) > 1 {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			start = normalizeIndex(n, length)
		}
		if len(args) > 2 && !IsUndefined(args[2]) {
			n, sig := ToIntegerOrInfinity(ctx, args[2])
			if sig != nil {
				return nil, sig
			}
			end = normalizeIndex(n, length)
		}
		for i := start; i < end; i++ {
			arraySet(ctx, o, i, v)
		}
		return o, nil
	})

	r.defMethod(proto, "copyWithin", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		target, end := 0, length
		if len(args) > 0 {
			n, sig := ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			target = normalizeIndex(n, length)
		}
		start := 0
		if len(args) > 1 {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			start = normalizeIndex(n, length)
		}
		if len(args) > 2 && !IsUndefined(args[2]) {
			n, sig := ToIntegerOrInfinity(ctx, args[2])
			if sig != nil {
				return nil, sig
			}
			end = normalizeIndex(n, length)
		}
		count := end - start
		if count > length-target {
			count = length - target
		}
		if count <= 0 {
			return o, nil
		}
		buf := make([]Value, count)
		present := make([]bool, count)
		for i := 0; i < count; i++ {
			present[i] = arrayHas(o, start+i)
			if present[i] {
				v, sig := arrayGet(ctx, o, start+i)
				if sig != nil {
					return nil, sig
				}
				buf[i] = v
			}
		}
		for i := 0; i < count; i++ {
			if present[i] {
				arraySet(ctx, o, target+i, buf[i])
			} else {
				Delete(o, strconv.Itoa(target+i))
			}
		}
		return o, nil
	})

	r.defMethod(proto, "flat", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, this)
		if sig != nil {
			return nil, sig
		}
		depth := 1.0
		if len(args) > 0 && !IsUndefined(args[0]) {
			depth, sig = ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
		}
		out := r.NewArray(0)
		n := 0
		sig = flattenInto(ctx, o, depth, out, &n)
		if sig != nil {
			return nil, sig
		}
		Set(ctx, out, "length", Number(n))
		return out, nil
	})

	r.defMethod(proto, "flatMap", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if len(args) == 0 {
			return nil, ctx.ThrowType("flatMap requires a callback function")
		}
		fn, ok := args[0].(*Object)
		if !ok || fn.Callable == nil {
			return nil, ctx.ThrowType("flatMap callback is not a function")
		}
		var thisArg Value = Undefined
		if len(args) > 1 {
			thisArg = args[1]
		}
		out := r.NewArray(0)
		n := 0
		for i := 0; i < length; i++ {
			if !arrayHas(o, i) {
				continue
			}
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			mapped, sig := fn.Callable.Invoke(ctx, thisArg, []Value{v, Number(i), o})
			if sig != nil {
				return nil, sig
			}
			if mo, ok := mapped.(*Object); ok && mo.ObjKind == ArrayKind {
				mlen := arrayLength(mo)
				for j := 0; j < mlen; j++ {
					if arrayHas(mo, j) {
						mv, sig := arrayGet(ctx, mo, j)
						if sig != nil {
							return nil, sig
						}
						arraySet(ctx, out, n, mv)
					}
					n++
				}
			} else {
				arraySet(ctx, out, n, mapped)
				n++
			}
		}
		Set(ctx, out, "length", Number(n))
		return out, nil
	})

	r.defMethod(proto, "sort", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		var cmp *Object
		if len(args) > 0 && !IsUndefined(args[0]) {
			fn, ok := args[0].(*Object)
			if !ok || fn.Callable == nil {
				return nil, ctx.ThrowType("The comparison function must be either a function or undefined")
			}
			cmp = fn
		}
		vals := make([]Value, 0, length)
		for i := 0; i < length; i++ {
			if arrayHas(o, i) {
				v, sig := arrayGet(ctx, o, i)
				if sig != nil {
					return nil, sig
				}
				vals = append(vals, v)
			}
		}
		var outerSig *ThrowSignal
		sort.SliceStable(vals, func(i, j int) bool {
			if outerSig != nil {
				return false
			}
			a, b := vals[i], vals[j]
			if IsUndefined(a) {
				return false
			}
			if IsUndefined(b) {
				return true
			}
			if cmp != nil {
				result, sig := cmp.Callable.Invoke(ctx, Undefined, []Value{a, b})
				if sig != nil {
					outerSig = sig
					return false
				}
				n, sig := ToNumber(ctx, result)
				if sig != nil {
					outerSig = sig
					return false
				}
				return n < 0
			}
			as, sig := ToStringValue(ctx, a)
			if sig != nil {
				outerSig = sig
				return false
			}
			bs, sig := ToStringValue(ctx, b)
			if sig != nil {
				outerSig = sig
				return false
			}
			return string(as) < string(bs)
		})
		if outerSig != nil {
			return nil, outerSig
		}
		for i, v := range vals {
			arraySet(ctx, o, i, v)
		}
		for i := len(vals); i < length; i++ {
			Delete(o, strconv.Itoa(i))
		}
		return o, nil
	})

	r.defMethod(proto, "with", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if len(args) == 0 {
			return nil, ctx.ThrowType("Array.prototype.with requires an index")
		}
		n, sig := ToIntegerOrInfinity(ctx, args[0])
		if sig != nil {
			return nil, sig
		}
		idx := int(n)
		if idx < 0 {
			idx += length
		}
		if idx < 0 || idx >= length {
			return nil, ctx.ThrowRange("Invalid index")
		}
		var replacement Value = Undefined
		if len(args) > 1 {
			replacement = args[1]
		}
		out := make([]Value, length)
		for i := 0; i < length; i++ {
			if i == idx {
				out[i] = replacement
				continue
			}
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			out[i] = v
		}
		return r.NewArrayFromSlice(out), nil
	})

	r.defMethod(proto, "toReversed", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		out := make([]Value, length)
		for i := 0; i < length; i++ {
			v, sig := arrayGet(ctx, o, length-1-i)
			if sig != nil {
				return nil, sig
			}
			out[i] = v
		}
		return r.NewArrayFromSlice(out), nil
	})

	r.defMethod(proto, "toSorted", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		vals := make([]Value, length)
		for i := range vals {
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			vals[i] = v
		}
		fresh := r.NewArrayFromSlice(vals)
		sortFn := mustGet(ctx, proto, "sort")
		return callFn(ctx, sortFn, fresh, args, "toSorted")
	})

	r.defMethod(proto, "toSpliced", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, length, sig := thisArrayLike(ctx, this)
		if sig != nil {
			return nil, sig
		}
		vals := make([]Value, length)
		for i := range vals {
			v, sig := arrayGet(ctx, o, i)
			if sig != nil {
				return nil, sig
			}
			vals[i] = v
		}
		fresh := r.NewArrayFromSlice(vals)
		spliceFn := mustGet(ctx, proto, "splice")
		if _, sig := callFn(ctx, spliceFn, fresh, args, "toSpliced"); sig != nil {
			return nil, sig
		}
		return fresh, nil
	})

	iterName := func(name, kind string) {
		r.defMethod(proto, name, 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			o, sig := ToObject(ctx, this)
			if sig != nil {
				return nil, sig
			}
			return r.newArrayIterator(o, kind), nil
		})
	}
	iterName("entries", "entries")
	iterName("keys", "keys")
	iterName("values", "values")
	proto.DefineOwnSymbol(r.WellKnown.Iterator, DataProperty(mustGet(nil, proto, "values"), true, false, true))

	construct := arrayConstruct(r)
	call := func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return construct(ctx, args, nil, nil)
	}
	r.ArrayConstructor = r.newConstructor("Array", 1, construct, call, proto)
	r.defMethod(r.ArrayConstructor, "isArray", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if len(args) == 0 {
			return Boolean(false), nil
		}
		ok, sig := IsArrayValue(ctx, args[0])
		if sig != nil {
			return nil, sig
		}
		return Boolean(ok), nil
	})
	r.defMethod(r.ArrayConstructor, "of", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return r.NewArrayFromSlice(args), nil
	})
	r.defMethod(r.ArrayConstructor, "from", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if len(args) == 0 {
			return r.NewArray(0), nil
		}
		var mapFn *Object
		var thisArg Value = Undefined
		if len(args) > 1 {
			if fn, ok := args[1].(*Object); ok && fn.Callable != nil {
				mapFn = fn
			}
		}
		if len(args) > 2 {
			thisArg = args[2]
		}
		items, sig := IterableOrArrayLikeToSlice(ctx, args[0])
		if sig != nil {
			return nil, sig
		}
		if mapFn != nil {
			for i, v := range items {
				mv, sig := mapFn.Callable.Invoke(ctx, thisArg, []Value{v, Number(i)})
				if sig != nil {
					return nil, sig
				}
				items[i] = mv
			}
		}
		return r.NewArrayFromSlice(items), nil
	})
}

func arrayConstruct(r *Realm) func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
	return func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
		if len(args) == 1 {
			if n, ok := args[0].(Number); ok {
				f := float64(n)
				if f < 0 || f != float64(uint32(f)) {
					return nil, ctx.ThrowRange("Invalid array length")
				}
				return r.NewArray(int(f)), nil
			}
		}
		return r.NewArrayFromSlice(args), nil
	}
}

func flattenInto(ctx *EvaluationContext, o *Object, depth float64, out *Object, n *int) *ThrowSignal {
	length, sig := ToLength(ctx, mustGet(ctx, o, "length"))
	if sig != nil {
		return sig
	}
	for i := 0; i < int(length); i++ {
		if !arrayHas(o, i) {
			continue
		}
		v, sig := arrayGet(ctx, o, i)
		if sig != nil {
			return sig
		}
		if depth > 0 {
			if isArr, sig := IsArrayValue(ctx, v); sig == nil && isArr {
				if sig := flattenInto(ctx, v.(*Object), depth-1, out, n); sig != nil {
					return sig
				}
				continue
			} else if sig != nil {
				return sig
			}
		}
		arraySet(ctx, out, *n, v)
		*n++
	}
	return nil
}
