package jsvalue

import "math"

func thisArrayBuffer(ctx *EvaluationContext, this Value) (*arrayBufferData, *Object, *ThrowSignal) {
	o, ok := this.(*Object)
	if !ok {
		return nil, nil, ctx.ThrowType("this is not an ArrayBuffer")
	}
	b, ok := o.Data.(*arrayBufferData)
	if !ok {
		return nil, nil, ctx.ThrowType("this is not an ArrayBuffer")
	}
	return b, o, nil
}

func thisTypedArray(ctx *EvaluationContext, this Value) (*typedArrayData, *Object, *ThrowSignal) {
	o, ok := this.(*Object)
	if !ok {
		return nil, nil, ctx.ThrowType("this is not a TypedArray")
	}
	ta, ok := o.Data.(*typedArrayData)
	if !ok {
		return nil, nil, ctx.ThrowType("this is not a TypedArray")
	}
	return ta, o, nil
}

func thisDataView(ctx *EvaluationContext, this Value) (*dataViewData, *ThrowSignal) {
	o, ok := this.(*Object)
	if !ok {
		return nil, ctx.ThrowType("this is not a DataView")
	}
	dv, ok := o.Data.(*dataViewData)
	if !ok {
		return nil, ctx.ThrowType("this is not a DataView")
	}
	return dv, nil
}

func (r *Realm) installArrayBufferAndViews() {
	r.installArrayBuffer()
	r.installDataView()
	r.installTypedArrayPrototype()
	for _, kind := range []TypedArrayKindID{
		Int8Kind, Uint8Kind, Uint8ClampedKind, Int16Kind, Uint16Kind,
		Int32Kind, Uint32Kind, Float32Kind, Float64Kind, BigInt64Kind, BigUint64Kind,
	} {
		r.installTypedArrayConstructor(r.TypedArrayKinds[kind])
	}
}

func (r *Realm) installArrayBuffer() {
	proto := r.ArrayBufferPrototype
	r.defAccessor(proto, "byteLength", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		b, _, sig := thisArrayBuffer(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if b.detached {
			return Number(0), nil
		}
		return Number(len(b.bytes)), nil
	}, nil)

	r.defMethod(proto, "slice", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		b, _, sig := thisArrayBuffer(ctx, this)
		if sig != nil {
			return nil, sig
		}
		n := len(b.bytes)
		start, sig := relativeIndexArg(ctx, args, 0, n, 0)
		if sig != nil {
			return nil, sig
		}
		end, sig := relativeIndexArg(ctx, args, 1, n, n)
		if sig != nil {
			return nil, sig
		}
		if end < start {
			end = start
		}
		out := r.NewArrayBuffer(end - start)
		copy(out.Data.(*arrayBufferData).bytes, b.bytes[start:end])
		return out, nil
	})

	r.ArrayBufferConstructor = r.newConstructor("ArrayBuffer", 1,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			n, sig := ToIntegerOrInfinity(ctx, firstArg(args))
			if sig != nil {
				return nil, sig
			}
			if n < 0 || math.IsInf(n, 0) {
				return nil, ctx.ThrowRange("Invalid array buffer length")
			}
			return r.NewArrayBuffer(int(n)), nil
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Constructor ArrayBuffer requires 'new'")
		}, proto)
	r.defMethod(r.ArrayBufferConstructor, "isView", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, ok := firstArg(args).(*Object)
		if !ok {
			return Boolean(false), nil
		}
		switch o.Data.(type) {
		case *typedArrayData, *dataViewData:
			return Boolean(true), nil
		}
		return Boolean(false), nil
	})
}

func relativeIndexArg(ctx *EvaluationContext, args []Value, i, length, dflt int) (int, *ThrowSignal) {
	if i >= len(args) || IsUndefined(args[i]) {
		return dflt, nil
	}
	n, sig := ToIntegerOrInfinity(ctx, args[i])
	if sig != nil {
		return 0, sig
	}
	return normalizeIndex(n, length), nil
}

func (r *Realm) installDataView() {
	proto := r.DataViewPrototype
	r.DataViewConstructor = r.newConstructor("DataView", 1,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			buf, ok := firstArg(args).(*Object)
			if !ok {
				return nil, ctx.ThrowType("First argument to DataView constructor must be an ArrayBuffer")
			}
			ab, ok := buf.Data.(*arrayBufferData)
			if !ok {
				return nil, ctx.ThrowType("First argument to DataView constructor must be an ArrayBuffer")
			}
			offset, sig := relativeIndexArg(ctx, args, 1, len(ab.bytes), 0)
			if sig != nil {
				return nil, sig
			}
			length := len(ab.bytes) - offset
			if len(args) > 2 && !IsUndefined(args[2]) {
				n, sig := ToIntegerOrInfinity(ctx, args[2])
				if sig != nil {
					return nil, sig
				}
				length = int(n)
			}
			if offset+length > len(ab.bytes) || offset < 0 || length < 0 {
				return nil, ctx.ThrowRange("Invalid DataView length")
			}
			o := newBareObject(r, DataViewKind, "DataView")
			o.proto = proto
			o.Data = &dataViewData{buffer: ab, byteOffset: offset, byteLength: length}
			return o, nil
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Constructor DataView requires 'new'")
		}, proto)

	r.defAccessor(proto, "buffer", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		dv, sig := thisDataView(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return r.wrapArrayBuffer(dv.buffer), nil
	}, nil)
	r.defAccessor(proto, "byteLength", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		dv, sig := thisDataView(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return Number(dv.byteLength), nil
	}, nil)
	r.defAccessor(proto, "byteOffset", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		dv, sig := thisDataView(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return Number(dv.byteOffset), nil
	}, nil)

	get := func(name string, size int, decode func([]byte, bool) Value) {
		r.defMethod(proto, name, 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			dv, sig := thisDataView(ctx, this)
			if sig != nil {
				return nil, sig
			}
			idx, sig := ToIntegerOrInfinity(ctx, firstArg(args))
			if sig != nil {
				return nil, sig
			}
			le := len(args) > 1 && ToBoolean(args[1])
			i := int(idx)
			if i < 0 || i+size > dv.byteLength {
				return nil, ctx.ThrowRange("Offset is outside the bounds of the DataView")
			}
			start := dv.byteOffset + i
			return decode(dv.buffer.bytes[start:start+size], le), nil
		})
	}
	set := func(name string, size int, encode func(*EvaluationContext, []byte, bool, Value) *ThrowSignal) {
		r.defMethod(proto, name, 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			dv, sig := thisDataView(ctx, this)
			if sig != nil {
				return nil, sig
			}
			idx, sig := ToIntegerOrInfinity(ctx, firstArg(args))
			if sig != nil {
				return nil, sig
			}
			le := len(args) > 2 && ToBoolean(args[2])
			i := int(idx)
			if i < 0 || i+size > dv.byteLength {
				return nil, ctx.ThrowRange("Offset is outside the bounds of the DataView")
			}
			start := dv.byteOffset + i
			if sig := encode(ctx, dv.buffer.bytes[start:start+size], le, secondArg(args)); sig != nil {
				return nil, sig
			}
			return Undefined, nil
		})
	}
	for _, kind := range []struct {
		name string
		id   TypedArrayKindID
	}{
		{"Int8", Int8Kind}, {"Uint8", Uint8Kind}, {"Int16", Int16Kind}, {"Uint16", Uint16Kind},
		{"Int32", Int32Kind}, {"Uint32", Uint32Kind}, {"Float32", Float32Kind}, {"Float64", Float64Kind},
		{"BigInt64", BigInt64Kind}, {"BigUint64", BigUint64Kind},
	} {
		info := r.TypedArrayKinds[kind.id]
		get("get"+kind.name, info.BytesPerElm, info.Read)
		set("set"+kind.name, info.BytesPerElm, func(ctx *EvaluationContext, b []byte, le bool, v Value) *ThrowSignal {
			return info.Write(ctx, b, v, le)
		})
	}
}

func (r *Realm) installTypedArrayPrototype() {
	proto := r.TypedArrayPrototype

	r.defAccessor(proto, "length", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return Number(ta.length()), nil
	}, nil)
	r.defAccessor(proto, "byteLength", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return Number(ta.length() * ta.kind.BytesPerElm), nil
	}, nil)
	r.defAccessor(proto, "byteOffset", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return Number(ta.byteOffset), nil
	}, nil)
	r.defAccessor(proto, "buffer", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return r.wrapArrayBuffer(ta.buffer), nil
	}, nil)

	r.defMethod(proto, "fill", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, o, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		start, sig := relativeIndexArg(ctx, args, 1, ta.length(), 0)
		if sig != nil {
			return nil, sig
		}
		end, sig := relativeIndexArg(ctx, args, 2, ta.length(), ta.length())
		if sig != nil {
			return nil, sig
		}
		for i := start; i < end; i++ {
			if _, sig := ta.setIndex(ctx, i, firstArg(args)); sig != nil {
				return nil, sig
			}
		}
		return o, nil
	})
	r.defMethod(proto, "set", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		offset, sig := relativeIndexArg(ctx, args, 1, ta.length(), 0)
		if sig != nil {
			return nil, sig
		}
		vals, sig := IterableOrArrayLikeToSlice(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		for i, v := range vals {
			if _, sig := ta.setIndex(ctx, offset+i, v); sig != nil {
				return nil, sig
			}
		}
		return Undefined, nil
	})
	r.defMethod(proto, "subarray", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		start, sig := relativeIndexArg(ctx, args, 0, ta.length(), 0)
		if sig != nil {
			return nil, sig
		}
		end, sig := relativeIndexArg(ctx, args, 1, ta.length(), ta.length())
		if sig != nil {
			return nil, sig
		}
		if end < start {
			end = start
		}
		return r.newTypedArrayView(ta.kind, ta.buffer, ta.byteOffset+start*ta.kind.BytesPerElm, end-start), nil
	})
	r.defMethod(proto, "slice", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		start, sig := relativeIndexArg(ctx, args, 0, ta.length(), 0)
		if sig != nil {
			return nil, sig
		}
		end, sig := relativeIndexArg(ctx, args, 1, ta.length(), ta.length())
		if sig != nil {
			return nil, sig
		}
		if end < start {
			end = start
		}
		out := r.newTypedArrayView(ta.kind, &arrayBufferData{bytes: make([]byte, (end-start)*ta.kind.BytesPerElm)}, 0, end-start)
		outTA := out.Data.(*typedArrayData)
		for i := start; i < end; i++ {
			v := ta.kind.Read(ta.byteSlice(i), true)
			_ = outTA.kind.Write(ctx, outTA.byteSlice(i-start), v, true)
		}
		return out, nil
	})
	r.defMethod(proto, "indexOf", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		for i := 0; i < ta.length(); i++ {
			v := ta.kind.Read(ta.byteSlice(i), true)
			if StrictEquals(v, firstArg(args)) {
				return Number(i), nil
			}
		}
		return Number(-1), nil
	})
	r.defMethod(proto, "includes", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		for i := 0; i < ta.length(); i++ {
			v := ta.kind.Read(ta.byteSlice(i), true)
			if SameValueZero(v, firstArg(args)) {
				return Boolean(true), nil
			}
		}
		return Boolean(false), nil
	})
	r.defMethod(proto, "join", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
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
		out := ""
		for i := 0; i < ta.length(); i++ {
			if i > 0 {
				out += sep
			}
			v := ta.kind.Read(ta.byteSlice(i), true)
			s, sig := ToStringValue(ctx, v)
			if sig != nil {
				return nil, sig
			}
			out += string(s)
		}
		return String(out), nil
	})
	r.defMethod(proto, "forEach", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, o, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		thisArg := secondArg(args)
		for i := 0; i < ta.length(); i++ {
			v := ta.kind.Read(ta.byteSlice(i), true)
			if _, sig := callFn(ctx, firstArg(args), thisArg, []Value{v, Number(i), o}, "forEach"); sig != nil {
				return nil, sig
			}
		}
		return Undefined, nil
	})
	r.defMethod(proto, "map", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, o, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		thisArg := secondArg(args)
		out := r.newTypedArrayView(ta.kind, &arrayBufferData{bytes: make([]byte, ta.length()*ta.kind.BytesPerElm)}, 0, ta.length())
		outTA := out.Data.(*typedArrayData)
		for i := 0; i < ta.length(); i++ {
			v := ta.kind.Read(ta.byteSlice(i), true)
			mapped, sig := callFn(ctx, firstArg(args), thisArg, []Value{v, Number(i), o}, "map")
			if sig != nil {
				return nil, sig
			}
			if sig := outTA.kind.Write(ctx, outTA.byteSlice(i), mapped, true); sig != nil {
				return nil, sig
			}
		}
		return out, nil
	})
	r.defMethod(proto, "reduce", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, o, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		i := 0
		var acc Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if ta.length() == 0 {
				return nil, ctx.ThrowType("Reduce of empty array with no initial value")
			}
			acc = ta.kind.Read(ta.byteSlice(0), true)
			i = 1
		}
		for ; i < ta.length(); i++ {
			v := ta.kind.Read(ta.byteSlice(i), true)
			acc, sig = callFn(ctx, firstArg(args), Undefined, []Value{acc, v, Number(i), o}, "reduce")
			if sig != nil {
				return nil, sig
			}
		}
		return acc, nil
	})
	r.defMethod(proto, "reverse", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, o, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		n := ta.length()
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			bi, bj := ta.byteSlice(i), ta.byteSlice(j)
			tmp := make([]byte, len(bi))
			copy(tmp, bi)
			copy(bi, bj)
			copy(bj, tmp)
		}
		return o, nil
	})
	r.defMethod(proto, "toString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		ta, _, sig := thisTypedArray(ctx, this)
		if sig != nil {
			return nil, sig
		}
		out := ""
		for i := 0; i < ta.length(); i++ {
			if i > 0 {
				out += ","
			}
			v := ta.kind.Read(ta.byteSlice(i), true)
			s, sig := ToStringValue(ctx, v)
			if sig != nil {
				return nil, sig
			}
			out += string(s)
		}
		return String(out), nil
	})

	r.TypedArrayConstructor = r.newConstructor("TypedArray", 0,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Abstract class TypedArray not directly constructable")
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Abstract class TypedArray not directly constructable")
		}, proto)
}

// newTypedArrayView wires a fresh TypedArray instance over an existing
// buffer, sharing storage (used by subarray) or a freshly allocated one
// (used by slice/map).
func (r *Realm) newTypedArrayView(kind *typedArrayKindInfo, buf *arrayBufferData, byteOffset, length int) *Object {
	o := newBareObject(r, TypedArrayKind, kind.Name)
	o.proto = kind.Prototype
	o.Data = &typedArrayData{buffer: buf, kind: kind, byteOffset: byteOffset, len: length}
	return o
}

func (r *Realm) installTypedArrayConstructor(kind *typedArrayKindInfo) {
	proto := NewObject(r, r.TypedArrayPrototype)
	kind.Prototype = proto

	construct := func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
		if len(args) == 0 {
			return r.newTypedArrayView(kind, &arrayBufferData{}, 0, 0), nil
		}
		switch v := args[0].(type) {
		case *Object:
			if ab, ok := v.Data.(*arrayBufferData); ok {
				offset, sig := relativeIndexArg(ctx, args, 1, len(ab.bytes), 0)
				if sig != nil {
					return nil, sig
				}
				length := (len(ab.bytes) - offset) / kind.BytesPerElm
				if len(args) > 2 && !IsUndefined(args[2]) {
					n, sig := ToIntegerOrInfinity(ctx, args[2])
					if sig != nil {
						return nil, sig
					}
					length = int(n)
				}
				if offset%kind.BytesPerElm != 0 || offset+length*kind.BytesPerElm > len(ab.bytes) {
					return nil, ctx.ThrowRange("Invalid typed array length")
				}
				return r.newTypedArrayView(kind, ab, offset, length), nil
			}
			if srcTA, ok := v.Data.(*typedArrayData); ok {
				out := r.newTypedArrayView(kind, &arrayBufferData{bytes: make([]byte, srcTA.length()*kind.BytesPerElm)}, 0, srcTA.length())
				outTA := out.Data.(*typedArrayData)
				for i := 0; i < srcTA.length(); i++ {
					val := srcTA.kind.Read(srcTA.byteSlice(i), true)
					if sig := outTA.kind.Write(ctx, outTA.byteSlice(i), val, true); sig != nil {
						return nil, sig
					}
				}
				return out, nil
			}
			vals, sig := IterableOrArrayLikeToSlice(ctx, v)
			if sig != nil {
				return nil, sig
			}
			out := r.newTypedArrayView(kind, &arrayBufferData{bytes: make([]byte, len(vals)*kind.BytesPerElm)}, 0, len(vals))
			outTA := out.Data.(*typedArrayData)
			for i, val := range vals {
				if sig := outTA.kind.Write(ctx, outTA.byteSlice(i), val, true); sig != nil {
					return nil, sig
				}
			}
			return out, nil
		default:
			n, sig := ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			if n < 0 {
				return nil, ctx.ThrowRange("Invalid typed array length")
			}
			return r.newTypedArrayView(kind, &arrayBufferData{bytes: make([]byte, int(n)*kind.BytesPerElm)}, 0, int(n)), nil
		}
	}
	ctor := r.newConstructor(kind.Name, 3, construct,
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Constructor %s requires 'new'", kind.Name)
		}, proto)
	ctor.proto = r.TypedArrayConstructor
	r.defMethod(ctor, "of", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return construct(ctx, []Value{r.NewArrayFromSlice(args)}, nil, nil)
	})
	r.defMethod(ctor, "from", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return construct(ctx, []Value{firstArg(args)}, nil, nil)
	})
	r.DefineOwnTypedArrayConstant(ctor, "BYTES_PER_ELEMENT", kind.BytesPerElm)
	r.DefineOwnTypedArrayConstant(proto, "BYTES_PER_ELEMENT", kind.BytesPerElm)
	kind.Constructor = ctor
}

func (r *Realm) DefineOwnTypedArrayConstant(o *Object, name string, n int) {
	o.DefineOwn(name, DataProperty(Number(n), false, false, false))
}
