package jsvalue

// installObject wires the Object constructor's statics and
// Object.prototype's own methods (§4.D step 2/4/5).
func (r *Realm) installObject() {
	proto := r.ObjectPrototype

	r.defMethod(proto, "toString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if IsUndefined(this) {
			return String("[object Undefined]"), nil
		}
		if IsNull(this) {
			return String("[object Null]"), nil
		}
		o, sig := ToObject(ctx, this)
		if sig != nil {
			return nil, sig
		}
		tagVal, sig := GetSymbol(ctx, o, ctx.Realm.WellKnown.ToStringTag, o)
		if sig != nil {
			return nil, sig
		}
		if tag, ok := tagVal.(String); ok {
			return String("[object " + string(tag) + "]"), nil
		}
		class := o.Class
		if isArr, _ := IsArrayValue(ctx, o); isArr {
			class = "Array"
		} else if o.Callable != nil {
			class = "Function"
		}
		return String("[object " + class + "]"), nil
	})

	r.defMethod(proto, "toLocaleString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, this)
		if sig != nil {
			return nil, sig
		}
		toStringVal, sig := Get(ctx, o, "toString", o)
		if sig != nil {
			return nil, sig
		}
		if fn, ok := toStringVal.(*Object); ok && fn.Callable != nil {
			return fn.Callable.Invoke(ctx, o, nil)
		}
		return String("[object Object]"), nil
	})

	r.defMethod(proto, "valueOf", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return ToObject(ctx, this)
	})

	r.defMethod(proto, "hasOwnProperty", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if len(args) == 0 {
			return Boolean(o.HasOwn("undefined")), nil
		}
		key, sig := ToPropertyKey(ctx, args[0])
		if sig != nil {
			return nil, sig
		}
		if sym, ok := key.(*Symbol); ok {
			_, ok := o.GetOwnSymbolProperty(sym)
			return Boolean(ok), nil
		}
		return Boolean(o.HasOwn(string(key.(String)))), nil
	})

	r.defMethod(proto, "isPrototypeOf", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if len(args) == 0 {
			return Boolean(false), nil
		}
		target, ok := args[0].(*Object)
		if !ok {
			return Boolean(false), nil
		}
		for p := target.Prototype(); p != nil; p = p.Prototype() {
			if p == o {
				return Boolean(true), nil
			}
		}
		return Boolean(false), nil
	})

	r.defMethod(proto, "propertyIsEnumerable", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, this)
		if sig != nil {
			return nil, sig
		}
		key, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		d, ok := o.GetOwnProperty(key)
		if !ok {
			return Boolean(false), nil
		}
		return Boolean(d.Enumerable), nil
	})

	r.ObjectConstructor = r.newConstructor("Object", 1,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			if len(args) > 0 && !IsNullish(args[0]) {
				return ToObject(ctx, args[0])
			}
			return NewObject(r, r.ObjectPrototype), nil
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			if len(args) > 0 && !IsNullish(args[0]) {
				return ToObject(ctx, args[0])
			}
			return NewObject(r, r.ObjectPrototype), nil
		}, proto)

	r.defMethod(r.ObjectConstructor, "keys", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		var out []Value
		for _, k := range o.OwnStringKeys() {
			if d, ok := o.GetOwnProperty(k); ok && d.Enumerable {
				out = append(out, String(k))
			}
		}
		return r.NewArrayFromSlice(out), nil
	})
	r.defMethod(r.ObjectConstructor, "values", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		var out []Value
		for _, k := range o.OwnStringKeys() {
			d, ok := o.GetOwnProperty(k)
			if !ok || !d.Enumerable {
				continue
			}
			v, sig := Get(ctx, o, k, o)
			if sig != nil {
				return nil, sig
			}
			out = append(out, v)
		}
		return r.NewArrayFromSlice(out), nil
	})
	r.defMethod(r.ObjectConstructor, "entries", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		var out []Value
		for _, k := range o.OwnStringKeys() {
			d, ok := o.GetOwnProperty(k)
			if !ok || !d.Enumerable {
				continue
			}
			v, sig := Get(ctx, o, k, o)
			if sig != nil {
				return nil, sig
			}
			out = append(out, r.NewArrayFromSlice([]Value{String(k), v}))
		}
		return r.NewArrayFromSlice(out), nil
	})
	r.defMethod(r.ObjectConstructor, "assign", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if len(args) == 0 {
			return nil, ctx.ThrowType("Object.assign requires a target")
		}
		target, sig := ToObject(ctx, args[0])
		if sig != nil {
			return nil, sig
		}
		for _, src := range args[1:] {
			if IsNullish(src) {
				continue
			}
			srcObj, sig := ToObject(ctx, src)
			if sig != nil {
				return nil, sig
			}
			for _, k := range srcObj.OwnStringKeys() {
				d, ok := srcObj.GetOwnProperty(k)
				if !ok || !d.Enumerable {
					continue
				}
				v, sig := Get(ctx, srcObj, k, srcObj)
				if sig != nil {
					return nil, sig
				}
				if _, sig := Set(ctx, target, k, v); sig != nil {
					return nil, sig
				}
			}
		}
		return target, nil
	})
	r.defMethod(r.ObjectConstructor, "freeze", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if o, ok := firstArg(args).(*Object); ok {
			o.Freeze()
			return o, nil
		}
		return firstArg(args), nil
	})
	r.defMethod(r.ObjectConstructor, "isFrozen", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if o, ok := firstArg(args).(*Object); ok {
			return Boolean(o.IsFrozen()), nil
		}
		return Boolean(true), nil
	})
	r.defMethod(r.ObjectConstructor, "seal", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if o, ok := firstArg(args).(*Object); ok {
			o.Seal()
			return o, nil
		}
		return firstArg(args), nil
	})
	r.defMethod(r.ObjectConstructor, "isSealed", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if o, ok := firstArg(args).(*Object); ok {
			return Boolean(o.IsSealed()), nil
		}
		return Boolean(true), nil
	})
	r.defMethod(r.ObjectConstructor, "preventExtensions", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if o, ok := firstArg(args).(*Object); ok {
			o.PreventExtensions()
			return o, nil
		}
		return firstArg(args), nil
	})
	r.defMethod(r.ObjectConstructor, "isExtensible", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if o, ok := firstArg(args).(*Object); ok {
			return Boolean(o.IsExtensible()), nil
		}
		return Boolean(false), nil
	})
	r.defMethod(r.ObjectConstructor, "create", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		var proto *Object
		if len(args) > 0 && !IsNull(args[0]) {
			p, ok := args[0].(*Object)
			if !ok {
				return nil, ctx.ThrowType("Object prototype may only be an Object or null")
			}
			proto = p
		} else if len(args) == 0 {
			return nil, ctx.ThrowType("Object prototype may only be an Object or null")
		}
		o := NewObject(r, proto)
		if len(args) > 1 && !IsUndefined(args[1]) {
			if sig := definePropertiesFrom(ctx, o, args[1]); sig != nil {
				return nil, sig
			}
		}
		return o, nil
	})
	r.defMethod(r.ObjectConstructor, "getPrototypeOf", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		if p := o.Prototype(); p != nil {
			return p, nil
		}
		return Null, nil
	})
	r.defMethod(r.ObjectConstructor, "setPrototypeOf", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		var proto *Object
		if len(args) > 1 && !IsNull(args[1]) {
			p, ok := args[1].(*Object)
			if !ok {
				return nil, ctx.ThrowType("Object prototype may only be an Object or null")
			}
			proto = p
		}
		if !o.SetPrototype(proto) {
			return nil, ctx.ThrowType("#<Object> is not extensible")
		}
		return o, nil
	})
	r.defMethod(r.ObjectConstructor, "defineProperty", 3, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, ok := firstArg(args).(*Object)
		if !ok {
			return nil, ctx.ThrowType("Object.defineProperty called on non-object")
		}
		if len(args) < 2 {
			return nil, ctx.ThrowType("Object.defineProperty requires a property key")
		}
		key, sig := ToPropertyKey(ctx, args[1])
		if sig != nil {
			return nil, sig
		}
		var descSrc Value = Undefined
		if len(args) > 2 {
			descSrc = args[2]
		}
		desc, sig := toPropertyDescriptor(ctx, descSrc)
		if sig != nil {
			return nil, sig
		}
		var ok2 bool
		if sym, isSym := key.(*Symbol); isSym {
			ok2 = DefineOwnSymbolProperty(o, sym, desc)
		} else {
			ok2, sig = DefineOwnProperty(ctx, o, string(key.(String)), desc)
			if sig != nil {
				return nil, sig
			}
		}
		if !ok2 {
			return nil, ctx.ThrowType("Cannot define property, object is not extensible or property is not configurable")
		}
		return o, nil
	})
	r.defMethod(r.ObjectConstructor, "defineProperties", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, ok := firstArg(args).(*Object)
		if !ok {
			return nil, ctx.ThrowType("Object.defineProperties called on non-object")
		}
		var props Value = Undefined
		if len(args) > 1 {
			props = args[1]
		}
		if sig := definePropertiesFrom(ctx, o, props); sig != nil {
			return nil, sig
		}
		return o, nil
	})
	r.defMethod(r.ObjectConstructor, "getOwnPropertyDescriptor", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		key, sig := ToPropertyKey(ctx, secondArg(args))
		if sig != nil {
			return nil, sig
		}
		var d *PropertyDescriptor
		var has bool
		if sym, ok := key.(*Symbol); ok {
			d, has = o.GetOwnSymbolProperty(sym)
		} else {
			d, has = o.GetOwnProperty(string(key.(String)))
		}
		if !has {
			return Undefined, nil
		}
		return fromPropertyDescriptor(r, d), nil
	})
	r.defMethod(r.ObjectConstructor, "getOwnPropertyNames", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		keys := o.OwnStringKeys()
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = String(k)
		}
		return r.NewArrayFromSlice(out), nil
	})
	r.defMethod(r.ObjectConstructor, "getOwnPropertySymbols", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		syms := o.OwnSymbolKeys()
		out := make([]Value, len(syms))
		for i, s := range syms {
			out[i] = s
		}
		return r.NewArrayFromSlice(out), nil
	})
	r.defMethod(r.ObjectConstructor, "is", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return Boolean(SameValue(firstArg(args), secondArg(args))), nil
	})
	r.defMethod(r.ObjectConstructor, "fromEntries", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		items, sig := IterableOrArrayLikeToSlice(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		o := NewObject(r, r.ObjectPrototype)
		for _, item := range items {
			pair, ok := item.(*Object)
			if !ok {
				return nil, ctx.ThrowType("Iterator value is not an entry object")
			}
			k, sig := Get(ctx, pair, "0", pair)
			if sig != nil {
				return nil, sig
			}
			v, sig := Get(ctx, pair, "1", pair)
			if sig != nil {
				return nil, sig
			}
			key, sig := ToPropertyKey(ctx, k)
			if sig != nil {
				return nil, sig
			}
			if sym, ok := key.(*Symbol); ok {
				o.DefineOwnSymbol(sym, DataProperty(v, true, true, true))
			} else {
				CreateDataProperty(ctx, o, string(key.(String)), v)
			}
		}
		return o, nil
	})
}

func firstArg(args []Value) Value {
	if len(args) == 0 {
		return Undefined
	}
	return args[0]
}

func secondArg(args []Value) Value {
	if len(args) < 2 {
		return Undefined
	}
	return args[1]
}

// toPropertyDescriptor implements ToPropertyDescriptor (§6.2.6.5): it
// reads only the attributes actually present on descObj, which is what
// lets DefineOwnProperty distinguish "explicitly false" from "absent".
func toPropertyDescriptor(ctx *EvaluationContext, descVal Value) (*PropertyDescriptor, *ThrowSignal) {
	descObj, ok := descVal.(*Object)
	if !ok {
		return nil, ctx.ThrowType("Property description must be an object")
	}
	d := &PropertyDescriptor{}
	if HasProperty(descObj, "enumerable") {
		v, sig := Get(ctx, descObj, "enumerable", descObj)
		if sig != nil {
			return nil, sig
		}
		d.HasEnumerable, d.Enumerable = true, ToBoolean(v)
	}
	if HasProperty(descObj, "configurable") {
		v, sig := Get(ctx, descObj, "configurable", descObj)
		if sig != nil {
			return nil, sig
		}
		d.HasConfigurable, d.Configurable = true, ToBoolean(v)
	}
	if HasProperty(descObj, "value") {
		v, sig := Get(ctx, descObj, "value", descObj)
		if sig != nil {
			return nil, sig
		}
		d.HasValue, d.Value = true, v
	}
	if HasProperty(descObj, "writable") {
		v, sig := Get(ctx, descObj, "writable", descObj)
		if sig != nil {
			return nil, sig
		}
		d.HasWritable, d.Writable = true, ToBoolean(v)
	}
	if HasProperty(descObj, "get") {
		v, sig := Get(ctx, descObj, "get", descObj)
		if sig != nil {
			return nil, sig
		}
		if !IsUndefined(v) {
			fn, ok := v.(*Object)
			if !ok || fn.Callable == nil {
				return nil, ctx.ThrowType("Getter must be a function")
			}
			d.Get = fn
		}
		d.HasGet = true
	}
	if HasProperty(descObj, "set") {
		v, sig := Get(ctx, descObj, "set", descObj)
		if sig != nil {
			return nil, sig
		}
		if !IsUndefined(v) {
			fn, ok := v.(*Object)
			if !ok || fn.Callable == nil {
				return nil, ctx.ThrowType("Setter must be a function")
			}
			d.Set = fn
		}
		d.HasSet = true
	}
	if (d.HasGet || d.HasSet) && (d.HasValue || d.HasWritable) {
		return nil, ctx.ThrowType("Invalid property descriptor. Cannot both specify accessors and a value or writable attribute")
	}
	return d, nil
}

func fromPropertyDescriptor(r *Realm, d *PropertyDescriptor) *Object {
	o := NewObject(r, r.ObjectPrototype)
	if d.IsAccessor() {
		var get, set Value = Undefined, Undefined
		if d.Get != nil {
			get = d.Get
		}
		if d.Set != nil {
			set = d.Set
		}
		o.DefineOwn("get", DataProperty(get, true, true, true))
		o.DefineOwn("set", DataProperty(set, true, true, true))
	} else {
		o.DefineOwn("value", DataProperty(d.Value, true, true, true))
		o.DefineOwn("writable", DataProperty(Boolean(d.Writable), true, true, true))
	}
	o.DefineOwn("enumerable", DataProperty(Boolean(d.Enumerable), true, true, true))
	o.DefineOwn("configurable", DataProperty(Boolean(d.Configurable), true, true, true))
	return o
}

func definePropertiesFrom(ctx *EvaluationContext, o *Object, propsVal Value) *ThrowSignal {
	props, sig := ToObject(ctx, propsVal)
	if sig != nil {
		return sig
	}
	for _, k := range props.OwnStringKeys() {
		d, ok := props.GetOwnProperty(k)
		if !ok || !d.Enumerable {
			continue
		}
		v, sig := Get(ctx, props, k, props)
		if sig != nil {
			return sig
		}
		desc, sig := toPropertyDescriptor(ctx, v)
		if sig != nil {
			return sig
		}
		if ok, sig := DefineOwnProperty(ctx, o, k, desc); sig != nil {
			return sig
		} else if !ok {
			return ctx.ThrowType("Cannot define property %s", k)
		}
	}
	return nil
}
