package jsvalue

func thisBooleanValue(ctx *EvaluationContext, this Value) (bool, *ThrowSignal) {
	switch v := this.(type) {
	case Boolean:
		return bool(v), nil
	case *Object:
		if b, ok := v.Data.(Boolean); ok && v.ObjKind == BooleanWrapperKind {
			return bool(b), nil
		}
	}
	return false, ctx.ThrowType("Boolean.prototype method called on incompatible receiver")
}

func (r *Realm) installBoolean() {
	proto := r.BooleanPrototype

	r.defMethod(proto, "valueOf", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		b, sig := thisBooleanValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return Boolean(b), nil
	})
	r.defMethod(proto, "toString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		b, sig := thisBooleanValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if b {
			return String("true"), nil
		}
		return String("false"), nil
	})

	r.BooleanConstructor = r.newConstructor("Boolean", 1,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			return r.NewBooleanWrapper(Boolean(ToBoolean(firstArg(args)))), nil
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return Boolean(ToBoolean(firstArg(args))), nil
		}, proto)
}
