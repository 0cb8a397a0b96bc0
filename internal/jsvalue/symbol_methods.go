package jsvalue

func thisSymbolValue(ctx *EvaluationContext, this Value) (*Symbol, *ThrowSignal) {
	switch v := this.(type) {
	case *Symbol:
		return v, nil
	case *Object:
		if s, ok := v.Data.(*Symbol); ok {
			return s, nil
		}
	}
	return nil, ctx.ThrowType("Symbol.prototype method called on incompatible receiver")
}

func (r *Realm) installSymbol() {
	proto := r.SymbolPrototype

	r.defMethod(proto, "toString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSymbolValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(s.String()), nil
	})
	r.defMethod(proto, "valueOf", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return thisSymbolValue(ctx, this)
	})
	r.defAccessor(proto, "description", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSymbolValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if !s.HasDesc {
			return Undefined, nil
		}
		return String(s.Description), nil
	}, nil)
	r.defSymbolMethod(proto, r.WellKnown.ToPrimitive, "[Symbol.toPrimitive]", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return thisSymbolValue(ctx, this)
	})
	proto.DefineOwnSymbol(r.WellKnown.ToStringTag, DataProperty(String("Symbol"), false, false, true))

	r.SymbolConstructor = r.newConstructor("Symbol", 0,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Symbol is not a constructor")
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			if len(args) == 0 || IsUndefined(args[0]) {
				return NewSymbol("", false), nil
			}
			desc, sig := ToStringValue(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			return NewSymbol(string(desc), true), nil
		}, proto)

	r.defMethod(r.SymbolConstructor, "for", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		desc, sig := ToStringValue(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		return r.SymbolFor(string(desc)), nil
	})
	r.defMethod(r.SymbolConstructor, "keyFor", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, ok := firstArg(args).(*Symbol)
		if !ok {
			return nil, ctx.ThrowType("Symbol.keyFor requires a symbol argument")
		}
		if key, ok := r.SymbolKeyFor(s); ok {
			return String(key), nil
		}
		return Undefined, nil
	})

	wellKnown := func(name string, s *Symbol) {
		r.SymbolConstructor.DefineOwn(name, DataProperty(s, false, false, false))
	}
	wellKnown("iterator", r.WellKnown.Iterator)
	wellKnown("asyncIterator", r.WellKnown.AsyncIterator)
	wellKnown("match", r.WellKnown.Match)
	wellKnown("matchAll", r.WellKnown.MatchAll)
	wellKnown("replace", r.WellKnown.Replace)
	wellKnown("search", r.WellKnown.Search)
	wellKnown("split", r.WellKnown.Split)
	wellKnown("toPrimitive", r.WellKnown.ToPrimitive)
	wellKnown("toStringTag", r.WellKnown.ToStringTag)
	wellKnown("hasInstance", r.WellKnown.HasInstance)
	wellKnown("isConcatSpreadable", r.WellKnown.IsConcatSpreadable)
	wellKnown("unscopables", r.WellKnown.Unscopables)
}
