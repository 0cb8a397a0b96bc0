package jsvalue

import "math/big"

func thisBigIntValue(ctx *EvaluationContext, this Value) (*BigInt, *ThrowSignal) {
	switch v := this.(type) {
	case *BigInt:
		return v, nil
	case *Object:
		if b, ok := v.Data.(*BigInt); ok && v.ObjKind == BigIntWrapperKind {
			return b, nil
		}
	}
	return nil, ctx.ThrowType("BigInt.prototype method called on incompatible receiver")
}

func (r *Realm) installBigInt() {
	proto := r.BigIntPrototype

	r.defMethod(proto, "valueOf", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		b, sig := thisBigIntValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return b, nil
	})
	r.defMethod(proto, "toString", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		b, sig := thisBigIntValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		radix := 10
		if len(args) > 0 && !IsUndefined(args[0]) {
			ri, sig := ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			radix = int(ri)
		}
		if radix < 2 || radix > 36 {
			return nil, ctx.ThrowRange("toString() radix must be between 2 and 36")
		}
		return String(b.Int().Text(radix)), nil
	})
	r.defMethod(proto, "toLocaleString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		b, sig := thisBigIntValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(b.String()), nil
	})
	proto.DefineOwnSymbol(r.WellKnown.ToStringTag, DataProperty(String("BigInt"), false, false, true))

	r.BigIntConstructor = r.newConstructor("BigInt", 1,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("BigInt is not a constructor")
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			b, sig := ToBigInt(ctx, firstArg(args))
			if sig != nil {
				return nil, sig
			}
			return b, nil
		}, proto)

	r.defMethod(r.BigIntConstructor, "asIntN", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return bigIntAsN(ctx, args, true)
	})
	r.defMethod(r.BigIntConstructor, "asUintN", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return bigIntAsN(ctx, args, false)
	})
}

func bigIntAsN(ctx *EvaluationContext, args []Value, signed bool) (Value, *ThrowSignal) {
	bits, sig := ToIntegerOrInfinity(ctx, firstArg(args))
	if sig != nil {
		return nil, sig
	}
	if bits < 0 {
		return nil, ctx.ThrowRange("bits must be a non-negative integer")
	}
	bi, sig := ToBigInt(ctx, secondArg(args))
	if sig != nil {
		return nil, sig
	}
	if bits == 0 {
		return NewBigInt(big.NewInt(0)), nil
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	n := new(big.Int).Mod(bi.Int(), mod)
	if n.Sign() < 0 {
		n.Add(n, mod)
	}
	if signed {
		half := new(big.Int).Rsh(mod, 1)
		if n.Cmp(half) >= 0 {
			n.Sub(n, mod)
		}
	}
	return NewBigInt(n), nil
}
