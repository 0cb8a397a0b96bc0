package jsvalue

import (
	"math"
	"math/big"
	"strconv"
)

const (
	maxSafeInteger = 9007199254740991
	minSafeInteger = -9007199254740991
	epsilon        = 2.220446049250313e-16
)

func thisNumberValue(ctx *EvaluationContext, this Value) (float64, *ThrowSignal) {
	switch v := this.(type) {
	case Number:
		return float64(v), nil
	case *Object:
		if n, ok := v.Data.(Number); ok && v.ObjKind == NumberWrapperKind {
			return float64(n), nil
		}
	}
	return 0, ctx.ThrowType("Number.prototype method called on incompatible receiver")
}

func (r *Realm) installNumber() {
	proto := r.NumberPrototype

	r.defMethod(proto, "valueOf", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, sig := thisNumberValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return Number(n), nil
	})
	r.defMethod(proto, "toString", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, sig := thisNumberValue(ctx, this)
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
		if radix == 10 {
			return String(FormatNumber(n)), nil
		}
		if math.IsNaN(n) {
			return String("NaN"), nil
		}
		if math.IsInf(n, 1) {
			return String("Infinity"), nil
		}
		if math.IsInf(n, -1) {
			return String("-Infinity"), nil
		}
		neg := n < 0
		if neg {
			n = -n
		}
		intPart, frac := math.Modf(n)
		s := strconv.FormatInt(int64(intPart), radix)
		if frac > 0 {
			s += "." + fracToRadix(frac, radix)
		}
		if neg {
			s = "-" + s
		}
		return String(s), nil
	})
	r.defMethod(proto, "toLocaleString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, sig := thisNumberValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(FormatNumber(n)), nil
	})
	r.defMethod(proto, "toFixed", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, sig := thisNumberValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		digits := 0
		if len(args) > 0 && !IsUndefined(args[0]) {
			di, sig := ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			digits = int(di)
		}
		if digits < 0 || digits > 100 {
			return nil, ctx.ThrowRange("toFixed() digits argument must be between 0 and 100")
		}
		if math.IsNaN(n) {
			return String("NaN"), nil
		}
		if math.Abs(n) >= 1e21 {
			return String(FormatNumber(n)), nil
		}
		return String(strconv.FormatFloat(n, 'f', digits, 64)), nil
	})
	r.defMethod(proto, "toPrecision", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, sig := thisNumberValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if len(args) == 0 || IsUndefined(args[0]) {
			return String(FormatNumber(n)), nil
		}
		p, sig := ToIntegerOrInfinity(ctx, args[0])
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return String(FormatNumber(n)), nil
		}
		if p < 1 || p > 100 {
			return nil, ctx.ThrowRange("toPrecision() argument must be between 1 and 100")
		}
		return String(strconv.FormatFloat(n, 'g', int(p), 64)), nil
	})
	r.defMethod(proto, "toExponential", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, sig := thisNumberValue(ctx, this)
		if sig != nil {
			return nil, sig
		}
		digits := -1
		if len(args) > 0 && !IsUndefined(args[0]) {
			di, sig := ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			digits = int(di)
		}
		s := strconv.FormatFloat(n, 'e', digits, 64)
		return String(normalizeExponent(s)), nil
	})

	r.NumberConstructor = r.newConstructor("Number", 1,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			n, sig := numberFromArgs(ctx, args)
			if sig != nil {
				return nil, sig
			}
			return r.NewNumberWrapper(Number(n)), nil
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			n, sig := numberFromArgs(ctx, args)
			if sig != nil {
				return nil, sig
			}
			return Number(n), nil
		}, proto)

	r.defMethod(r.NumberConstructor, "isFinite", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, ok := firstArg(args).(Number)
		return Boolean(ok && !math.IsNaN(float64(n)) && !math.IsInf(float64(n), 0)), nil
	})
	r.defMethod(r.NumberConstructor, "isNaN", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, ok := firstArg(args).(Number)
		return Boolean(ok && math.IsNaN(float64(n))), nil
	})
	r.defMethod(r.NumberConstructor, "isInteger", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, ok := firstArg(args).(Number)
		return Boolean(ok && !math.IsNaN(float64(n)) && !math.IsInf(float64(n), 0) && float64(n) == math.Trunc(float64(n))), nil
	})
	r.defMethod(r.NumberConstructor, "isSafeInteger", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, ok := firstArg(args).(Number)
		if !ok {
			return Boolean(false), nil
		}
		f := float64(n)
		return Boolean(!math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f) && f >= minSafeInteger && f <= maxSafeInteger), nil
	})
	r.defMethod(r.NumberConstructor, "parseFloat", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return globalParseFloat(ctx, args)
	})
	r.defMethod(r.NumberConstructor, "parseInt", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return globalParseInt(ctx, args)
	})

	constant := func(name string, v float64) {
		r.NumberConstructor.DefineOwn(name, DataProperty(Number(v), false, false, false))
	}
	constant("MAX_SAFE_INTEGER", maxSafeInteger)
	constant("MIN_SAFE_INTEGER", minSafeInteger)
	constant("MAX_VALUE", math.MaxFloat64)
	constant("MIN_VALUE", 5e-324)
	constant("EPSILON", epsilon)
	constant("POSITIVE_INFINITY", math.Inf(1))
	constant("NEGATIVE_INFINITY", math.Inf(-1))
	constant("NaN", math.NaN())
}

func numberFromArgs(ctx *EvaluationContext, args []Value) (float64, *ThrowSignal) {
	if len(args) == 0 {
		return 0, nil
	}
	if bi, ok := args[0].(*BigInt); ok {
		f, _ := new(big.Float).SetInt(bi.Int()).Float64()
		return f, nil
	}
	return ToNumber(ctx, args[0])
}

func fracToRadix(frac float64, radix int) string {
	const maxDigits = 20
	var b []byte
	digits := "0123456789abcdefghijklmnopqrstuvwxyz"
	for i := 0; i < maxDigits && frac > 0; i++ {
		frac *= float64(radix)
		d := int(frac)
		b = append(b, digits[d])
		frac -= float64(d)
	}
	return string(b)
}

func normalizeExponent(s string) string {
	// Go formats as "1e+05"; ECMAScript wants "1e+5" (no leading zero pad).
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' {
			sign := s[i+1]
			digits := s[i+2:]
			for len(digits) > 1 && digits[0] == '0' {
				digits = digits[1:]
			}
			return s[:i+1] + string(sign) + digits
		}
	}
	return s
}
