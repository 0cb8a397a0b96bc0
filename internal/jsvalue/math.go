package jsvalue

import (
	"math"
	"math/rand"
)

// installMath builds the Math namespace object as an ordinary,
// non-constructible object (§4.D global bindings; Math is data, not a
// constructor, so it reuses newBareObject rather than newConstructor).
func (r *Realm) installMath() {
	m := newBareObject(r, OrdinaryKind, "Math")
	m.proto = r.ObjectPrototype
	m.DefineOwnSymbol(r.WellKnown.ToStringTag, DataProperty(String("Math"), false, false, true))

	constant := func(name string, v float64) {
		m.DefineOwn(name, DataProperty(Number(v), false, false, false))
	}
	constant("E", math.E)
	constant("LN10", math.Ln10)
	constant("LN2", math.Ln2)
	constant("LOG10E", 1/math.Ln10)
	constant("LOG2E", 1/math.Ln2)
	constant("PI", math.Pi)
	constant("SQRT1_2", math.Sqrt(0.5))
	constant("SQRT2", math.Sqrt2)

	unary := func(name string, fn func(float64) float64) {
		r.defMethod(m, name, 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			n, sig := ToNumber(ctx, firstArg(args))
			if sig != nil {
				return nil, sig
			}
			return Number(fn(n)), nil
		})
	}
	unary("abs", math.Abs)
	unary("ceil", math.Ceil)
	unary("floor", math.Floor)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("exp", math.Exp)
	unary("expm1", math.Expm1)
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("log1p", math.Log1p)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("sinh", math.Sinh)
	unary("cosh", math.Cosh)
	unary("tanh", math.Tanh)
	unary("asinh", math.Asinh)
	unary("acosh", math.Acosh)
	unary("atanh", math.Atanh)
	unary("sign", func(f float64) float64 {
		switch {
		case math.IsNaN(f) || f == 0:
			return f
		case f > 0:
			return 1
		default:
			return -1
		}
	})
	unary("round", func(f float64) float64 {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return f
		}
		// ToIntegerIfNumber rounds half-up, unlike math.Round's half-away-from-zero.
		return math.Floor(f + 0.5)
	})
	unary("fround", func(f float64) float64 { return float64(float32(f)) })
	unary("clz32", func(f float64) float64 {
		u := uint32(int64(f))
		n := 0
		for i := 31; i >= 0; i-- {
			if u&(1<<uint(i)) != 0 {
				break
			}
			n++
		}
		return float64(n)
	})

	r.defMethod(m, "pow", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		base, sig := ToNumber(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		exp, sig := ToNumber(ctx, secondArg(args))
		if sig != nil {
			return nil, sig
		}
		return Number(math.Pow(base, exp)), nil
	})
	r.defMethod(m, "atan2", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		y, sig := ToNumber(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		x, sig := ToNumber(ctx, secondArg(args))
		if sig != nil {
			return nil, sig
		}
		return Number(math.Atan2(y, x)), nil
	})
	r.defMethod(m, "imul", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		a, sig := ToInt32(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		b, sig := ToInt32(ctx, secondArg(args))
		if sig != nil {
			return nil, sig
		}
		return Number(int32(a * b)), nil
	})
	r.defMethod(m, "hypot", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		sum := 0.0
		for _, a := range args {
			n, sig := ToNumber(ctx, a)
			if sig != nil {
				return nil, sig
			}
			if math.IsInf(n, 0) {
				return Number(math.Inf(1)), nil
			}
			sum += n * n
		}
		return Number(math.Sqrt(sum)), nil
	})
	r.defMethod(m, "min", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return mathMinMax(ctx, args, true)
	})
	r.defMethod(m, "max", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return mathMinMax(ctx, args, false)
	})
	r.defMethod(m, "random", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return Number(rand.Float64()), nil
	})

	r.Global.DefineOwn("Math", DataProperty(m, true, false, true))
}

func mathMinMax(ctx *EvaluationContext, args []Value, isMin bool) (Value, *ThrowSignal) {
	result := math.Inf(1)
	if !isMin {
		result = math.Inf(-1)
	}
	for _, a := range args {
		n, sig := ToNumber(ctx, a)
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(n) {
			return Number(math.NaN()), nil
		}
		if isMin {
			if n < result || (n == 0 && result == 0 && math.Signbit(n)) {
				result = n
			}
		} else {
			if n > result || (n == 0 && result == 0 && !math.Signbit(n)) {
				result = n
			}
		}
	}
	return Number(result), nil
}
