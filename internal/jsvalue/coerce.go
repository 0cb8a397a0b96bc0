package jsvalue

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Hint selects how ToPrimitive resolves an object with no @@toPrimitive
// method.
type Hint uint8

const (
	HintDefault Hint = iota
	HintNumber
	HintString
)

func (h Hint) String() string {
	switch h {
	case HintString:
		return "string"
	case HintNumber:
		return "number"
	default:
		return "default"
	}
}

// ToPrimitive implements the abstract operation: non-objects pass
// through unchanged; objects consult @@toPrimitive first, then fall back
// to valueOf/toString ordered by hint (Date prefers string on "default").
func ToPrimitive(ctx *EvaluationContext, v Value, hint Hint) (Value, *ThrowSignal) {
	o, ok := v.(*Object)
	if !ok {
		return v, nil
	}
	exotic, sig := GetSymbol(ctx, o, ctx.Realm.WellKnown.ToPrimitive, o)
	if sig != nil {
		return nil, sig
	}
	if callableObj, ok := exotic.(*Object); ok && callableObj.Callable != nil {
		result, sig := callableObj.Callable.Invoke(ctx, o, []Value{String(hint.String())})
		if sig != nil {
			return nil, sig
		}
		if _, isObj := result.(*Object); isObj {
			return nil, ctx.ThrowType("Cannot convert object to primitive value")
		}
		return result, nil
	}
	order := []string{"valueOf", "toString"}
	if hint == HintString || (hint == HintDefault && o.ObjKind == DateKind) {
		order = []string{"toString", "valueOf"}
	}
	for _, name := range order {
		method, sig := Get(ctx, o, name, o)
		if sig != nil {
			return nil, sig
		}
		if m, ok := method.(*Object); ok && m.Callable != nil {
			result, sig := m.Callable.Invoke(ctx, o, nil)
			if sig != nil {
				return nil, sig
			}
			if _, isObj := result.(*Object); !isObj {
				return result, nil
			}
		}
	}
	return nil, ctx.ThrowType("Cannot convert object to primitive value")
}

// ToNumber implements the abstract operation, including the string
// grammar (hex/octal/binary prefixes, "Infinity", whitespace trimming).
func ToNumber(ctx *EvaluationContext, v Value) (float64, *ThrowSignal) {
	switch x := v.(type) {
	case nil, undefinedValue:
		return math.NaN(), nil
	case nullValue:
		return 0, nil
	case Boolean:
		if x {
			return 1, nil
		}
		return 0, nil
	case Number:
		return float64(x), nil
	case String:
		return stringToNumber(string(x)), nil
	case *BigInt:
		return 0, ctx.ThrowType("Cannot convert a BigInt value to a number")
	case *Symbol:
		return 0, ctx.ThrowType("Cannot convert a Symbol value to a number")
	case *Object:
		prim, sig := ToPrimitive(ctx, x, HintNumber)
		if sig != nil {
			return 0, sig
		}
		return ToNumber(ctx, prim)
	default:
		return math.NaN(), nil
	}
}

func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	switch t {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	lower := strings.ToLower(t)
	neg := false
	body := lower
	if strings.HasPrefix(body, "+") {
		body = body[1:]
	} else if strings.HasPrefix(body, "-") {
		neg = true
		body = body[1:]
	}
	base := 0
	switch {
	case strings.HasPrefix(body, "0x"):
		base = 16
		body = body[2:]
	case strings.HasPrefix(body, "0o"):
		base = 8
		body = body[2:]
	case strings.HasPrefix(body, "0b"):
		base = 2
		body = body[2:]
	}
	if base != 0 {
		if body == "" {
			return math.NaN()
		}
		n, err := strconv.ParseUint(body, base, 64)
		if err != nil {
			big, ok := new(big.Int).SetString(body, base)
			if !ok {
				return math.NaN()
			}
			f := new(big.Float).SetInt(big)
			r, _ := f.Float64()
			if neg {
				r = -r
			}
			return r
		}
		r := float64(n)
		if neg {
			r = -r
		}
		return r
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToStringValue implements ToString (the coercion, not ToPropertyKey or
// the legacy JSON naming) returning the language String value.
func ToStringValue(ctx *EvaluationContext, v Value) (String, *ThrowSignal) {
	switch x := v.(type) {
	case nil, undefinedValue:
		return "undefined", nil
	case nullValue:
		return "null", nil
	case Boolean:
		if x {
			return "true", nil
		}
		return "false", nil
	case Number:
		return String(FormatNumber(float64(x))), nil
	case String:
		return x, nil
	case *BigInt:
		return String(x.String()), nil
	case *Symbol:
		return "", ctx.ThrowType("Cannot convert a Symbol value to a string")
	case *Object:
		prim, sig := ToPrimitive(ctx, x, HintString)
		if sig != nil {
			return "", sig
		}
		return ToStringValue(ctx, prim)
	default:
		return "", nil
	}
}

// FormatNumber implements the Number::toString radix-10 algorithm's
// output shape (shortest round-tripping decimal, "Infinity"/"NaN").
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == 0 {
		return "0"
	}
	if a := math.Abs(f); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// ToInteger truncates toward zero, mapping NaN to 0 and infinities
// through (ToIntegerOrInfinity preserves them; this clamps to float64
// range which is a no-op in practice since they're already infinities).
func ToInteger(ctx *EvaluationContext, v Value) (float64, *ThrowSignal) {
	return ToIntegerOrInfinity(ctx, v)
}

// ToIntegerOrInfinity implements the abstract operation exactly: NaN and
// +0/-0 become 0, infinities pass through, everything else truncates
// toward zero.
func ToIntegerOrInfinity(ctx *EvaluationContext, v Value) (float64, *ThrowSignal) {
	f, sig := ToNumber(ctx, v)
	if sig != nil {
		return 0, sig
	}
	if math.IsNaN(f) {
		return 0, nil
	}
	if math.IsInf(f, 0) {
		return f, nil
	}
	return math.Trunc(f), nil
}

// ToLength clamps ToIntegerOrInfinity into [0, 2^53-1].
func ToLength(ctx *EvaluationContext, v Value) (float64, *ThrowSignal) {
	n, sig := ToIntegerOrInfinity(ctx, v)
	if sig != nil {
		return 0, sig
	}
	if n <= 0 {
		return 0, nil
	}
	const maxSafe = 1<<53 - 1
	if n > maxSafe {
		return maxSafe, nil
	}
	return n, nil
}

// ToInt32 / ToUint32 implement the bitwise-operator coercions.
func ToInt32(ctx *EvaluationContext, v Value) (int32, *ThrowSignal) {
	f, sig := ToNumber(ctx, v)
	if sig != nil {
		return 0, sig
	}
	return int32(toUint32Bits(f)), nil
}

func ToUint32(ctx *EvaluationContext, v Value) (uint32, *ThrowSignal) {
	f, sig := ToNumber(ctx, v)
	if sig != nil {
		return 0, sig
	}
	return toUint32Bits(f), nil
}

func toUint32Bits(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0
	}
	i := math.Trunc(f)
	m := math.Mod(i, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

// ToObject boxes a primitive per §4.C's wrapper kinds; objects pass
// through unchanged. undefined/null have no object form and throw.
func ToObject(ctx *EvaluationContext, v Value) (*Object, *ThrowSignal) {
	switch x := v.(type) {
	case *Object:
		return x, nil
	case nil, undefinedValue, nullValue:
		return nil, ctx.ThrowType("Cannot convert undefined or null to object")
	case Boolean:
		return ctx.Realm.NewBooleanWrapper(x), nil
	case Number:
		return ctx.Realm.NewNumberWrapper(x), nil
	case String:
		return ctx.Realm.NewStringWrapper(x), nil
	case *BigInt:
		return ctx.Realm.NewBigIntWrapper(x), nil
	case *Symbol:
		return ctx.Realm.NewSymbolWrapper(x), nil
	default:
		return nil, ctx.ThrowType("Cannot convert value to object")
	}
}

// ToPropertyKey coerces to either a String or a *Symbol, the only two
// valid property-key representations.
func ToPropertyKey(ctx *EvaluationContext, v Value) (Value, *ThrowSignal) {
	if sym, ok := v.(*Symbol); ok {
		return sym, nil
	}
	prim, sig := ToPrimitive(ctx, v, HintString)
	if sig != nil {
		return nil, sig
	}
	if sym, ok := prim.(*Symbol); ok {
		return sym, nil
	}
	s, sig := ToStringValue(ctx, prim)
	if sig != nil {
		return nil, sig
	}
	return s, nil
}

// SameValue implements the abstract operation: NaN equals itself, +0 and
// -0 are distinct.
func SameValue(a, b Value) bool {
	if a == nil {
		a = Undefined
	}
	if b == nil {
		b = Undefined
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case undefinedValue, nullValue:
		return true
	case Boolean:
		return x == b.(Boolean)
	case Number:
		y := b.(Number)
		if math.IsNaN(float64(x)) && math.IsNaN(float64(y)) {
			return true
		}
		if x == 0 && y == 0 {
			return math.Signbit(float64(x)) == math.Signbit(float64(y))
		}
		return x == y
	case String:
		return x == b.(String)
	case *BigInt:
		return x.Equal(b.(*BigInt))
	case *Symbol:
		return x == b.(*Symbol)
	case *Object:
		return x == b.(*Object)
	}
	return false
}

// SameValueZero is SameValue except +0 and -0 compare equal, matching
// the equality used by Array/TypedArray `includes` and Map/Set keys.
func SameValueZero(a, b Value) bool {
	if an, ok := a.(Number); ok {
		if bn, ok := b.(Number); ok {
			if math.IsNaN(float64(an)) && math.IsNaN(float64(bn)) {
				return true
			}
			return float64(an) == float64(bn)
		}
		return false
	}
	return SameValue(a, b)
}

// StrictEquals implements `===`: values of different kinds (Number vs
// BigInt included) are never equal, NaN is unequal to itself, and two
// BigInts compare by value. IndexOf/LastIndexOf are specified in terms
// of it and do not special-case BigInt themselves.
func StrictEquals(a, b Value) bool {
	if a == nil {
		a = Undefined
	}
	if b == nil {
		b = Undefined
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case undefinedValue, nullValue:
		return true
	case Boolean:
		return x == b.(Boolean)
	case Number:
		return float64(x) == float64(b.(Number))
	case String:
		return x == b.(String)
	case *BigInt:
		return x.Equal(b.(*BigInt))
	case *Symbol:
		return x == b.(*Symbol)
	case *Object:
		return x == b.(*Object)
	}
	return false
}

// NumericCompare orders two numeric values (Number or BigInt, possibly
// mixed) by mathematical value without ever rounding through a lossy
// float conversion, for use by relational operators and sort.
func NumericCompare(ctx *EvaluationContext, a, b Value) (int, *ThrowSignal) {
	an, aIsBig := a.(*BigInt)
	bn, bIsBig := b.(*BigInt)
	switch {
	case aIsBig && bIsBig:
		return an.Cmp(bn), nil
	case aIsBig && !bIsBig:
		bf, sig := ToNumber(ctx, b)
		if sig != nil {
			return 0, sig
		}
		return compareBigFloat(an.Int(), bf), nil
	case !aIsBig && bIsBig:
		af, sig := ToNumber(ctx, a)
		if sig != nil {
			return 0, sig
		}
		c := compareBigFloat(bn.Int(), af)
		if c == 2 {
			return 2, nil
		}
		return -c, nil
	default:
		af, sig := ToNumber(ctx, a)
		if sig != nil {
			return 0, sig
		}
		bf, sig := ToNumber(ctx, b)
		if sig != nil {
			return 0, sig
		}
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
}

func compareBigFloat(n *big.Int, f float64) int {
	if math.IsNaN(f) {
		return 2 // signal "unordered" to callers that check for it explicitly
	}
	bf := new(big.Float).SetPrec(200).SetInt(n)
	of := new(big.Float).SetPrec(200).SetFloat64(f)
	return bf.Cmp(of)
}
