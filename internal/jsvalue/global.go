package jsvalue

import (
	"math"
	"strings"
)

// installGlobal wires %GlobalObject%: the free-variable bindings every
// top-level evaluation resolves against (§4.D step 6, run last so every
// constructor and prototype already exists to be bound onto it).
func (r *Realm) installGlobal() {
	g := newBareObject(r, OrdinaryKind, "global")
	g.proto = r.ObjectPrototype
	r.Global = g

	bindValue := func(name string, v Value) {
		g.DefineOwn(name, DataProperty(v, false, false, false))
	}
	bindValue("undefined", Undefined)
	bindValue("NaN", Number(math.NaN()))
	bindValue("Infinity", Number(math.Inf(1)))
	g.DefineOwn("globalThis", DataProperty(g, true, false, true))

	bindCtor := func(name string, ctor *Object) {
		if ctor == nil {
			return
		}
		g.DefineOwn(name, DataProperty(ctor, true, false, true))
	}
	bindCtor("Object", r.ObjectConstructor)
	bindCtor("Function", r.FunctionConstructor)
	bindCtor("Array", r.ArrayConstructor)
	bindCtor("String", r.StringConstructor)
	bindCtor("Number", r.NumberConstructor)
	bindCtor("Boolean", r.BooleanConstructor)
	bindCtor("BigInt", r.BigIntConstructor)
	bindCtor("Symbol", r.SymbolConstructor)
	bindCtor("Date", r.DateConstructor)
	bindCtor("RegExp", r.RegExpConstructor)
	bindCtor("Error", r.ErrorConstructor)
	bindCtor("TypeError", r.TypeErrorConstructor)
	bindCtor("RangeError", r.RangeErrorConstructor)
	bindCtor("SyntaxError", r.SyntaxErrorConstructor)
	bindCtor("ReferenceError", r.ReferenceErrorConstructor)
	bindCtor("Map", r.MapConstructor)
	bindCtor("Set", r.SetConstructor)
	bindCtor("WeakMap", r.WeakMapConstructor)
	bindCtor("WeakSet", r.WeakSetConstructor)
	bindCtor("ArrayBuffer", r.ArrayBufferConstructor)
	bindCtor("DataView", r.DataViewConstructor)
	for _, kind := range r.TypedArrayKinds {
		bindCtor(kind.Name, kind.Constructor)
	}

	r.defMethod(g, "parseInt", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return globalParseInt(ctx, args)
	})
	r.defMethod(g, "parseFloat", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return globalParseFloat(ctx, args)
	})
	r.defMethod(g, "isNaN", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, sig := ToNumber(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		return Boolean(math.IsNaN(n)), nil
	})
	r.defMethod(g, "isFinite", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		n, sig := ToNumber(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		return Boolean(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	})
	r.defMethod(g, "encodeURI", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return uriEncode(ctx, args, uriReservedAndUnescaped)
	})
	r.defMethod(g, "encodeURIComponent", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return uriEncode(ctx, args, uriUnescaped)
	})
	r.defMethod(g, "decodeURI", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return uriDecode(ctx, args, uriReservedSet)
	})
	r.defMethod(g, "decodeURIComponent", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return uriDecode(ctx, args, "")
	})

	r.installMath()
	r.installJSON()
}

// globalParseInt implements the parseInt abstract semantics: trim
// whitespace, consume an optional sign, detect (or honor) a 0x/0X
// hexadecimal prefix, then consume the longest valid digit run for the
// resulting radix. No digits at all yields NaN.
func globalParseInt(ctx *EvaluationContext, args []Value) (Value, *ThrowSignal) {
	s, sig := ToStringValue(ctx, firstArg(args))
	if sig != nil {
		return nil, sig
	}
	radix := 0
	if len(args) > 1 && !IsUndefined(args[1]) {
		r64, sig := ToInt32(ctx, args[1])
		if sig != nil {
			return nil, sig
		}
		radix = int(r64)
	}

	str := strings.TrimSpace(string(s))
	neg := false
	if len(str) > 0 && (str[0] == '+' || str[0] == '-') {
		neg = str[0] == '-'
		str = str[1:]
	}

	stripPrefix := radix == 0 || radix == 16
	if stripPrefix && len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X') {
		str = str[2:]
		radix = 16
	}
	if radix == 0 {
		radix = 10
	}
	if radix < 2 || radix > 36 {
		return Number(math.NaN()), nil
	}

	digitVal := func(c byte) int {
		switch {
		case c >= '0' && c <= '9':
			return int(c - '0')
		case c >= 'a' && c <= 'z':
			return int(c-'a') + 10
		case c >= 'A' && c <= 'Z':
			return int(c-'A') + 10
		default:
			return -1
		}
	}

	end := 0
	for end < len(str) {
		d := digitVal(str[end])
		if d < 0 || d >= radix {
			break
		}
		end++
	}
	if end == 0 {
		return Number(math.NaN()), nil
	}

	var result float64
	for i := 0; i < end; i++ {
		result = result*float64(radix) + float64(digitVal(str[i]))
	}
	if neg {
		result = -result
	}
	return Number(result), nil
}

// globalParseFloat consumes the longest string prefix that matches a
// StrDecimalLiteral (sign, digits, optional fraction/exponent, or one of
// the Infinity spellings), ignoring anything that follows.
func globalParseFloat(ctx *EvaluationContext, args []Value) (Value, *ThrowSignal) {
	s, sig := ToStringValue(ctx, firstArg(args))
	if sig != nil {
		return nil, sig
	}
	str := strings.TrimSpace(string(s))

	i := 0
	if i < len(str) && (str[i] == '+' || str[i] == '-') {
		i++
	}
	if strings.HasPrefix(str[i:], "Infinity") {
		if str[0] == '-' {
			return Number(math.Inf(-1)), nil
		}
		return Number(math.Inf(1)), nil
	}

	sawDigit := false
	for i < len(str) && str[i] >= '0' && str[i] <= '9' {
		i++
		sawDigit = true
	}
	if i < len(str) && str[i] == '.' {
		i++
		for i < len(str) && str[i] >= '0' && str[i] <= '9' {
			i++
			sawDigit = true
		}
	}
	if !sawDigit {
		return Number(math.NaN()), nil
	}
	if i < len(str) && (str[i] == 'e' || str[i] == 'E') {
		j := i + 1
		if j < len(str) && (str[j] == '+' || str[j] == '-') {
			j++
		}
		if j < len(str) && str[j] >= '0' && str[j] <= '9' {
			for j < len(str) && str[j] >= '0' && str[j] <= '9' {
				j++
			}
			i = j
		}
	}
	return Number(stringToNumber(str[:i])), nil
}

const (
	uriUnescaped            = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"
	uriReservedSet          = ";/?:@&=+$,#"
	uriReservedAndUnescaped = uriUnescaped + uriReservedSet
)

func uriEncode(ctx *EvaluationContext, args []Value, keep string) (Value, *ThrowSignal) {
	s, sig := ToStringValue(ctx, firstArg(args))
	if sig != nil {
		return nil, sig
	}
	var b strings.Builder
	for _, r := range string(s) {
		if r < 0x80 && strings.ContainsRune(keep, r) {
			b.WriteByte(byte(r))
			continue
		}
		var buf [4]byte
		n := encodeRuneUTF8(buf[:], r)
		for _, by := range buf[:n] {
			b.WriteByte('%')
			b.WriteByte(hexDigit(by >> 4))
			b.WriteByte(hexDigit(by & 0xf))
		}
	}
	return String(b.String()), nil
}

func uriDecode(ctx *EvaluationContext, args []Value, keepEncoded string) (Value, *ThrowSignal) {
	s, sig := ToStringValue(ctx, firstArg(args))
	if sig != nil {
		return nil, sig
	}
	str := string(s)
	var out []byte
	for i := 0; i < len(str); i++ {
		if str[i] != '%' {
			out = append(out, str[i])
			continue
		}
		if i+2 >= len(str) {
			return nil, ctx.ThrowSyntax("URI malformed")
		}
		hi, ok1 := hexVal(str[i+1])
		lo, ok2 := hexVal(str[i+2])
		if !ok1 || !ok2 {
			return nil, ctx.ThrowSyntax("URI malformed")
		}
		by := byte(hi<<4 | lo)
		if by < 0x80 && strings.ContainsRune(keepEncoded, rune(by)) {
			out = append(out, str[i], str[i+1], str[i+2])
		} else {
			out = append(out, by)
		}
		i += 2
	}
	return String(string(out)), nil
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}

func hexVal(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

func encodeRuneUTF8(buf []byte, r rune) int {
	switch {
	case r < 0x80:
		buf[0] = byte(r)
		return 1
	case r < 0x800:
		buf[0] = 0xC0 | byte(r>>6)
		buf[1] = 0x80 | byte(r&0x3F)
		return 2
	case r < 0x10000:
		buf[0] = 0xE0 | byte(r>>12)
		buf[1] = 0x80 | byte((r>>6)&0x3F)
		buf[2] = 0x80 | byte(r&0x3F)
		return 3
	default:
		buf[0] = 0xF0 | byte(r>>18)
		buf[1] = 0x80 | byte((r>>12)&0x3F)
		buf[2] = 0x80 | byte((r>>6)&0x3F)
		buf[3] = 0x80 | byte(r&0x3F)
		return 4
	}
}
