package jsvalue

import (
	"math"
	"math/big"
	"strings"

	jserr "jsengine/internal/errors"
)

// BigInt wraps an arbitrary-precision integer as a language value.
type BigInt struct {
	v *big.Int
}

func (*BigInt) Kind() Kind { return KindBigInt }

// NewBigInt takes ownership of n; callers that still need the original
// must clone it first.
func NewBigInt(n *big.Int) *BigInt { return &BigInt{v: n} }

func NewBigIntFromInt64(n int64) *BigInt { return &BigInt{v: big.NewInt(n)} }

func (b *BigInt) Int() *big.Int { return b.v }
func (b *BigInt) Sign() int     { return b.v.Sign() }
func (b *BigInt) String() string { return b.v.String() }

func (b *BigInt) Equal(o *BigInt) bool { return b.v.Cmp(o.v) == 0 }
func (b *BigInt) Cmp(o *BigInt) int    { return b.v.Cmp(o.v) }

// ToBigInt implements the abstract operation: Boolean becomes 0n/1n,
// String is parsed per the StringToBigInt grammar (SyntaxError when it
// does not parse), finite-integer Number widens while any other Number
// raises RangeError, and Symbol/undefined/null raise TypeError.
// Objects are first reduced with ToPrimitive(hint "number").
func ToBigInt(ctx *EvaluationContext, v Value) (*BigInt, *ThrowSignal) {
	prim, sig := ToPrimitive(ctx, v, HintNumber)
	if sig != nil {
		return nil, sig
	}
	switch x := prim.(type) {
	case *BigInt:
		return x, nil
	case Boolean:
		if x {
			return NewBigIntFromInt64(1), nil
		}
		return NewBigIntFromInt64(0), nil
	case String:
		n, ok := StringToBigInt(string(x))
		if !ok {
			return nil, ctx.ThrowSyntax("Cannot convert %s to a BigInt", string(x))
		}
		return NewBigInt(n), nil
	case Number:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, ctx.ThrowRange("The number %v cannot be converted to a BigInt because it is not an integer", f)
		}
		bi, _ := big.NewFloat(f).Int(nil)
		return NewBigInt(bi), nil
	default:
		return nil, ctx.ThrowType("Cannot convert %s to a BigInt", TypeOf(prim))
	}
}

// StringToBigInt parses the StringToBigInt grammar: optional sign only
// with decimal, optional 0x/0b/0o radix prefixes, no trailing "n", empty
// (after trimming whitespace) string is zero.
func StringToBigInt(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return big.NewInt(0), true
	}
	neg := false
	body := s
	if strings.HasPrefix(body, "+") {
		body = body[1:]
	} else if strings.HasPrefix(body, "-") {
		neg = true
		body = body[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		if neg || strings.HasPrefix(s, "+") {
			return nil, false
		}
		base = 16
		body = body[2:]
	case strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B"):
		if neg || strings.HasPrefix(s, "+") {
			return nil, false
		}
		base = 2
		body = body[2:]
	case strings.HasPrefix(body, "0o") || strings.HasPrefix(body, "0O"):
		if neg || strings.HasPrefix(s, "+") {
			return nil, false
		}
		base = 8
		body = body[2:]
	}
	if body == "" || strings.HasSuffix(body, "n") {
		return nil, false
	}
	n, ok := new(big.Int).SetString(body, base)
	if !ok {
		return nil, false
	}
	if neg {
		n.Neg(n)
	}
	return n, true
}

// ToBigInt64 reduces n modulo 2^64 and reinterprets the result as signed.
func ToBigInt64(n *big.Int) int64 {
	mod := new(big.Int).Mod(n, twoPow64)
	if mod.Bit(63) == 1 {
		mod.Sub(mod, twoPow64)
	}
	return mod.Int64()
}

// ToBigUint64 reduces n modulo 2^64.
func ToBigUint64(n *big.Int) uint64 {
	mod := new(big.Int).Mod(n, twoPow64)
	return mod.Uint64()
}

var twoPow64 = new(big.Int).Lsh(big.NewInt(1), 64)

// bigIntError lets call sites construct a BigInt TypeError consistently
// without importing the errors package themselves.
func bigIntError(ctx *EvaluationContext, format string, args ...interface{}) *ThrowSignal {
	return ctx.throwKind(jserr.TypeError, format, args...)
}
