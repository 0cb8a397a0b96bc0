package jsvalue

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// String values in this package are plain Go strings (UTF-8), per the
// doc comment on the String type in value.go. Every algorithm that cares
// about ECMAScript's UTF-16 code-unit indexing goes through the helpers
// below instead of ranging over the Go string directly.

func utf16Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func utf16Length(s string) int {
	return len(utf16Units(s))
}

func utf16FromUnits(units []uint16) string {
	return string(utf16.Decode(units))
}

// utf16Slice extracts the [start, end) code-unit range, clamped to the
// string's bounds. start/end are already non-negative, already-clamped
// ECMAScript integer indices by the time callers reach here.
func utf16Slice(s string, start, end int) string {
	units := utf16Units(s)
	if start < 0 {
		start = 0
	}
	if end > len(units) {
		end = len(units)
	}
	if start >= end {
		return ""
	}
	return utf16FromUnits(units[start:end])
}

// stringVirtual is the VirtualProvider backing a boxed String wrapper's
// indexed character access (§4.F): reading str[i] must not require
// materializing every index as a real own property.
type stringVirtual struct {
	s String
}

func (sv *stringVirtual) GetOwn(key string) (*PropertyDescriptor, bool) {
	idx, ok := canonicalNumericIndex(key)
	if !ok {
		return nil, false
	}
	units := utf16Units(string(sv.s))
	if idx < 0 || idx >= len(units) {
		return nil, false
	}
	return DataProperty(String(utf16FromUnits(units[idx:idx+1])), false, true, false), true
}

func (sv *stringVirtual) OwnKeys() []string {
	n := utf16Length(string(sv.s))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = strconv.Itoa(i)
	}
	return out
}

// ---- String.prototype / String constructor --------------------------------

func (r *Realm) installString() {
	proto := r.StringPrototype

	thisStringValue := func(ctx *EvaluationContext, this Value) (String, *ThrowSignal) {
		switch v := this.(type) {
		case String:
			return v, nil
		case *Object:
			if s, ok := v.Data.(String); ok && v.ObjKind == StringWrapperKind {
				return s, nil
			}
		}
		return "", ctx.ThrowType("String.prototype method called on incompatible receiver")
	}

	r.defMethod(proto, "toString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisStringValue(ctx, this)
		return s, sig
	})
	r.defMethod(proto, "valueOf", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisStringValue(ctx, this)
		return s, sig
	})

	r.defMethod(proto, "charAt", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		idx, sig := argInt(ctx, args, 0, 0)
		if sig != nil {
			return nil, sig
		}
		units := utf16Units(s)
		if idx < 0 || idx >= len(units) {
			return String(""), nil
		}
		return String(utf16FromUnits(units[idx : idx+1])), nil
	})

	r.defMethod(proto, "charCodeAt", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		idx, sig := argInt(ctx, args, 0, 0)
		if sig != nil {
			return nil, sig
		}
		units := utf16Units(s)
		if idx < 0 || idx >= len(units) {
			return Number(math.NaN()), nil
		}
		return Number(float64(units[idx])), nil
	})

	r.defMethod(proto, "codePointAt", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		idx, sig := argInt(ctx, args, 0, 0)
		if sig != nil {
			return nil, sig
		}
		units := utf16Units(s)
		if idx < 0 || idx >= len(units) {
			return Undefined, nil
		}
		first := units[idx]
		if first >= 0xD800 && first <= 0xDBFF && idx+1 < len(units) {
			second := units[idx+1]
			if second >= 0xDC00 && second <= 0xDFFF {
				cp := (uint32(first)-0xD800)*0x400 + (uint32(second) - 0xDC00) + 0x10000
				return Number(float64(cp)), nil
			}
		}
		return Number(float64(first)), nil
	})

	r.defMethod(proto, "at", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		n, sig := argInt(ctx, args, 0, 0)
		if sig != nil {
			return nil, sig
		}
		units := utf16Units(s)
		if n < 0 {
			n += len(units)
		}
		if n < 0 || n >= len(units) {
			return Undefined, nil
		}
		return String(utf16FromUnits(units[n : n+1])), nil
	})

	r.defMethod(proto, "indexOf", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		search, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		start := 0
		if len(args) > 1 {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			start = normalizeIndex(n, utf16Length(s))
		}
		units, searchUnits := utf16Units(s), utf16Units(search)
		idx := indexOfUnits(units, searchUnits, start)
		return Number(float64(idx)), nil
	})

	r.defMethod(proto, "lastIndexOf", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		search, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		units, searchUnits := utf16Units(s), utf16Units(search)
		best := -1
		for i := 0; i+len(searchUnits) <= len(units); i++ {
			if unitsEqual(units[i:i+len(searchUnits)], searchUnits) {
				best = i
			}
		}
		return Number(float64(best)), nil
	})

	r.defMethod(proto, "includes", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		search, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		return Boolean(strings.Contains(s, search)), nil
	})

	r.defMethod(proto, "startsWith", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		search, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		start := 0
		if len(args) > 1 {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			start = normalizeIndex(n, utf16Length(s))
		}
		units, searchUnits := utf16Units(s), utf16Units(search)
		if start+len(searchUnits) > len(units) {
			return Boolean(false), nil
		}
		return Boolean(unitsEqual(units[start:start+len(searchUnits)], searchUnits)), nil
	})

	r.defMethod(proto, "endsWith", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		search, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		units := utf16Units(s)
		end := len(units)
		if len(args) > 1 && !IsUndefined(args[1]) {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			end = normalizeIndex(n, len(units))
		}
		searchUnits := utf16Units(search)
		start := end - len(searchUnits)
		if start < 0 {
			return Boolean(false), nil
		}
		return Boolean(unitsEqual(units[start:end], searchUnits)), nil
	})

	r.defMethod(proto, "slice", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		length := utf16Length(s)
		start, end := 0, length
		if len(args) > 0 && !IsUndefined(args[0]) {
			n, sig := ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			start = normalizeIndex(n, length)
		}
		if len(args) > 1 && !IsUndefined(args[1]) {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			end = normalizeIndex(n, length)
		}
		return String(utf16Slice(s, start, end)), nil
	})

	r.defMethod(proto, "substring", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		length := utf16Length(s)
		start, end := 0, length
		if len(args) > 0 && !IsUndefined(args[0]) {
			n, sig := ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			start = clampInt(n, 0, length)
		}
		if len(args) > 1 && !IsUndefined(args[1]) {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			end = clampInt(n, 0, length)
		}
		if start > end {
			start, end = end, start
		}
		return String(utf16Slice(s, start, end)), nil
	})

	r.defMethod(proto, "substr", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		length := utf16Length(s)
		start := 0
		if len(args) > 0 {
			n, sig := ToIntegerOrInfinity(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			start = int(n)
			if start < 0 {
				start = maxInt(length+start, 0)
			}
		}
		count := length - start
		if len(args) > 1 && !IsUndefined(args[1]) {
			n, sig := ToIntegerOrInfinity(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			count = clampInt(n, 0, length-start)
		}
		if start >= length || count <= 0 {
			return String(""), nil
		}
		return String(utf16Slice(s, start, start+count)), nil
	})

	r.defMethod(proto, "concat", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		var b strings.Builder
		b.WriteString(s)
		for _, a := range args {
			as, sig := ToStringValue(ctx, a)
			if sig != nil {
				return nil, sig
			}
			b.WriteString(string(as))
		}
		return String(b.String()), nil
	})

	r.defMethod(proto, "toLowerCase", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(strings.ToLower(s)), nil
	})
	r.defMethod(proto, "toUpperCase", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(strings.ToUpper(s)), nil
	})
	r.defMethod(proto, "toLocaleLowerCase", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(localeLower(s)), nil
	})
	r.defMethod(proto, "toLocaleUpperCase", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(localeUpper(s)), nil
	})

	r.defMethod(proto, "trim", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(strings.TrimSpace(s)), nil
	})
	r.defMethod(proto, "trimStart", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(strings.TrimLeft(s, " \t\n\r\v\f ﻿")), nil
	})
	r.defMethod(proto, "trimEnd", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(strings.TrimRight(s, " \t\n\r\v\f ﻿")), nil
	})

	r.defMethod(proto, "padStart", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return stringPad(ctx, this, args, true)
	})
	r.defMethod(proto, "padEnd", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return stringPad(ctx, this, args, false)
	})

	r.defMethod(proto, "repeat", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		n, sig := argInt(ctx, args, 0, 0)
		if sig != nil {
			return nil, sig
		}
		if n < 0 {
			return nil, ctx.ThrowRange("Invalid count value")
		}
		return String(strings.Repeat(s, n)), nil
	})

	r.defMethod(proto, "split", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		limit := -1
		if len(args) > 1 && !IsUndefined(args[1]) {
			n, sig := ToUint32(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			limit = int(n)
		}
		if len(args) == 0 || IsUndefined(args[0]) {
			if limit == 0 {
				return r.NewArray(0), nil
			}
			return r.NewArrayFromSlice([]Value{String(s)}), nil
		}
		if !IsNullish(args[0]) {
			matcher, sig := getSymbolMethod(ctx, args[0], ctx.Realm.WellKnown.Split)
			if sig != nil {
				return nil, sig
			}
			if matcher != nil {
				limitArg := Undefined
				if len(args) > 1 {
					limitArg = args[1]
				}
				return matcher.Callable.Invoke(ctx, args[0], []Value{String(s), limitArg})
			}
		}
		sep, sig := ToStringValue(ctx, args[0])
		if sig != nil {
			return nil, sig
		}
		var parts []string
		if sep == "" {
			units := utf16Units(s)
			for _, u := range units {
				parts = append(parts, utf16FromUnits([]uint16{u}))
			}
		} else {
			parts = strings.Split(s, string(sep))
		}
		if limit >= 0 && limit < len(parts) {
			parts = parts[:limit]
		}
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = String(p)
		}
		return r.NewArrayFromSlice(out), nil
	})

	r.defMethod(proto, "replace", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return stringReplace(ctx, this, args, false)
	})
	r.defMethod(proto, "replaceAll", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return stringReplace(ctx, this, args, true)
	})

	r.defMethod(proto, "match", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		pattern := firstArg(args)
		if !IsNullish(pattern) {
			matcher, sig := getSymbolMethod(ctx, pattern, ctx.Realm.WellKnown.Match)
			if sig != nil {
				return nil, sig
			}
			if matcher != nil {
				return matcher.Callable.Invoke(ctx, pattern, []Value{String(s)})
			}
		}
		re, sig := coerceToRegExp(ctx, args, false)
		if sig != nil {
			return nil, sig
		}
		return regexpMatch(ctx, re, s)
	})
	r.defMethod(proto, "matchAll", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		pattern := firstArg(args)
		if po, ok := pattern.(*Object); ok {
			if po.ObjKind == RegExpKind && !po.Data.(*regexpData).global {
				return nil, ctx.ThrowType("String.prototype.matchAll called with a non-global RegExp argument")
			}
			matcher, sig := getSymbolMethod(ctx, pattern, ctx.Realm.WellKnown.MatchAll)
			if sig != nil {
				return nil, sig
			}
			if matcher != nil {
				return matcher.Callable.Invoke(ctx, pattern, []Value{String(s)})
			}
		}
		re, sig := coerceToRegExp(ctx, args, true)
		if sig != nil {
			return nil, sig
		}
		return regexpMatchAll(ctx, re, s)
	})
	r.defMethod(proto, "search", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		pattern := firstArg(args)
		if !IsNullish(pattern) {
			matcher, sig := getSymbolMethod(ctx, pattern, ctx.Realm.WellKnown.Search)
			if sig != nil {
				return nil, sig
			}
			if matcher != nil {
				return matcher.Callable.Invoke(ctx, pattern, []Value{String(s)})
			}
		}
		re, sig := coerceToRegExp(ctx, args, false)
		if sig != nil {
			return nil, sig
		}
		return regexpSearch(ctx, re, s)
	})

	r.defMethod(proto, "localeCompare", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		other, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		return Number(float64(strings.Compare(s, other))), nil
	})

	r.defMethod(proto, "normalize", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		form := "NFC"
		if len(args) > 0 && !IsUndefined(args[0]) {
			fs, sig := ToStringValue(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			form = string(fs)
		}
		out, sig := unicodeNormalize(ctx, s, form)
		if sig != nil {
			return nil, sig
		}
		return String(out), nil
	})

	r.defSymbolMethod(proto, r.WellKnown.Iterator, "[Symbol.iterator]", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return r.newStringIterator(s), nil
	})

	// Annex B HTML wrapper methods: fixed templates, attribute values
	// escaped by replacing '"' with &quot;.
	r.defMethod(proto, "anchor", 1, htmlWrapAttr("a", "name"))
	r.defMethod(proto, "link", 1, htmlWrapAttr("a", "href"))
	r.defMethod(proto, "bold", 0, htmlWrap("b"))
	r.defMethod(proto, "italics", 0, htmlWrap("i"))
	r.defMethod(proto, "big", 0, htmlWrap("big"))
	r.defMethod(proto, "blink", 0, htmlWrap("blink"))
	r.defMethod(proto, "fixed", 0, htmlWrap("tt"))
	r.defMethod(proto, "fontcolor", 1, htmlWrapAttr("font", "color"))
	r.defMethod(proto, "fontsize", 1, htmlWrapAttr("font", "size"))
	r.defMethod(proto, "small", 0, htmlWrap("small"))
	r.defMethod(proto, "strike", 0, htmlWrap("strike"))
	r.defMethod(proto, "sub", 0, htmlWrap("sub"))
	r.defMethod(proto, "sup", 0, htmlWrap("sup"))

	r.StringConstructor = r.newConstructor("String", 1,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			var s String
			if len(args) > 0 {
				if sym, ok := args[0].(*Symbol); ok {
					return r.NewStringWrapper(String(sym.String())), nil
				}
				sv, sig := ToStringValue(ctx, args[0])
				if sig != nil {
					return nil, sig
				}
				s = sv
			}
			return r.NewStringWrapper(s), nil
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			if len(args) == 0 {
				return String(""), nil
			}
			if sym, ok := args[0].(*Symbol); ok {
				return String(sym.String()), nil
			}
			return ToStringValue(ctx, args[0])
		}, proto)

	r.defMethod(r.StringConstructor, "fromCharCode", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		units := make([]uint16, len(args))
		for i, a := range args {
			n, sig := ToUint32(ctx, a)
			if sig != nil {
				return nil, sig
			}
			units[i] = uint16(n)
		}
		return String(utf16FromUnits(units)), nil
	})
	r.defMethod(r.StringConstructor, "fromCodePoint", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		var b strings.Builder
		for _, a := range args {
			n, sig := ToNumber(ctx, a)
			if sig != nil {
				return nil, sig
			}
			if n < 0 || n > 0x10FFFF || n != float64(int(n)) {
				return nil, ctx.ThrowRange("Invalid code point %v", n)
			}
			b.WriteRune(rune(int(n)))
		}
		return String(b.String()), nil
	})
	r.defMethod(r.StringConstructor, "raw", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if len(args) == 0 {
			return String(""), nil
		}
		cooked, ok := args[0].(*Object)
		if !ok {
			return String(""), nil
		}
		rawVal, sig := Get(ctx, cooked, "raw", cooked)
		if sig != nil {
			return nil, sig
		}
		raw, ok := rawVal.(*Object)
		if !ok {
			return String(""), nil
		}
		length, sig := ToLength(ctx, mustGet(ctx, raw, "length"))
		if sig != nil {
			return nil, sig
		}
		var b strings.Builder
		for i := 0; i < int(length); i++ {
			seg, sig := arrayGet(ctx, raw, i)
			if sig != nil {
				return nil, sig
			}
			segStr, sig := ToStringValue(ctx, seg)
			if sig != nil {
				return nil, sig
			}
			b.WriteString(string(segStr))
			if i+1 < len(args) {
				sub, sig := ToStringValue(ctx, args[i+1])
				if sig != nil {
					return nil, sig
				}
				b.WriteString(string(sub))
			}
		}
		return String(b.String()), nil
	})

	r.defMethod(r.StringConstructor, "escape", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := ToStringValue(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		return String(annexBEscape(string(s))), nil
	})
}

const htmlUnsafe = `"`

func htmlEscapeAttr(s string) string {
	return strings.ReplaceAll(s, htmlUnsafe, "&quot;")
}

func htmlWrap(tag string) func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
	return func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String("<" + tag + ">" + s + "</" + tag + ">"), nil
	}
}

func htmlWrapAttr(tag, attr string) func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
	return func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := requireStringish(ctx, this)
		if sig != nil {
			return nil, sig
		}
		val, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		return String("<" + tag + " " + attr + `="` + htmlEscapeAttr(val) + `">` + s + "</" + tag + ">"), nil
	}
}

// escapeUnreserved mirrors Annex B's escape() unescaped set.
const escapeUnreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789@*_+-./"

func annexBEscape(s string) string {
	var b strings.Builder
	for _, u := range utf16Units(s) {
		if u < 0x80 && strings.ContainsRune(escapeUnreserved, rune(u)) {
			b.WriteByte(byte(u))
			continue
		}
		if u <= 0xFF {
			b.WriteByte('%')
			b.WriteByte(hexDigit(byte(u >> 4)))
			b.WriteByte(hexDigit(byte(u & 0xf)))
			continue
		}
		b.WriteString("%u")
		b.WriteByte(hexDigit(byte(u >> 12 & 0xf)))
		b.WriteByte(hexDigit(byte(u >> 8 & 0xf)))
		b.WriteByte(hexDigit(byte(u >> 4 & 0xf)))
		b.WriteByte(hexDigit(byte(u & 0xf)))
	}
	return b.String()
}

func requireStringish(ctx *EvaluationContext, this Value) (string, *ThrowSignal) {
	if IsNullish(this) {
		return "", ctx.ThrowType("String.prototype method called on null or undefined")
	}
	s, sig := ToStringValue(ctx, this)
	if sig != nil {
		return "", sig
	}
	return string(s), nil
}

func argString(ctx *EvaluationContext, args []Value, i int) (string, *ThrowSignal) {
	if i >= len(args) {
		return "undefined", nil
	}
	s, sig := ToStringValue(ctx, args[i])
	if sig != nil {
		return "", sig
	}
	return string(s), nil
}

func argInt(ctx *EvaluationContext, args []Value, i int, def int) (int, *ThrowSignal) {
	if i >= len(args) {
		return def, nil
	}
	n, sig := ToIntegerOrInfinity(ctx, args[i])
	if sig != nil {
		return 0, sig
	}
	return int(n), nil
}

func clampInt(n float64, lo, hi int) int {
	if n < float64(lo) {
		return lo
	}
	if n > float64(hi) {
		return hi
	}
	return int(n)
}

func indexOfUnits(haystack, needle []uint16, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		if unitsEqual(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func unitsEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringPad(ctx *EvaluationContext, this Value, args []Value, atStart bool) (Value, *ThrowSignal) {
	s, sig := requireStringish(ctx, this)
	if sig != nil {
		return nil, sig
	}
	targetLen, sig := argInt(ctx, args, 0, 0)
	if sig != nil {
		return nil, sig
	}
	curLen := utf16Length(s)
	if targetLen <= curLen {
		return String(s), nil
	}
	filler := " "
	if len(args) > 1 && !IsUndefined(args[1]) {
		f, sig := ToStringValue(ctx, args[1])
		if sig != nil {
			return nil, sig
		}
		filler = string(f)
		if filler == "" {
			return String(s), nil
		}
	}
	need := targetLen - curLen
	fillerUnits := utf16Units(filler)
	pad := make([]uint16, 0, need)
	for len(pad) < need {
		pad = append(pad, fillerUnits...)
	}
	pad = pad[:need]
	padStr := utf16FromUnits(pad)
	if atStart {
		return String(padStr + s), nil
	}
	return String(s + padStr), nil
}

func (r *Realm) newStringIterator(s string) *Object {
	o := NewObject(r, r.ObjectPrototype)
	runes := []rune(s)
	index := 0
	r.defMethod(o, "next", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if index >= len(runes) {
			return r.NewIteratorResult(Undefined, true), nil
		}
		ch := string(runes[index])
		index++
		return r.NewIteratorResult(String(ch), false), nil
	})
	r.defSymbolMethod(o, r.WellKnown.Iterator, "[Symbol.iterator]", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return o, nil
	})
	return o
}
