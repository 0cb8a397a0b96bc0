package jsvalue

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// regexpData is RegExp's internal-slot payload. lastIndex is tracked as
// an ordinary own property (writable per §4.F) rather than folded in
// here, matching how user code observes and can overwrite it.
type regexpData struct {
	re         *regexp2.Regexp
	source     string
	flags      string
	global     bool
	ignoreCase bool
	multiline  bool
	dotAll     bool
	unicode    bool
	sticky     bool
}

func compileRegExp(source, flags string) (*regexpData, error) {
	seen := map[rune]bool{}
	for _, f := range flags {
		if seen[f] {
			return nil, errors.New("duplicate regular expression flag")
		}
		seen[f] = true
	}
	var opts regexp2.RegexOptions
	d := &regexpData{source: source, flags: flags}
	for _, f := range flags {
		switch f {
		case 'g':
			d.global = true
		case 'i':
			d.ignoreCase = true
			opts |= regexp2.IgnoreCase
		case 'm':
			d.multiline = true
			opts |= regexp2.Multiline
		case 's':
			d.dotAll = true
			opts |= regexp2.Singleline
		case 'u':
			d.unicode = true
		case 'y':
			d.sticky = true
		default:
			return nil, errors.New("invalid regular expression flag")
		}
	}
	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, err
	}
	d.re = re
	return d, nil
}

// NewRegExp allocates a RegExp instance, compiling source/flags with
// regexp2 (chosen over RE2 for backreference and lookaround support that
// ECMAScript patterns routinely rely on).
func (r *Realm) NewRegExp(ctx *EvaluationContext, source, flags string) (*Object, *ThrowSignal) {
	d, err := compileRegExp(source, flags)
	if err != nil {
		return nil, ctx.ThrowSyntax("Invalid regular expression: /%s/%s: %v", source, flags, err)
	}
	o := newBareObject(r, RegExpKind, "RegExp")
	o.proto = r.RegExpPrototype
	o.Data = d
	o.DefineOwn("lastIndex", DataProperty(Number(0), true, false, false))
	return o, nil
}

func (r *Realm) installRegExp() {
	proto := r.RegExpPrototype

	r.defAccessor(proto, "source", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := thisRegExpData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(d.source), nil
	}, nil)
	r.defAccessor(proto, "flags", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := thisRegExpData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String(d.flags), nil
	}, nil)
	flagAccessor := func(name string, get func(d *regexpData) bool) {
		r.defAccessor(proto, name, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			d, sig := thisRegExpData(ctx, this)
			if sig != nil {
				return nil, sig
			}
			return Boolean(get(d)), nil
		}, nil)
	}
	flagAccessor("global", func(d *regexpData) bool { return d.global })
	flagAccessor("ignoreCase", func(d *regexpData) bool { return d.ignoreCase })
	flagAccessor("multiline", func(d *regexpData) bool { return d.multiline })
	flagAccessor("dotAll", func(d *regexpData) bool { return d.dotAll })
	flagAccessor("unicode", func(d *regexpData) bool { return d.unicode })
	flagAccessor("sticky", func(d *regexpData) bool { return d.sticky })

	r.defMethod(proto, "exec", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		re, ok := this.(*Object)
		if !ok || re.ObjKind != RegExpKind {
			return nil, ctx.ThrowType("RegExp.prototype.exec called on incompatible receiver")
		}
		s, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		return regexpExec(ctx, re, s)
	})

	r.defMethod(proto, "test", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		re, ok := this.(*Object)
		if !ok || re.ObjKind != RegExpKind {
			return nil, ctx.ThrowType("RegExp.prototype.test called on incompatible receiver")
		}
		s, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		result, sig := regexpExec(ctx, re, s)
		if sig != nil {
			return nil, sig
		}
		return Boolean(!IsNull(result)), nil
	})

	r.defMethod(proto, "toString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := thisRegExpData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return String("/" + d.source + "/" + d.flags), nil
	})

	r.defMethod(proto, "compile", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		re, ok := this.(*Object)
		if !ok || re.ObjKind != RegExpKind {
			return nil, ctx.ThrowType("RegExp.prototype.compile called on incompatible receiver")
		}
		source, flags := "", ""
		if len(args) > 0 {
			if pat, ok := args[0].(*Object); ok && pat.ObjKind == RegExpKind {
				if len(args) > 1 && !IsUndefined(args[1]) {
					return nil, ctx.ThrowType("Cannot supply flags when constructing one RegExp from another")
				}
				d := pat.Data.(*regexpData)
				source, flags = d.source, d.flags
			} else if !IsUndefined(args[0]) {
				s, sig := ToStringValue(ctx, args[0])
				if sig != nil {
					return nil, sig
				}
				source = string(s)
			}
		}
		if len(args) > 1 && !IsUndefined(args[1]) {
			f, sig := ToStringValue(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
			flags = string(f)
		}
		d, err := compileRegExp(source, flags)
		if err != nil {
			return nil, ctx.ThrowSyntax("Invalid regular expression: /%s/%s: %v", source, flags, err)
		}
		re.Data = d
		if sig := mustSetLastIndex(ctx, re); sig != nil {
			return nil, sig
		}
		return re, nil
	})

	r.defSymbolMethod(proto, r.WellKnown.Match, "[Symbol.match]", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		re, ok := this.(*Object)
		if !ok || re.ObjKind != RegExpKind {
			return nil, ctx.ThrowType("RegExp.prototype[Symbol.match] called on incompatible receiver")
		}
		s, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		return regexpMatch(ctx, re, s)
	})
	r.defSymbolMethod(proto, r.WellKnown.MatchAll, "[Symbol.matchAll]", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		re, ok := this.(*Object)
		if !ok || re.ObjKind != RegExpKind {
			return nil, ctx.ThrowType("RegExp.prototype[Symbol.matchAll] called on incompatible receiver")
		}
		if !re.Data.(*regexpData).global {
			return nil, ctx.ThrowType("RegExp.prototype[Symbol.matchAll] called with a non-global RegExp")
		}
		s, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		return regexpMatchAll(ctx, re, s)
	})
	r.defSymbolMethod(proto, r.WellKnown.Search, "[Symbol.search]", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		re, ok := this.(*Object)
		if !ok || re.ObjKind != RegExpKind {
			return nil, ctx.ThrowType("RegExp.prototype[Symbol.search] called on incompatible receiver")
		}
		s, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		return regexpSearch(ctx, re, s)
	})
	r.defSymbolMethod(proto, r.WellKnown.Split, "[Symbol.split]", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		re, ok := this.(*Object)
		if !ok || re.ObjKind != RegExpKind {
			return nil, ctx.ThrowType("RegExp.prototype[Symbol.split] called on incompatible receiver")
		}
		s, sig := argString(ctx, args, 0)
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
		return regexpSplit(ctx, re, s, limit)
	})
	r.defSymbolMethod(proto, r.WellKnown.Replace, "[Symbol.replace]", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		re, ok := this.(*Object)
		if !ok || re.ObjKind != RegExpKind {
			return nil, ctx.ThrowType("RegExp.prototype[Symbol.replace] called on incompatible receiver")
		}
		s, sig := argString(ctx, args, 0)
		if sig != nil {
			return nil, sig
		}
		var replacement Value = Undefined
		if len(args) > 1 {
			replacement = args[1]
		}
		return regexpReplace(ctx, re, s, replacement, re.Data.(*regexpData).global)
	})

	r.RegExpConstructor = r.newConstructor("RegExp", 2,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			return regexpConstruct(ctx, args)
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			if len(args) > 0 {
				if re, ok := args[0].(*Object); ok && re.ObjKind == RegExpKind && (len(args) < 2 || IsUndefined(args[1])) {
					return re, nil
				}
			}
			return regexpConstruct(ctx, args)
		}, proto)

	// Legacy constructor-level statics (Annex B §B.2.4): live on RegExp
	// itself, not on instances, and are only observable through RegExp,
	// matching how engines guard these getters against foreign receivers.
	legacyAccessor := func(name string, get func(l *RegExpLegacyStatics) string) {
		r.defAccessor(r.RegExpConstructor, name, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			if o, ok := this.(*Object); !ok || o != r.RegExpConstructor {
				return nil, ctx.ThrowType("Method RegExp.%s called on incompatible receiver", name)
			}
			return String(get(&ctx.Realm.RegexLegacy)), nil
		}, nil)
	}
	legacyAccessor("input", func(l *RegExpLegacyStatics) string { return l.Input })
	legacyAccessor("$_", func(l *RegExpLegacyStatics) string { return l.Input })
	legacyAccessor("lastMatch", func(l *RegExpLegacyStatics) string { return l.LastMatch })
	legacyAccessor("$&", func(l *RegExpLegacyStatics) string { return l.LastMatch })
	legacyAccessor("lastParen", func(l *RegExpLegacyStatics) string { return l.LastParen })
	legacyAccessor("$+", func(l *RegExpLegacyStatics) string { return l.LastParen })
	legacyAccessor("leftContext", func(l *RegExpLegacyStatics) string { return l.LeftContext })
	legacyAccessor("$`", func(l *RegExpLegacyStatics) string { return l.LeftContext })
	legacyAccessor("rightContext", func(l *RegExpLegacyStatics) string { return l.RightContext })
	legacyAccessor("$'", func(l *RegExpLegacyStatics) string { return l.RightContext })
	for i := 1; i <= 9; i++ {
		groupIndex := i - 1
		r.defAccessor(r.RegExpConstructor, "$"+strconv.Itoa(i), func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			if o, ok := this.(*Object); !ok || o != r.RegExpConstructor {
				return nil, ctx.ThrowType("Method RegExp.$%d called on incompatible receiver", groupIndex+1)
			}
			return String(ctx.Realm.RegexLegacy.Groups[groupIndex]), nil
		}, nil)
	}
}

func mustSetLastIndex(ctx *EvaluationContext, re *Object) *ThrowSignal {
	_, sig := Set(ctx, re, "lastIndex", Number(0))
	return sig
}

func regexpConstruct(ctx *EvaluationContext, args []Value) (Value, *ThrowSignal) {
	source, flags := "", ""
	if len(args) > 0 {
		if re, ok := args[0].(*Object); ok && re.ObjKind == RegExpKind {
			d := re.Data.(*regexpData)
			source, flags = d.source, d.flags
		} else if !IsUndefined(args[0]) {
			s, sig := ToStringValue(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			source = string(s)
		}
	}
	if len(args) > 1 && !IsUndefined(args[1]) {
		f, sig := ToStringValue(ctx, args[1])
		if sig != nil {
			return nil, sig
		}
		flags = string(f)
	}
	return ctx.Realm.NewRegExp(ctx, source, flags)
}

func thisRegExpData(ctx *EvaluationContext, this Value) (*regexpData, *ThrowSignal) {
	o, ok := this.(*Object)
	if !ok || o.ObjKind != RegExpKind {
		return nil, ctx.ThrowType("method called on incompatible receiver")
	}
	return o.Data.(*regexpData), nil
}

// regexpExec implements RegExpBuiltinExec (§21.2.5.2.2): it honors
// lastIndex for global/sticky matches, updates the legacy $1…$9 statics
// on success (§5 "Ordering"), and returns null on failure.
func regexpExec(ctx *EvaluationContext, re *Object, s string) (Value, *ThrowSignal) {
	d := re.Data.(*regexpData)
	start := 0
	if d.global || d.sticky {
		li, sig := ToLength(ctx, mustGet(ctx, re, "lastIndex"))
		if sig != nil {
			return nil, sig
		}
		start = int(li)
		if start > len(s) {
			Set(ctx, re, "lastIndex", Number(0))
			return Null, nil
		}
	}
	m, err := d.re.FindStringMatchStartingAt(s, start)
	if err != nil || m == nil {
		if d.global || d.sticky {
			Set(ctx, re, "lastIndex", Number(0))
		}
		return Null, nil
	}
	if d.sticky && m.Index != start {
		Set(ctx, re, "lastIndex", Number(0))
		return Null, nil
	}
	if d.global || d.sticky {
		Set(ctx, re, "lastIndex", Number(m.Index+m.Length))
	}
	ctx.Realm.updateLegacyStatics(s, m)
	return buildMatchResult(ctx, m, s), nil
}

func buildMatchResult(ctx *EvaluationContext, m *regexp2.Match, s string) *Object {
	groups := m.Groups()
	vals := make([]Value, len(groups))
	var namedGroups *Object
	for i, g := range groups {
		if i == 0 {
			vals[0] = String(m.String())
			continue
		}
		if len(g.Captures) == 0 {
			vals[i] = Undefined
		} else {
			vals[i] = String(g.String())
		}
		if g.Name != "" && g.Name != itoaLocal(i) {
			if namedGroups == nil {
				namedGroups = NewObject(ctx.Realm, nil)
			}
			namedGroups.DefineOwn(g.Name, DataProperty(vals[i], true, true, true))
		}
	}
	out := ctx.Realm.NewArrayFromSlice(vals)
	out.DefineOwn("index", DataProperty(Number(m.Index), true, true, true))
	out.DefineOwn("input", DataProperty(String(s), true, true, true))
	if namedGroups != nil {
		out.DefineOwn("groups", DataProperty(namedGroups, true, true, true))
	} else {
		out.DefineOwn("groups", DataProperty(Undefined, true, true, true))
	}
	return out
}

func itoaLocal(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func (r *Realm) updateLegacyStatics(input string, m *regexp2.Match) {
	r.RegexLegacy.Input = input
	r.RegexLegacy.LastMatch = m.String()
	r.RegexLegacy.LeftContext = input[:m.Index]
	if m.Index+m.Length <= len(input) {
		r.RegexLegacy.RightContext = input[m.Index+m.Length:]
	}
	groups := m.Groups()
	for i := 1; i <= 9; i++ {
		if i < len(groups) && len(groups[i].Captures) > 0 {
			r.RegexLegacy.Groups[i-1] = groups[i].String()
			r.RegexLegacy.LastParen = groups[i].String()
		} else {
			r.RegexLegacy.Groups[i-1] = ""
		}
	}
}

func coerceToRegExp(ctx *EvaluationContext, args []Value, forceGlobal bool) (*Object, *ThrowSignal) {
	var pattern Value = Undefined
	if len(args) > 0 {
		pattern = args[0]
	}
	if re, ok := pattern.(*Object); ok && re.ObjKind == RegExpKind {
		if forceGlobal {
			d := re.Data.(*regexpData)
			if !d.global {
				return nil, ctx.ThrowType("String.prototype.matchAll called with a non-global RegExp argument")
			}
		}
		return re, nil
	}
	source := ""
	if !IsUndefined(pattern) {
		s, sig := ToStringValue(ctx, pattern)
		if sig != nil {
			return nil, sig
		}
		source = string(s)
	}
	flags := ""
	if forceGlobal {
		flags = "g"
	}
	reObj, sig := ctx.Realm.NewRegExp(ctx, source, flags)
	if sig != nil {
		return nil, sig
	}
	return reObj, nil
}

func regexpMatch(ctx *EvaluationContext, re *Object, s string) (Value, *ThrowSignal) {
	d := re.Data.(*regexpData)
	if !d.global {
		return regexpExec(ctx, re, s)
	}
	Set(ctx, re, "lastIndex", Number(0))
	var results []Value
	for {
		result, sig := regexpExec(ctx, re, s)
		if sig != nil {
			return nil, sig
		}
		if IsNull(result) {
			break
		}
		matchStr := mustGet(ctx, result.(*Object), "0")
		results = append(results, matchStr)
		if ToStringOrEmpty(matchStr) == "" {
			li, _ := ToLength(ctx, mustGet(ctx, re, "lastIndex"))
			Set(ctx, re, "lastIndex", Number(li+1))
		}
	}
	if len(results) == 0 {
		return Null, nil
	}
	return ctx.Realm.NewArrayFromSlice(results), nil
}

func regexpMatchAll(ctx *EvaluationContext, re *Object, s string) (Value, *ThrowSignal) {
	d := re.Data.(*regexpData)
	clone, sig := ctx.Realm.NewRegExp(ctx, d.source, d.flags)
	if sig != nil {
		return nil, sig
	}
	li := mustGet(ctx, re, "lastIndex")
	Set(ctx, clone, "lastIndex", li)
	o := NewObject(ctx.Realm, ctx.Realm.ObjectPrototype)
	done := false
	ctx.Realm.defMethod(o, "next", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		if done {
			return ctx.Realm.NewIteratorResult(Undefined, true), nil
		}
		result, sig := regexpExec(ctx, clone, s)
		if sig != nil {
			return nil, sig
		}
		if IsNull(result) {
			done = true
			return ctx.Realm.NewIteratorResult(Undefined, true), nil
		}
		if !clone.Data.(*regexpData).global {
			done = true
		} else if ToStringOrEmpty(mustGet(ctx, result.(*Object), "0")) == "" {
			li, _ := ToLength(ctx, mustGet(ctx, clone, "lastIndex"))
			Set(ctx, clone, "lastIndex", Number(li+1))
		}
		return ctx.Realm.NewIteratorResult(result, false), nil
	})
	ctx.Realm.defSymbolMethod(o, ctx.Realm.WellKnown.Iterator, "[Symbol.iterator]", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return o, nil
	})
	return o, nil
}

func regexpSearch(ctx *EvaluationContext, re *Object, s string) (Value, *ThrowSignal) {
	prevLastIndex := mustGet(ctx, re, "lastIndex")
	Set(ctx, re, "lastIndex", Number(0))
	result, sig := regexpExec(ctx, re, s)
	if sig != nil {
		return nil, sig
	}
	Set(ctx, re, "lastIndex", prevLastIndex)
	if IsNull(result) {
		return Number(-1), nil
	}
	return mustGet(ctx, result.(*Object), "index"), nil
}

func regexpSplit(ctx *EvaluationContext, re *Object, s string, limit int) (Value, *ThrowSignal) {
	d := re.Data.(*regexpData)
	cloneFlags := d.flags
	if !strings.Contains(cloneFlags, "y") {
		cloneFlags += "y"
	}
	clone, sig := ctx.Realm.NewRegExp(ctx, d.source, cloneFlags)
	if sig != nil {
		return nil, sig
	}
	if limit == 0 {
		return ctx.Realm.NewArray(0), nil
	}
	if s == "" {
		m, err := clone.Data.(*regexpData).re.FindStringMatch(s)
		if err == nil && m != nil {
			return ctx.Realm.NewArray(0), nil
		}
		return ctx.Realm.NewArrayFromSlice([]Value{String("")}), nil
	}
	var out []Value
	lastEnd := 0
	pos := 0
	for pos < len(s) {
		Set(ctx, clone, "lastIndex", Number(pos))
		result, sig := regexpExec(ctx, clone, s)
		if sig != nil {
			return nil, sig
		}
		if IsNull(result) {
			pos++
			continue
		}
		ro := result.(*Object)
		idx := int(ToNumberOrZero(mustGet(ctx, ro, "index")))
		matchStr := ToStringOrEmpty(mustGet(ctx, ro, "0"))
		if idx == lastEnd && matchStr == "" {
			pos++
			continue
		}
		out = append(out, String(s[lastEnd:idx]))
		if limit >= 0 && len(out) >= limit {
			return ctx.Realm.NewArrayFromSlice(out), nil
		}
		length, _ := ToLength(ctx, mustGet(ctx, ro, "length"))
		for i := 1; i < int(length); i++ {
			out = append(out, mustGet(ctx, ro, itoaLocal(i)))
			if limit >= 0 && len(out) >= limit {
				return ctx.Realm.NewArrayFromSlice(out), nil
			}
		}
		lastEnd = idx + len(matchStr)
		pos = lastEnd
		if matchStr == "" {
			pos++
		}
	}
	out = append(out, String(s[lastEnd:]))
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return ctx.Realm.NewArrayFromSlice(out), nil
}

func ToNumberOrZero(v Value) float64 {
	if n, ok := v.(Number); ok {
		return float64(n)
	}
	return 0
}

// getSymbolMethod fetches a well-known symbol method off v, returning nil
// (not an error) when v isn't an object or doesn't implement it, so
// callers can fall through to the ordinary string-coercion behavior.
func getSymbolMethod(ctx *EvaluationContext, v Value, sym *Symbol) (*Object, *ThrowSignal) {
	o, ok := v.(*Object)
	if !ok {
		return nil, nil
	}
	m, sig := GetSymbol(ctx, o, sym, o)
	if sig != nil {
		return nil, sig
	}
	if fn, ok := m.(*Object); ok && fn.Callable != nil {
		return fn, nil
	}
	return nil, nil
}

func stringReplace(ctx *EvaluationContext, this Value, args []Value, all bool) (Value, *ThrowSignal) {
	s, sig := requireStringish(ctx, this)
	if sig != nil {
		return nil, sig
	}
	var pattern Value = Undefined
	var replacement Value = Undefined
	if len(args) > 0 {
		pattern = args[0]
	}
	if len(args) > 1 {
		replacement = args[1]
	}
	if po, ok := pattern.(*Object); ok {
		if po.ObjKind == RegExpKind && all && !po.Data.(*regexpData).global {
			return nil, ctx.ThrowType("replaceAll must be called with a global RegExp")
		}
		replacer, sig := getSymbolMethod(ctx, pattern, ctx.Realm.WellKnown.Replace)
		if sig != nil {
			return nil, sig
		}
		if replacer != nil {
			return replacer.Callable.Invoke(ctx, pattern, []Value{String(s), replacement})
		}
	}
	search := ""
	if !IsUndefined(pattern) {
		ss, sig := ToStringValue(ctx, pattern)
		if sig != nil {
			return nil, sig
		}
		search = string(ss)
	}
	replFn, isFn := replacement.(*Object)
	replaceOne := func(idx int) (string, *ThrowSignal) {
		if isFn && replFn.Callable != nil {
			result, sig := replFn.Callable.Invoke(ctx, Undefined, []Value{String(search), Number(idx), String(s)})
			if sig != nil {
				return "", sig
			}
			rs, sig := ToStringValue(ctx, result)
			if sig != nil {
				return "", sig
			}
			return string(rs), nil
		}
		rs, sig := ToStringValue(ctx, replacement)
		if sig != nil {
			return "", sig
		}
		return expandStringReplacement(string(rs), s, search, idx), nil
	}
	if !all {
		idx := strings.Index(s, search)
		if idx < 0 {
			return String(s), nil
		}
		repl, sig := replaceOne(idx)
		if sig != nil {
			return nil, sig
		}
		return String(s[:idx] + repl + s[idx+len(search):]), nil
	}
	if search == "" {
		return String(s), nil
	}
	var b strings.Builder
	rest := s
	offset := 0
	for {
		idx := strings.Index(rest, search)
		if idx < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:idx])
		repl, sig := replaceOne(offset + idx)
		if sig != nil {
			return nil, sig
		}
		b.WriteString(repl)
		rest = rest[idx+len(search):]
		offset += idx + len(search)
	}
	return String(b.String()), nil
}

func expandStringReplacement(repl, s, matched string, idx int) string {
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		if repl[i] == '$' && i+1 < len(repl) {
			switch repl[i+1] {
			case '$':
				b.WriteByte('$')
				i++
				continue
			case '&':
				b.WriteString(matched)
				i++
				continue
			case '`':
				b.WriteString(s[:idx])
				i++
				continue
			case '\'':
				b.WriteString(s[idx+len(matched):])
				i++
				continue
			}
		}
		b.WriteByte(repl[i])
	}
	return b.String()
}

func regexpReplace(ctx *EvaluationContext, re *Object, s string, replacement Value, global bool) (Value, *ThrowSignal) {
	if global {
		Set(ctx, re, "lastIndex", Number(0))
	}
	replFn, isFn := replacement.(*Object)
	var b strings.Builder
	lastEnd := 0
	for {
		result, sig := regexpExec(ctx, re, s)
		if sig != nil {
			return nil, sig
		}
		if IsNull(result) {
			break
		}
		ro := result.(*Object)
		idx := int(ToNumberOrZero(mustGet(ctx, ro, "index")))
		matched := ToStringOrEmpty(mustGet(ctx, ro, "0"))
		b.WriteString(s[lastEnd:idx])
		if isFn && replFn.Callable != nil {
			length, _ := ToLength(ctx, mustGet(ctx, ro, "length"))
			callArgs := []Value{}
			for i := 0; i < int(length); i++ {
				callArgs = append(callArgs, mustGet(ctx, ro, itoaLocal(i)))
			}
			callArgs = append(callArgs, Number(idx), String(s))
			out, sig := replFn.Callable.Invoke(ctx, Undefined, callArgs)
			if sig != nil {
				return nil, sig
			}
			os, sig := ToStringValue(ctx, out)
			if sig != nil {
				return nil, sig
			}
			b.WriteString(string(os))
		} else {
			rs, sig := ToStringValue(ctx, replacement)
			if sig != nil {
				return nil, sig
			}
			b.WriteString(expandStringReplacement(string(rs), s, matched, idx))
		}
		lastEnd = idx + len(matched)
		if !global {
			break
		}
		if matched == "" {
			li, _ := ToLength(ctx, mustGet(ctx, re, "lastIndex"))
			Set(ctx, re, "lastIndex", Number(li+1))
		}
	}
	b.WriteString(s[lastEnd:])
	return String(b.String()), nil
}
