package jsvalue

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// installJSON builds the JSON namespace object: parse (with optional
// reviver walk) and stringify (with optional replacer/space), following
// the same "ordinary object, not a constructor" shape as Math.
func (r *Realm) installJSON() {
	j := newBareObject(r, OrdinaryKind, "JSON")
	j.proto = r.ObjectPrototype
	j.DefineOwnSymbol(r.WellKnown.ToStringTag, DataProperty(String("JSON"), false, false, true))

	r.defMethod(j, "parse", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		text, sig := ToStringValue(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		p := &jsonParser{r: r, ctx: ctx, s: string(text)}
		v, sig := p.parseValue()
		if sig != nil {
			return nil, sig
		}
		p.skipWhitespace()
		if p.pos != len(p.s) {
			return nil, ctx.ThrowSyntax("Unexpected token in JSON at position %d", p.pos)
		}
		reviver, _ := secondArg(args).(*Object)
		if reviver != nil && reviver.Callable != nil {
			holder := r.newJSONHolder(nil)
			holder.DefineOwn("", DataProperty(v, true, true, true))
			return jsonRevive(ctx, holder, "", reviver)
		}
		return v, nil
	})

	r.defMethod(j, "stringify", 3, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		var replacerFn *Object
		var allowList map[string]bool
		if fn, ok := secondArg(args).(*Object); ok && fn.Callable != nil {
			replacerFn = fn
		} else if arr, ok := secondArg(args).(*Object); ok && arr.ObjKind == ArrayKind {
			allowList = make(map[string]bool)
			for _, k := range arr.OwnStringKeys() {
				v, sig := Get(ctx, arr, k, arr)
				if sig != nil {
					return nil, sig
				}
				switch x := v.(type) {
				case String:
					allowList[string(x)] = true
				case Number:
					allowList[FormatNumber(float64(x))] = true
				}
			}
		}

		indent := ""
		switch sp := thirdArg(args).(type) {
		case Number:
			n := int(sp)
			if n > 10 {
				n = 10
			}
			if n > 0 {
				indent = strings.Repeat(" ", n)
			}
		case String:
			indent = string(sp)
			if len(indent) > 10 {
				indent = indent[:10]
			}
		}

		w := &jsonWriter{r: r, ctx: ctx, indent: indent, replacer: replacerFn, allowList: allowList, seen: map[*Object]bool{}}
		holder := r.newJSONHolder(nil)
		holder.DefineOwn("", DataProperty(firstArg(args), true, true, true))
		out, ok, sig := w.str("", holder, "")
		if sig != nil {
			return nil, sig
		}
		if !ok {
			return Undefined, nil
		}
		return String(out), nil
	})

	r.Global.DefineOwn("JSON", DataProperty(j, true, false, true))
}

func thirdArg(args []Value) Value {
	if len(args) > 2 {
		return args[2]
	}
	return Undefined
}

// newJSONHolder allocates a bare ordinary object used as the root wrapper
// holder during JSON parse/stringify; a reviver or replacer receives it
// as `this` for the root ("") key.
func (r *Realm) newJSONHolder(proto *Object) *Object {
	if proto == nil {
		proto = r.ObjectPrototype
	}
	return NewObject(r, proto)
}

// ---- parse -----------------------------------------------------------

type jsonParser struct {
	r   *Realm
	ctx *EvaluationContext
	s   string
	pos int
}

func (p *jsonParser) skipWhitespace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *jsonParser) parseValue() (Value, *ThrowSignal) {
	p.skipWhitespace()
	if p.pos >= len(p.s) {
		return nil, p.ctx.ThrowSyntax("Unexpected end of JSON input")
	}
	switch c := p.s[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case c == 't':
		return p.parseLiteral("true", Boolean(true))
	case c == 'f':
		return p.parseLiteral("false", Boolean(false))
	case c == 'n':
		return p.parseLiteral("null", Null)
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, p.ctx.ThrowSyntax("Unexpected token %c in JSON at position %d", c, p.pos)
	}
}

func (p *jsonParser) parseLiteral(lit string, v Value) (Value, *ThrowSignal) {
	if !strings.HasPrefix(p.s[p.pos:], lit) {
		return nil, p.ctx.ThrowSyntax("Unexpected token in JSON at position %d", p.pos)
	}
	p.pos += len(lit)
	return v, nil
}

func (p *jsonParser) parseNumber() (Value, *ThrowSignal) {
	start := p.pos
	if p.pos < len(p.s) && p.s[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if p.pos < len(p.s) && p.s[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
	}
	if p.pos < len(p.s) && (p.s[p.pos] == 'e' || p.s[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.s) && (p.s[p.pos] == '+' || p.s[p.pos] == '-') {
			p.pos++
		}
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
	}
	f, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		return nil, p.ctx.ThrowSyntax("Unexpected number in JSON at position %d", start)
	}
	return Number(f), nil
}

func (p *jsonParser) parseString() (string, *ThrowSignal) {
	if p.s[p.pos] != '"' {
		return "", p.ctx.ThrowSyntax("Unexpected token in JSON at position %d", p.pos)
	}
	p.pos++
	var b strings.Builder
	for {
		if p.pos >= len(p.s) {
			return "", p.ctx.ThrowSyntax("Unterminated string in JSON")
		}
		c := p.s[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.s) {
				return "", p.ctx.ThrowSyntax("Unterminated string in JSON")
			}
			switch e := p.s[p.pos]; e {
			case '"', '\\', '/':
				b.WriteByte(e)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if p.pos+4 >= len(p.s) {
					return "", p.ctx.ThrowSyntax("Invalid unicode escape in JSON")
				}
				n, err := strconv.ParseUint(p.s[p.pos+1:p.pos+5], 16, 32)
				if err != nil {
					return "", p.ctx.ThrowSyntax("Invalid unicode escape in JSON")
				}
				b.WriteRune(rune(n))
				p.pos += 4
			default:
				return "", p.ctx.ThrowSyntax("Invalid escape in JSON at position %d", p.pos)
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *jsonParser) parseObject() (Value, *ThrowSignal) {
	p.pos++ // '{'
	o := NewObject(p.r, p.r.ObjectPrototype)
	p.skipWhitespace()
	if p.pos < len(p.s) && p.s[p.pos] == '}' {
		p.pos++
		return o, nil
	}
	for {
		p.skipWhitespace()
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if p.pos >= len(p.s) || p.s[p.pos] != ':' {
			return nil, p.ctx.ThrowSyntax("Expected ':' in JSON at position %d", p.pos)
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		o.DefineOwn(key, DataProperty(v, true, true, true))
		p.skipWhitespace()
		if p.pos >= len(p.s) {
			return nil, p.ctx.ThrowSyntax("Unterminated object in JSON")
		}
		if p.s[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.s[p.pos] == '}' {
			p.pos++
			return o, nil
		}
		return nil, p.ctx.ThrowSyntax("Expected ',' or '}' in JSON at position %d", p.pos)
	}
}

func (p *jsonParser) parseArray() (Value, *ThrowSignal) {
	p.pos++ // '['
	var elems []Value
	p.skipWhitespace()
	if p.pos < len(p.s) && p.s[p.pos] == ']' {
		p.pos++
		return p.r.NewArrayFromSlice(nil), nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		p.skipWhitespace()
		if p.pos >= len(p.s) {
			return nil, p.ctx.ThrowSyntax("Unterminated array in JSON")
		}
		if p.s[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.s[p.pos] == ']' {
			p.pos++
			return p.r.NewArrayFromSlice(elems), nil
		}
		return nil, p.ctx.ThrowSyntax("Expected ',' or ']' in JSON at position %d", p.pos)
	}
}

// jsonRevive implements the InternalizeJSONProperty walk: depth-first,
// objects and arrays before their own key, dropping any property the
// reviver returns undefined for.
func jsonRevive(ctx *EvaluationContext, holder *Object, name string, reviver *Object) (Value, *ThrowSignal) {
	val, sig := Get(ctx, holder, name, holder)
	if sig != nil {
		return nil, sig
	}
	if o, ok := val.(*Object); ok {
		if o.ObjKind == ArrayKind {
			length := arrayLength(o)
			for i := 0; i < length; i++ {
				key := strconv.Itoa(i)
				elem, sig := jsonRevive(ctx, o, key, reviver)
				if sig != nil {
					return nil, sig
				}
				if IsUndefined(elem) {
					Delete(o, key)
				} else {
					o.DefineOwn(key, DataProperty(elem, true, true, true))
				}
			}
		} else {
			for _, key := range o.OwnStringKeys() {
				elem, sig := jsonRevive(ctx, o, key, reviver)
				if sig != nil {
					return nil, sig
				}
				if IsUndefined(elem) {
					Delete(o, key)
				} else {
					o.DefineOwn(key, DataProperty(elem, true, true, true))
				}
			}
		}
	}
	return reviver.Callable.Invoke(ctx, holder, []Value{String(name), val})
}

// ---- stringify ---------------------------------------------------------

type jsonWriter struct {
	r         *Realm
	ctx       *EvaluationContext
	indent    string
	replacer  *Object
	allowList map[string]bool
	seen      map[*Object]bool
}

// str implements SerializeJSONProperty, returning (text, present, sig):
// present is false when the property must be omitted entirely (value was
// undefined, a function, or a symbol with no toJSON rescue).
func (w *jsonWriter) str(key string, holder *Object, curIndent string) (string, bool, *ThrowSignal) {
	v, sig := Get(w.ctx, holder, key, holder)
	if sig != nil {
		return "", false, sig
	}

	if o, ok := v.(*Object); ok {
		if toJSON, sig := Get(w.ctx, o, "toJSON", o); sig != nil {
			return "", false, sig
		} else if fn, ok := toJSON.(*Object); ok && fn.Callable != nil {
			v, sig = fn.Callable.Invoke(w.ctx, o, []Value{String(key)})
			if sig != nil {
				return "", false, sig
			}
		}
	}

	if w.replacer != nil {
		var sig *ThrowSignal
		v, sig = w.replacer.Callable.Invoke(w.ctx, holder, []Value{String(key), v})
		if sig != nil {
			return "", false, sig
		}
	}

	if o, ok := v.(*Object); ok {
		switch n := o.Data.(type) {
		case Number:
			if o.ObjKind == NumberWrapperKind {
				v = n
			}
		case String:
			if o.ObjKind == StringWrapperKind {
				v = n
			}
		case Boolean:
			if o.ObjKind == BooleanWrapperKind {
				v = n
			}
		}
	}

	switch x := v.(type) {
	case nullValue:
		return "null", true, nil
	case Boolean:
		if x {
			return "true", true, nil
		}
		return "false", true, nil
	case Number:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "null", true, nil
		}
		return FormatNumber(f), true, nil
	case String:
		return jsonQuote(string(x)), true, nil
	case *BigInt:
		return "", false, w.ctx.ThrowType("Do not know how to serialize a BigInt")
	case *Object:
		if x.Callable != nil {
			return "", false, nil
		}
		ok, sig := IsArrayValue(w.ctx, x)
		if sig != nil {
			return "", false, sig
		}
		if ok {
			out, sig := w.array(x, curIndent)
			return out, true, sig
		}
		out, sig := w.object(x, curIndent)
		return out, true, sig
	default:
		return "", false, nil
	}
}

func (w *jsonWriter) array(o *Object, curIndent string) (string, *ThrowSignal) {
	if w.seen[o] {
		return "", w.ctx.ThrowType("Converting circular structure to JSON")
	}
	w.seen[o] = true
	defer delete(w.seen, o)

	nextIndent := curIndent + w.indent
	length := arrayLength(o)
	if length == 0 {
		return "[]", nil
	}
	parts := make([]string, length)
	for i := 0; i < length; i++ {
		s, present, sig := w.str(strconv.Itoa(i), o, nextIndent)
		if sig != nil {
			return "", sig
		}
		if !present {
			s = "null"
		}
		parts[i] = s
	}
	return wrapJSON("[", "]", parts, curIndent, nextIndent, w.indent), nil
}

func (w *jsonWriter) object(o *Object, curIndent string) (string, *ThrowSignal) {
	if w.seen[o] {
		return "", w.ctx.ThrowType("Converting circular structure to JSON")
	}
	w.seen[o] = true
	defer delete(w.seen, o)

	nextIndent := curIndent + w.indent
	keys := o.OwnStringKeys()
	var parts []string
	for _, k := range keys {
		if w.allowList != nil && !w.allowList[k] {
			continue
		}
		desc, ok := o.GetOwnProperty(k)
		if !ok || !desc.Enumerable {
			continue
		}
		s, present, sig := w.str(k, o, nextIndent)
		if sig != nil {
			return "", sig
		}
		if !present {
			continue
		}
		sep := ":"
		if w.indent != "" {
			sep = ": "
		}
		parts = append(parts, jsonQuote(k)+sep+s)
	}
	if len(parts) == 0 {
		return "{}", nil
	}
	return wrapJSON("{", "}", parts, curIndent, nextIndent, w.indent), nil
}

func wrapJSON(open, close string, parts []string, curIndent, nextIndent, indent string) string {
	if indent == "" {
		return open + strings.Join(parts, ",") + close
	}
	return open + "\n" + nextIndent + strings.Join(parts, ",\n"+nextIndent) + "\n" + curIndent + close
}

func jsonQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range utf16.Encode([]rune(s)) {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\f':
			b.WriteString(`\f`)
		case r < 0x20:
			b.WriteString("\\u")
			hex := strconv.FormatUint(uint64(r), 16)
			b.WriteString(strings.Repeat("0", 4-len(hex)))
			b.WriteString(hex)
		default:
			b.WriteRune(rune(r))
		}
	}
	b.WriteByte('"')
	return b.String()
}
