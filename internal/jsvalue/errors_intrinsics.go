package jsvalue

import jserr "jsengine/internal/errors"

// installErrors wires Error.prototype and the four native subtype
// constructors (TypeError, RangeError, SyntaxError, ReferenceError),
// each inheriting Error.prototype.toString through its own name/message
// own properties rather than overriding toString itself.
func (r *Realm) installErrors() {
	r.defMethod(r.ErrorPrototype, "toString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, ok := this.(*Object)
		if !ok {
			return nil, ctx.ThrowType("Error.prototype.toString requires an object receiver")
		}
		nameVal, sig := Get(ctx, o, "name", o)
		if sig != nil {
			return nil, sig
		}
		name := "Error"
		if !IsUndefined(nameVal) {
			s, sig := ToStringValue(ctx, nameVal)
			if sig != nil {
				return nil, sig
			}
			name = string(s)
		}
		msgVal, sig := Get(ctx, o, "message", o)
		if sig != nil {
			return nil, sig
		}
		msg := ""
		if !IsUndefined(msgVal) {
			s, sig := ToStringValue(ctx, msgVal)
			if sig != nil {
				return nil, sig
			}
			msg = string(s)
		}
		if msg == "" {
			return String(name), nil
		}
		if name == "" {
			return String(msg), nil
		}
		return String(name + ": " + msg), nil
	})
	r.ErrorPrototype.DefineOwn("name", DataProperty(String("Error"), true, false, true))
	r.ErrorPrototype.DefineOwn("message", DataProperty(String(""), true, false, true))

	r.ErrorConstructor = r.newErrorConstructor("Error", r.ErrorPrototype, jserr.Error, nil)
	r.TypeErrorConstructor = r.newErrorConstructor("TypeError", r.TypeErrorPrototype, jserr.TypeError, r.ErrorConstructor)
	r.RangeErrorConstructor = r.newErrorConstructor("RangeError", r.RangeErrorPrototype, jserr.RangeError, r.ErrorConstructor)
	r.SyntaxErrorConstructor = r.newErrorConstructor("SyntaxError", r.SyntaxErrorPrototype, jserr.SyntaxError, r.ErrorConstructor)
	r.ReferenceErrorConstructor = r.newErrorConstructor("ReferenceError", r.ReferenceErrorPrototype, jserr.ReferenceError, r.ErrorConstructor)

	for _, sub := range []struct {
		proto *Object
		name  string
	}{
		{r.TypeErrorPrototype, "TypeError"},
		{r.RangeErrorPrototype, "RangeError"},
		{r.SyntaxErrorPrototype, "SyntaxError"},
		{r.ReferenceErrorPrototype, "ReferenceError"},
	} {
		sub.proto.DefineOwn("name", DataProperty(String(sub.name), true, false, true))
	}
}

// newErrorConstructor builds one native error constructor. message and
// (if present) cause.cause are installed as own properties on the new
// instance per §20.5.1.1; the prototype chain distinguishes the
// subtypes, not an override of toString.
func (r *Realm) newErrorConstructor(name string, proto *Object, kind jserr.Kind, parentCtor *Object) *Object {
	build := func(ctx *EvaluationContext, args []Value, newTarget *Object) (Value, *ThrowSignal) {
		o := newBareObject(r, OrdinaryKind, "Error")
		o.proto = proto
		if newTarget != nil {
			if protoVal, sig := Get(ctx, newTarget, "prototype", newTarget); sig == nil {
				if p, ok := protoVal.(*Object); ok {
					o.proto = p
				}
			}
		}
		if len(args) > 0 && !IsUndefined(args[0]) {
			msg, sig := ToStringValue(ctx, args[0])
			if sig != nil {
				return nil, sig
			}
			o.DefineOwn("message", DataProperty(msg, true, false, true))
		}
		if len(args) > 1 {
			if opts, ok := args[1].(*Object); ok && HasProperty(opts, "cause") {
				causeVal, sig := Get(ctx, opts, "cause", opts)
				if sig != nil {
					return nil, sig
				}
				o.DefineOwn("cause", DataProperty(causeVal, true, false, true))
			}
		}
		o.DefineOwn("stack", DataProperty(String(string(kind)), true, false, true))
		return o, nil
	}
	ctor := r.newConstructor(name, 1,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			return build(ctx, args, newTarget)
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return build(ctx, args, nil)
		}, proto)
	if parentCtor != nil {
		ctor.proto = parentCtor
	}
	return ctor
}
