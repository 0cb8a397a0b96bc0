package jsvalue

import jserr "jsengine/internal/errors"

// ThrowSignal is the typed non-local flow value used to propagate a
// thrown JavaScript value through the call stack without a Go panic.
// Every fallible operation in this package returns one of these instead
// of a plain error so that the thrown value (which may be any Value,
// not just an Error instance) survives intact.
type ThrowSignal struct {
	Value Value
}

func (t *ThrowSignal) Error() string {
	if t == nil {
		return "<nil throw>"
	}
	if o, ok := t.Value.(*Object); ok {
		if msg, ok := o.props.get("message"); ok && msg.HasValue {
			return string(ToStringOrEmpty(msg.Value))
		}
	}
	return ToStringOrEmpty(t.Value)
}

func ToStringOrEmpty(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return ""
}

// EvaluationContext is the reentrant slot the evaluator threads through
// every call into the core. It carries the current realm; the "throw"
// signal is carried as a return value rather than mutable context state
// so that Go's own call stack does the unwinding.
type EvaluationContext struct {
	Realm *Realm
}

// Throw wraps an arbitrary value in a ThrowSignal, for `throw <expr>`.
func (ctx *EvaluationContext) Throw(v Value) *ThrowSignal { return &ThrowSignal{Value: v} }

// ThrowNative materializes a NativeError as a realm Error instance and
// wraps it in a ThrowSignal.
func (ctx *EvaluationContext) ThrowNative(e *jserr.NativeError) *ThrowSignal {
	return &ThrowSignal{Value: ctx.Realm.NewErrorObject(e.Kind, e.Message)}
}

func (ctx *EvaluationContext) throwKind(kind jserr.Kind, format string, args ...interface{}) *ThrowSignal {
	return ctx.ThrowNative(jserr.New(kind, format, args...))
}

func (ctx *EvaluationContext) ThrowType(format string, args ...interface{}) *ThrowSignal {
	return ctx.throwKind(jserr.TypeError, format, args...)
}

func (ctx *EvaluationContext) ThrowRange(format string, args ...interface{}) *ThrowSignal {
	return ctx.throwKind(jserr.RangeError, format, args...)
}

func (ctx *EvaluationContext) ThrowSyntax(format string, args ...interface{}) *ThrowSignal {
	return ctx.throwKind(jserr.SyntaxError, format, args...)
}

func (ctx *EvaluationContext) ThrowReference(format string, args ...interface{}) *ThrowSignal {
	return ctx.throwKind(jserr.ReferenceError, format, args...)
}

// Callable is implemented by every invocable object payload (host
// functions, bound functions, proxies wrapping a callable target). The
// evaluator's script functions implement it too, from outside this
// package.
type Callable interface {
	// Invoke performs a normal (non-`new`) call.
	Invoke(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal)
	// IsConstructor reports whether `new` is permitted.
	IsConstructor() bool
	// Construct performs a `new` call. receiver is the object the
	// evaluator preallocated with its [[Prototype]] already set to
	// newTarget's "prototype" property; implementations may ignore it
	// and return a different object entirely.
	Construct(ctx *EvaluationContext, args []Value, newTarget *Object, receiver *Object) (Value, *ThrowSignal)
	// Name and Length back the function object's own "name"/"length".
	Name() string
	Length() int
}

// HostFunction adapts a Go closure to Callable for built-ins that are
// never used as constructors.
type HostFunction struct {
	FnName   string
	FnLength int
	Fn       func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal)
}

func (h *HostFunction) Invoke(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
	return h.Fn(ctx, this, args)
}
func (h *HostFunction) IsConstructor() bool { return false }
func (h *HostFunction) Construct(ctx *EvaluationContext, args []Value, newTarget *Object, receiver *Object) (Value, *ThrowSignal) {
	return nil, ctx.ThrowType("%s is not a constructor", h.FnName)
}
func (h *HostFunction) Name() string { return h.FnName }
func (h *HostFunction) Length() int  { return h.FnLength }

// HostConstructor adapts a Go closure pair to Callable for built-ins
// that are constructible, with an optional separate call behavior (most
// ECMAScript constructors behave differently when called without `new`).
type HostConstructor struct {
	FnName      string
	FnLength    int
	CallFn      func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal)
	ConstructFn func(ctx *EvaluationContext, args []Value, newTarget *Object, receiver *Object) (Value, *ThrowSignal)
}

func (h *HostConstructor) Invoke(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
	if h.CallFn != nil {
		return h.CallFn(ctx, this, args)
	}
	return nil, ctx.ThrowType("Constructor %s requires 'new'", h.FnName)
}
func (h *HostConstructor) IsConstructor() bool { return h.ConstructFn != nil }
func (h *HostConstructor) Construct(ctx *EvaluationContext, args []Value, newTarget *Object, receiver *Object) (Value, *ThrowSignal) {
	if h.ConstructFn == nil {
		return nil, ctx.ThrowType("%s is not a constructor", h.FnName)
	}
	return h.ConstructFn(ctx, args, newTarget, receiver)
}
func (h *HostConstructor) Name() string { return h.FnName }
func (h *HostConstructor) Length() int  { return h.FnLength }
