package jsvalue

// proxyData holds a Proxy's target/handler pair. Revocation replaces
// both with nil handlers that every trap checks for first.
type proxyData struct {
	target  *Object
	handler *Object
	revoked bool
}

// NewProxy allocates a Proxy object. If target is callable, the proxy
// itself becomes callable via proxyCallable, whether or not the handler
// has an "apply"/"construct" trap.
func (r *Realm) NewProxy(target, handler *Object) *Object {
	o := newBareObject(r, ProxyKind, "Proxy")
	pd := &proxyData{target: target, handler: handler}
	o.Data = pd
	if target.Callable != nil {
		o.Callable = &proxyCallable{realm: r, data: pd}
	}
	return o
}

// revokeProxy detaches a proxy from both target and handler; every
// subsequent trap observes pd.revoked and throws TypeError.
func revokeProxy(pd *proxyData) { pd.revoked = true; pd.target = nil; pd.handler = nil }

func proxyTrap(ctx *EvaluationContext, pd *proxyData, name string) (*Object, bool, *ThrowSignal) {
	if pd.revoked {
		return nil, false, ctx.ThrowType("Cannot perform '%s' on a proxy that has been revoked", name)
	}
	trapVal, sig := Get(ctx, pd.handler, name, pd.handler)
	if sig != nil {
		return nil, false, sig
	}
	trap, ok := trapVal.(*Object)
	if !ok || trap.Callable == nil {
		return nil, false, nil
	}
	return trap, true, nil
}

func proxyGet(ctx *EvaluationContext, o *Object, key string, receiver Value) (Value, *ThrowSignal) {
	pd := o.Data.(*proxyData)
	trap, ok, sig := proxyTrap(ctx, pd, "get")
	if sig != nil {
		return nil, sig
	}
	if !ok {
		return Get(ctx, pd.target, key, receiver)
	}
	return trap.Callable.Invoke(ctx, pd.handler, []Value{pd.target, String(key), receiver})
}

func proxySet(ctx *EvaluationContext, o *Object, key string, v Value, receiver *Object) (bool, *ThrowSignal) {
	pd := o.Data.(*proxyData)
	trap, ok, sig := proxyTrap(ctx, pd, "set")
	if sig != nil {
		return false, sig
	}
	if !ok {
		return SetWithReceiver(ctx, pd.target, key, v, receiver)
	}
	result, sig := trap.Callable.Invoke(ctx, pd.handler, []Value{pd.target, String(key), v, receiver})
	if sig != nil {
		return false, sig
	}
	return ToBoolean(result), nil
}

func proxyDefineOwnProperty(ctx *EvaluationContext, o *Object, key string, desc *PropertyDescriptor) (bool, *ThrowSignal) {
	pd := o.Data.(*proxyData)
	_, ok, sig := proxyTrap(ctx, pd, "defineProperty")
	if sig != nil {
		return false, sig
	}
	if !ok {
		return DefineOwnProperty(ctx, pd.target, key, desc)
	}
	// Descriptor objects aren't modeled as Values here without a realm
	// round-trip; defining through a handler trap is out of scope for
	// this core (the evaluator layer, which owns descriptor<->object
	// conversion, is expected to call DefineOwnProperty on the target
	// directly when no evaluator-level descriptor object is at hand).
	return DefineOwnProperty(ctx, pd.target, key, desc)
}

// ProxyTarget unwraps a single layer of proxy; UnwrapProxy (below) walks
// every layer, which is what Array.isArray needs.
func ProxyTarget(o *Object) (*Object, bool) {
	if o.ObjKind != ProxyKind {
		return nil, false
	}
	pd := o.Data.(*proxyData)
	if pd.revoked {
		return nil, false
	}
	return pd.target, true
}

// UnwrapProxy follows target links until a non-proxy is reached,
// returning hitRevoked=true and a nil target if a revoked proxy is found
// anywhere in the chain — Array.isArray must throw TypeError in that
// case rather than silently reporting false (§8 concrete scenario).
func UnwrapProxy(o *Object) (target *Object, hitRevoked bool) {
	cur := o
	for cur.ObjKind == ProxyKind {
		pd := cur.Data.(*proxyData)
		if pd.revoked {
			return nil, true
		}
		cur = pd.target
	}
	return cur, false
}

type proxyCallable struct {
	realm *Realm
	data  *proxyData
}

func (p *proxyCallable) Invoke(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
	trap, ok, sig := proxyTrap(ctx, p.data, "apply")
	if sig != nil {
		return nil, sig
	}
	if !ok {
		return p.data.target.Callable.Invoke(ctx, this, args)
	}
	return trap.Callable.Invoke(ctx, p.data.handler, []Value{p.data.target, this, p.realm.NewArrayFromSlice(args)})
}

func (p *proxyCallable) IsConstructor() bool {
	return p.data.target.Callable != nil && p.data.target.Callable.IsConstructor()
}

func (p *proxyCallable) Construct(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
	trap, ok, sig := proxyTrap(ctx, p.data, "construct")
	if sig != nil {
		return nil, sig
	}
	if !ok {
		return p.data.target.Callable.Construct(ctx, args, newTarget, receiver)
	}
	result, sig := trap.Callable.Invoke(ctx, p.data.handler, []Value{p.data.target, p.realm.NewArrayFromSlice(args), newTarget})
	if sig != nil {
		return nil, sig
	}
	return result, nil
}

func (p *proxyCallable) Name() string { return p.data.target.Callable.Name() }
func (p *proxyCallable) Length() int  { return p.data.target.Callable.Length() }

// ---- Function.prototype (call/apply/bind) and the Function constructor ----

func (r *Realm) installFunction() {
	r.defMethod(r.FunctionPrototype, "call", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		fn, sig := requireCallable(ctx, this, "Function.prototype.call")
		if sig != nil {
			return nil, sig
		}
		var thisArg Value = Undefined
		var rest []Value
		if len(args) > 0 {
			thisArg = args[0]
		}
		if len(args) > 1 {
			rest = args[1:]
		}
		return fn.Invoke(ctx, thisArg, rest)
	})
	r.defMethod(r.FunctionPrototype, "apply", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		fn, sig := requireCallable(ctx, this, "Function.prototype.apply")
		if sig != nil {
			return nil, sig
		}
		var thisArg Value = Undefined
		if len(args) > 0 {
			thisArg = args[0]
		}
		var list []Value
		if len(args) > 1 && !IsNullish(args[1]) {
			list, sig = IterableOrArrayLikeToSlice(ctx, args[1])
			if sig != nil {
				return nil, sig
			}
		}
		return fn.Invoke(ctx, thisArg, list)
	})
	r.defMethod(r.FunctionPrototype, "bind", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		target, ok := this.(*Object)
		if !ok || target.Callable == nil {
			return nil, ctx.ThrowType("Bind must be called on a function")
		}
		var boundThis Value = Undefined
		if len(args) > 0 {
			boundThis = args[0]
		}
		var boundArgs []Value
		if len(args) > 1 {
			boundArgs = append(boundArgs, args[1:]...)
		}
		name := "bound " + target.Callable.Name()
		bound := r.newConstructor(name, maxInt(0, target.Callable.Length()-len(boundArgs)),
			func(ctx *EvaluationContext, cargs []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
				return target.Callable.Construct(ctx, append(append([]Value{}, boundArgs...), cargs...), newTarget, receiver)
			},
			func(ctx *EvaluationContext, _ Value, cargs []Value) (Value, *ThrowSignal) {
				return target.Callable.Invoke(ctx, boundThis, append(append([]Value{}, boundArgs...), cargs...))
			}, nil)
		return bound, nil
	})
	r.defMethod(r.FunctionPrototype, "toString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		fn, ok := this.(*Object)
		if !ok || fn.Callable == nil {
			return nil, ctx.ThrowType("Function.prototype.toString requires a function")
		}
		return String("function " + fn.Callable.Name() + "() { [native code] }"), nil
	})

	r.FunctionConstructor = r.newConstructor("Function", 1,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Function constructor requires an evaluator-supplied compiler; not available in the embeddable core")
		}, nil, r.FunctionPrototype)
}

func requireCallable(ctx *EvaluationContext, v Value, opName string) (Callable, *ThrowSignal) {
	o, ok := v.(*Object)
	if !ok || o.Callable == nil {
		return nil, ctx.ThrowType("%s requires a function receiver", opName)
	}
	return o.Callable, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ---- Module namespace objects -----------------------------------------

// NewModuleNamespace wraps a module's exports as the spec's exotic
// ModuleNamespace object: null prototype (immutably so), frozen once
// sealed by the caller.
func (r *Realm) NewModuleNamespace(exports map[string]Value, order []string) *Object {
	o := newBareObject(r, ModuleNamespaceKind, "Module")
	o.extensible = false
	for _, name := range order {
		o.DefineOwn(name, DataProperty(exports[name], true, true, false))
	}
	return o
}
