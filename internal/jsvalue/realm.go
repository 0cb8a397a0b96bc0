package jsvalue

import (
	"sync"

	jserr "jsengine/internal/errors"
)

// TimeZone abstracts the host's local-time rules away from the Date
// algebra in date.go (§9's "pluggable TimeZone" design note). The
// default realm uses utcTimeZone, which always returns a zero offset.
type TimeZone interface {
	UTCOffsetMs(utcMillis float64) float64
	Name() string
}

type utcTimeZone struct{}

func (utcTimeZone) UTCOffsetMs(float64) float64 { return 0 }
func (utcTimeZone) Name() string                { return "UTC" }

// RegExpLegacyStatics holds the constructor-level RegExp.$1…$9 etc.
// state, updated exactly when an Exec succeeds (§5 "Ordering").
type RegExpLegacyStatics struct {
	Input        string
	LastMatch    string
	LastParen    string
	LeftContext  string
	RightContext string
	Groups       [9]string
}

// Realm is the process-wide (well, per-embedding) registry of
// intrinsics: exactly one reference per prototype and constructor, plus
// the engine-level state (legacy RegExp statics, time zone, the
// Symbol.for registry) that ECMAScript specifies as realm-global rather
// than per-object.
type Realm struct {
	ObjectPrototype         *Object
	FunctionPrototype       *Object
	ArrayPrototype          *Object
	StringPrototype         *Object
	NumberPrototype         *Object
	BooleanPrototype        *Object
	BigIntPrototype         *Object
	SymbolPrototype         *Object
	DatePrototype           *Object
	RegExpPrototype         *Object
	ErrorPrototype          *Object
	TypeErrorPrototype      *Object
	RangeErrorPrototype     *Object
	SyntaxErrorPrototype    *Object
	ReferenceErrorPrototype *Object
	TypedArrayPrototype     *Object
	ArrayBufferPrototype    *Object
	DataViewPrototype       *Object
	MapPrototype            *Object
	SetPrototype            *Object
	WeakMapPrototype        *Object
	WeakSetPrototype        *Object

	ObjectConstructor         *Object
	FunctionConstructor       *Object
	ArrayConstructor          *Object
	StringConstructor         *Object
	NumberConstructor         *Object
	BooleanConstructor        *Object
	BigIntConstructor         *Object
	SymbolConstructor         *Object
	DateConstructor           *Object
	RegExpConstructor         *Object
	ErrorConstructor          *Object
	TypeErrorConstructor      *Object
	RangeErrorConstructor     *Object
	SyntaxErrorConstructor    *Object
	ReferenceErrorConstructor *Object
	TypedArrayConstructor     *Object
	ArrayBufferConstructor    *Object
	DataViewConstructor       *Object
	MapConstructor            *Object
	SetConstructor            *Object
	WeakMapConstructor        *Object
	WeakSetConstructor        *Object

	TypedArrayKinds map[TypedArrayKindID]*typedArrayKindInfo

	WellKnown *WellKnownSymbols

	Global *Object

	TimeZone TimeZone

	RegexLegacy RegExpLegacyStatics

	symRegistry   map[string]*Symbol
	symRegistryMu sync.Mutex
}

// NewRealm boots a fresh realm: blank prototypes first, then
// %ObjectPrototype% wired as the ancestor of every primitive prototype
// (%ErrorPrototype% for the native error subtypes), then constructors
// linked to %FunctionPrototype% together with their methods, statics and
// constructor back-references, then global bindings.
func NewRealm() *Realm {
	r := &Realm{
		TimeZone:    utcTimeZone{},
		symRegistry: make(map[string]*Symbol),
	}
	r.WellKnown = newWellKnownSymbols()

	// Step 1: blank prototypes, no [[Prototype]] pointer yet.
	r.ObjectPrototype = newBareObject(r, OrdinaryKind, "Object")
	r.FunctionPrototype = newBareObject(r, OrdinaryKind, "Function")
	r.ArrayPrototype = newBareObject(r, ArrayKind, "Array")
	r.ArrayPrototype.Data = newArrayData()
	r.StringPrototype = newBareObject(r, StringWrapperKind, "String")
	r.StringPrototype.Data = String("")
	r.NumberPrototype = newBareObject(r, NumberWrapperKind, "Number")
	r.NumberPrototype.Data = Number(0)
	r.BooleanPrototype = newBareObject(r, BooleanWrapperKind, "Boolean")
	r.BooleanPrototype.Data = Boolean(false)
	r.BigIntPrototype = newBareObject(r, BigIntWrapperKind, "BigInt")
	r.SymbolPrototype = newBareObject(r, OrdinaryKind, "Symbol")
	r.DatePrototype = newBareObject(r, DateKind, "Date")
	r.DatePrototype.Data = &dateData{timeValue: nanValue()}
	r.RegExpPrototype = newBareObject(r, OrdinaryKind, "RegExp")
	r.ErrorPrototype = newBareObject(r, OrdinaryKind, "Error")
	r.TypeErrorPrototype = newBareObject(r, OrdinaryKind, "Error")
	r.RangeErrorPrototype = newBareObject(r, OrdinaryKind, "Error")
	r.SyntaxErrorPrototype = newBareObject(r, OrdinaryKind, "Error")
	r.ReferenceErrorPrototype = newBareObject(r, OrdinaryKind, "Error")
	r.TypedArrayPrototype = newBareObject(r, OrdinaryKind, "TypedArray")
	r.ArrayBufferPrototype = newBareObject(r, ArrayBufferKind, "ArrayBuffer")
	r.DataViewPrototype = newBareObject(r, DataViewKind, "DataView")
	r.MapPrototype = newBareObject(r, OrdinaryKind, "Map")
	r.SetPrototype = newBareObject(r, OrdinaryKind, "Set")
	r.WeakMapPrototype = newBareObject(r, OrdinaryKind, "WeakMap")
	r.WeakSetPrototype = newBareObject(r, OrdinaryKind, "WeakSet")

	// Step 3: ObjectPrototype ancestors every primitive prototype.
	for _, p := range []*Object{
		r.FunctionPrototype, r.ArrayPrototype, r.StringPrototype, r.NumberPrototype,
		r.BooleanPrototype, r.BigIntPrototype, r.SymbolPrototype, r.DatePrototype,
		r.RegExpPrototype, r.ErrorPrototype, r.TypedArrayPrototype, r.ArrayBufferPrototype,
		r.DataViewPrototype, r.MapPrototype, r.SetPrototype, r.WeakMapPrototype, r.WeakSetPrototype,
	} {
		p.proto = r.ObjectPrototype
	}
	r.TypeErrorPrototype.proto = r.ErrorPrototype
	r.RangeErrorPrototype.proto = r.ErrorPrototype
	r.SyntaxErrorPrototype.proto = r.ErrorPrototype
	r.ReferenceErrorPrototype.proto = r.ErrorPrototype

	r.installTypedArrayKinds()

	// Step 2/4/5: constructors + prototype methods + back-references.
	r.installObject()
	r.installFunction()
	r.installArray()
	r.installString()
	r.installNumber()
	r.installBoolean()
	r.installBigInt()
	r.installSymbol()
	r.installDate()
	r.installRegExp()
	r.installErrors()
	r.installMapSet()
	r.installArrayBufferAndViews()

	// Step 6: global bindings.
	r.installGlobal()

	return r
}

func (r *Realm) newFunction(name string, length int, fn func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal)) *Object {
	o := newBareObject(r, OrdinaryKind, "Function")
	o.proto = r.FunctionPrototype
	o.Callable = &HostFunction{FnName: name, FnLength: length, Fn: fn}
	o.DefineOwn("name", DataProperty(String(name), false, false, true))
	o.DefineOwn("length", DataProperty(Number(length), false, false, true))
	return o
}

// newConstructor builds a constructor function object, wires its
// "prototype" own property (non-writable, non-enumerable,
// non-configurable) to proto, and sets proto.constructor back to it.
func (r *Realm) newConstructor(name string, length int, construct func(ctx *EvaluationContext, args []Value, newTarget *Object, receiver *Object) (Value, *ThrowSignal), call func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal), proto *Object) *Object {
	o := newBareObject(r, OrdinaryKind, "Function")
	o.proto = r.FunctionPrototype
	o.Callable = &HostConstructor{FnName: name, FnLength: length, CallFn: call, ConstructFn: construct}
	o.DefineOwn("name", DataProperty(String(name), false, false, true))
	o.DefineOwn("length", DataProperty(Number(length), false, false, true))
	if proto != nil {
		o.DefineOwn("prototype", DataProperty(proto, false, false, false))
		proto.DefineOwn("constructor", DataProperty(o, true, false, true))
	}
	return o
}

func (r *Realm) defMethod(o *Object, name string, length int, fn func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal)) {
	o.DefineOwn(name, DataProperty(r.newFunction(name, length, fn), true, false, true))
}

func (r *Realm) defSymbolMethod(o *Object, sym *Symbol, name string, length int, fn func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal)) {
	o.DefineOwnSymbol(sym, DataProperty(r.newFunction(name, length, fn), true, false, true))
}

func (r *Realm) defAccessor(o *Object, name string, get, set func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal)) {
	var getObj, setObj *Object
	if get != nil {
		getObj = r.newFunction("get "+name, 0, get)
	}
	if set != nil {
		setObj = r.newFunction("set "+name, 1, set)
	}
	o.DefineOwn(name, AccessorProperty(getObj, setObj, false, true))
}

// NewErrorObject materializes an Error instance of the given kind,
// chained to the matching prototype, with a "message" own property and
// a "stack" string snapshot.
func (r *Realm) NewErrorObject(kind jserr.Kind, message string) *Object {
	proto := r.ErrorPrototype
	switch kind {
	case jserr.TypeError:
		proto = r.TypeErrorPrototype
	case jserr.RangeError:
		proto = r.RangeErrorPrototype
	case jserr.SyntaxError:
		proto = r.SyntaxErrorPrototype
	case jserr.ReferenceError:
		proto = r.ReferenceErrorPrototype
	}
	o := newBareObject(r, OrdinaryKind, "Error")
	o.proto = proto
	o.DefineOwn("message", DataProperty(String(message), true, false, true))
	o.DefineOwn("stack", DataProperty(String(string(kind)+": "+message), true, false, true))
	return o
}

func (r *Realm) NewBooleanWrapper(b Boolean) *Object {
	o := newBareObject(r, BooleanWrapperKind, "Boolean")
	o.proto = r.BooleanPrototype
	o.Data = b
	return o
}

func (r *Realm) NewNumberWrapper(n Number) *Object {
	o := newBareObject(r, NumberWrapperKind, "Number")
	o.proto = r.NumberPrototype
	o.Data = n
	return o
}

func (r *Realm) NewStringWrapper(s String) *Object {
	o := newBareObject(r, StringWrapperKind, "String")
	o.proto = r.StringPrototype
	o.Data = s
	o.Virtual = &stringVirtual{s: s}
	o.DefineOwn("length", DataProperty(Number(utf16Length(string(s))), false, false, false))
	return o
}

func (r *Realm) NewBigIntWrapper(b *BigInt) *Object {
	o := newBareObject(r, BigIntWrapperKind, "BigInt")
	o.proto = r.BigIntPrototype
	o.Data = b
	return o
}

func (r *Realm) NewSymbolWrapper(s *Symbol) *Object {
	o := newBareObject(r, OrdinaryKind, "Symbol")
	o.proto = r.SymbolPrototype
	o.Data = s
	return o
}

// SymbolFor implements Symbol.for: interning by description in a
// realm-global registry, distinct from the per-call identity NewSymbol
// mints.
func (r *Realm) SymbolFor(description string) *Symbol {
	r.symRegistryMu.Lock()
	defer r.symRegistryMu.Unlock()
	if s, ok := r.symRegistry[description]; ok {
		return s
	}
	s := NewSymbol(description, true)
	r.symRegistry[description] = s
	return s
}

// SymbolKeyFor implements Symbol.keyFor: the inverse lookup, returning
// ("", false) for a symbol that was not created via SymbolFor.
func (r *Realm) SymbolKeyFor(s *Symbol) (string, bool) {
	r.symRegistryMu.Lock()
	defer r.symRegistryMu.Unlock()
	for desc, sym := range r.symRegistry {
		if sym == s {
			return desc, true
		}
	}
	return "", false
}
