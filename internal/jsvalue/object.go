package jsvalue

import (
	"sort"
	"strconv"
)

// ObjectKind discriminates the internal-slot-bearing shapes an Object
// can take on. Everything that is not one of these special shapes is
// Ordinary; Function-ness is tracked independently via Object.Callable
// since any of these kinds could in principle also be callable (a Proxy
// wrapping a function, for instance).
type ObjectKind uint8

const (
	OrdinaryKind ObjectKind = iota
	ArrayKind
	ProxyKind
	ModuleNamespaceKind
	RegExpKind
	MapKind
	SetKind
	WeakMapKind
	WeakSetKind
	DateKind
	ArrayBufferKind
	DataViewKind
	TypedArrayKind
	StringWrapperKind
	NumberWrapperKind
	BooleanWrapperKind
	BigIntWrapperKind
	ArgumentsKind
)

// VirtualProvider lets an object synthesize own-property descriptors on
// demand instead of materializing them. The only user in this package is
// the boxed String wrapper's indexed characters (§4.F).
type VirtualProvider interface {
	GetOwn(key string) (*PropertyDescriptor, bool)
	OwnKeys() []string
}

// Object is the single representation backing every ECMAScript object,
// regardless of ObjectKind. Kind-specific state lives behind Data, which
// callers type-assert to the payload defined in the relevant file
// (array.go's *arrayData, date.go's *dateData, and so on).
type Object struct {
	ObjKind    ObjectKind
	Class      string // [[Class]] fallback tag for Object.prototype.toString
	proto      *Object
	extensible bool
	props      *propStore
	syms       *symStore
	Virtual    VirtualProvider
	Callable   Callable
	Data       interface{}
	Realm      *Realm
}

func newBareObject(realm *Realm, kind ObjectKind, class string) *Object {
	return &Object{
		ObjKind:    kind,
		Class:      class,
		extensible: true,
		props:      newPropStore(),
		syms:       newSymStore(),
		Realm:      realm,
	}
}

func (*Object) Kind() Kind { return KindObject }

// NewObject allocates an ordinary object whose prototype is proto (which
// may be nil for Object.create(null)).
func NewObject(realm *Realm, proto *Object) *Object {
	o := newBareObject(realm, OrdinaryKind, "Object")
	o.proto = proto
	return o
}

// ---- ordered property storage -------------------------------------------------

type propStore struct {
	order []string
	m     map[string]*PropertyDescriptor
}

func newPropStore() *propStore { return &propStore{m: make(map[string]*PropertyDescriptor)} }

func (p *propStore) get(key string) (*PropertyDescriptor, bool) {
	d, ok := p.m[key]
	return d, ok
}

func (p *propStore) set(key string, d *PropertyDescriptor) {
	if _, exists := p.m[key]; !exists {
		p.order = append(p.order, key)
	}
	p.m[key] = d
}

func (p *propStore) delete(key string) {
	if _, exists := p.m[key]; !exists {
		return
	}
	delete(p.m, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// orderedKeys returns the own string keys in the order OwnPropertyKeys
// prescribes: ascending canonical array indices, then the rest in
// insertion order.
func (p *propStore) orderedKeys() []string {
	var indices []uint32
	indexKey := make(map[uint32]string, len(p.order))
	var rest []string
	for _, k := range p.order {
		if idx, ok := ArrayIndex(k); ok {
			indices = append(indices, idx)
			indexKey[idx] = k
		} else {
			rest = append(rest, k)
		}
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	out := make([]string, 0, len(indices)+len(rest))
	for _, idx := range indices {
		out = append(out, indexKey[idx])
	}
	out = append(out, rest...)
	return out
}

type symStore struct {
	order []*Symbol
	m     map[*Symbol]*PropertyDescriptor
}

func newSymStore() *symStore { return &symStore{m: make(map[*Symbol]*PropertyDescriptor)} }

func (s *symStore) get(sym *Symbol) (*PropertyDescriptor, bool) {
	d, ok := s.m[sym]
	return d, ok
}

func (s *symStore) set(sym *Symbol, d *PropertyDescriptor) {
	if _, exists := s.m[sym]; !exists {
		s.order = append(s.order, sym)
	}
	s.m[sym] = d
}

func (s *symStore) delete(sym *Symbol) {
	if _, exists := s.m[sym]; !exists {
		return
	}
	delete(s.m, sym)
	for i, k := range s.order {
		if k == sym {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// ArrayIndex reports whether key is the canonical decimal string form of
// an integer in [0, 2^32-2], the range ECMA-262 calls an array index.
func ArrayIndex(key string) (uint32, bool) {
	if key == "" {
		return 0, false
	}
	if key == "0" {
		return 0, true
	}
	if key[0] == '0' || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 64)
	if err != nil || n > 0xFFFFFFFE {
		return 0, false
	}
	if strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return uint32(n), true
}

// ---- prototype chain -----------------------------------------------------

func (o *Object) Prototype() *Object { return o.proto }

// SetPrototype implements [[SetPrototypeOf]]: it fails (returns false)
// if the object is non-extensible, or if o already appears in proto's
// prototype chain (which would create a cycle).
func (o *Object) SetPrototype(proto *Object) bool {
	if o.ObjKind == ModuleNamespaceKind {
		return proto == nil
	}
	if proto == o.proto {
		return true
	}
	if !o.extensible {
		return false
	}
	for p := proto; p != nil; p = p.proto {
		if p == o {
			return false
		}
		if p.ObjKind == ProxyKind {
			// Conservatively refuse to walk through a proxy's handler;
			// callers that need exotic [[GetPrototypeOf]] traversal
			// should use the Proxy-aware helpers in function.go.
			break
		}
	}
	o.proto = proto
	return true
}

// ---- extensibility / seal / freeze ----------------------------------------

func (o *Object) IsExtensible() bool { return o.extensible }

func (o *Object) PreventExtensions() bool {
	o.extensible = false
	return true
}

func (o *Object) Seal() {
	o.extensible = false
	for _, k := range o.props.order {
		d := o.props.m[k]
		if d.HasConfigurable {
			d.Configurable = false
		}
	}
	for _, s := range o.syms.order {
		d := o.syms.m[s]
		if d.HasConfigurable {
			d.Configurable = false
		}
	}
}

func (o *Object) Freeze() {
	o.extensible = false
	for _, k := range o.props.order {
		d := o.props.m[k]
		if d.HasConfigurable {
			d.Configurable = false
		}
		if d.IsData() && d.HasWritable {
			d.Writable = false
		}
	}
	for _, s := range o.syms.order {
		d := o.syms.m[s]
		if d.HasConfigurable {
			d.Configurable = false
		}
		if d.IsData() && d.HasWritable {
			d.Writable = false
		}
	}
}

func (o *Object) IsSealed() bool {
	if o.extensible {
		return false
	}
	for _, k := range o.props.order {
		if o.props.m[k].Configurable {
			return false
		}
	}
	for _, s := range o.syms.order {
		if o.syms.m[s].Configurable {
			return false
		}
	}
	return true
}

func (o *Object) IsFrozen() bool {
	if !o.IsSealed() {
		return false
	}
	for _, k := range o.props.order {
		d := o.props.m[k]
		if d.IsData() && d.Writable {
			return false
		}
	}
	for _, s := range o.syms.order {
		d := o.syms.m[s]
		if d.IsData() && d.Writable {
			return false
		}
	}
	return true
}

// ---- own property lookup, including exotic string/symbol keys -------------

// GetOwnProperty implements [[GetOwnProperty]] for string keys, folding
// in the typed-array integer-indexed exotic behavior and the virtual
// provider hook.
func (o *Object) GetOwnProperty(key string) (*PropertyDescriptor, bool) {
	if ta, ok := o.Data.(*typedArrayData); ok {
		if idx, isIdx := canonicalNumericIndex(key); isIdx {
			return ta.getOwnProperty(idx)
		}
	}
	if o.Virtual != nil {
		if d, ok := o.Virtual.GetOwn(key); ok {
			return d, true
		}
	}
	d, ok := o.props.get(key)
	return d, ok
}

func (o *Object) GetOwnSymbolProperty(sym *Symbol) (*PropertyDescriptor, bool) {
	return o.syms.get(sym)
}

// OwnStringKeys returns the object's own enumerable-or-not string keys
// in specification order (virtual/typed-array indices, then real
// indices, then insertion-ordered names).
func (o *Object) OwnStringKeys() []string {
	if ta, ok := o.Data.(*typedArrayData); ok {
		n := ta.length()
		out := make([]string, 0, n+len(o.props.order))
		for i := 0; i < n; i++ {
			out = append(out, strconv.Itoa(i))
		}
		return append(out, o.props.orderedKeys()...)
	}
	if o.Virtual != nil {
		return append(o.Virtual.OwnKeys(), o.props.orderedKeys()...)
	}
	return o.props.orderedKeys()
}

func (o *Object) OwnSymbolKeys() []*Symbol {
	out := make([]*Symbol, len(o.syms.order))
	copy(out, o.syms.order)
	return out
}

// HasOwn reports whether key names an own property (real, virtual, or
// typed-array index).
func (o *Object) HasOwn(key string) bool {
	_, ok := o.GetOwnProperty(key)
	return ok
}

// DefineOwn stores a complete descriptor directly, bypassing validation.
// It is used by intrinsics boot code that knows the target has no
// conflicting existing property.
func (o *Object) DefineOwn(key string, d *PropertyDescriptor) {
	o.props.set(key, d)
}

func (o *Object) DefineOwnSymbol(sym *Symbol, d *PropertyDescriptor) {
	o.syms.set(sym, d)
}

func (o *Object) deleteOwn(key string) { o.props.delete(key) }

// ---- the Get/Set/Define/Delete/HasProperty protocol (§4.B) ----------------

// Get implements [[Get]]. receiver is the value `this` should be bound
// to when an accessor getter is invoked; pass v (boxed if v is an
// Object) for ordinary gets and something else only when proxying.
func Get(ctx *EvaluationContext, o *Object, key string, receiver Value) (Value, *ThrowSignal) {
	if o.ObjKind == ProxyKind {
		return proxyGet(ctx, o, key, receiver)
	}
	d, ok := o.GetOwnProperty(key)
	if !ok {
		if o.proto == nil {
			return Undefined, nil
		}
		return Get(ctx, o.proto, key, receiver)
	}
	if d.IsAccessor() {
		if d.Get == nil {
			return Undefined, nil
		}
		return d.Get.Callable.Invoke(ctx, receiver, nil)
	}
	return d.Value, nil
}

func GetSymbol(ctx *EvaluationContext, o *Object, sym *Symbol, receiver Value) (Value, *ThrowSignal) {
	d, ok := o.GetOwnSymbolProperty(sym)
	if !ok {
		if o.proto == nil {
			return Undefined, nil
		}
		return GetSymbol(ctx, o.proto, sym, receiver)
	}
	if d.IsAccessor() {
		if d.Get == nil {
			return Undefined, nil
		}
		return d.Get.Callable.Invoke(ctx, receiver, nil)
	}
	return d.Value, nil
}

// HasProperty implements [[HasProperty]], walking the prototype chain.
func HasProperty(o *Object, key string) bool {
	if o.HasOwn(key) {
		return true
	}
	if o.proto == nil {
		return false
	}
	return HasProperty(o.proto, key)
}

func HasSymbolProperty(o *Object, sym *Symbol) bool {
	if _, ok := o.GetOwnSymbolProperty(sym); ok {
		return true
	}
	if o.proto == nil {
		return false
	}
	return HasSymbolProperty(o.proto, sym)
}

// Set implements [[Set]](O, P, V, O) — the common case where the
// receiver is the object itself.
func Set(ctx *EvaluationContext, o *Object, key string, v Value) (bool, *ThrowSignal) {
	return SetWithReceiver(ctx, o, key, v, o)
}

// SetWithReceiver implements OrdinarySet, including the case where
// receiver differs from o (used by Reflect.set and proxies).
func SetWithReceiver(ctx *EvaluationContext, o *Object, key string, v Value, receiver *Object) (bool, *ThrowSignal) {
	if o.ObjKind == ProxyKind {
		return proxySet(ctx, o, key, v, receiver)
	}
	if ta, ok := o.Data.(*typedArrayData); ok {
		if idx, isIdx := canonicalNumericIndex(key); isIdx {
			return ta.setIndex(ctx, idx, v)
		}
	}
	ownDesc, ok := o.GetOwnProperty(key)
	if !ok {
		if o.proto != nil {
			return SetWithReceiver(ctx, o.proto, key, v, receiver)
		}
		ownDesc = DataProperty(Undefined, true, true, true)
	}
	if ownDesc.IsData() {
		if !ownDesc.Writable {
			return false, nil
		}
		existing, hasExisting := receiver.GetOwnProperty(key)
		if hasExisting {
			if existing.IsAccessor() {
				return false, nil
			}
			if !existing.Writable {
				return false, nil
			}
			return DefineOwnProperty(ctx, receiver, key, &PropertyDescriptor{HasValue: true, Value: v})
		}
		return CreateDataProperty(ctx, receiver, key, v)
	}
	if ownDesc.Set == nil {
		return false, nil
	}
	_, sig := ownDesc.Set.Callable.Invoke(ctx, receiver, []Value{v})
	if sig != nil {
		return false, sig
	}
	return true, nil
}

// CreateDataProperty implements [[DefineOwnProperty]] for the common
// "just add an enumerable/writable/configurable value" shape.
func CreateDataProperty(ctx *EvaluationContext, o *Object, key string, v Value) (bool, *ThrowSignal) {
	return DefineOwnProperty(ctx, o, key, DataProperty(v, true, true, true))
}

// DefineOwnProperty implements ValidateAndApplyPropertyDescriptor
// (ECMA-262 §9.1.6.3) plus the Array length invariant (§9.4.2.1).
func DefineOwnProperty(ctx *EvaluationContext, o *Object, key string, desc *PropertyDescriptor) (bool, *ThrowSignal) {
	if o.ObjKind == ProxyKind {
		return proxyDefineOwnProperty(ctx, o, key, desc)
	}
	if ta, ok := o.Data.(*typedArrayData); ok {
		if idx, isIdx := canonicalNumericIndex(key); isIdx {
			return ta.defineOwnProperty(ctx, idx, desc)
		}
	}
	if o.ObjKind == ArrayKind && key == "length" {
		if !desc.HasValue {
			current, _ := o.GetOwnProperty("length")
			return validateAndApply(o, "length", desc, current, o.extensible), nil
		}
		return arraySetLength(ctx, o, desc.Value)
	}
	current, has := o.GetOwnProperty(key)
	if o.ObjKind == ArrayKind {
		if idx, ok := ArrayIndex(key); ok {
			return arrayDefineIndex(ctx, o, idx, desc)
		}
	}
	if !has {
		current = nil
	}
	ok := validateAndApply(o, key, desc, current, o.extensible)
	return ok, nil
}

// validateAndApply mutates o's own property store to reflect desc
// merged onto current (which may be nil, meaning "no own property
// yet"), per ECMA-262 §9.1.6.3. It does not know about Array length or
// typed-array indices; callers special-case those first.
func validateAndApply(o *Object, key string, desc, current *PropertyDescriptor, extensible bool) bool {
	if current == nil {
		if !extensible {
			return false
		}
		nd := desc.clone()
		nd.complete()
		o.props.set(key, nd)
		return true
	}
	if !desc.HasValue && !desc.HasWritable && !desc.HasGet && !desc.HasSet &&
		!desc.HasEnumerable && !desc.HasConfigurable {
		return true
	}
	if !current.Configurable {
		if desc.HasConfigurable && desc.Configurable {
			return false
		}
		if desc.HasEnumerable && desc.Enumerable != current.Enumerable {
			return false
		}
		if !desc.IsGeneric() && desc.IsAccessor() != current.IsAccessor() {
			return false
		}
		if current.IsAccessor() {
			if desc.HasGet && desc.Get != current.Get {
				return false
			}
			if desc.HasSet && desc.Set != current.Set {
				return false
			}
		} else if !current.Writable {
			if desc.HasWritable && desc.Writable {
				return false
			}
			if desc.HasValue && !SameValue(desc.Value, current.Value) {
				return false
			}
		}
	}
	merged := current.clone()
	if desc.IsAccessor() && current.IsData() {
		merged = &PropertyDescriptor{HasEnumerable: true, Enumerable: current.Enumerable, HasConfigurable: true, Configurable: current.Configurable}
		merged.HasGet, merged.HasSet = true, true
	} else if desc.IsData() && current.IsAccessor() {
		merged = &PropertyDescriptor{HasEnumerable: true, Enumerable: current.Enumerable, HasConfigurable: true, Configurable: current.Configurable}
		merged.HasValue, merged.HasWritable = true, true
		merged.Value, merged.Writable = Undefined, false
	}
	if desc.HasValue {
		merged.HasValue, merged.Value = true, desc.Value
	}
	if desc.HasWritable {
		merged.HasWritable, merged.Writable = true, desc.Writable
	}
	if desc.HasGet {
		merged.HasGet, merged.Get = true, desc.Get
	}
	if desc.HasSet {
		merged.HasSet, merged.Set = true, desc.Set
	}
	if desc.HasEnumerable {
		merged.HasEnumerable, merged.Enumerable = true, desc.Enumerable
	}
	if desc.HasConfigurable {
		merged.HasConfigurable, merged.Configurable = true, desc.Configurable
	}
	o.props.set(key, merged)
	return true
}

// DefineOwnSymbolProperty is the symbol-keyed counterpart of
// DefineOwnProperty; symbols never participate in Array length or
// typed-array index exotic behavior.
func DefineOwnSymbolProperty(o *Object, sym *Symbol, desc *PropertyDescriptor) bool {
	current, has := o.GetOwnSymbolProperty(sym)
	if !has {
		current = nil
	}
	if current == nil {
		if !o.extensible {
			return false
		}
		nd := desc.clone()
		nd.complete()
		o.syms.set(sym, nd)
		return true
	}
	if !current.Configurable {
		if desc.HasConfigurable && desc.Configurable {
			return false
		}
	}
	merged := current.clone()
	if desc.HasValue {
		merged.HasValue, merged.Value = true, desc.Value
	}
	if desc.HasWritable {
		merged.HasWritable, merged.Writable = true, desc.Writable
	}
	if desc.HasEnumerable {
		merged.HasEnumerable, merged.Enumerable = true, desc.Enumerable
	}
	if desc.HasConfigurable {
		merged.HasConfigurable, merged.Configurable = true, desc.Configurable
	}
	o.syms.set(sym, merged)
	return true
}

// Delete implements [[Delete]].
func Delete(o *Object, key string) bool {
	if ta, ok := o.Data.(*typedArrayData); ok {
		if idx, isIdx := canonicalNumericIndex(key); isIdx {
			return ta.deleteIndex(idx)
		}
	}
	d, ok := o.GetOwnProperty(key)
	if !ok {
		return true
	}
	if !d.Configurable {
		return false
	}
	o.deleteOwn(key)
	return true
}

func DeleteSymbol(o *Object, sym *Symbol) bool {
	d, ok := o.GetOwnSymbolProperty(sym)
	if !ok {
		return true
	}
	if !d.Configurable {
		return false
	}
	o.syms.delete(sym)
	return true
}

// canonicalNumericIndex parses a key as a non-negative integer index for
// typed-array/DataView exotic behavior (which, unlike Array, permits the
// full uint32 range and treats "-0" and non-canonical forms as absent).
func canonicalNumericIndex(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	if strconv.Itoa(n) != key {
		return 0, false
	}
	return n, true
}
