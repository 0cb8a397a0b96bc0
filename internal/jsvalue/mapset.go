package jsvalue

import (
	"runtime"
	"weak"
)

// mapEntry is one slot of a mapData's insertion-ordered table. A deleted
// entry is kept as a tombstone (key set to nil) so live iterators walking
// the same slice by index don't skip or duplicate entries (§23.1.3.11's
// "visit entries added after iteration starts" rule falls out of this for
// free: new entries just append).
type mapEntry struct {
	key   Value
	value Value
}

// mapData backs Map. SameValueZero equality means keys can't be hashed
// with Go's native map (NaN must equal NaN, -0 must equal +0), so
// lookups are linear — acceptable for an embeddable core, not for a JIT.
type mapData struct {
	entries []mapEntry
}

func (m *mapData) find(key Value) int {
	for i, e := range m.entries {
		if e.key != nil && SameValueZero(e.key, key) {
			return i
		}
	}
	return -1
}

func (m *mapData) get(key Value) (Value, bool) {
	if i := m.find(key); i >= 0 {
		return m.entries[i].value, true
	}
	return nil, false
}

func (m *mapData) set(key, value Value) {
	if i := m.find(key); i >= 0 {
		m.entries[i].value = value
		return
	}
	m.entries = append(m.entries, mapEntry{key: key, value: value})
}

func (m *mapData) delete(key Value) bool {
	i := m.find(key)
	if i < 0 {
		return false
	}
	m.entries[i].key = nil
	m.entries[i].value = nil
	return true
}

func (m *mapData) size() int {
	n := 0
	for _, e := range m.entries {
		if e.key != nil {
			n++
		}
	}
	return n
}

func (m *mapData) clear() { m.entries = nil }

// setData backs Set, reusing mapData's slot machinery with the key and
// value always equal.
type setData struct {
	m *mapData
}

func newSetData() *setData { return &setData{m: &mapData{}} }

func (s *setData) has(v Value) bool    { _, ok := s.m.get(v); return ok }
func (s *setData) add(v Value)         { s.m.set(v, v) }
func (s *setData) delete(v Value) bool { return s.m.delete(v) }
func (s *setData) size() int           { return s.m.size() }
func (s *setData) clear()              { s.m.clear() }

func thisMapData(ctx *EvaluationContext, this Value, label string) (*mapData, *ThrowSignal) {
	o, ok := this.(*Object)
	if ok {
		if m, ok := o.Data.(*mapData); ok {
			return m, nil
		}
	}
	return nil, ctx.ThrowType("this is not a %s", label)
}

func thisSetData(ctx *EvaluationContext, this Value, label string) (*setData, *ThrowSignal) {
	o, ok := this.(*Object)
	if ok {
		if s, ok := o.Data.(*setData); ok {
			return s, nil
		}
	}
	return nil, ctx.ThrowType("this is not a %s", label)
}

// weakMapData backs WeakMap. Keys are held by weak.Pointer rather than a
// strong Value slot, and runtime.AddCleanup drops an entry once the
// collector has reclaimed its key — so the key slot never keeps a key (or
// its subtree) alive on the Go heap. Values are held strongly: a value
// that references its own key keeps that key alive.
type weakMapData struct {
	entries map[weak.Pointer[Object]]Value
}

func newWeakMapData() *weakMapData {
	return &weakMapData{entries: make(map[weak.Pointer[Object]]Value)}
}

func (w *weakMapData) get(key *Object) (Value, bool) {
	v, ok := w.entries[weak.Make(key)]
	return v, ok
}

func (w *weakMapData) set(key *Object, value Value) {
	wp := weak.Make(key)
	if _, exists := w.entries[wp]; !exists {
		runtime.AddCleanup(key, w.dropEntry, wp)
	}
	w.entries[wp] = value
}

func (w *weakMapData) dropEntry(wp weak.Pointer[Object]) {
	delete(w.entries, wp)
}

func (w *weakMapData) delete(key *Object) bool {
	wp := weak.Make(key)
	if _, ok := w.entries[wp]; !ok {
		return false
	}
	delete(w.entries, wp)
	return true
}

// weakSetData backs WeakSet, reusing weakMapData's slot machinery with a
// placeholder value, so the set holds no strong reference to its members.
type weakSetData struct {
	m *weakMapData
}

func newWeakSetData() *weakSetData { return &weakSetData{m: newWeakMapData()} }

func (s *weakSetData) has(v *Object) bool    { _, ok := s.m.get(v); return ok }
func (s *weakSetData) add(v *Object)         { s.m.set(v, Boolean(true)) }
func (s *weakSetData) delete(v *Object) bool { return s.m.delete(v) }

func thisWeakMapData(ctx *EvaluationContext, this Value, label string) (*weakMapData, *ThrowSignal) {
	o, ok := this.(*Object)
	if ok {
		if m, ok := o.Data.(*weakMapData); ok {
			return m, nil
		}
	}
	return nil, ctx.ThrowType("this is not a %s", label)
}

func thisWeakSetData(ctx *EvaluationContext, this Value, label string) (*weakSetData, *ThrowSignal) {
	o, ok := this.(*Object)
	if ok {
		if s, ok := o.Data.(*weakSetData); ok {
			return s, nil
		}
	}
	return nil, ctx.ThrowType("this is not a %s", label)
}

func (r *Realm) newMapIterator(entries func() []mapEntry, kind string) *Object {
	o := NewObject(r, r.ObjectPrototype)
	index := 0
	r.defMethod(o, "next", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		live := entries()
		for index < len(live) && live[index].key == nil {
			index++
		}
		if index >= len(live) {
			return r.NewIteratorResult(Undefined, true), nil
		}
		e := live[index]
		index++
		switch kind {
		case "keys":
			return r.NewIteratorResult(e.key, false), nil
		case "values":
			return r.NewIteratorResult(e.value, false), nil
		default:
			return r.NewIteratorResult(r.NewArrayFromSlice([]Value{e.key, e.value}), false), nil
		}
	})
	r.defSymbolMethod(o, r.WellKnown.Iterator, "[Symbol.iterator]", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return o, nil
	})
	return o
}

func (r *Realm) installMapSet() {
	r.installMap()
	r.installSet()
	r.installWeakMap()
	r.installWeakSet()
}

func (r *Realm) installMap() {
	proto := r.MapPrototype

	r.defAccessor(proto, "size", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		return Number(m.size()), nil
	}, nil)
	r.defMethod(proto, "get", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		if v, ok := m.get(firstArg(args)); ok {
			return v, nil
		}
		return Undefined, nil
	})
	r.defMethod(proto, "set", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		m.set(firstArg(args), secondArg(args))
		return this, nil
	})
	r.defMethod(proto, "has", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		_, ok := m.get(firstArg(args))
		return Boolean(ok), nil
	})
	r.defMethod(proto, "delete", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		return Boolean(m.delete(firstArg(args))), nil
	})
	r.defMethod(proto, "clear", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		m.clear()
		return Undefined, nil
	})
	r.defMethod(proto, "forEach", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		thisArg := secondArg(args)
		for i := 0; i < len(m.entries); i++ {
			e := m.entries[i]
			if e.key == nil {
				continue
			}
			if _, sig := callFn(ctx, firstArg(args), thisArg, []Value{e.value, e.key, this}, "Map.prototype.forEach"); sig != nil {
				return nil, sig
			}
		}
		return Undefined, nil
	})
	addMapIterators(r, proto)

	r.MapConstructor = r.newConstructor("Map", 0,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			o := newBareObject(r, MapKind, "Map")
			o.proto = proto
			o.Data = &mapData{}
			if sig := seedMapLike(ctx, o.Data.(*mapData), firstArg(args)); sig != nil {
				return nil, sig
			}
			return o, nil
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Constructor Map requires 'new'")
		}, proto)
}

func seedMapLike(ctx *EvaluationContext, m *mapData, iterable Value) *ThrowSignal {
	if IsNullish(iterable) {
		return nil
	}
	pairs, sig := IterableOrArrayLikeToSlice(ctx, iterable)
	if sig != nil {
		return sig
	}
	for _, pair := range pairs {
		po, ok := pair.(*Object)
		if !ok {
			return ctx.ThrowType("Iterator value is not an entry object")
		}
		k, sig := Get(ctx, po, "0", po)
		if sig != nil {
			return sig
		}
		v, sig := Get(ctx, po, "1", po)
		if sig != nil {
			return sig
		}
		m.set(k, v)
	}
	return nil
}

func addMapIterators(r *Realm, proto *Object) {
	r.defMethod(proto, "keys", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		return r.newMapIterator(func() []mapEntry { return m.entries }, "keys"), nil
	})
	r.defMethod(proto, "values", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		return r.newMapIterator(func() []mapEntry { return m.entries }, "values"), nil
	})
	r.defMethod(proto, "entries", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		return r.newMapIterator(func() []mapEntry { return m.entries }, "entries"), nil
	})
	r.defSymbolMethod(proto, r.WellKnown.Iterator, "[Symbol.iterator]", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisMapData(ctx, this, "Map")
		if sig != nil {
			return nil, sig
		}
		return r.newMapIterator(func() []mapEntry { return m.entries }, "entries"), nil
	})
}

func (r *Realm) installSet() {
	proto := r.SetPrototype

	r.defAccessor(proto, "size", func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSetData(ctx, this, "Set")
		if sig != nil {
			return nil, sig
		}
		return Number(s.size()), nil
	}, nil)
	r.defMethod(proto, "add", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSetData(ctx, this, "Set")
		if sig != nil {
			return nil, sig
		}
		s.add(firstArg(args))
		return this, nil
	})
	r.defMethod(proto, "has", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSetData(ctx, this, "Set")
		if sig != nil {
			return nil, sig
		}
		return Boolean(s.has(firstArg(args))), nil
	})
	r.defMethod(proto, "delete", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSetData(ctx, this, "Set")
		if sig != nil {
			return nil, sig
		}
		return Boolean(s.delete(firstArg(args))), nil
	})
	r.defMethod(proto, "clear", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSetData(ctx, this, "Set")
		if sig != nil {
			return nil, sig
		}
		s.clear()
		return Undefined, nil
	})
	r.defMethod(proto, "forEach", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSetData(ctx, this, "Set")
		if sig != nil {
			return nil, sig
		}
		thisArg := secondArg(args)
		for i := 0; i < len(s.m.entries); i++ {
			e := s.m.entries[i]
			if e.key == nil {
				continue
			}
			if _, sig := callFn(ctx, firstArg(args), thisArg, []Value{e.value, e.key, this}, "Set.prototype.forEach"); sig != nil {
				return nil, sig
			}
		}
		return Undefined, nil
	})
	r.defMethod(proto, "keys", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSetData(ctx, this, "Set")
		if sig != nil {
			return nil, sig
		}
		return r.newMapIterator(func() []mapEntry { return s.m.entries }, "values"), nil
	})
	r.defMethod(proto, "values", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSetData(ctx, this, "Set")
		if sig != nil {
			return nil, sig
		}
		return r.newMapIterator(func() []mapEntry { return s.m.entries }, "values"), nil
	})
	r.defMethod(proto, "entries", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSetData(ctx, this, "Set")
		if sig != nil {
			return nil, sig
		}
		return r.newMapIterator(func() []mapEntry { return s.m.entries }, "entries"), nil
	})
	r.defSymbolMethod(proto, r.WellKnown.Iterator, "[Symbol.iterator]", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisSetData(ctx, this, "Set")
		if sig != nil {
			return nil, sig
		}
		return r.newMapIterator(func() []mapEntry { return s.m.entries }, "values"), nil
	})

	r.SetConstructor = r.newConstructor("Set", 0,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			o := newBareObject(r, SetKind, "Set")
			o.proto = proto
			sd := newSetData()
			o.Data = sd
			if !IsNullish(firstArg(args)) {
				vals, sig := IterableOrArrayLikeToSlice(ctx, firstArg(args))
				if sig != nil {
					return nil, sig
				}
				for _, v := range vals {
					sd.add(v)
				}
			}
			return o, nil
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Constructor Set requires 'new'")
		}, proto)
}

func (r *Realm) installWeakMap() {
	proto := r.WeakMapPrototype

	r.defMethod(proto, "get", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisWeakMapData(ctx, this, "WeakMap")
		if sig != nil {
			return nil, sig
		}
		ko, ok := firstArg(args).(*Object)
		if !ok {
			return Undefined, nil
		}
		if v, ok := m.get(ko); ok {
			return v, nil
		}
		return Undefined, nil
	})
	r.defMethod(proto, "set", 2, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisWeakMapData(ctx, this, "WeakMap")
		if sig != nil {
			return nil, sig
		}
		ko, ok := firstArg(args).(*Object)
		if !ok {
			return nil, ctx.ThrowType("Invalid value used as weak map key")
		}
		m.set(ko, secondArg(args))
		return this, nil
	})
	r.defMethod(proto, "has", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisWeakMapData(ctx, this, "WeakMap")
		if sig != nil {
			return nil, sig
		}
		ko, ok := firstArg(args).(*Object)
		if !ok {
			return Boolean(false), nil
		}
		_, ok = m.get(ko)
		return Boolean(ok), nil
	})
	r.defMethod(proto, "delete", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		m, sig := thisWeakMapData(ctx, this, "WeakMap")
		if sig != nil {
			return nil, sig
		}
		ko, ok := firstArg(args).(*Object)
		if !ok {
			return Boolean(false), nil
		}
		return Boolean(m.delete(ko)), nil
	})

	r.WeakMapConstructor = r.newConstructor("WeakMap", 0,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			o := newBareObject(r, WeakMapKind, "WeakMap")
			o.proto = proto
			m := newWeakMapData()
			o.Data = m
			if sig := seedWeakMapLike(ctx, m, firstArg(args)); sig != nil {
				return nil, sig
			}
			return o, nil
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Constructor WeakMap requires 'new'")
		}, proto)
}

func seedWeakMapLike(ctx *EvaluationContext, m *weakMapData, iterable Value) *ThrowSignal {
	if IsNullish(iterable) {
		return nil
	}
	pairs, sig := IterableOrArrayLikeToSlice(ctx, iterable)
	if sig != nil {
		return sig
	}
	for _, pair := range pairs {
		po, ok := pair.(*Object)
		if !ok {
			return ctx.ThrowType("Iterator value is not an entry object")
		}
		k, sig := Get(ctx, po, "0", po)
		if sig != nil {
			return sig
		}
		v, sig := Get(ctx, po, "1", po)
		if sig != nil {
			return sig
		}
		ko, ok := k.(*Object)
		if !ok {
			return ctx.ThrowType("Invalid value used as weak map key")
		}
		m.set(ko, v)
	}
	return nil
}

func (r *Realm) installWeakSet() {
	proto := r.WeakSetPrototype

	r.defMethod(proto, "add", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisWeakSetData(ctx, this, "WeakSet")
		if sig != nil {
			return nil, sig
		}
		ko, ok := firstArg(args).(*Object)
		if !ok {
			return nil, ctx.ThrowType("Invalid value used in weak set")
		}
		s.add(ko)
		return this, nil
	})
	r.defMethod(proto, "has", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisWeakSetData(ctx, this, "WeakSet")
		if sig != nil {
			return nil, sig
		}
		ko, ok := firstArg(args).(*Object)
		if !ok {
			return Boolean(false), nil
		}
		return Boolean(s.has(ko)), nil
	})
	r.defMethod(proto, "delete", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := thisWeakSetData(ctx, this, "WeakSet")
		if sig != nil {
			return nil, sig
		}
		ko, ok := firstArg(args).(*Object)
		if !ok {
			return Boolean(false), nil
		}
		return Boolean(s.delete(ko)), nil
	})

	r.WeakSetConstructor = r.newConstructor("WeakSet", 0,
		func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
			o := newBareObject(r, WeakSetKind, "WeakSet")
			o.proto = proto
			sd := newWeakSetData()
			o.Data = sd
			if !IsNullish(firstArg(args)) {
				vals, sig := IterableOrArrayLikeToSlice(ctx, firstArg(args))
				if sig != nil {
					return nil, sig
				}
				for _, v := range vals {
					ko, ok := v.(*Object)
					if !ok {
						return nil, ctx.ThrowType("Invalid value used in weak set")
					}
					sd.add(ko)
				}
			}
			return o, nil
		},
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return nil, ctx.ThrowType("Constructor WeakSet requires 'new'")
		}, proto)
}
