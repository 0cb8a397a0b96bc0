package jsvalue

import (
	"encoding/binary"
	"math"
	"math/big"
)

// TypedArrayKindID identifies one of the eleven fixed-width numeric
// element kinds a TypedArray view can be backed by (§22.2).
type TypedArrayKindID uint8

const (
	Int8Kind TypedArrayKindID = iota
	Uint8Kind
	Uint8ClampedKind
	Int16Kind
	Uint16Kind
	Int32Kind
	Uint32Kind
	Float32Kind
	Float64Kind
	BigInt64Kind
	BigUint64Kind
)

// typedArrayKindInfo is the per-kind metadata NewRealm precomputes once:
// element size, the constructor's own name, and the read/write pair that
// does the byte-level (de)serialization for that kind.
type typedArrayKindInfo struct {
	ID          TypedArrayKindID
	Name        string
	BytesPerElm int
	IsBigInt    bool
	Read        func(b []byte, littleEndian bool) Value
	Write       func(ctx *EvaluationContext, b []byte, v Value, littleEndian bool) *ThrowSignal
	Prototype   *Object
	Constructor *Object
}

func clampToUint8(f float64) uint8 {
	if math.IsNaN(f) {
		return 0
	}
	r := math.Round(f)
	if r <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	// round-half-to-even at the boundary, matching ToUint8Clamp (§7.1.11)
	if f-math.Floor(f) == 0.5 && int(math.Floor(f))%2 == 0 {
		r = math.Floor(f)
	}
	return uint8(r)
}

func endianOf(little bool) binary.ByteOrder {
	if little {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (r *Realm) installTypedArrayKinds() {
	r.TypedArrayKinds = make(map[TypedArrayKindID]*typedArrayKindInfo)
	numeric := func(id TypedArrayKindID, name string, size int,
		read func(b []byte, o binary.ByteOrder) Value,
		write func(b []byte, o binary.ByteOrder, v float64)) {
		r.TypedArrayKinds[id] = &typedArrayKindInfo{
			ID: id, Name: name, BytesPerElm: size,
			Read: func(b []byte, le bool) Value { return read(b, endianOf(le)) },
			Write: func(ctx *EvaluationContext, b []byte, v Value, le bool) *ThrowSignal {
				f, sig := ToNumber(ctx, v)
				if sig != nil {
					return sig
				}
				write(b, endianOf(le), f)
				return nil
			},
		}
	}
	numeric(Int8Kind, "Int8Array", 1,
		func(b []byte, o binary.ByteOrder) Value { return Number(int8(b[0])) },
		func(b []byte, o binary.ByteOrder, f float64) { b[0] = byte(int8(toUint32Bits(f))) })
	numeric(Uint8Kind, "Uint8Array", 1,
		func(b []byte, o binary.ByteOrder) Value { return Number(b[0]) },
		func(b []byte, o binary.ByteOrder, f float64) { b[0] = byte(toUint32Bits(f)) })
	r.TypedArrayKinds[Uint8ClampedKind] = &typedArrayKindInfo{
		ID: Uint8ClampedKind, Name: "Uint8ClampedArray", BytesPerElm: 1,
		Read: func(b []byte, le bool) Value { return Number(b[0]) },
		Write: func(ctx *EvaluationContext, b []byte, v Value, le bool) *ThrowSignal {
			f, sig := ToNumber(ctx, v)
			if sig != nil {
				return sig
			}
			b[0] = clampToUint8(f)
			return nil
		},
	}
	numeric(Int16Kind, "Int16Array", 2,
		func(b []byte, o binary.ByteOrder) Value { return Number(int16(o.Uint16(b))) },
		func(b []byte, o binary.ByteOrder, f float64) { o.PutUint16(b, uint16(toUint32Bits(f))) })
	numeric(Uint16Kind, "Uint16Array", 2,
		func(b []byte, o binary.ByteOrder) Value { return Number(o.Uint16(b)) },
		func(b []byte, o binary.ByteOrder, f float64) { o.PutUint16(b, uint16(toUint32Bits(f))) })
	numeric(Int32Kind, "Int32Array", 4,
		func(b []byte, o binary.ByteOrder) Value { return Number(int32(o.Uint32(b))) },
		func(b []byte, o binary.ByteOrder, f float64) { o.PutUint32(b, toUint32Bits(f)) })
	numeric(Uint32Kind, "Uint32Array", 4,
		func(b []byte, o binary.ByteOrder) Value { return Number(o.Uint32(b)) },
		func(b []byte, o binary.ByteOrder, f float64) { o.PutUint32(b, toUint32Bits(f)) })
	numeric(Float32Kind, "Float32Array", 4,
		func(b []byte, o binary.ByteOrder) Value { return Number(math.Float32frombits(o.Uint32(b))) },
		func(b []byte, o binary.ByteOrder, f float64) { o.PutUint32(b, math.Float32bits(float32(f))) })
	numeric(Float64Kind, "Float64Array", 8,
		func(b []byte, o binary.ByteOrder) Value { return Number(math.Float64frombits(o.Uint64(b))) },
		func(b []byte, o binary.ByteOrder, f float64) { o.PutUint64(b, math.Float64bits(f)) })

	bigNumeric := func(id TypedArrayKindID, name string, signed bool) {
		r.TypedArrayKinds[id] = &typedArrayKindInfo{
			ID: id, Name: name, BytesPerElm: 8, IsBigInt: true,
			Read: func(b []byte, le bool) Value {
				bits := endianOf(le).Uint64(b)
				if signed {
					return NewBigInt(big.NewInt(int64(bits)))
				}
				return NewBigInt(new(big.Int).SetUint64(bits))
			},
			Write: func(ctx *EvaluationContext, b []byte, v Value, le bool) *ThrowSignal {
				bi, sig := ToBigInt(ctx, v)
				if sig != nil {
					return sig
				}
				var bits uint64
				if signed {
					bits = uint64(ToBigInt64(bi.Int()))
				} else {
					bits = ToBigUint64(bi.Int())
				}
				endianOf(le).PutUint64(b, bits)
				return nil
			},
		}
	}
	bigNumeric(BigInt64Kind, "BigInt64Array", true)
	bigNumeric(BigUint64Kind, "BigUint64Array", false)
}

// arrayBufferData is an ArrayBuffer's internal [[ArrayBufferData]] slot.
// owner points back at the ArrayBuffer object wrapping this slot, so
// views sharing the slot (DataView, TypedArray subarrays) can answer
// their "buffer" accessor without carrying a second pointer of their own.
type arrayBufferData struct {
	owner    *Object
	bytes    []byte
	detached bool
}

func (r *Realm) NewArrayBuffer(byteLength int) *Object {
	o := newBareObject(r, ArrayBufferKind, "ArrayBuffer")
	o.proto = r.ArrayBufferPrototype
	data := &arrayBufferData{bytes: make([]byte, byteLength)}
	data.owner = o
	o.Data = data
	return o
}

// wrapArrayBuffer builds the ArrayBuffer object for a slot that was
// allocated without going through NewArrayBuffer (e.g. the buffer backing
// a freshly constructed TypedArray), memoizing it on first access.
func (r *Realm) wrapArrayBuffer(data *arrayBufferData) *Object {
	if data.owner == nil {
		o := newBareObject(r, ArrayBufferKind, "ArrayBuffer")
		o.proto = r.ArrayBufferPrototype
		o.Data = data
		data.owner = o
	}
	return data.owner
}

// dataViewData is a DataView's [[ViewedArrayBuffer]]/[[ByteOffset]]/
// [[ByteLength]] slots.
type dataViewData struct {
	buffer     *arrayBufferData
	byteOffset int
	byteLength int
}

// typedArrayData is a TypedArray's integer-indexed exotic object state:
// the backing buffer, the element kind, the view's offset in bytes and
// its length in elements (§10.4.5's Integer-Indexed Exotic Objects).
type typedArrayData struct {
	buffer     *arrayBufferData
	kind       *typedArrayKindInfo
	byteOffset int
	len        int // element count
}

func (t *typedArrayData) length() int { return t.len }

func (t *typedArrayData) inBounds(idx int) bool {
	return idx >= 0 && idx < t.len && !t.buffer.detached
}

func (t *typedArrayData) byteSlice(idx int) []byte {
	start := t.byteOffset + idx*t.kind.BytesPerElm
	return t.buffer.bytes[start : start+t.kind.BytesPerElm]
}

func (t *typedArrayData) getOwnProperty(idx int) (*PropertyDescriptor, bool) {
	if !t.inBounds(idx) {
		return nil, false
	}
	v := t.kind.Read(t.byteSlice(idx), true)
	return DataProperty(v, true, true, true), true
}

func (t *typedArrayData) setIndex(ctx *EvaluationContext, idx int, v Value) (bool, *ThrowSignal) {
	// Spec order: convert the value before bounds-checking so side
	// effects of a valueOf on v are observable even for an out-of-range
	// index (§10.4.5.9 IntegerIndexedElementSet).
	var sig *ThrowSignal
	if t.kind.IsBigInt {
		_, sig = ToBigInt(ctx, v)
	} else {
		_, sig = ToNumber(ctx, v)
	}
	if sig != nil {
		return false, sig
	}
	if !t.inBounds(idx) {
		return true, nil
	}
	if sig := t.kind.Write(ctx, t.byteSlice(idx), v, true); sig != nil {
		return false, sig
	}
	return true, nil
}

func (t *typedArrayData) defineOwnProperty(ctx *EvaluationContext, idx int, desc *PropertyDescriptor) (bool, *ThrowSignal) {
	if desc.IsAccessor() {
		return false, nil
	}
	if !t.inBounds(idx) {
		return false, nil
	}
	if desc.HasConfigurable && !desc.Configurable {
		return false, nil
	}
	if desc.HasEnumerable && !desc.Enumerable {
		return false, nil
	}
	if desc.HasWritable && !desc.Writable {
		return false, nil
	}
	if desc.HasValue {
		ok, sig := t.setIndex(ctx, idx, desc.Value)
		return ok, sig
	}
	return true, nil
}

func (t *typedArrayData) deleteIndex(idx int) bool {
	return !t.inBounds(idx)
}
