package jsvalue

// PropertyDescriptor is either a data or an accessor descriptor. The
// Has* flags track which attributes were actually present on a partial
// descriptor passed to DefineOwnProperty (ECMA-262 §6.2.6), which is
// required to implement the merge semantics of Object.defineProperty.
type PropertyDescriptor struct {
	HasValue        bool
	Value           Value
	HasWritable     bool
	Writable        bool
	HasGet          bool
	Get             *Object
	HasSet          bool
	Set             *Object
	HasEnumerable   bool
	Enumerable      bool
	HasConfigurable bool
	Configurable    bool
}

func (d *PropertyDescriptor) IsAccessor() bool { return d.HasGet || d.HasSet }
func (d *PropertyDescriptor) IsData() bool     { return d.HasValue || d.HasWritable }
func (d *PropertyDescriptor) IsGeneric() bool  { return !d.IsAccessor() && !d.IsData() }

// DataProperty builds a complete data descriptor, the shape most
// internal slot installation uses.
func DataProperty(v Value, writable, enumerable, configurable bool) *PropertyDescriptor {
	return &PropertyDescriptor{
		HasValue: true, Value: v,
		HasWritable: true, Writable: writable,
		HasEnumerable: true, Enumerable: enumerable,
		HasConfigurable: true, Configurable: configurable,
	}
}

// AccessorProperty builds a complete accessor descriptor.
func AccessorProperty(get, set *Object, enumerable, configurable bool) *PropertyDescriptor {
	return &PropertyDescriptor{
		HasGet: true, Get: get,
		HasSet: true, Set: set,
		HasEnumerable: true, Enumerable: enumerable,
		HasConfigurable: true, Configurable: configurable,
	}
}

func (d *PropertyDescriptor) clone() *PropertyDescriptor {
	c := *d
	return &c
}

// Complete fills in ECMA-262's defaults (false/undefined) for any
// attribute absent from a descriptor produced by ToPropertyDescriptor,
// as required before it is used to create (not merge into) a property.
func (d *PropertyDescriptor) complete() {
	if d.IsAccessor() {
		if !d.HasGet {
			d.HasGet, d.Get = true, nil
		}
		if !d.HasSet {
			d.HasSet, d.Set = true, nil
		}
	} else {
		if !d.HasValue {
			d.HasValue, d.Value = true, Undefined
		}
		if !d.HasWritable {
			d.HasWritable, d.Writable = true, false
		}
	}
	if !d.HasEnumerable {
		d.HasEnumerable, d.Enumerable = true, false
	}
	if !d.HasConfigurable {
		d.HasConfigurable, d.Configurable = true, false
	}
}
