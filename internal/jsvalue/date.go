package jsvalue

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
	maxTimeMs   = 8.64e15
)

// dateData is a Date's internal [[DateValue]] slot: the number of
// milliseconds since the epoch, or NaN for an invalid date.
type dateData struct {
	timeValue float64
}

func nanValue() float64 { return math.NaN() }

// timeClip implements TimeClip (§21.4.1.30): out-of-range or non-finite
// inputs collapse to NaN rather than a wrapped/saturated value.
func timeClip(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) || math.Abs(t) > maxTimeMs {
		return math.NaN()
	}
	return math.Trunc(t + 0)
}

func (r *Realm) thisDateData(ctx *EvaluationContext, this Value) (*dateData, *ThrowSignal) {
	o, ok := this.(*Object)
	if !ok {
		return nil, ctx.ThrowType("this is not a Date object")
	}
	d, ok := o.Data.(*dateData)
	if !ok {
		return nil, ctx.ThrowType("this is not a Date object")
	}
	return d, nil
}

func timeFromGoTime(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func goTimeFromMs(ms float64) time.Time {
	if math.IsNaN(ms) {
		return time.Time{}
	}
	sec := int64(ms) / msPerSecond
	rem := int64(ms) - sec*msPerSecond
	return time.Unix(sec, rem*int64(time.Millisecond)).UTC()
}

// makeDate assembles a time value from calendar components the way the
// MakeDate/MakeDay/MakeTime abstract operations do, tolerating
// out-of-range fields (month 13 rolls into the next year, etc.) by
// delegating to time.Date's own normalization, then clipping.
func makeDate(year, month, day, hour, min, sec, ms float64) float64 {
	if anyNaNOrInf(year, month, day, hour, min, sec, ms) {
		return math.NaN()
	}
	y := int(year)
	t := time.Date(y, time.Month(1)+time.Month(int(month)), int(day), int(hour), int(min), int(sec), int(ms)*int(time.Millisecond), time.UTC)
	return timeClip(timeFromGoTime(t))
}

func anyNaNOrInf(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func (r *Realm) NewDate(timeValue float64) *Object {
	o := newBareObject(r, DateKind, "Date")
	o.proto = r.DatePrototype
	o.Data = &dateData{timeValue: timeClip(timeValue)}
	return o
}

// dateConstruct implements the Date constructor's four overloads: no
// args (now), one Date-or-primitive arg, 2+ numeric component args, or
// a parseable date string.
func dateConstruct(r *Realm) func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
	return func(ctx *EvaluationContext, args []Value, newTarget, receiver *Object) (Value, *ThrowSignal) {
		switch len(args) {
		case 0:
			return r.NewDate(timeFromGoTime(time.Now())), nil
		case 1:
			v := args[0]
			if src, ok := v.(*Object); ok {
				if d, ok := src.Data.(*dateData); ok {
					return r.NewDate(d.timeValue), nil
				}
			}
			prim, sig := ToPrimitive(ctx, v, HintDefault)
			if sig != nil {
				return nil, sig
			}
			if s, ok := prim.(String); ok {
				return r.NewDate(parseDateString(string(s))), nil
			}
			n, sig := ToNumber(ctx, prim)
			if sig != nil {
				return nil, sig
			}
			return r.NewDate(n), nil
		default:
			comps := make([]float64, 7)
			comps[2] = 1 // day defaults to 1
			for i := 0; i < len(args) && i < 7; i++ {
				n, sig := ToNumber(ctx, args[i])
				if sig != nil {
					return nil, sig
				}
				comps[i] = n
			}
			year := comps[0]
			if !math.IsNaN(year) && year >= 0 && year <= 99 {
				year += 1900
			}
			return r.NewDate(makeDate(year, comps[1], comps[2], comps[3], comps[4], comps[5], comps[6])), nil
		}
	}
}

// parseDateString accepts ISO 8601 (Date Time String Format, §21.4.1.15)
// and a handful of common layouts, returning NaN on failure.
func parseDateString(s string) float64 {
	s = strings.TrimSpace(s)
	layouts := []string{
		"2006-01-02T15:04:05.000Z07:00",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC1123,
		time.RFC1123Z,
		time.ANSIC,
		"Mon Jan 2 2006 15:04:05 GMT-0700 (MST)",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return timeClip(timeFromGoTime(t))
		}
	}
	return math.NaN()
}

func (r *Realm) installDate() {
	proto := r.DatePrototype

	get := func(name string, fn func(t time.Time) float64) {
		r.defMethod(proto, name, 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			d, sig := r.thisDateData(ctx, this)
			if sig != nil {
				return nil, sig
			}
			if math.IsNaN(d.timeValue) {
				return Number(math.NaN()), nil
			}
			return Number(fn(goTimeFromMs(d.timeValue))), nil
		})
	}
	get("getFullYear", func(t time.Time) float64 { return float64(t.Year()) })
	get("getUTCFullYear", func(t time.Time) float64 { return float64(t.Year()) })
	get("getMonth", func(t time.Time) float64 { return float64(t.Month() - 1) })
	get("getUTCMonth", func(t time.Time) float64 { return float64(t.Month() - 1) })
	get("getDate", func(t time.Time) float64 { return float64(t.Day()) })
	get("getUTCDate", func(t time.Time) float64 { return float64(t.Day()) })
	get("getDay", func(t time.Time) float64 { return float64(t.Weekday()) })
	get("getUTCDay", func(t time.Time) float64 { return float64(t.Weekday()) })
	get("getHours", func(t time.Time) float64 { return float64(t.Hour()) })
	get("getUTCHours", func(t time.Time) float64 { return float64(t.Hour()) })
	get("getMinutes", func(t time.Time) float64 { return float64(t.Minute()) })
	get("getUTCMinutes", func(t time.Time) float64 { return float64(t.Minute()) })
	get("getSeconds", func(t time.Time) float64 { return float64(t.Second()) })
	get("getUTCSeconds", func(t time.Time) float64 { return float64(t.Second()) })
	get("getMilliseconds", func(t time.Time) float64 { return float64(t.Nanosecond() / int(time.Millisecond)) })
	get("getUTCMilliseconds", func(t time.Time) float64 { return float64(t.Nanosecond() / int(time.Millisecond)) })

	r.defMethod(proto, "getTime", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return Number(d.timeValue), nil
	})
	r.defMethod(proto, "valueOf", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		return Number(d.timeValue), nil
	})
	r.defMethod(proto, "getTimezoneOffset", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(d.timeValue) {
			return Number(math.NaN()), nil
		}
		return Number(-r.TimeZone.UTCOffsetMs(d.timeValue) / msPerMinute), nil
	})

	set := func(name string, n int, apply func(t time.Time, args []float64) time.Time) {
		r.defMethod(proto, name, n, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			d, sig := r.thisDateData(ctx, this)
			if sig != nil {
				return nil, sig
			}
			nums := make([]float64, len(args))
			for i, a := range args {
				v, sig := ToNumber(ctx, a)
				if sig != nil {
					return nil, sig
				}
				nums[i] = v
			}
			if len(nums) == 0 {
				d.timeValue = math.NaN()
				return Number(d.timeValue), nil
			}
			for _, v := range nums {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					d.timeValue = math.NaN()
					return Number(d.timeValue), nil
				}
			}
			base := goTimeFromMs(d.timeValue)
			if math.IsNaN(d.timeValue) {
				base = time.Unix(0, 0).UTC()
			}
			d.timeValue = timeClip(timeFromGoTime(apply(base, nums)))
			return Number(d.timeValue), nil
		})
	}
	set("setFullYear", 3, func(t time.Time, a []float64) time.Time {
		month, day := int(t.Month())-1, t.Day()
		if len(a) > 1 {
			month = int(a[1])
		}
		if len(a) > 2 {
			day = int(a[2])
		}
		return time.Date(int(a[0]), time.Month(1+month), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	r.aliasMethod(proto, "setUTCFullYear", "setFullYear")
	set("setMonth", 2, func(t time.Time, a []float64) time.Time {
		day := t.Day()
		if len(a) > 1 {
			day = int(a[1])
		}
		return time.Date(t.Year(), time.Month(1+int(a[0])), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	r.aliasMethod(proto, "setUTCMonth", "setMonth")
	set("setDate", 1, func(t time.Time, a []float64) time.Time {
		return time.Date(t.Year(), t.Month(), int(a[0]), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	r.aliasMethod(proto, "setUTCDate", "setDate")
	set("setHours", 4, func(t time.Time, a []float64) time.Time {
		min, sec, ms := t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond)
		if len(a) > 1 {
			min = int(a[1])
		}
		if len(a) > 2 {
			sec = int(a[2])
		}
		if len(a) > 3 {
			ms = int(a[3])
		}
		return time.Date(t.Year(), t.Month(), t.Day(), int(a[0]), min, sec, ms*int(time.Millisecond), time.UTC)
	})
	r.aliasMethod(proto, "setUTCHours", "setHours")
	set("setMinutes", 3, func(t time.Time, a []float64) time.Time {
		sec, ms := t.Second(), t.Nanosecond()/int(time.Millisecond)
		if len(a) > 1 {
			sec = int(a[1])
		}
		if len(a) > 2 {
			ms = int(a[2])
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), int(a[0]), sec, ms*int(time.Millisecond), time.UTC)
	})
	r.aliasMethod(proto, "setUTCMinutes", "setMinutes")
	set("setSeconds", 2, func(t time.Time, a []float64) time.Time {
		ms := t.Nanosecond() / int(time.Millisecond)
		if len(a) > 1 {
			ms = int(a[1])
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), int(a[0]), ms*int(time.Millisecond), time.UTC)
	})
	r.aliasMethod(proto, "setUTCSeconds", "setSeconds")
	set("setMilliseconds", 1, func(t time.Time, a []float64) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), int(a[0])*int(time.Millisecond), time.UTC)
	})
	r.aliasMethod(proto, "setUTCMilliseconds", "setMilliseconds")

	r.defMethod(proto, "setTime", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		n, sig := ToNumber(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		d.timeValue = timeClip(n)
		return Number(d.timeValue), nil
	})

	r.defMethod(proto, "toISOString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(d.timeValue) {
			return nil, ctx.ThrowRange("Invalid time value")
		}
		t := goTimeFromMs(d.timeValue)
		return String(fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%03dZ",
			t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond))), nil
	})
	r.defMethod(proto, "toJSON", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		o, sig := ToObject(ctx, this)
		if sig != nil {
			return nil, sig
		}
		tv, sig := ToPrimitive(ctx, o, HintNumber)
		if sig != nil {
			return nil, sig
		}
		if n, ok := tv.(Number); ok && (math.IsNaN(float64(n)) || math.IsInf(float64(n), 0)) {
			return Null, nil
		}
		toISO, sig := Get(ctx, o, "toISOString", o)
		if sig != nil {
			return nil, sig
		}
		fn, ok := toISO.(*Object)
		if !ok || fn.Callable == nil {
			return nil, ctx.ThrowType("toISOString is not a function")
		}
		return fn.Callable.Invoke(ctx, o, nil)
	})
	r.defMethod(proto, "toUTCString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(d.timeValue) {
			return String("Invalid Date"), nil
		}
		t := goTimeFromMs(d.timeValue)
		return String(t.Format("Mon, 02 Jan 2006 15:04:05 GMT")), nil
	})
	r.defMethod(proto, "toDateString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(d.timeValue) {
			return String("Invalid Date"), nil
		}
		return String(goTimeFromMs(d.timeValue).Format("Mon Jan 02 2006")), nil
	})
	r.defMethod(proto, "toTimeString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(d.timeValue) {
			return String("Invalid Date"), nil
		}
		return String(goTimeFromMs(d.timeValue).Format("15:04:05 GMT+0000 (UTC)")), nil
	})
	r.defMethod(proto, "toString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(d.timeValue) {
			return String("Invalid Date"), nil
		}
		return String(goTimeFromMs(d.timeValue).Format("Mon Jan 02 2006 15:04:05 GMT+0000 (UTC)")), nil
	})
	r.defMethod(proto, "toLocaleDateString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(d.timeValue) {
			return String("Invalid Date"), nil
		}
		return String(goTimeFromMs(d.timeValue).Format("1/2/2006")), nil
	})
	r.defMethod(proto, "toLocaleTimeString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(d.timeValue) {
			return String("Invalid Date"), nil
		}
		return String(goTimeFromMs(d.timeValue).Format("3:04:05 PM")), nil
	})
	r.defMethod(proto, "toLocaleString", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		d, sig := r.thisDateData(ctx, this)
		if sig != nil {
			return nil, sig
		}
		if math.IsNaN(d.timeValue) {
			return String("Invalid Date"), nil
		}
		return String(goTimeFromMs(d.timeValue).Format("1/2/2006, 3:04:05 PM")), nil
	})

	proto.DefineOwnSymbol(r.WellKnown.ToPrimitive, DataProperty(r.newFunction("[Symbol.toPrimitive]", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		hint := HintDefault
		if len(args) > 0 {
			if s, ok := args[0].(String); ok {
				switch string(s) {
				case "string", "default":
					hint = HintString
				case "number":
					hint = HintNumber
				}
			}
		}
		o, ok := this.(*Object)
		if !ok {
			return nil, ctx.ThrowType("Date.prototype[Symbol.toPrimitive] called on non-object")
		}
		order := []string{"valueOf", "toString"}
		if hint == HintString {
			order = []string{"toString", "valueOf"}
		}
		for _, name := range order {
			m, sig := Get(ctx, o, name, o)
			if sig != nil {
				return nil, sig
			}
			if fn, ok := m.(*Object); ok && fn.Callable != nil {
				res, sig := fn.Callable.Invoke(ctx, o, nil)
				if sig != nil {
					return nil, sig
				}
				if _, isObj := res.(*Object); !isObj {
					return res, nil
				}
			}
		}
		return nil, ctx.ThrowType("Cannot convert object to primitive value")
	}), true, false, true))

	r.DateConstructor = r.newConstructor("Date", 7, dateConstruct(r),
		func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
			return String(goTimeFromMs(timeFromGoTime(time.Now())).Format("Mon Jan 02 2006 15:04:05 GMT+0000 (UTC)")), nil
		}, proto)

	r.defMethod(r.DateConstructor, "now", 0, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		return Number(timeFromGoTime(time.Now())), nil
	})
	r.defMethod(r.DateConstructor, "parse", 1, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		s, sig := ToStringValue(ctx, firstArg(args))
		if sig != nil {
			return nil, sig
		}
		return Number(parseDateString(string(s))), nil
	})
	r.defMethod(r.DateConstructor, "UTC", 7, func(ctx *EvaluationContext, this Value, args []Value) (Value, *ThrowSignal) {
		comps := make([]float64, 7)
		comps[2] = 1
		for i := 0; i < len(args) && i < 7; i++ {
			n, sig := ToNumber(ctx, args[i])
			if sig != nil {
				return nil, sig
			}
			comps[i] = n
		}
		year := comps[0]
		if len(args) > 0 && !math.IsNaN(year) && year >= 0 && year <= 99 {
			year += 1900
		}
		return Number(makeDate(year, comps[1], comps[2], comps[3], comps[4], comps[5], comps[6])), nil
	})
}

// aliasMethod copies an already-defined own method to a second name,
// e.g. the UTC-suffixed setters which share the same body as their
// local-time counterparts since this realm's TimeZone defaults to UTC.
func (r *Realm) aliasMethod(o *Object, alias, existing string) {
	d, ok := o.GetOwnProperty(existing)
	if !ok {
		return
	}
	o.DefineOwn(alias, d.clone())
}
