package jsvalue

import (
	"math"
	"testing"
)

func TestDateConstructFromComponents(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	d := construct(t, ctx, r.DateConstructor, Number(2020), Number(0), Number(15))
	if got := asNumber(t, methodOn(t, ctx, d, r.DatePrototype, "getFullYear")); got != 2020 {
		t.Errorf("getFullYear() = %v, want 2020", got)
	}
	if got := asNumber(t, methodOn(t, ctx, d, r.DatePrototype, "getMonth")); got != 0 {
		t.Errorf("getMonth() = %v, want 0", got)
	}
	if got := asNumber(t, methodOn(t, ctx, d, r.DatePrototype, "getDate")); got != 15 {
		t.Errorf("getDate() = %v, want 15", got)
	}
}

func TestDateGetTimeAndValueOf(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	d := construct(t, ctx, r.DateConstructor, Number(0))
	if got := asNumber(t, methodOn(t, ctx, d, r.DatePrototype, "getTime")); got != 0 {
		t.Errorf("getTime() = %v, want 0", got)
	}
	if got := asNumber(t, methodOn(t, ctx, d, r.DatePrototype, "valueOf")); got != 0 {
		t.Errorf("valueOf() = %v, want 0", got)
	}
}

func TestDateSetTime(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	d := construct(t, ctx, r.DateConstructor, Number(0))
	methodOn(t, ctx, d, r.DatePrototype, "setTime", Number(86400000))
	if got := asNumber(t, methodOn(t, ctx, d, r.DatePrototype, "getTime")); got != 86400000 {
		t.Errorf("getTime() after setTime(86400000) = %v, want 86400000", got)
	}
	if got := asNumber(t, methodOn(t, ctx, d, r.DatePrototype, "getUTCDate")); got != 2 {
		t.Errorf("getUTCDate() one day after epoch = %v, want 2", got)
	}
}

func TestDateInvalidComponentsYieldNaN(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	d := construct(t, ctx, r.DateConstructor, Number(math.NaN()))
	if got := asNumber(t, methodOn(t, ctx, d, r.DatePrototype, "getTime")); !math.IsNaN(got) {
		t.Errorf("getTime() for an invalid date = %v, want NaN", got)
	}
}

func TestDateToISOString(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	d := construct(t, ctx, r.DateConstructor, Number(0))
	if got := asString(t, methodOn(t, ctx, d, r.DatePrototype, "toISOString")); got != "1970-01-01T00:00:00.000Z" {
		t.Errorf("toISOString() = %q, want 1970-01-01T00:00:00.000Z", got)
	}
}
