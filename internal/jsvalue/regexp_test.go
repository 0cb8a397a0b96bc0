package jsvalue

import "testing"

func TestRegExpTestAndExec(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	re, sig := r.NewRegExp(ctx, `\d+`, "")
	if sig != nil {
		t.Fatalf("NewRegExp: %v", sig)
	}
	if !asBool(t, methodOn(t, ctx, re, r.RegExpPrototype, "test", String("abc123"))) {
		t.Error("test(\"abc123\") should be true")
	}
	match := methodOn(t, ctx, re, r.RegExpPrototype, "exec", String("abc123"))
	matchObj, ok := match.(*Object)
	if !ok {
		t.Fatalf("exec should return a match array, got %T", match)
	}
	v, _ := Get(ctx, matchObj, "0", matchObj)
	if asString(t, v) != "123" {
		t.Errorf("exec result[0] = %v, want 123", v)
	}
}

func TestRegExpGlobalExecAdvancesLastIndex(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	re, sig := r.NewRegExp(ctx, `\d`, "g")
	if sig != nil {
		t.Fatalf("NewRegExp: %v", sig)
	}
	first := methodOn(t, ctx, re, r.RegExpPrototype, "exec", String("a1b2"))
	firstObj := first.(*Object)
	v, _ := Get(ctx, firstObj, "0", firstObj)
	if asString(t, v) != "1" {
		t.Errorf("first exec = %v, want 1", v)
	}
	lastIndex, sig := Get(ctx, re, "lastIndex", re)
	if sig != nil || asNumber(t, lastIndex) != 2 {
		t.Errorf("lastIndex after first exec = %v, want 2", lastIndex)
	}
	second := methodOn(t, ctx, re, r.RegExpPrototype, "exec", String("a1b2"))
	secondObj := second.(*Object)
	v2, _ := Get(ctx, secondObj, "0", secondObj)
	if asString(t, v2) != "2" {
		t.Errorf("second exec = %v, want 2", v2)
	}
}

func TestRegExpFlagsAccessors(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	re, sig := r.NewRegExp(ctx, `abc`, "gi")
	if sig != nil {
		t.Fatalf("NewRegExp: %v", sig)
	}
	global, sig := Get(ctx, re, "global", re)
	if sig != nil || !asBool(t, global) {
		t.Error("global flag should be true")
	}
	ignoreCase, sig := Get(ctx, re, "ignoreCase", re)
	if sig != nil || !asBool(t, ignoreCase) {
		t.Error("ignoreCase flag should be true")
	}
	multiline, sig := Get(ctx, re, "multiline", re)
	if sig != nil || asBool(t, multiline) {
		t.Error("multiline flag should be false")
	}
}

func TestRegExpInvalidSyntaxThrows(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	if _, sig := r.NewRegExp(ctx, `(`, ""); sig == nil {
		t.Error("an unbalanced group should throw a SyntaxError")
	}
}

func TestStringMatchAndReplaceWithRegExp(t *testing.T) {
	_, ctx := newTestContext()
	r := ctx.Realm
	re, sig := r.NewRegExp(ctx, `\d+`, "g")
	if sig != nil {
		t.Fatalf("NewRegExp: %v", sig)
	}
	result := methodOn(t, ctx, String("a1b22c333"), r.StringPrototype, "match", re)
	resultObj, ok := result.(*Object)
	if !ok {
		t.Fatalf("match(/\\d+/g) should return an array, got %T", result)
	}
	if arrayLength(resultObj) != 3 {
		t.Errorf("match(/\\d+/g) length = %d, want 3", arrayLength(resultObj))
	}
	replaced := methodOn(t, ctx, String("a1b22c333"), r.StringPrototype, "replace", re, String("#"))
	if asString(t, replaced) != "a#b#c#" {
		t.Errorf("replace(/\\d+/g, \"#\") = %q, want a#b#c#", asString(t, replaced))
	}
}
