package jsvalue

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// localeLower/localeUpper back toLocaleLowerCase/toLocaleUpperCase with
// the root (language.Und) locale rules, which differ from simple
// byte-wise case mapping for a handful of codepoints (e.g. Turkish
// dotless-i is a different locale and intentionally not selected here).
func localeLower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func localeUpper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// unicodeNormalize implements String.prototype.normalize's four forms.
func unicodeNormalize(ctx *EvaluationContext, s, form string) (string, *ThrowSignal) {
	var f norm.Form
	switch form {
	case "NFC":
		f = norm.NFC
	case "NFD":
		f = norm.NFD
	case "NFKC":
		f = norm.NFKC
	case "NFKD":
		f = norm.NFKD
	default:
		return "", ctx.ThrowRange("The normalization form should be one of NFC, NFD, NFKC, NFKD")
	}
	return f.String(s), nil
}
