package jsvalue

import "github.com/google/uuid"

// Symbol is an interned primitive identified by an optional description
// and a process-unique identity. Two Symbol() calls with the same
// description produce distinct, unequal symbols; Symbol.for interns by
// description through a realm-level registry (see realm.go).
type Symbol struct {
	Description string
	HasDesc     bool
	id          string
}

func (*Symbol) Kind() Kind { return KindSymbol }

// NewSymbol allocates a fresh symbol. The identity is minted with uuid
// rather than a process counter so that symbols created concurrently
// from independently booted realms never collide, matching §6's
// requirement that the encoding be "injection-free" and stable only
// within a single key's lifetime, not across processes.
func NewSymbol(description string, hasDescription bool) *Symbol {
	return &Symbol{Description: description, HasDesc: hasDescription, id: uuid.NewString()}
}

// Key returns the stable per-process encoding used to index symbol-keyed
// property maps and well-known-symbol lookups (§6).
func (s *Symbol) Key() string { return "@@symbol:" + s.id }

func (s *Symbol) String() string {
	if s.HasDesc {
		return "Symbol(" + s.Description + ")"
	}
	return "Symbol()"
}

// WellKnownSymbols holds the engine-defined protocol-hook symbols that
// every realm preallocates and exposes on the Symbol constructor.
type WellKnownSymbols struct {
	Iterator      *Symbol
	AsyncIterator *Symbol
	Match         *Symbol
	MatchAll      *Symbol
	Replace       *Symbol
	Search        *Symbol
	Split         *Symbol
	ToPrimitive   *Symbol
	ToStringTag   *Symbol
	HasInstance   *Symbol
	IsConcatSpreadable *Symbol
	Unscopables   *Symbol
}

func newWellKnownSymbols() *WellKnownSymbols {
	mk := func(name string) *Symbol { return NewSymbol("Symbol."+name, true) }
	return &WellKnownSymbols{
		Iterator:           mk("iterator"),
		AsyncIterator:      mk("asyncIterator"),
		Match:              mk("match"),
		MatchAll:           mk("matchAll"),
		Replace:            mk("replace"),
		Search:             mk("search"),
		Split:              mk("split"),
		ToPrimitive:        mk("toPrimitive"),
		ToStringTag:        mk("toStringTag"),
		HasInstance:        mk("hasInstance"),
		IsConcatSpreadable: mk("isConcatSpreadable"),
		Unscopables:        mk("unscopables"),
	}
}
