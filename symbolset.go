package okapi

import "github.com/okapiscan/okapi/internal/engine"

// SymbolSet is a handle on the full result of one scan. Like Symbol it
// shares ownership of the underlying collection, which stays alive while
// any handle to it or to one of its symbols is open.
type SymbolSet struct {
	eng *engine.SymbolSet
}

// newSymbolSet wraps an engine set borrowed from an image, a scanner or a
// composite symbol. The handle takes its own reference.
func newSymbolSet(e *engine.SymbolSet) *SymbolSet {
	if e == nil {
		return nil
	}
	e.Ref()
	return &SymbolSet{eng: e}
}

// adoptSymbolSet wraps an engine set whose caller-owned reference
// transfers into the handle. Used for scan results, which arrive with a
// reference already counted for the caller.
func adoptSymbolSet(e *engine.SymbolSet) *SymbolSet {
	if e == nil {
		return nil
	}
	return &SymbolSet{eng: e}
}

// Size returns the number of symbols in the set. Results suppressed by
// the inter-frame cache are not counted.
func (set *SymbolSet) Size() int { return set.eng.Size() }

// FirstSymbol returns a handle on the first symbol, or nil when the set
// is empty.
func (set *SymbolSet) FirstSymbol() *Symbol {
	return newSymbol(set.eng.First())
}

// FirstUnfiltered returns a handle on the first symbol of the full result
// chain, including sightings suppressed by the inter-frame cache, or nil.
func (set *SymbolSet) FirstUnfiltered() *Symbol {
	return newSymbol(set.eng.FirstUnfiltered())
}

// Iter returns an iterator over the set's symbols. Each call starts a
// fresh walk from the first symbol.
func (set *SymbolSet) Iter() *SymbolIter {
	return &SymbolIter{cur: set.eng.First()}
}

// Clone returns an independent handle on the same result collection.
func (set *SymbolSet) Clone() *SymbolSet { return newSymbolSet(set.eng) }

// Close releases the handle's reference on the collection. Close is
// idempotent.
func (set *SymbolSet) Close() error {
	if set == nil || set.eng == nil {
		return nil
	}
	set.eng.Unref()
	set.eng = nil
	return nil
}

// SymbolIter walks a result chain. The iterator borrows from its
// SymbolSet, which must stay open for the duration of the walk; the
// symbols it yields are independent handles the caller closes.
type SymbolIter struct {
	cur *engine.Symbol
}

// Next returns a handle on the next symbol, or nil when the chain is
// exhausted.
func (it *SymbolIter) Next() *Symbol {
	if it.cur == nil {
		return nil
	}
	s := newSymbol(it.cur)
	it.cur = it.cur.Next()
	return s
}
