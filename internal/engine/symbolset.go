package engine

// SymbolSet is the refcounted header over a chain of decoded symbols.
//
// The chain is laid out with cache-suppressed symbols first and verified
// ones after them: First points at the verified subchain that normal
// iteration sees, FirstUnfiltered at the very start. The set owns one
// reference on every symbol it contains.
type SymbolSet struct {
	refCount
	head  *Symbol // first verified symbol
	uhead *Symbol // full chain, including cache-suppressed symbols
	size  int     // number of verified symbols
}

// newSymbolSet assembles a set from the verified and suppressed node
// lists. Each node's single owning reference transfers to the set.
func newSymbolSet(verified, suppressed []*Symbol) *SymbolSet {
	set := &SymbolSet{}
	set.refCount.init()
	set.size = len(verified)

	var chain *Symbol
	for i := len(verified) - 1; i >= 0; i-- {
		verified[i].next = chain
		chain = verified[i]
	}
	set.head = chain
	for i := len(suppressed) - 1; i >= 0; i-- {
		suppressed[i].next = chain
		chain = suppressed[i]
	}
	set.uhead = chain
	return set
}

// Size returns the number of verified symbols in the set.
func (set *SymbolSet) Size() int { return set.size }

// First returns the first verified symbol, or nil when the set is empty.
// Borrowed pointer.
func (set *SymbolSet) First() *Symbol { return set.head }

// FirstUnfiltered returns the head of the full chain, including symbols
// suppressed by the inter-frame cache. Borrowed pointer.
func (set *SymbolSet) FirstUnfiltered() *Symbol { return set.uhead }

// Ref takes an additional reference.
func (set *SymbolSet) Ref() { set.ref("symbol set", 1) }

// Unref drops one reference and releases the contained symbols when the
// last one goes.
func (set *SymbolSet) Unref() {
	if set.ref("symbol set", -1) == 0 {
		set.destroy()
	}
}

func (set *SymbolSet) destroy() {
	for s := set.uhead; s != nil; {
		next := s.next
		s.Unref()
		s = next
	}
	set.head = nil
	set.uhead = nil
	set.size = 0
}
