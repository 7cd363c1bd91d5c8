package engine

import "sync/atomic"

// refCount is the shared reference count embedded in every graph object.
// Counts start at one for the creating owner. Once the count reaches zero
// the object is released; referencing it again is a bug in the layer above
// and panics rather than resurrecting the object.
type refCount struct {
	n atomic.Int32
}

func (r *refCount) init() { r.n.Store(1) }

// ref adds delta references and returns the new count. delta may be
// negative to drop references; the caller destroys the object when the
// returned count is zero.
func (r *refCount) ref(kind string, delta int32) int32 {
	n := r.n.Add(delta)
	switch {
	case n < 0:
		panic("engine: " + kind + " reference count dropped below zero")
	case delta > 0 && n == delta:
		panic("engine: reference to released " + kind)
	}
	return n
}

// count returns the current reference count. Test hook.
func (r *refCount) count() int32 { return r.n.Load() }
