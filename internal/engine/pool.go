package engine

import (
	"sync"
)

// A sized pool for pixel buffers. Frames cycle quickly during live
// capture, so owned image data and conversion scratch space come from here
// instead of fresh allocations.

var bufPools sync.Map // key: size class (int), value: *sync.Pool

// sizeClass rounds n up to the next bucket to reduce churn.
func sizeClass(n int) int {
	const step = 4096
	if n <= step {
		return step
	}
	r := (n + step - 1) / step
	return r * step
}

// GetBuffer retrieves a []byte buffer of at least n bytes from the pool.
// The returned slice has length n but may have larger capacity. Buffers
// handed to an owned Image return automatically when the image is
// destroyed; everything else goes back via PutBuffer.
func GetBuffer(n int) []byte {
	cls := sizeClass(n)
	pAny, _ := bufPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]byte, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]byte, cls)[:n]
	}
	buf, ok := p.Get().([]byte)
	if !ok || cap(buf) < cls {
		buf = make([]byte, cls)
	} else {
		buf = buf[:cap(buf)]
	}
	return buf[:n]
}

// PutBuffer returns a buffer to the pool. It is safe to pass a nil slice,
// and slices that did not originate from GetBuffer are accepted too.
func PutBuffer(buf []byte) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := bufPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]byte, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return
	}
	// Reset length to full cap; contents need not be zeroed.
	p.Put(buf[:cap(buf)]) //nolint:staticcheck
}
