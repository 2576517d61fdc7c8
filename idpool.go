// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

// idPool hands out and recycles indices in [0, capacity) with O(1) take
// and put. The continuation table needs one to allocate slots from, so
// this is the minimal such primitive.
//
// It is a plain LIFO free-list rather than an adaptation of one of
// lfq's lock-free ring buffers (SPSC's cached-index Lamport ring,
// MPMC's SCQ): every call into idPool happens while continuationTable
// already holds its own CAS lock (see continuation.go), so there is
// never more than one accessor at a time. Reaching for a concurrent
// structure here would add indirection a single already-serialized
// caller can never benefit from. It is the one place in this package where
// the standard library, not the lfq idiom, is the right tool.
type idPool struct {
	free []int32 // stack of recycled indices, LIFO
	next int32   // next never-yet-issued index
	cap  int32
}

func newIDPool(capacity int) *idPool {
	return &idPool{cap: int32(capacity)}
}

// take returns a free index, or ok=false if the pool is exhausted.
func (p *idPool) take() (int32, bool) {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		return idx, true
	}
	if p.next >= p.cap {
		return 0, false
	}
	idx := p.next
	p.next++
	return idx, true
}

// put returns idx to the pool for future reuse.
func (p *idPool) put(idx int32) {
	p.free = append(p.free, idx)
}
