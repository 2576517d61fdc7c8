// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// OnCompletedFunc is invoked, at most once, when every task in a job's
// continuation has run. It fires outside the continuation table's lock
// (see continuationTable.onTaskCompleted) so it may itself enqueue more work
// without recursive locking.
type OnCompletedFunc func(userID uint64, context unsafe.Pointer, workerIndex int32)

// ContinuationSlot is one entry in the table: bookkeeping for a single
// in-flight job. version and remaining are read outside the table lock
// (IsComplete is a lock-free read), hence atomix rather than plain fields.
type ContinuationSlot struct {
	onCompleted        OnCompletedFunc
	onCompletedContext unsafe.Pointer
	userID             uint64
	version            atomix.Int32
	remaining          atomix.Int32
	_                  pad
}

// UserID returns the opaque tag supplied at allocation time.
func (s *ContinuationSlot) UserID() uint64 {
	return s.userID
}

// Remaining returns a snapshot of the slot's remaining-task counter.
func (s *ContinuationSlot) Remaining() int32 {
	return s.remaining.LoadAcquire()
}

// continuationTable is a fixed-capacity, versioned slot array plus an
// id-pool, tracking a remaining-task counter and completion callback per
// in-flight job.
type continuationTable struct {
	_         pad
	locker    atomix.Uint32
	_         pad
	slots     []ContinuationSlot
	pool      *idPool
	liveCount int
	alloc     Allocator
}

func newContinuationTable(capacity int, alloc Allocator) *continuationTable {
	if capacity < 1 {
		capacity = 1
	}
	return &continuationTable{
		slots: alloc.AllocContinuationSlots(capacity),
		pool:  newIDPool(capacity),
		alloc: alloc,
	}
}

// dispose returns the slot buffer to the allocator. The table must not
// be used after this call.
func (t *continuationTable) dispose() {
	t.alloc.FreeContinuationSlots(t.slots)
	t.slots = nil
}

func (t *continuationTable) tryLock() bool {
	return t.locker.CompareAndSwapAcqRel(0, 1)
}

func (t *continuationTable) unlock() {
	t.locker.StoreRelease(0)
}

func (t *continuationTable) cap() int {
	return len(t.slots)
}

// tryAllocate claims a free slot and stamps it with a bumped version so
// any handle into its previous occupant reads as stale. Outcomes: nil
// (Success, handle valid), ErrContested, ErrFull.
func (t *continuationTable) tryAllocate(taskCount int32, userID uint64, onCompleted OnCompletedFunc, onCompletedContext unsafe.Pointer) (Handle, error) {
	if !t.tryLock() {
		return Handle{}, ErrContested
	}
	defer t.unlock()

	if t.liveCount >= len(t.slots) {
		return Handle{}, ErrFull
	}

	idx, ok := t.pool.take()
	if !ok {
		return Handle{}, ErrFull
	}

	s := &t.slots[idx]
	newVersion := s.version.LoadRelaxed() + 1
	s.onCompleted = onCompleted
	s.onCompletedContext = onCompletedContext
	s.userID = userID
	s.remaining.StoreRelaxed(taskCount)
	s.version.StoreRelease(newVersion)

	t.liveCount++

	return Handle{
		index:          uint32(idx),
		encodedVersion: uint32(newVersion) | initializedBit,
	}, nil
}

// allocate spin-retries tryAllocate until Success, treating Contested and
// Full alike as transient.
func (t *continuationTable) allocate(taskCount int32, userID uint64, onCompleted OnCompletedFunc, onCompletedContext unsafe.Pointer) Handle {
	sw := spin.Wait{}
	for {
		h, err := t.tryAllocate(taskCount, userID, onCompleted, onCompletedContext)
		if err == nil {
			return h
		}
		sw.Once()
	}
}

// get resolves a handle to its live slot, checking both range and
// version. Debug-asserts handle validity; returns nil on any failure in
// release builds.
func (t *continuationTable) get(h Handle) *ContinuationSlot {
	if !h.Initialized() || int(h.slotIndex()) >= len(t.slots) {
		if assertionsEnabled {
			panic("taskq: use of invalid continuation handle")
		}
		return nil
	}
	s := &t.slots[h.slotIndex()]
	if v := s.version.LoadAcquire(); v != h.version() {
		if assertionsEnabled {
			panic("taskq: continuation handle version mismatch (stale slot reuse)")
		}
		return nil
	}
	return s
}

// isComplete is a lock-free, monotonic read. True once the slot has
// been recycled past this handle's version, or once its remaining-task
// counter has reached zero.
func (t *continuationTable) isComplete(h Handle) bool {
	if !h.Initialized() || int(h.slotIndex()) >= len(t.slots) {
		return true
	}
	s := &t.slots[h.slotIndex()]
	sv := s.version.LoadAcquire()
	if sv != h.version() {
		return true
	}
	return s.remaining.LoadAcquire() == 0
}

// onTaskCompleted is called by the trampoline after running the
// wrapped user function. On the transition to zero remaining tasks it
// fires onCompleted outside the lock, then frees the slot back to the
// id-pool under the lock.
func (t *continuationTable) onTaskCompleted(h Handle, workerIndex int32) {
	s := t.get(h)
	if s == nil {
		return
	}

	if s.remaining.AddAcqRel(-1) != 0 {
		return
	}

	cb := s.onCompleted
	cbCtx := s.onCompletedContext
	userID := s.userID
	if cb != nil {
		cb(userID, cbCtx, workerIndex)
	}

	sw := spin.Wait{}
	for !t.tryLock() {
		sw.Once()
	}
	t.pool.put(int32(h.slotIndex()))
	t.liveCount--
	t.unlock()
}

// live returns a snapshot of the number of in-flight continuations.
// Read-only introspection, never consulted by the dispatch algorithms.
func (t *continuationTable) live() int {
	sw := spin.Wait{}
	for !t.tryLock() {
		sw.Once()
	}
	n := t.liveCount
	t.unlock()
	return n
}
