// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// ringBuffer is a bounded power-of-two circular buffer of task records.
// Three monotonic cursors coordinate producers and consumers:
//
//	dequeueCursor   next index a consumer will hand out
//	allocatedCursor next index a producer has reserved (bumped before write)
//	writtenCursor   one past the last index safe to read (the publish fence)
//
// Unlike lfq's FAA/SCQ-based MPMC queues, mutation of the cursors
// is serialized by a single CAS spin-lock rather than lock-free per-slot
// sequence numbers, so the lock is the one place taskq's algorithm shape
// departs from lfq. The atomics idiom, CAS-acquire, release-store on
// every exit path, spin.Wait-driven retry, is carried over unchanged.
type ringBuffer struct {
	_               pad
	locker          atomix.Uint32
	_               pad
	dequeueCursor   atomix.Uint64
	_               pad
	allocatedCursor atomix.Uint64
	_               pad
	writtenCursor   atomix.Uint64
	_               pad
	tasks           []Task
	mask            uint64
	alloc           Allocator
}

func newRingBuffer(capacity int, alloc Allocator) *ringBuffer {
	n := uint64(roundToPow2(capacity))
	if n < 1 {
		n = 1
	}
	return &ringBuffer{
		tasks: alloc.AllocTasks(int(n)),
		mask:  n - 1,
		alloc: alloc,
	}
}

// dispose returns the task buffer to the allocator. The ring buffer must
// not be used after this call.
func (r *ringBuffer) dispose() {
	r.alloc.FreeTasks(r.tasks)
	r.tasks = nil
}

func (r *ringBuffer) length() uint64 {
	return r.mask + 1
}

// cap returns the buffer's rounded-up task capacity.
func (r *ringBuffer) cap() int {
	return int(r.length())
}

func (r *ringBuffer) tryLock() bool {
	return r.locker.CompareAndSwapAcqRel(0, 1)
}

func (r *ringBuffer) unlock() {
	r.locker.StoreRelease(0)
}

// tryEnqueue reserves a contiguous span of the buffer for len(tasks)
// records, copies them in (handling wraparound), and publishes them by
// advancing writtenCursor last. Outcomes: nil (Success), ErrContested,
// ErrFull.
func (r *ringBuffer) tryEnqueue(tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if !r.tryLock() {
		return ErrContested
	}
	defer r.unlock()

	if assertionsEnabled {
		wc := r.writtenCursor.LoadRelaxed()
		if wc > 0 && r.tasks[(wc-1)&r.mask].IsStop() {
			panic("taskq: enqueue after stop sentinel")
		}
	}

	start := r.allocatedCursor.LoadRelaxed()
	end := start + uint64(len(tasks))

	if end-r.dequeueCursor.LoadAcquire() > r.length() {
		// allocatedCursor is left untouched (not advanced to end) on
		// Full: a caller that is also its own only consumer (the
		// parallel-for Full fallback) never advances dequeueCursor
		// between retries, so advancing the reservation here would burn
		// capacity every attempt and never converge.
		return ErrFull
	}
	r.allocatedCursor.StoreRelaxed(end)

	length := r.length()
	ws := start & r.mask
	we := end & r.mask
	if we > ws {
		copy(r.tasks[ws:we], tasks)
	} else {
		n1 := length - ws
		copy(r.tasks[ws:length], tasks[:n1])
		copy(r.tasks[0:we], tasks[n1:])
	}

	r.writtenCursor.StoreRelease(end)
	return nil
}

// tryEnqueueStop posts the stop sentinel: tryEnqueue on a single
// null-function record.
func (r *ringBuffer) tryEnqueueStop() error {
	return r.tryEnqueue([]Task{StopTask()})
}

// enqueue spin-retries tryEnqueue until Success, treating Contested and
// Full alike as transient (Full only resolves once a consumer drains).
func (r *ringBuffer) enqueue(tasks []Task) {
	sw := spin.Wait{}
	for {
		if err := r.tryEnqueue(tasks); err == nil {
			return
		}
		sw.Once()
	}
}

func (r *ringBuffer) enqueueStop() {
	sw := spin.Wait{}
	for {
		if err := r.tryEnqueueStop(); err == nil {
			return
		}
		sw.Once()
	}
}

// tryDequeue reads the next unconsumed record and, unless it is the
// stop sentinel, advances dequeueCursor past it. Outcomes: nil (Success,
// task valid), ErrContested, ErrEmpty, ErrStop. The stop sentinel is
// never consumed: dequeueCursor does not advance past it, so every
// worker that reaches it observes Stop.
func (r *ringBuffer) tryDequeue() (Task, error) {
	if !r.tryLock() {
		return Task{}, ErrContested
	}
	defer r.unlock()

	dq := r.dequeueCursor.LoadRelaxed()
	wc := r.writtenCursor.LoadAcquire()
	if dq >= wc {
		return Task{}, ErrEmpty
	}

	t := r.tasks[dq&r.mask]
	if t.IsStop() {
		return t, ErrStop
	}
	r.dequeueCursor.StoreRelaxed(dq + 1)
	return t, nil
}

// tryDequeueAndRun dequeues one task and, on success, runs it with the
// given worker index. Returns the dequeue outcome.
func (r *ringBuffer) tryDequeueAndRun(workerIndex int32) error {
	t, err := r.tryDequeue()
	if err != nil {
		return err
	}
	t.Function(t.TaskID, t.Context, workerIndex)
	return nil
}

// dequeueAndRun spin-retries tryDequeueAndRun: true on Success, false on
// Stop. Empty and Contested back off and retry.
func (r *ringBuffer) dequeueAndRun(workerIndex int32) bool {
	sw := spin.Wait{}
	for {
		err := r.tryDequeueAndRun(workerIndex)
		if err == nil {
			return true
		}
		if err == ErrStop {
			return false
		}
		sw.Once()
	}
}

// pending returns a snapshot of the number of records not yet dequeued.
// Read-only introspection; never used by the dispatch algorithms
// themselves.
func (r *ringBuffer) pending() int {
	wc := r.writtenCursor.LoadAcquire()
	dq := r.dequeueCursor.LoadAcquire()
	if wc <= dq {
		return 0
	}
	return int(wc - dq)
}
