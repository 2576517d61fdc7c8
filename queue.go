// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// Queue is the public dispatch surface: a bounded ring buffer of tasks
// plus a continuation table tracking in-flight jobs. The zero Queue is
// not usable; construct one with NewQueue or a Builder.
type Queue struct {
	ring    *ringBuffer
	conts   *continuationTable
	alloc   Allocator
	stopped atomix.Bool
}

// TryDequeue returns the task on success, or one of ErrContested,
// ErrEmpty, ErrStop.
func (q *Queue) TryDequeue() (Task, error) {
	return q.ring.tryDequeue()
}

// TryDequeueAndRun dequeues one task and runs it with workerIndex,
// returning the dequeue outcome.
func (q *Queue) TryDequeueAndRun(workerIndex int32) error {
	return q.ring.tryDequeueAndRun(workerIndex)
}

// DequeueAndRun spin-retries TryDequeueAndRun: true on Success, false on
// the stop sentinel.
func (q *Queue) DequeueAndRun(workerIndex int32) bool {
	return q.ring.dequeueAndRun(workerIndex)
}

// TryEnqueueTasks returns nil on success, or one of ErrContested,
// ErrFull.
func (q *Queue) TryEnqueueTasks(tasks []Task) error {
	return q.ring.tryEnqueue(tasks)
}

// EnqueueTasks spin-retries TryEnqueueTasks until Success.
func (q *Queue) EnqueueTasks(tasks []Task) {
	q.ring.enqueue(tasks)
}

// TryEnqueueStop posts the stop sentinel (a single Task with a nil
// Function). Returns nil, ErrContested, or ErrFull exactly like
// TryEnqueueTasks.
func (q *Queue) TryEnqueueStop() error {
	err := q.ring.tryEnqueueStop()
	if err == nil {
		q.stopped.StoreRelease(true)
	}
	return err
}

// EnqueueStop spin-retries TryEnqueueStop until Success.
func (q *Queue) EnqueueStop() {
	q.ring.enqueueStop()
	q.stopped.StoreRelease(true)
}

// IsStopped is a cheap hint that EnqueueStop has been called. It does not
// change Stop semantics: the sentinel is still discovered authoritatively
// via TryDequeue/DequeueAndRun. A worker loop can use this to skip a
// dequeue attempt it expects to return Stop, nothing more.
func (q *Queue) IsStopped() bool {
	return q.stopped.LoadAcquire()
}

// TryAllocateContinuation claims a continuation slot. taskCount is the
// number of wrapped tasks the new continuation will track. onCompleted
// may be nil. Returns the handle on success, or ErrContested/ErrFull.
func (q *Queue) TryAllocateContinuation(taskCount int32, userID uint64, onCompleted OnCompletedFunc, onCompletedContext unsafe.Pointer) (Handle, error) {
	return q.conts.tryAllocate(taskCount, userID, onCompleted, onCompletedContext)
}

// AllocateContinuation spin-retries TryAllocateContinuation until
// Success.
func (q *Queue) AllocateContinuation(taskCount int32, userID uint64, onCompleted OnCompletedFunc, onCompletedContext unsafe.Pointer) Handle {
	return q.conts.allocate(taskCount, userID, onCompleted, onCompletedContext)
}

// IsComplete reports true once h's slot has reached a zero
// remaining-task count, or has already been recycled past h's version.
// Lock-free, monotonic with respect to h.
func (q *Queue) IsComplete(h Handle) bool {
	return q.conts.isComplete(h)
}

// GetContinuation returns nil if h is uninitialized, out of range, or
// stale (version mismatch); in debug builds (see assertionsEnabled)
// these instead panic. The returned pointer is valid only while the
// slot remains live.
func (q *Queue) GetContinuation(h Handle) *ContinuationSlot {
	return q.conts.get(h)
}

// CreateCompletionWrappedTasks builds, for each srcTasks[i], a
// WrappedContext tying it to h in storage[i], and a Task in outTasks[i]
// whose Function is the stable trampoline and whose Context points at
// storage[i]. srcTasks, storage, and outTasks must have equal length.
// storage must outlive execution of every task in outTasks.
func (q *Queue) CreateCompletionWrappedTasks(h Handle, srcTasks []Task, storage []WrappedContext, outTasks []Task) {
	if assertionsEnabled && (len(srcTasks) != len(storage) || len(srcTasks) != len(outTasks)) {
		panic("taskq: CreateCompletionWrappedTasks: mismatched slice lengths")
	}
	for i := range srcTasks {
		storage[i] = WrappedContext{
			function: srcTasks[i].Function,
			context:  srcTasks[i].Context,
			handle:   h,
			table:    q.conts,
		}
		outTasks[i] = Task{
			Function: trampoline,
			Context:  unsafe.Pointer(&storage[i]),
			TaskID:   srcTasks[i].TaskID,
		}
	}
}

// Stats is a read-only occupancy snapshot. Neither field is used by the
// dispatch algorithms; this exists purely for diagnostics, the same
// role lfq.Cap() plays for queue capacity.
type Stats struct {
	TasksPending      int
	ContinuationsLive int
}

// Stats returns a point-in-time occupancy snapshot.
func (q *Queue) Stats() Stats {
	return Stats{
		TasksPending:      q.ring.pending(),
		ContinuationsLive: q.conts.live(),
	}
}

// TaskCap returns the ring buffer's rounded-up task capacity.
func (q *Queue) TaskCap() int {
	return q.ring.cap()
}

// ContinuationCap returns the continuation table's capacity.
func (q *Queue) ContinuationCap() int {
	return q.conts.cap()
}

// Dispose returns the ring buffer's task array and the continuation
// table's slot array to the Allocator supplied at construction (or the
// default allocator). The Queue must not be used after Dispose.
func (q *Queue) Dispose() {
	q.ring.dispose()
	q.conts.dispose()
}
