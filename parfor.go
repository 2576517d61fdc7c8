// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

import (
	"unsafe"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// EnqueueFor posts every iteration of [start, end) as a trampoline-wrapped
// task tracked by a single continuation, and returns as soon as all of
// them are posted, without running any iteration locally or waiting for
// completion. Posting goes in batches of at most TaskCap tasks and spins
// while the ring buffer is full. It is the
// fire-and-forget counterpart to ForBlocking, for a producer that is not
// itself a worker. Progress and completion are observed later, either by
// polling IsComplete(handle) or by supplying an OnCompletedFunc via
// EnqueueForWithCompletion.
//
// If the range is empty, returns NullHandle, which IsComplete already
// reports as complete.
func (q *Queue) EnqueueFor(function TaskFunc, context unsafe.Pointer, start, end int32) Handle {
	return q.EnqueueForWithCompletion(function, context, start, end, 0, nil, nil)
}

// EnqueueForWithCompletion is EnqueueFor plus a completion callback,
// exposing the same onCompleted hook TryAllocateContinuation takes
// directly.
func (q *Queue) EnqueueForWithCompletion(function TaskFunc, context unsafe.Pointer, start, end int32, userID uint64, onCompleted OnCompletedFunc, onCompletedContext unsafe.Pointer) Handle {
	n := end - start
	if n <= 0 {
		return NullHandle
	}

	handle := q.conts.allocate(n, userID, onCompleted, onCompletedContext)

	srcTasks := make([]Task, n)
	for i := int32(0); i < n; i++ {
		srcTasks[i] = Task{Function: function, Context: context, TaskID: start + i}
	}
	storage := make([]WrappedContext, n)
	tasks := make([]Task, n)
	q.CreateCompletionWrappedTasks(handle, srcTasks, storage, tasks)

	for len(tasks) > 0 {
		k := min(len(tasks), q.ring.cap())
		q.ring.enqueue(tasks[:k])
		tasks = tasks[k:]
	}
	return handle
}

// ForBlocking distributes [start, end) across the pool and does not
// return until every iteration has run.
//
// Iteration start is always executed inline by the calling goroutine;
// its completion is implicit in allocating the continuation with
// task_count = N-1, so it is never itself wrapped. The remaining N-1
// iterations are posted as trampoline-wrapped tasks. If posting hits a
// full ring buffer, the caller executes one pending iteration itself and
// retries with the shortened remainder (the Full→inline fallback that
// makes a single-worker caller's progress independent of buffer
// capacity). While waiting for the continuation to complete, the caller
// steals and runs any task it can dequeue, keeping itself productive
// instead of idly spinning.
func (q *Queue) ForBlocking(function TaskFunc, context unsafe.Pointer, start, end, workerIndex int32) {
	n := end - start
	if n <= 0 {
		return
	}
	if n == 1 {
		function(start, context, workerIndex)
		return
	}

	remaining := n - 1
	srcTasks := make([]Task, remaining)
	for i := int32(0); i < remaining; i++ {
		srcTasks[i] = Task{Function: function, Context: context, TaskID: start + 1 + i}
	}
	storage := make([]WrappedContext, remaining)
	tasks := make([]Task, remaining)

	handle := q.conts.allocate(remaining, 0, nil, nil)
	q.CreateCompletionWrappedTasks(handle, srcTasks, storage, tasks)

	pending := tasks
	sw := spin.Wait{}
	for len(pending) > 0 {
		switch err := q.ring.tryEnqueue(pending); err {
		case nil:
			pending = nil
		case ErrFull:
			t := pending[0]
			t.Function(t.TaskID, t.Context, workerIndex)
			pending = pending[1:]
		default: // ErrContested
			sw.Once()
		}
	}

	function(start, context, workerIndex)

	var bo iox.Backoff
	for !q.conts.isComplete(handle) {
		switch err := q.ring.tryDequeueAndRun(workerIndex); err {
		case nil:
			bo.Reset()
		case ErrStop:
			// A for-loop was enqueued after EnqueueStop: a caller bug.
			// Debug builds fail loudly; release builds simply stop
			// waiting, matching the programmer-error handling used
			// elsewhere in this package.
			if assertionsEnabled {
				panic("taskq: ForBlocking observed stop sentinel while waiting on continuation")
			}
			return
		default: // ErrEmpty, ErrContested
			bo.Wait()
		}
	}
}
