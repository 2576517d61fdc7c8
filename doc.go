// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package taskq provides a bounded, in-process, multi-producer
// multi-consumer task queue for driving a fixed pool of worker threads
// through fine-grained compute work.
//
// # Quick Start
//
//	q := taskq.NewQueue()
//
//	go func() { // worker loop
//	    for q.DequeueAndRun(0) {
//	    }
//	}()
//
//	q.EnqueueTasks([]taskq.Task{{
//	    Function: func(id int32, ctx unsafe.Pointer, worker int32) { fmt.Println(id) },
//	    TaskID:   1,
//	}})
//	q.EnqueueStop()
//
// # Continuations
//
// A continuation tracks completion of a group of tasks composing one
// logical job and fires a callback exactly once, when the last task in
// the group finishes:
//
//	var done int32
//	handle := q.AllocateContinuation(3, 42, func(userID uint64, ctx unsafe.Pointer, worker int32) {
//	    atomic.StoreInt32(&done, 1)
//	}, nil)
//
//	srcTasks := []taskq.Task{{Function: work, TaskID: 1}, {Function: work, TaskID: 2}, {Function: work, TaskID: 3}}
//	storage := make([]taskq.WrappedContext, 3)
//	wrapped := make([]taskq.Task, 3)
//	q.CreateCompletionWrappedTasks(handle, srcTasks, storage, wrapped)
//	q.EnqueueTasks(wrapped)
//
//	for !q.IsComplete(handle) {
//	    q.DequeueAndRun(0)
//	}
//
// # Parallel-for
//
// ForBlocking distributes a range across the pool: it runs the first
// iteration inline, posts the rest as tasks tracked by one continuation,
// and steals work while waiting for the group to finish. This is the
// primitive most callers reach for instead of hand-assembling
// continuations and wrapped tasks:
//
//	q.ForBlocking(func(i int32, ctx unsafe.Pointer, worker int32) {
//	    out[i] = compute(i)
//	}, nil, 0, n, workerIndex)
//
// EnqueueFor is the non-blocking counterpart for a caller that is not
// itself a worker: it posts every iteration and returns once they are
// posted, leaving completion to be observed via IsComplete or an
// OnCompletedFunc.
//
// # Error Handling
//
// Dispatch operations return sentinel errors rather than panicking:
// ErrContested, ErrEmpty, and ErrFull are transient (always safe to
// retry), ErrStop is terminal for a worker loop. IsTransient classifies
// the first three at once.
//
// # Thread Safety
//
// Every exported Queue method is safe for concurrent use by any number
// of producer and consumer goroutines. Two independent CAS spin locks,
// one for the ring buffer and one for the continuation table, are never
// held simultaneously.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives
// with explicit memory ordering, [code.hybscloud.com/spin] for
// CPU-pause spin-wait retries, and [code.hybscloud.com/iox] for the
// yielding backoff used while a parallel-for waits on a continuation.
package taskq
