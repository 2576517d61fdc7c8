// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"code.hybscloud.com/taskq"
)

// TestForBlockingWritesRange checks a parallel-for over [10, 15) writing
// i into out[i-10], driven by worker goroutines pulling from the same
// queue.
func TestForBlockingWritesRange(t *testing.T) {
	q := taskq.NewBuilder().MaxTasks(32).MaxContinuations(4).Build()

	var out [5]int32
	type outCtx struct {
		out *[5]int32
	}
	ctx := &outCtx{out: &out}

	const workers = 3
	var wg sync.WaitGroup
	for w := 1; w < workers; w++ {
		wg.Add(1)
		go func(workerIndex int32) {
			defer wg.Done()
			q.DequeueAndRun(workerIndex)
		}(int32(w))
	}

	q.ForBlocking(func(taskID int32, rawCtx unsafe.Pointer, workerIndex int32) {
		c := (*outCtx)(rawCtx)
		c.out[taskID-10] = taskID
	}, unsafe.Pointer(ctx), 10, 15, 0)

	q.EnqueueStop()
	wg.Wait()

	want := [5]int32{10, 11, 12, 13, 14}
	if out != want {
		t.Fatalf("out: got %v, want %v", out, want)
	}
}

// TestForBlockingFullBufferFallback checks that a capacity-1 queue
// running a parallel-for of 4 (and, more aggressively, 8) iterations on
// a single worker (the caller) makes progress via the inline Full
// fallback rather than deadlocking.
func TestForBlockingFullBufferFallback(t *testing.T) {
	for _, n := range []int32{4, 8} {
		q := taskq.NewBuilder().MaxTasks(1).MaxContinuations(1).Build()

		var ran [8]bool
		done := make(chan struct{})
		go func() {
			q.ForBlocking(func(taskID int32, ctx unsafe.Pointer, workerIndex int32) {
				ran[taskID] = true
			}, nil, 0, n, 0)
			close(done)
		}()

		select {
		case <-done:
		case <-closedAfterTimeout(t):
			t.Fatalf("ForBlocking(n=%d) on capacity-1 queue did not return: possible deadlock", n)
		}

		for i := int32(0); i < n; i++ {
			if !ran[i] {
				t.Fatalf("n=%d: iteration %d never ran", n, i)
			}
		}
	}
}

// TestForBlockingTotality checks that ForBlocking invokes
// function(i, ctx, _) exactly once for each i in [start, end), even when
// several worker goroutines are racing to steal tasks.
func TestForBlockingTotality(t *testing.T) {
	q := taskq.NewBuilder().MaxTasks(64).MaxContinuations(4).Build()

	const start, end = 100, 164
	var counts [end - start]atomic.Int32

	const workers = 4
	var wg sync.WaitGroup
	for w := 1; w < workers; w++ {
		wg.Add(1)
		go func(workerIndex int32) {
			defer wg.Done()
			q.DequeueAndRun(workerIndex)
		}(int32(w))
	}

	q.ForBlocking(func(taskID int32, ctx unsafe.Pointer, workerIndex int32) {
		counts[taskID-start].Add(1)
	}, nil, start, end, 0)

	q.EnqueueStop()
	wg.Wait()

	for i := range counts {
		if got := counts[i].Load(); got != 1 {
			t.Fatalf("iteration %d ran %d times, want exactly 1", start+i, got)
		}
	}
}

// TestEnqueueForFireAndForget exercises the non-worker producer variant:
// EnqueueFor posts all iterations and returns immediately; completion is
// observed later via IsComplete.
func TestEnqueueForFireAndForget(t *testing.T) {
	q := taskq.NewBuilder().MaxTasks(32).MaxContinuations(4).Build()

	var sum atomic.Int32
	handle := q.EnqueueFor(func(taskID int32, ctx unsafe.Pointer, workerIndex int32) {
		sum.Add(taskID)
	}, nil, 1, 5)

	for !q.IsComplete(handle) {
		q.DequeueAndRun(0)
	}

	if got := sum.Load(); got != 1+2+3+4 {
		t.Fatalf("sum: got %d, want %d", got, 1+2+3+4)
	}
}

// TestEnqueueForEmptyRange checks that an empty range returns NullHandle
// without posting any work.
func TestEnqueueForEmptyRange(t *testing.T) {
	q := taskq.NewBuilder().Build()
	h := q.EnqueueFor(func(taskID int32, ctx unsafe.Pointer, workerIndex int32) {
		t.Fatal("function invoked for an empty range")
	}, nil, 5, 5)
	if h != taskq.NullHandle {
		t.Fatalf("EnqueueFor on empty range: got %v, want NullHandle", h)
	}
}

func closedAfterTimeout(t *testing.T) <-chan struct{} {
	t.Helper()
	ch := make(chan struct{})
	timer := time.AfterFunc(5*time.Second, func() { close(ch) })
	t.Cleanup(func() { timer.Stop() })
	return ch
}
