// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

import "unsafe"

// TaskFunc is the signature every task body and trampoline must satisfy.
// workerIndex is opaque metadata the queue never inspects; it is threaded
// through purely so a worker loop can identify itself to the task.
type TaskFunc func(taskID int32, context unsafe.Pointer, workerIndex int32)

// Task is one scheduled unit of work: a function, an opaque context
// pointer the queue never dereferences or copies, and an id the caller
// assigns meaning to. The queue only ever copies the Task value itself.
//
// A Task with a nil Function is the reserved stop sentinel (see
// StopTask). Callers must never construct one by accident.
type Task struct {
	Function TaskFunc
	Context  unsafe.Pointer
	TaskID   int32
}

// IsStop reports whether t is the stop sentinel.
func (t Task) IsStop() bool {
	return t.Function == nil
}

// StopTask returns the reserved stop sentinel task record: a task with a
// nil Function. Once dequeued it is never consumed (see ringBuffer.tryDequeue),
// so every worker that reaches it observes it.
func StopTask() Task {
	return Task{}
}
