// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

import "unsafe"

// WrappedContext is the ephemeral storage backing one trampoline-wrapped
// task. Its lifetime must outlive execution of the task it backs; the
// queue never allocates it, only reads from it.
//
// ForBlocking and EnqueueFor each allocate one heap slice of these per
// call (see DESIGN.md). ForBlocking does not return until the
// continuation they back is complete; EnqueueFor returns earlier, and
// the queued tasks' Context pointers keep the slice reachable. Either
// way the backing memory outlives the tasks reading it.
type WrappedContext struct {
	function TaskFunc
	context  unsafe.Pointer
	handle   Handle
	table    *continuationTable
}

// trampoline is the one stable TaskFunc every wrapped Task points at.
// Its address is stored in task records, so it must never be replaced or
// shadowed by a second definition.
func trampoline(taskID int32, ctx unsafe.Pointer, workerIndex int32) {
	w := (*WrappedContext)(ctx)
	w.function(taskID, w.context, workerIndex)
	w.table.onTaskCompleted(w.handle, workerIndex)
}
