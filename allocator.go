// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

// Allocator supplies and reclaims the two backing buffers a Queue owns:
// the ring buffer's task array and the continuation table's slot array.
// It hands out typed fixed-length buffers and reclaims them; taskq
// depends only on this interface plus the trivial default below, so
// callers with an actual pooling allocator can supply one without taskq
// needing to know its implementation.
type Allocator interface {
	// AllocTasks returns a fixed-length buffer of n zeroed Task records.
	AllocTasks(n int) []Task
	// FreeTasks returns a buffer previously handed out by AllocTasks.
	FreeTasks(buf []Task)
	// AllocContinuationSlots returns a fixed-length buffer of n zeroed
	// ContinuationSlot records.
	AllocContinuationSlots(n int) []ContinuationSlot
	// FreeContinuationSlots returns a buffer previously handed out by
	// AllocContinuationSlots.
	FreeContinuationSlots(buf []ContinuationSlot)
}

// defaultAllocator backs buffers with plain make() and does nothing on
// free, leaving reclamation to the garbage collector. This is the
// allocator NewBuilder().Build() uses when the caller supplies none.
type defaultAllocator struct{}

// NewDefaultAllocator returns an Allocator backed by ordinary make()
// calls, with Free* as no-ops.
func NewDefaultAllocator() Allocator {
	return defaultAllocator{}
}

func (defaultAllocator) AllocTasks(n int) []Task {
	return make([]Task, n)
}

func (defaultAllocator) FreeTasks(buf []Task) {}

func (defaultAllocator) AllocContinuationSlots(n int) []ContinuationSlot {
	return make([]ContinuationSlot, n)
}

func (defaultAllocator) FreeContinuationSlots(buf []ContinuationSlot) {}
