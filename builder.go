// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

// Default capacities used when a Builder is left unconfigured.
const (
	defaultMaxTasks         = 1024
	defaultMaxContinuations = 256
)

// options configures Queue construction.
type options struct {
	maxTasks         int
	maxContinuations int
	allocator        Allocator
}

// Builder configures and creates a Queue with a fluent API, grounded on
// lfq's own options.Builder pattern (New(capacity).Foo().Build()).
//
// Example:
//
//	q := taskq.NewBuilder().MaxTasks(4096).MaxContinuations(512).Build()
type Builder struct {
	opts options
}

// NewBuilder returns a Builder pre-populated with the package defaults:
// 1024 task capacity, 256 continuation capacity.
func NewBuilder() *Builder {
	return &Builder{opts: options{
		maxTasks:         defaultMaxTasks,
		maxContinuations: defaultMaxContinuations,
	}}
}

// MaxTasks sets the ring buffer's requested task capacity (rounded up to
// the next power of two).
func (b *Builder) MaxTasks(n int) *Builder {
	b.opts.maxTasks = n
	return b
}

// MaxContinuations sets the continuation table's capacity.
func (b *Builder) MaxContinuations(n int) *Builder {
	b.opts.maxContinuations = n
	return b
}

// WithAllocator supplies the external byte-pool allocator backing the
// ring buffer's task array and the continuation table's slot array. If
// never called, Build uses NewDefaultAllocator.
func (b *Builder) WithAllocator(a Allocator) *Builder {
	b.opts.allocator = a
	return b
}

// Build creates the configured Queue.
func (b *Builder) Build() *Queue {
	alloc := b.opts.allocator
	if alloc == nil {
		alloc = NewDefaultAllocator()
	}
	return &Queue{
		ring:  newRingBuffer(b.opts.maxTasks, alloc),
		conts: newContinuationTable(b.opts.maxContinuations, alloc),
		alloc: alloc,
	}
}

// NewQueue builds a Queue with the default capacities and the default
// allocator. Equivalent to NewBuilder().Build().
func NewQueue() *Queue {
	return NewBuilder().Build()
}
