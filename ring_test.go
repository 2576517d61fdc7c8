// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/taskq"
)

// TestTaskCapRounding checks that requested capacity is rounded up to
// the next power of two, mirroring lfq's own capacity-rounding
// test for its ring buffers.
func TestTaskCapRounding(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{7, 8},
		{100, 128},
	}

	for _, tt := range tests {
		q := taskq.NewBuilder().MaxTasks(tt.input).Build()
		if got := q.TaskCap(); got != tt.expected {
			t.Errorf("MaxTasks(%d).TaskCap() = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

// TestFullReturnsErrFull checks that enqueuing past capacity returns
// ErrFull rather than blocking or silently dropping.
func TestFullReturnsErrFull(t *testing.T) {
	q := taskq.NewBuilder().MaxTasks(2).Build()

	if err := q.TryEnqueueTasks([]taskq.Task{{Function: noop, TaskID: 0}, {Function: noop, TaskID: 1}}); err != nil {
		t.Fatalf("fill to capacity: %v", err)
	}
	if err := q.TryEnqueueTasks([]taskq.Task{{Function: noop, TaskID: 2}}); !errors.Is(err, taskq.ErrFull) {
		t.Fatalf("enqueue on full: got %v, want ErrFull", err)
	}

	// Draining one slot then enqueuing one more must succeed.
	if _, err := q.TryDequeue(); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if err := q.TryEnqueueTasks([]taskq.Task{{Function: noop, TaskID: 3}}); err != nil {
		t.Fatalf("enqueue after drain: %v", err)
	}
}

// TestWrapAround exercises many fill/drain cycles past the capacity
// boundary, matching lfq's own TestMPMCWrapAround shape.
func TestWrapAround(t *testing.T) {
	q := taskq.NewBuilder().MaxTasks(4).Build()

	for round := 0; round < 20; round++ {
		tasks := make([]taskq.Task, 4)
		for i := range tasks {
			tasks[i] = taskq.Task{Function: noop, TaskID: int32(round*100 + i)}
		}
		if err := q.TryEnqueueTasks(tasks); err != nil {
			t.Fatalf("round %d enqueue: %v", round, err)
		}
		for i := range tasks {
			got, err := q.TryDequeue()
			if err != nil {
				t.Fatalf("round %d dequeue %d: %v", round, i, err)
			}
			want := int32(round*100 + i)
			if got.TaskID != want {
				t.Fatalf("round %d dequeue %d: got %d, want %d", round, i, got.TaskID, want)
			}
		}
	}
}

// TestFIFOUnderSerialUse checks that with no concurrent dequeues,
// dequeues return records in enqueue order regardless of batching.
func TestFIFOUnderSerialUse(t *testing.T) {
	q := taskq.NewBuilder().MaxTasks(16).Build()

	var want []int32
	for batch := 0; batch < 5; batch++ {
		n := batch + 1
		tasks := make([]taskq.Task, n)
		for i := 0; i < n; i++ {
			id := int32(len(want))
			tasks[i] = taskq.Task{Function: noop, TaskID: id}
			want = append(want, id)
		}
		if err := q.TryEnqueueTasks(tasks); err != nil {
			t.Fatalf("batch %d: %v", batch, err)
		}
	}

	for i, wantID := range want {
		got, err := q.TryDequeue()
		if err != nil {
			t.Fatalf("dequeue %d: %v", i, err)
		}
		if got.TaskID != wantID {
			t.Fatalf("dequeue %d: got %d, want %d", i, got.TaskID, wantID)
		}
	}
}
