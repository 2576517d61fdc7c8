// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

import "errors"

// Dispatch outcomes are sentinel errors, the same control-flow-not-failure
// shape [code.hybscloud.com/iox] gives ErrWouldBlock. iox itself has no
// vocabulary for Contested/Full/Stop as distinguished outcomes, so taskq
// defines its own rather than overloading a single iox sentinel for all
// of them.
var (
	// ErrContested means a CAS lock acquisition attempt lost a single race.
	// Always safe to retry; never means the operation is impossible.
	ErrContested = errors.New("taskq: lock contested")

	// ErrEmpty means TryDequeue found no record ready before writtenCursor.
	// Transient: more work may arrive.
	ErrEmpty = errors.New("taskq: queue empty")

	// ErrFull means TryEnqueue/TryAllocateContinuation found no room.
	// Transient if consumers are draining, terminal if none are running.
	ErrFull = errors.New("taskq: queue full")

	// ErrStop means the dequeue cursor is sitting on the stop sentinel.
	// Terminal for a worker loop. The sentinel is never consumed, so this
	// keeps being returned to every caller that reaches it.
	ErrStop = errors.New("taskq: stop sentinel")
)

// IsTransient reports whether err is a control-flow signal the caller
// should simply retry (Contested, Empty, or Full), as opposed to ErrStop
// which is terminal. Mirrors the shape of iox.IsNonFailure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrContested) || errors.Is(err, ErrEmpty) || errors.Is(err, ErrFull)
}
