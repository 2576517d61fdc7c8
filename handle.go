// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

import "strconv"

// initializedBit is the high bit of Handle.encodedVersion.
const initializedBit uint32 = 1 << 31

// Handle is an opaque, version-tagged reference to a continuation slot.
// It is safe to compare against a stale reuse of the same slot index:
// once a slot is freed and reallocated its version advances, so an old
// Handle's version no longer matches and IsComplete/GetContinuation treat
// it as already-complete / gone rather than aliasing new work.
//
// The zero Handle is Null (uninitialized); Initialized reports the high
// bit of the version word. Equality is plain struct (bitwise) comparison
// on both words; use == directly.
type Handle struct {
	index          uint32
	encodedVersion uint32
}

// NullHandle is the distinguished zero-value, uninitialized Handle.
var NullHandle Handle

// Initialized reports whether h was ever returned by AllocateContinuation
// (as opposed to being the zero Handle).
func (h Handle) Initialized() bool {
	return h.encodedVersion&initializedBit != 0
}

func (h Handle) version() int32 {
	return int32(h.encodedVersion &^ initializedBit)
}

func (h Handle) slotIndex() uint32 {
	return h.index
}

// String renders a debug-friendly form. Used only by tests and %v
// formatting, never consulted by the dispatch algorithms.
func (h Handle) String() string {
	if !h.Initialized() {
		return "taskq.Handle(null)"
	}
	return "slot#" + strconv.FormatUint(uint64(h.index), 10) + "/v" + strconv.FormatInt(int64(h.version()), 10)
}
