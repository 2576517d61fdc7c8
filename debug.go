// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskq

// assertionsEnabled gates debug-assert panics for programmer errors:
// enqueue-after-stop, stale handle access, version mismatch. Off by
// default so release builds pay nothing for them and instead degrade to
// the documented release behavior (return null / zero value). It is
// unexported, so only code inside package taskq can turn it on; the
// package's tests (all in taskq_test) leave it off.
var assertionsEnabled = false
