// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package conc

// RaceEnabled is true when the race detector is active. Stress tests use
// it to scale down iteration counts and goroutine fan-out so a -race run
// finishes in reasonable time; it does not disable any correctness
// check.
const RaceEnabled = true
