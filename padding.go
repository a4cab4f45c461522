// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conc

// pad is a cache-line-sized filler used to separate hot atomic fields
// that would otherwise share a cache line (destructive interference).
type pad [64]byte

// noCopy marks a type as non-copyable for `go vet -copylocks`. Embed by
// value; never call its methods.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
