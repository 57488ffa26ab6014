// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"github.com/gomlx/tensorc/ir"
)

// StorageSync inserts a memory barrier for the given storage scope
// ("global" or "shared") when the function writes buffers in that scope.
// Insertion is conservative: one trailing barrier over the whole body, which
// is always sufficient for correctness; the function is returned unchanged
// when nothing in scope is written.
func StorageSync(f *ir.LoweredFunc, scope string) *ir.LoweredFunc {
	if !writesScope(f.Body, scope) {
		return f
	}
	sync := &ir.Evaluate{Value: &ir.Call{Name: ir.IntrinStorageSync, Args: []ir.Expr{ir.Str(scope)}}}
	return f.WithBody(ir.SeqOf(f.Body, sync))
}
