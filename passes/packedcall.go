// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"github.com/gomlx/tensorc/ir"
)

// LowerPackedCall rewrites the kernel-launch packed calls the host/device
// split left in the host function into their runtime ABI form. It runs on
// the host fragment only.
func LowerPackedCall(f *ir.LoweredFunc) *ir.LoweredFunc {
	body := rewriteCalls(f.Body, func(call *ir.Call) ir.Expr {
		if call.Name != ir.IntrinCallPacked {
			return call
		}
		return &ir.Call{Name: ir.IntrinCallPackedLowered, Args: call.Args}
	})
	return f.WithBody(body)
}
