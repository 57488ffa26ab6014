// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"github.com/gomlx/tensorc/ir"
)

// LowerThreadAllreduce lowers cross-thread all-reduce intrinsics for the
// execution width of the target: with warpSize > 1 the reduction runs as
// warp shuffles (the warp size appended as the last argument), otherwise it
// falls back to a shared-memory tree reduction.
func LowerThreadAllreduce(f *ir.LoweredFunc, warpSize int) *ir.LoweredFunc {
	body := rewriteCalls(f.Body, func(call *ir.Call) ir.Expr {
		if call.Name != ir.IntrinAllReduce {
			return call
		}
		if warpSize > 1 {
			args := append(append([]ir.Expr{}, call.Args...), ir.Int(int64(warpSize)))
			return &ir.Call{Name: ir.IntrinWarpReduce, Args: args}
		}
		return &ir.Call{Name: ir.IntrinSharedReduce, Args: call.Args}
	})
	return f.WithBody(body)
}
