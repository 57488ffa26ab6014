// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"github.com/gomlx/tensorc/ir"
)

// UnrollLoop unrolls loops according to the build configuration:
//
//   - autoMaxStep: constant-extent loops up to this extent are unrolled
//     automatically; 0 disables automatic unrolling.
//   - autoMinDepth: minimum loop nest depth before a loop qualifies for
//     automatic unrolling (the outermost loop has depth 0).
//   - explicit: when true the loop body is replicated here; when false the
//     loop is only marked ForUnrolled so the codegen can emit an unroll
//     pragma instead, which keeps the emitted code readable.
func UnrollLoop(stmt ir.Stmt, autoMaxStep, autoMinDepth int, explicit bool) ir.Stmt {
	return unrollStmt(stmt, autoMaxStep, autoMinDepth, explicit, 0)
}

func unrollStmt(stmt ir.Stmt, autoMaxStep, autoMinDepth int, explicit bool, depth int) ir.Stmt {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ir.For:
		body := unrollStmt(s.Body, autoMaxStep, autoMinDepth, explicit, depth+1)
		extent, constExtent := s.Extent.(*ir.IntImm)
		auto := constExtent && autoMaxStep > 0 && extent.Value <= int64(autoMaxStep) && depth >= autoMinDepth
		if !auto && s.Kind != ir.ForUnrolled {
			return &ir.For{LoopVar: s.LoopVar, Min: s.Min, Extent: s.Extent, Kind: s.Kind, Body: body}
		}
		if !explicit || !constExtent {
			return &ir.For{LoopVar: s.LoopVar, Min: s.Min, Extent: s.Extent, Kind: ir.ForUnrolled, Body: body}
		}
		copies := make([]ir.Stmt, 0, extent.Value)
		for step := int64(0); step < extent.Value; step++ {
			var index ir.Expr
			if min, ok := s.Min.(*ir.IntImm); ok {
				index = ir.Int(min.Value + step)
			} else {
				index = ir.Add(s.Min, ir.Int(step))
			}
			copies = append(copies, ir.Substitute(body, map[*ir.Var]ir.Expr{s.LoopVar: index}))
		}
		return ir.SeqOf(copies...)
	case *ir.Seq:
		stmts := make([]ir.Stmt, len(s.Stmts))
		for ii, sub := range s.Stmts {
			stmts[ii] = unrollStmt(sub, autoMaxStep, autoMinDepth, explicit, depth)
		}
		return &ir.Seq{Stmts: stmts}
	case *ir.Allocate:
		return &ir.Allocate{Buffer: s.Buffer, Body: unrollStmt(s.Body, autoMaxStep, autoMinDepth, explicit, depth)}
	case *ir.AttrStmt:
		return &ir.AttrStmt{Key: s.Key, Value: s.Value, Body: unrollStmt(s.Body, autoMaxStep, autoMinDepth, explicit, depth)}
	case *ir.IfThenElse:
		return &ir.IfThenElse{
			Cond: s.Cond,
			Then: unrollStmt(s.Then, autoMaxStep, autoMinDepth, explicit, depth),
			Else: unrollStmt(s.Else, autoMaxStep, autoMinDepth, explicit, depth),
		}
	default:
		return stmt
	}
}
