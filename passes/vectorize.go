// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"github.com/gomlx/tensorc/ir"
)

// VectorizeLoop replaces every vectorized loop of constant extent with its
// body, the loop variable substituted by a ramp over the lanes. Vectorized
// loops with symbolic extent fall back to serial.
func VectorizeLoop(stmt ir.Stmt) ir.Stmt {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ir.For:
		body := VectorizeLoop(s.Body)
		if s.Kind == ir.ForVectorized {
			if extent, ok := s.Extent.(*ir.IntImm); ok {
				ramp := &ir.Ramp{Base: s.Min, Stride: ir.Int(1), Lanes: int(extent.Value)}
				return ir.Substitute(body, map[*ir.Var]ir.Expr{s.LoopVar: ramp})
			}
			return &ir.For{LoopVar: s.LoopVar, Min: s.Min, Extent: s.Extent, Kind: ir.ForSerial, Body: body}
		}
		return &ir.For{LoopVar: s.LoopVar, Min: s.Min, Extent: s.Extent, Kind: s.Kind, Body: body}
	case *ir.Seq:
		stmts := make([]ir.Stmt, len(s.Stmts))
		for ii, sub := range s.Stmts {
			stmts[ii] = VectorizeLoop(sub)
		}
		return &ir.Seq{Stmts: stmts}
	case *ir.Allocate:
		return &ir.Allocate{Buffer: s.Buffer, Body: VectorizeLoop(s.Body)}
	case *ir.AttrStmt:
		return &ir.AttrStmt{Key: s.Key, Value: s.Value, Body: VectorizeLoop(s.Body)}
	case *ir.IfThenElse:
		return &ir.IfThenElse{Cond: s.Cond, Then: VectorizeLoop(s.Then), Else: VectorizeLoop(s.Else)}
	default:
		return stmt
	}
}
