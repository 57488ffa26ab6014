// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"github.com/gomlx/tensorc/ir"
)

// LoopPartition splits a loop whose body branches on the loop variable
// against a constant into two condition-free loops, one per side of the
// split point. It is skipped entirely in simple-mode lowering, since it
// changes loop structure.
//
// Only the direct pattern `for v in [0,n) { if v < c { A } else { B } }`
// with constant n and c is split; anything else is left untouched.
func LoopPartition(stmt ir.Stmt) ir.Stmt {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ir.For:
		if split, ok := partitionFor(s); ok {
			return LoopPartition(split)
		}
		return &ir.For{LoopVar: s.LoopVar, Min: s.Min, Extent: s.Extent, Kind: s.Kind, Body: LoopPartition(s.Body)}
	case *ir.Seq:
		stmts := make([]ir.Stmt, len(s.Stmts))
		for ii, sub := range s.Stmts {
			stmts[ii] = LoopPartition(sub)
		}
		return &ir.Seq{Stmts: stmts}
	case *ir.Allocate:
		return &ir.Allocate{Buffer: s.Buffer, Body: LoopPartition(s.Body)}
	case *ir.AttrStmt:
		return &ir.AttrStmt{Key: s.Key, Value: s.Value, Body: LoopPartition(s.Body)}
	case *ir.IfThenElse:
		return &ir.IfThenElse{Cond: s.Cond, Then: LoopPartition(s.Then), Else: LoopPartition(s.Else)}
	default:
		return stmt
	}
}

func partitionFor(loop *ir.For) (ir.Stmt, bool) {
	branch, ok := loop.Body.(*ir.IfThenElse)
	if !ok {
		return nil, false
	}
	cond, ok := branch.Cond.(*ir.Binary)
	if !ok || cond.Op != ir.OpLT || cond.A != loop.LoopVar {
		return nil, false
	}
	splitAt, ok := cond.B.(*ir.IntImm)
	if !ok {
		return nil, false
	}
	min, ok := loop.Min.(*ir.IntImm)
	if !ok || min.Value != 0 {
		return nil, false
	}
	extent, ok := loop.Extent.(*ir.IntImm)
	if !ok || splitAt.Value <= 0 || splitAt.Value >= extent.Value {
		return nil, false
	}
	head := &ir.For{
		LoopVar: loop.LoopVar,
		Min:     ir.Int(0),
		Extent:  ir.Int(splitAt.Value),
		Kind:    loop.Kind,
		Body:    branch.Then,
	}
	if branch.Else == nil {
		return head, true
	}
	tail := &ir.For{
		LoopVar: loop.LoopVar,
		Min:     ir.Int(splitAt.Value),
		Extent:  ir.Int(extent.Value - splitAt.Value),
		Kind:    loop.Kind,
		Body:    branch.Else,
	}
	return &ir.Seq{Stmts: []ir.Stmt{head, tail}}, true
}
