// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"strings"

	"github.com/gomlx/tensorc/ir"
)

// InjectVirtualThread expands every virtual_thread region into one copy of
// its body per virtual thread, the vthread variable substituted by the
// thread index. Virtual thread variables are recognized by the "vthread"
// name prefix, the convention schedules use when binding virtual threads.
func InjectVirtualThread(stmt ir.Stmt) ir.Stmt {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ir.For:
		return &ir.For{LoopVar: s.LoopVar, Min: s.Min, Extent: s.Extent, Kind: s.Kind, Body: InjectVirtualThread(s.Body)}
	case *ir.Seq:
		stmts := make([]ir.Stmt, len(s.Stmts))
		for ii, sub := range s.Stmts {
			stmts[ii] = InjectVirtualThread(sub)
		}
		return &ir.Seq{Stmts: stmts}
	case *ir.Allocate:
		return &ir.Allocate{Buffer: s.Buffer, Body: InjectVirtualThread(s.Body)}
	case *ir.AttrStmt:
		body := InjectVirtualThread(s.Body)
		if s.Key != ir.AttrVirtualThread {
			return &ir.AttrStmt{Key: s.Key, Value: s.Value, Body: body}
		}
		extent, ok := s.Value.(*ir.IntImm)
		if !ok {
			return &ir.AttrStmt{Key: s.Key, Value: s.Value, Body: body}
		}
		vthread := findVThreadVar(body)
		copies := make([]ir.Stmt, 0, extent.Value)
		for thread := int64(0); thread < extent.Value; thread++ {
			replica := body
			if vthread != nil {
				replica = ir.Substitute(body, map[*ir.Var]ir.Expr{vthread: ir.Int(thread)})
			}
			copies = append(copies, replica)
		}
		return ir.SeqOf(copies...)
	case *ir.IfThenElse:
		return &ir.IfThenElse{Cond: s.Cond, Then: InjectVirtualThread(s.Then), Else: InjectVirtualThread(s.Else)}
	default:
		return stmt
	}
}

func findVThreadVar(stmt ir.Stmt) (vthread *ir.Var) {
	visitExprs(stmt, func(e ir.Expr) {
		if v, ok := e.(*ir.Var); ok && vthread == nil && strings.HasPrefix(v.Name, "vthread") {
			vthread = v
		}
	})
	return
}
