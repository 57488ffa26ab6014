// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"github.com/gomlx/tensorc/ir"
)

// StorageRewrite tightens storage after the structural passes: allocations
// whose buffer is never loaded nor stored -- typically left behind by loop
// elision and constant folding -- are removed.
func StorageRewrite(stmt ir.Stmt) ir.Stmt {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ir.For:
		return &ir.For{LoopVar: s.LoopVar, Min: s.Min, Extent: s.Extent, Kind: s.Kind, Body: StorageRewrite(s.Body)}
	case *ir.Seq:
		stmts := make([]ir.Stmt, len(s.Stmts))
		for ii, sub := range s.Stmts {
			stmts[ii] = StorageRewrite(sub)
		}
		return &ir.Seq{Stmts: stmts}
	case *ir.Allocate:
		body := StorageRewrite(s.Body)
		if !usesBuffer(body, s.Buffer) {
			return body
		}
		return &ir.Allocate{Buffer: s.Buffer, Body: body}
	case *ir.AttrStmt:
		return &ir.AttrStmt{Key: s.Key, Value: s.Value, Body: StorageRewrite(s.Body)}
	case *ir.IfThenElse:
		return &ir.IfThenElse{Cond: s.Cond, Then: StorageRewrite(s.Then), Else: StorageRewrite(s.Else)}
	default:
		return stmt
	}
}

func usesBuffer(stmt ir.Stmt, buffer *ir.Buffer) (used bool) {
	visitStmts(stmt, func(s ir.Stmt) {
		if store, ok := s.(*ir.Store); ok && store.Buffer == buffer {
			used = true
		}
	})
	visitExprs(stmt, func(e ir.Expr) {
		if load, ok := e.(*ir.Load); ok && load.Buffer == buffer {
			used = true
		}
	})
	return
}
