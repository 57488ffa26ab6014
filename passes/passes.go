// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package passes implements the IR transformations the lowering pipeline
// (package build) drives: storage flattening, simplification, loop
// partitioning, vectorization, virtual threads, storage rewriting, loop
// unrolling, ABI wrapping, storage synchronization, thread all-reduce
// lowering, the host/device split and packed-call lowering.
//
// Every pass is a pure function from tree to tree: inputs are never mutated.
// The pipeline's ordering contract lives in package build; each pass here
// only knows its own transformation.
package passes

import (
	"github.com/gomlx/tensorc/ir"
)

// rewriteCalls returns a copy of stmt with fn applied to every Call
// expression, innermost first.
func rewriteCalls(stmt ir.Stmt, fn func(call *ir.Call) ir.Expr) ir.Stmt {
	return rewriteStmt(stmt, func(e ir.Expr) ir.Expr {
		if call, ok := e.(*ir.Call); ok {
			return fn(call)
		}
		return e
	})
}

// rewriteStmt returns a copy of stmt with fn applied to every expression,
// innermost first.
func rewriteStmt(stmt ir.Stmt, fn func(e ir.Expr) ir.Expr) ir.Stmt {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ir.For:
		return &ir.For{
			LoopVar: s.LoopVar,
			Min:     rewriteExpr(s.Min, fn),
			Extent:  rewriteExpr(s.Extent, fn),
			Kind:    s.Kind,
			Body:    rewriteStmt(s.Body, fn),
		}
	case *ir.Seq:
		stmts := make([]ir.Stmt, len(s.Stmts))
		for ii, sub := range s.Stmts {
			stmts[ii] = rewriteStmt(sub, fn)
		}
		return &ir.Seq{Stmts: stmts}
	case *ir.Provide:
		indices := make([]ir.Expr, len(s.Indices))
		for ii, index := range s.Indices {
			indices[ii] = rewriteExpr(index, fn)
		}
		return &ir.Provide{Tensor: s.Tensor, Indices: indices, Value: rewriteExpr(s.Value, fn)}
	case *ir.Store:
		return &ir.Store{Buffer: s.Buffer, Index: rewriteExpr(s.Index, fn), Value: rewriteExpr(s.Value, fn)}
	case *ir.Allocate:
		return &ir.Allocate{Buffer: s.Buffer, Body: rewriteStmt(s.Body, fn)}
	case *ir.AttrStmt:
		return &ir.AttrStmt{Key: s.Key, Value: rewriteExpr(s.Value, fn), Body: rewriteStmt(s.Body, fn)}
	case *ir.IfThenElse:
		return &ir.IfThenElse{Cond: rewriteExpr(s.Cond, fn), Then: rewriteStmt(s.Then, fn), Else: rewriteStmt(s.Else, fn)}
	case *ir.Evaluate:
		return &ir.Evaluate{Value: rewriteExpr(s.Value, fn)}
	default:
		return stmt
	}
}

func rewriteExpr(expr ir.Expr, fn func(e ir.Expr) ir.Expr) ir.Expr {
	switch e := expr.(type) {
	case nil:
		return nil
	case *ir.Binary:
		return fn(&ir.Binary{Op: e.Op, A: rewriteExpr(e.A, fn), B: rewriteExpr(e.B, fn)})
	case *ir.Ramp:
		return fn(&ir.Ramp{Base: rewriteExpr(e.Base, fn), Stride: rewriteExpr(e.Stride, fn), Lanes: e.Lanes})
	case *ir.Load:
		return fn(&ir.Load{Buffer: e.Buffer, Index: rewriteExpr(e.Index, fn)})
	case *ir.TensorLoad:
		indices := make([]ir.Expr, len(e.Indices))
		for ii, index := range e.Indices {
			indices[ii] = rewriteExpr(index, fn)
		}
		return fn(&ir.TensorLoad{Tensor: e.Tensor, Indices: indices})
	case *ir.Call:
		args := make([]ir.Expr, len(e.Args))
		for ii, arg := range e.Args {
			args[ii] = rewriteExpr(arg, fn)
		}
		return fn(&ir.Call{Name: e.Name, Args: args})
	default:
		return fn(expr)
	}
}

// visitStmts calls fn for every statement in the tree, outermost first.
func visitStmts(stmt ir.Stmt, fn func(s ir.Stmt)) {
	if stmt == nil {
		return
	}
	fn(stmt)
	switch s := stmt.(type) {
	case *ir.For:
		visitStmts(s.Body, fn)
	case *ir.Seq:
		for _, sub := range s.Stmts {
			visitStmts(sub, fn)
		}
	case *ir.Allocate:
		visitStmts(s.Body, fn)
	case *ir.AttrStmt:
		visitStmts(s.Body, fn)
	case *ir.IfThenElse:
		visitStmts(s.Then, fn)
		visitStmts(s.Else, fn)
	}
}

// visitExprs calls fn for every expression in the tree.
func visitExprs(stmt ir.Stmt, fn func(e ir.Expr)) {
	_ = rewriteStmt(stmt, func(e ir.Expr) ir.Expr {
		fn(e)
		return e
	})
}

// writesScope reports whether any store in the tree targets a buffer in the
// given memory scope.
func writesScope(stmt ir.Stmt, scope string) (writes bool) {
	visitStmts(stmt, func(s ir.Stmt) {
		if store, ok := s.(*ir.Store); ok && store.Buffer.Scope == scope {
			writes = true
		}
	})
	return
}
