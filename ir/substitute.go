// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"github.com/gomlx/exceptions"
)

// Substitute returns a copy of stmt with every occurrence of the given
// variables replaced. The input tree is never mutated.
func Substitute(stmt Stmt, replace map[*Var]Expr) Stmt {
	if len(replace) == 0 {
		return stmt
	}
	return substituteStmt(stmt, replace)
}

// SubstituteExpr is the expression counterpart of Substitute.
func SubstituteExpr(expr Expr, replace map[*Var]Expr) Expr {
	if len(replace) == 0 {
		return expr
	}
	return substituteExpr(expr, replace)
}

func substituteStmt(stmt Stmt, replace map[*Var]Expr) Stmt {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *For:
		return &For{
			LoopVar: s.LoopVar,
			Min:     substituteExpr(s.Min, replace),
			Extent:  substituteExpr(s.Extent, replace),
			Kind:    s.Kind,
			Body:    substituteStmt(s.Body, replace),
		}
	case *Seq:
		stmts := make([]Stmt, len(s.Stmts))
		for ii, sub := range s.Stmts {
			stmts[ii] = substituteStmt(sub, replace)
		}
		return &Seq{Stmts: stmts}
	case *Provide:
		indices := make([]Expr, len(s.Indices))
		for ii, index := range s.Indices {
			indices[ii] = substituteExpr(index, replace)
		}
		return &Provide{Tensor: s.Tensor, Indices: indices, Value: substituteExpr(s.Value, replace)}
	case *Store:
		return &Store{
			Buffer: s.Buffer,
			Index:  substituteExpr(s.Index, replace),
			Value:  substituteExpr(s.Value, replace),
		}
	case *Allocate:
		return &Allocate{Buffer: s.Buffer, Body: substituteStmt(s.Body, replace)}
	case *AttrStmt:
		return &AttrStmt{Key: s.Key, Value: substituteExpr(s.Value, replace), Body: substituteStmt(s.Body, replace)}
	case *IfThenElse:
		return &IfThenElse{
			Cond: substituteExpr(s.Cond, replace),
			Then: substituteStmt(s.Then, replace),
			Else: substituteStmt(s.Else, replace),
		}
	case *Evaluate:
		return &Evaluate{Value: substituteExpr(s.Value, replace)}
	default:
		exceptions.Panicf("ir.Substitute: unknown statement type %T", stmt)
		return nil
	}
}

func substituteExpr(expr Expr, replace map[*Var]Expr) Expr {
	switch e := expr.(type) {
	case nil:
		return nil
	case *IntImm, *StringImm:
		return e
	case *Var:
		if to, found := replace[e]; found {
			return to
		}
		return e
	case *Binary:
		return &Binary{Op: e.Op, A: substituteExpr(e.A, replace), B: substituteExpr(e.B, replace)}
	case *Ramp:
		return &Ramp{Base: substituteExpr(e.Base, replace), Stride: substituteExpr(e.Stride, replace), Lanes: e.Lanes}
	case *Load:
		return &Load{Buffer: e.Buffer, Index: substituteExpr(e.Index, replace)}
	case *TensorLoad:
		indices := make([]Expr, len(e.Indices))
		for ii, index := range e.Indices {
			indices[ii] = substituteExpr(index, replace)
		}
		return &TensorLoad{Tensor: e.Tensor, Indices: indices}
	case *Call:
		args := make([]Expr, len(e.Args))
		for ii, arg := range e.Args {
			args[ii] = substituteExpr(arg, replace)
		}
		return &Call{Name: e.Name, Args: args}
	default:
		exceptions.Panicf("ir.SubstituteExpr: unknown expression type %T", expr)
		return nil
	}
}
