// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"github.com/gomlx/tensorc/ir"
)

// CanonicalSimplify canonicalizes a statement tree right after flattening,
// before structural passes run: it folds constant arithmetic, drops identity
// terms, flattens sequences and elides trivial loops.
func CanonicalSimplify(stmt ir.Stmt) ir.Stmt {
	return Simplify(stmt)
}

// Simplify is the final cleanup pass; same rewrites as CanonicalSimplify.
func Simplify(stmt ir.Stmt) ir.Stmt {
	return simplifyStmt(stmt)
}

func simplifyStmt(stmt ir.Stmt) ir.Stmt {
	stmt = rewriteStmt(stmt, simplifyExpr)
	return compactStmt(stmt)
}

func compactStmt(stmt ir.Stmt) ir.Stmt {
	switch s := stmt.(type) {
	case *ir.For:
		body := compactStmt(s.Body)
		if extent, ok := s.Extent.(*ir.IntImm); ok {
			switch extent.Value {
			case 0:
				return &ir.Seq{}
			case 1:
				// Single iteration: the loop variable is just Min.
				return compactStmt(ir.Substitute(body, map[*ir.Var]ir.Expr{s.LoopVar: s.Min}))
			}
		}
		return &ir.For{LoopVar: s.LoopVar, Min: s.Min, Extent: s.Extent, Kind: s.Kind, Body: body}
	case *ir.Seq:
		var stmts []ir.Stmt
		for _, sub := range s.Stmts {
			sub = compactStmt(sub)
			if inner, ok := sub.(*ir.Seq); ok {
				stmts = append(stmts, inner.Stmts...)
				continue
			}
			stmts = append(stmts, sub)
		}
		if len(stmts) == 1 {
			return stmts[0]
		}
		return &ir.Seq{Stmts: stmts}
	case *ir.Allocate:
		return &ir.Allocate{Buffer: s.Buffer, Body: compactStmt(s.Body)}
	case *ir.AttrStmt:
		return &ir.AttrStmt{Key: s.Key, Value: s.Value, Body: compactStmt(s.Body)}
	case *ir.IfThenElse:
		then := compactStmt(s.Then)
		elseStmt := s.Else
		if elseStmt != nil {
			elseStmt = compactStmt(elseStmt)
		}
		if cond, ok := s.Cond.(*ir.IntImm); ok {
			if cond.Value != 0 {
				return then
			}
			if elseStmt == nil {
				return &ir.Seq{}
			}
			return elseStmt
		}
		return &ir.IfThenElse{Cond: s.Cond, Then: then, Else: elseStmt}
	default:
		return stmt
	}
}

func simplifyExpr(expr ir.Expr) ir.Expr {
	binary, ok := expr.(*ir.Binary)
	if !ok {
		return expr
	}
	a, aConst := binary.A.(*ir.IntImm)
	b, bConst := binary.B.(*ir.IntImm)
	if aConst && bConst {
		if folded, ok := foldConst(binary.Op, a.Value, b.Value); ok {
			return ir.Int(folded)
		}
	}
	switch binary.Op {
	case ir.OpAdd:
		if aConst && a.Value == 0 {
			return binary.B
		}
		if bConst && b.Value == 0 {
			return binary.A
		}
	case ir.OpSub:
		if bConst && b.Value == 0 {
			return binary.A
		}
	case ir.OpMul:
		if aConst && a.Value == 1 {
			return binary.B
		}
		if bConst && b.Value == 1 {
			return binary.A
		}
		if (aConst && a.Value == 0) || (bConst && b.Value == 0) {
			return ir.Int(0)
		}
	}
	return binary
}

func foldConst(op ir.BinaryOp, a, b int64) (int64, bool) {
	switch op {
	case ir.OpAdd:
		return a + b, true
	case ir.OpSub:
		return a - b, true
	case ir.OpMul:
		return a * b, true
	case ir.OpDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case ir.OpLT:
		if a < b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
