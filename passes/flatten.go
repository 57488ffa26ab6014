// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"github.com/pkg/errors"

	"github.com/gomlx/tensorc/ir"
)

// StorageFlatten rewrites every multidimensional tensor access (Provide,
// TensorLoad) into a flat buffer access (Store, Load) using the binding
// table. Tensors without a binding -- intermediate stage results -- get a
// fresh buffer allocated around the region that produces them: global scope
// on the host side, shared scope inside device regions. The caller's table
// is not mutated.
func StorageFlatten(stmt ir.Stmt, binds ir.BindingTable) (ir.Stmt, error) {
	local := binds.Clone()
	var created []*ir.Buffer
	out, err := flattenStmt(stmt, local, ir.ScopeGlobal, &created)
	if err != nil {
		return nil, err
	}
	return wrapAllocates(out, created), nil
}

func wrapAllocates(stmt ir.Stmt, buffers []*ir.Buffer) ir.Stmt {
	for ii := len(buffers) - 1; ii >= 0; ii-- {
		stmt = &ir.Allocate{Buffer: buffers[ii], Body: stmt}
	}
	return stmt
}

func flattenStmt(stmt ir.Stmt, binds ir.BindingTable, scope string, created *[]*ir.Buffer) (ir.Stmt, error) {
	switch s := stmt.(type) {
	case nil:
		return nil, nil
	case *ir.For:
		body, err := flattenStmt(s.Body, binds, scope, created)
		if err != nil {
			return nil, err
		}
		return &ir.For{LoopVar: s.LoopVar, Min: s.Min, Extent: s.Extent, Kind: s.Kind, Body: body}, nil
	case *ir.Seq:
		stmts := make([]ir.Stmt, len(s.Stmts))
		for ii, sub := range s.Stmts {
			var err error
			stmts[ii], err = flattenStmt(sub, binds, scope, created)
			if err != nil {
				return nil, err
			}
		}
		return &ir.Seq{Stmts: stmts}, nil
	case *ir.Provide:
		buffer, found := binds[s.Tensor]
		if !found {
			buffer = &ir.Buffer{Name: s.Tensor.Name, Shape: s.Tensor.Shape, Scope: scope}
			binds[s.Tensor] = buffer
			*created = append(*created, buffer)
		}
		value, err := flattenExpr(s.Value, binds)
		if err != nil {
			return nil, err
		}
		return &ir.Store{Buffer: buffer, Index: flatIndex(buffer, s.Indices), Value: value}, nil
	case *ir.Store:
		value, err := flattenExpr(s.Value, binds)
		if err != nil {
			return nil, err
		}
		index, err := flattenExpr(s.Index, binds)
		if err != nil {
			return nil, err
		}
		return &ir.Store{Buffer: s.Buffer, Index: index, Value: value}, nil
	case *ir.Allocate:
		body, err := flattenStmt(s.Body, binds, scope, created)
		if err != nil {
			return nil, err
		}
		return &ir.Allocate{Buffer: s.Buffer, Body: body}, nil
	case *ir.AttrStmt:
		if s.Key == ir.AttrDeviceScope {
			// Intermediates produced inside a device region live in
			// device shared memory and are allocated inside the region.
			var deviceCreated []*ir.Buffer
			body, err := flattenStmt(s.Body, binds, ir.ScopeShared, &deviceCreated)
			if err != nil {
				return nil, err
			}
			return &ir.AttrStmt{Key: s.Key, Value: s.Value, Body: wrapAllocates(body, deviceCreated)}, nil
		}
		body, err := flattenStmt(s.Body, binds, scope, created)
		if err != nil {
			return nil, err
		}
		return &ir.AttrStmt{Key: s.Key, Value: s.Value, Body: body}, nil
	case *ir.IfThenElse:
		then, err := flattenStmt(s.Then, binds, scope, created)
		if err != nil {
			return nil, err
		}
		elseStmt, err := flattenStmt(s.Else, binds, scope, created)
		if err != nil {
			return nil, err
		}
		cond, err := flattenExpr(s.Cond, binds)
		if err != nil {
			return nil, err
		}
		return &ir.IfThenElse{Cond: cond, Then: then, Else: elseStmt}, nil
	case *ir.Evaluate:
		value, err := flattenExpr(s.Value, binds)
		if err != nil {
			return nil, err
		}
		return &ir.Evaluate{Value: value}, nil
	default:
		return nil, errors.Errorf("StorageFlatten: unknown statement type %T", stmt)
	}
}

func flattenExpr(expr ir.Expr, binds ir.BindingTable) (ir.Expr, error) {
	var unbound *ir.Tensor
	out := rewriteExpr(expr, func(e ir.Expr) ir.Expr {
		load, ok := e.(*ir.TensorLoad)
		if !ok {
			return e
		}
		buffer, found := binds[load.Tensor]
		if !found {
			if unbound == nil {
				unbound = load.Tensor
			}
			return e
		}
		return &ir.Load{Buffer: buffer, Index: flatIndex(buffer, load.Indices)}
	})
	if unbound != nil {
		return nil, errors.Errorf("StorageFlatten: tensor %q is read but has no buffer binding", unbound.Name)
	}
	return out, nil
}

// flatIndex linearizes a multidimensional index into a flat element offset
// using the buffer's row-major strides.
func flatIndex(buffer *ir.Buffer, indices []ir.Expr) ir.Expr {
	if len(indices) == 0 {
		return ir.Int(0)
	}
	strides := buffer.Shape.Strides()
	var index ir.Expr
	for axis, idx := range indices {
		term := ir.Mul(idx, ir.Int(int64(strides[axis])))
		if index == nil {
			index = term
		} else {
			index = ir.Add(index, term)
		}
	}
	return index
}
