// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"fmt"

	"github.com/gomlx/tensorc/ir"
)

// SplitHostDevice separates a mixed function into a host function and one
// device kernel per device_scope region. The host function always comes
// first in the result; each region is replaced in the host body by a packed
// call to the kernel, named "<function>_kernel<N>" in region order. The
// kernel's arguments are the buffers the region touches, in first-use order.
// A function with no device regions splits into just the host function.
func SplitHostDevice(f *ir.LoweredFunc) []*ir.LoweredFunc {
	splitter := &hostDeviceSplitter{hostName: f.Name}
	hostBody := splitter.split(f.Body)
	host := f.WithBody(hostBody)
	host.Kind = ir.FuncHost
	return append([]*ir.LoweredFunc{host}, splitter.kernels...)
}

type hostDeviceSplitter struct {
	hostName string
	kernels  []*ir.LoweredFunc
}

func (sp *hostDeviceSplitter) split(stmt ir.Stmt) ir.Stmt {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ir.For:
		return &ir.For{LoopVar: s.LoopVar, Min: s.Min, Extent: s.Extent, Kind: s.Kind, Body: sp.split(s.Body)}
	case *ir.Seq:
		stmts := make([]ir.Stmt, len(s.Stmts))
		for ii, sub := range s.Stmts {
			stmts[ii] = sp.split(sub)
		}
		return &ir.Seq{Stmts: stmts}
	case *ir.Allocate:
		return &ir.Allocate{Buffer: s.Buffer, Body: sp.split(s.Body)}
	case *ir.AttrStmt:
		if s.Key == ir.AttrDeviceScope {
			return sp.extractKernel(s)
		}
		return &ir.AttrStmt{Key: s.Key, Value: s.Value, Body: sp.split(s.Body)}
	case *ir.IfThenElse:
		return &ir.IfThenElse{Cond: s.Cond, Then: sp.split(s.Then), Else: sp.split(s.Else)}
	default:
		return stmt
	}
}

// extractKernel turns one device_scope region into a device function and
// returns the host-side packed call that launches it.
func (sp *hostDeviceSplitter) extractKernel(region *ir.AttrStmt) ir.Stmt {
	name := fmt.Sprintf("%s_kernel%d", sp.hostName, len(sp.kernels))
	buffers := regionBuffers(region.Body)
	args := make([]ir.Argument, 0, len(buffers))
	callArgs := make([]ir.Expr, 0, len(buffers)+1)
	callArgs = append(callArgs, ir.Str(name))
	for _, buffer := range buffers {
		args = append(args, buffer)
		callArgs = append(callArgs, ir.Str(buffer.Name))
	}
	sp.kernels = append(sp.kernels, &ir.LoweredFunc{
		Name: name,
		Args: args,
		Body: region.Body,
		Kind: ir.FuncDevice,
	})
	return &ir.Evaluate{Value: &ir.Call{Name: ir.IntrinCallPacked, Args: callArgs}}
}

// regionBuffers returns the distinct buffers a region loads or stores,
// written buffers first, each group in traversal order. Buffers allocated
// inside the region stay internal to the kernel and are not part of its
// signature.
func regionBuffers(stmt ir.Stmt) []*ir.Buffer {
	var order []*ir.Buffer
	seen := make(map[*ir.Buffer]bool)
	internal := make(map[*ir.Buffer]bool)
	visitStmts(stmt, func(s ir.Stmt) {
		switch inner := s.(type) {
		case *ir.Allocate:
			internal[inner.Buffer] = true
		case *ir.Store:
			if !seen[inner.Buffer] {
				seen[inner.Buffer] = true
				order = append(order, inner.Buffer)
			}
		}
	})
	visitExprs(stmt, func(e ir.Expr) {
		if load, ok := e.(*ir.Load); ok && !seen[load.Buffer] {
			seen[load.Buffer] = true
			order = append(order, load.Buffer)
		}
	})
	external := order[:0]
	for _, buffer := range order {
		if !internal[buffer] {
			external = append(external, buffer)
		}
	}
	return external
}
