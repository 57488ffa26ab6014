// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"github.com/gomlx/tensorc/types/shapes"
)

// Tensor is a logical multidimensional value declared by the caller. The
// compiler only reads its identity (the pointer) and its shape/dtype/name
// metadata; element data never exists at compile time.
type Tensor struct {
	Name  string
	Shape shapes.Shape
}

// Placeholder declares a named input tensor.
func Placeholder(name string, shape shapes.Shape) *Tensor {
	return &Tensor{Name: name, Shape: shape}
}

// Buffer is a concrete flat memory region backing one or more tensor
// accesses. Scope is a memory scope (ScopeGlobal for function arguments,
// ScopeShared for on-device scratch).
type Buffer struct {
	Name  string
	Shape shapes.Shape
	Scope string
}

// DeclBuffer declares a buffer matching the given shape, in global scope.
func DeclBuffer(shape shapes.Shape, name string) *Buffer {
	return &Buffer{Name: name, Shape: shape, Scope: ScopeGlobal}
}

// Argument is one entry of a function signature: a *Tensor, a *Buffer or a
// scalar *Var. The set is closed -- the binding resolver matches it
// exhaustively.
type Argument interface {
	argumentNode()
}

func (*Tensor) argumentNode() {}
func (*Buffer) argumentNode() {}
func (*Var) argumentNode()    {}

// BindingTable maps a tensor (by pointer identity) to the buffer it is bound
// to. Entries are never overwritten: binding the same tensor twice is an
// error surfaced by the binding resolver.
type BindingTable map[*Tensor]*Buffer

// Clone returns a shallow copy of the table. A nil table clones to an empty
// one.
func (bt BindingTable) Clone() BindingTable {
	clone := make(BindingTable, len(bt))
	for tensor, buffer := range bt {
		clone[tensor] = buffer
	}
	return clone
}
