// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ir defines the intermediate representation the lowering pipeline
// transforms: expressions, statements, tensors and the buffers that back them,
// and the LoweredFunc produced at the end of lowering.
//
// The representation is deliberately small: it carries exactly what the
// transformation passes (package passes) and the codegen backends (package
// codegen) consume. Identity of tensors and variables is pointer identity --
// two tensors with the same name are still distinct arguments.
package ir

import (
	"fmt"
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
)

// Expr is a node of an expression tree.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// IntImm is an integer immediate.
type IntImm struct {
	Value int64
}

// Int returns an integer immediate expression.
func Int(value int64) *IntImm { return &IntImm{Value: value} }

func (*IntImm) exprNode()        {}
func (e *IntImm) String() string { return fmt.Sprintf("%d", e.Value) }

// StringImm is a string immediate, used for attribute values and intrinsic
// arguments (storage scopes, function names).
type StringImm struct {
	Value string
}

// Str returns a string immediate expression.
func Str(value string) *StringImm { return &StringImm{Value: value} }

func (*StringImm) exprNode()        {}
func (e *StringImm) String() string { return fmt.Sprintf("%q", e.Value) }

// Var is a scalar variable. Identity is pointer identity; the name is only a
// printing hint.
type Var struct {
	Name  string
	DType dtypes.DType
}

// NewVar returns a fresh scalar variable.
func NewVar(name string, dtype dtypes.DType) *Var {
	return &Var{Name: name, DType: dtype}
}

func (*Var) exprNode()        {}
func (e *Var) String() string { return e.Name }

// BinaryOp enumerates the binary operations the orchestrator's collaborators
// need. This is not a general arithmetic language, only what bounds math and
// flattening produce.
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpLT  BinaryOp = "<"
)

// Binary applies Op to A and B.
type Binary struct {
	Op   BinaryOp
	A, B Expr
}

func (*Binary) exprNode() {}
func (e *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", e.A, e.Op, e.B)
}

// Add returns a+b.
func Add(a, b Expr) Expr { return &Binary{Op: OpAdd, A: a, B: b} }

// Mul returns a*b.
func Mul(a, b Expr) Expr { return &Binary{Op: OpMul, A: a, B: b} }

// Ramp is a vector of Lanes values starting at Base with the given Stride.
// Produced by loop vectorization.
type Ramp struct {
	Base, Stride Expr
	Lanes        int
}

func (*Ramp) exprNode() {}
func (e *Ramp) String() string {
	return fmt.Sprintf("ramp(%s, %s, %d)", e.Base, e.Stride, e.Lanes)
}

// Load reads Buffer at the flat Index.
type Load struct {
	Buffer *Buffer
	Index  Expr
}

func (*Load) exprNode() {}
func (e *Load) String() string {
	return fmt.Sprintf("%s[%s]", e.Buffer.Name, e.Index)
}

// TensorLoad reads a tensor at a multidimensional index. It only exists
// before storage flattening, which rewrites it into a Load on the bound
// buffer.
type TensorLoad struct {
	Tensor  *Tensor
	Indices []Expr
}

func (*TensorLoad) exprNode() {}
func (e *TensorLoad) String() string {
	return fmt.Sprintf("%s(%s)", e.Tensor.Name, joinExprs(e.Indices))
}

// Call is an intrinsic or packed function call.
type Call struct {
	Name string
	Args []Expr
}

func (*Call) exprNode() {}
func (e *Call) String() string {
	return fmt.Sprintf("%s(%s)", e.Name, joinExprs(e.Args))
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for ii, e := range exprs {
		parts[ii] = e.String()
	}
	return strings.Join(parts, ", ")
}
