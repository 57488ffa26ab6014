// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/tensorc/types/shapes"
)

func TestExprString(t *testing.T) {
	i := NewVar("i", dtypes.Int32)
	assert.Equal(t, "7", Int(7).String())
	assert.Equal(t, `"shared"`, Str("shared").String())
	assert.Equal(t, "i", i.String())
	assert.Equal(t, "((i + 1) * 4)", Mul(Add(i, Int(1)), Int(4)).String())
	assert.Equal(t, "ramp(0, 1, 8)", (&Ramp{Base: Int(0), Stride: Int(1), Lanes: 8}).String())
	assert.Equal(t, `tir.storage_sync("shared")`, (&Call{Name: IntrinStorageSync, Args: []Expr{Str("shared")}}).String())
}

func TestVarIdentity(t *testing.T) {
	a := NewVar("x", dtypes.Int32)
	b := NewVar("x", dtypes.Int32)
	// Two variables with the same name are still distinct.
	require.NotSame(t, a, b)
}

func TestSeqOf(t *testing.T) {
	store := &Store{Buffer: DeclBuffer(shapes.Make(dtypes.Float32, 4), "b"), Index: Int(0), Value: Int(1)}
	require.Same(t, Stmt(store), SeqOf(store))
	seq, ok := SeqOf(store, store).(*Seq)
	require.True(t, ok)
	require.Len(t, seq.Stmts, 2)
}

func TestSubstitute(t *testing.T) {
	i := NewVar("i", dtypes.Int32)
	buf := DeclBuffer(shapes.Make(dtypes.Float32, 4), "b")
	stmt := Stmt(&Store{Buffer: buf, Index: Add(i, Int(1)), Value: &Load{Buffer: buf, Index: i}})

	out := Substitute(stmt, map[*Var]Expr{i: Int(2)})
	store := out.(*Store)
	assert.Equal(t, "(2 + 1)", store.Index.String())
	assert.Equal(t, "b[2]", store.Value.String())

	// The input tree is untouched.
	assert.Equal(t, "(i + 1)", stmt.(*Store).Index.String())

	// Empty substitution returns the input as-is.
	require.Same(t, stmt, Substitute(stmt, nil))
}

func TestSubstituteExpr(t *testing.T) {
	i := NewVar("i", dtypes.Int32)
	j := NewVar("j", dtypes.Int32)
	expr := Add(i, j)
	out := SubstituteExpr(expr, map[*Var]Expr{i: Int(1), j: Int(2)})
	assert.Equal(t, "(1 + 2)", out.String())
}

func TestBindingTableClone(t *testing.T) {
	a := Placeholder("a", shapes.Make(dtypes.Float32, 4))
	buf := DeclBuffer(a.Shape, "a")
	table := BindingTable{a: buf}

	clone := table.Clone()
	require.Equal(t, table, clone)
	b := Placeholder("b", shapes.Make(dtypes.Float32, 4))
	clone[b] = DeclBuffer(b.Shape, "b")
	require.Len(t, table, 1)

	require.NotNil(t, BindingTable(nil).Clone())
}

func TestWithBody(t *testing.T) {
	buf := DeclBuffer(shapes.Make(dtypes.Float32, 4), "b")
	f := &LoweredFunc{Name: "f", Args: []Argument{buf}, Body: &Seq{}, ReservedArgs: 1, Kind: FuncHost}
	body := &Store{Buffer: buf, Index: Int(0), Value: Int(1)}

	g := f.WithBody(body)
	require.NotSame(t, f, g)
	assert.Equal(t, f.Name, g.Name)
	assert.Equal(t, f.Args, g.Args)
	assert.Equal(t, f.ReservedArgs, g.ReservedArgs)
	assert.Equal(t, f.Kind, g.Kind)
	require.IsType(t, &Seq{}, f.Body)
	require.Same(t, Stmt(body), g.Body)
}

func TestFormat(t *testing.T) {
	i := NewVar("i", dtypes.Int32)
	buf := DeclBuffer(shapes.Make(dtypes.Float32, 4), "b")
	stmt := &For{
		LoopVar: i, Min: Int(0), Extent: Int(4),
		Body: &Store{Buffer: buf, Index: i, Value: Int(1)},
	}
	want := "for i in [0, 0+4):\n  b[i] = 1\n"
	assert.Equal(t, want, Format(stmt))
}

func TestFormatFunc(t *testing.T) {
	buf := DeclBuffer(shapes.Make(dtypes.Float32, 4), "b")
	f := &LoweredFunc{
		Name: "fn",
		Args: []Argument{buf, NewVar("n", dtypes.Int32)},
		Body: &Store{Buffer: buf, Index: Int(0), Value: Int(1)},
		Kind: FuncHost,
	}
	out := FormatFunc(f)
	assert.Contains(t, out, "host func fn(")
	assert.Contains(t, out, "buffer b")
	assert.Contains(t, out, "var n")
	assert.Contains(t, out, "  b[0] = 1\n")
}
