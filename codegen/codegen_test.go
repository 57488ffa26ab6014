// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package codegen_test

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/tensorc/codegen"
	_ "github.com/gomlx/tensorc/codegen/default"
	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/types/shapes"
)

func loweredFunc(name string, kind ir.FuncKind) *ir.LoweredFunc {
	buf := ir.DeclBuffer(shapes.Make(dtypes.Float32, 4), "b")
	return &ir.LoweredFunc{
		Name: name,
		Args: []ir.Argument{buf},
		Body: &ir.Store{Buffer: buf, Index: ir.Int(0), Value: ir.Int(1)},
		Kind: kind,
	}
}

func TestRegistry(t *testing.T) {
	assert.True(t, codegen.Enabled(codegen.LLVM))
	assert.True(t, codegen.Enabled(codegen.CUDA))
	assert.True(t, codegen.Enabled(codegen.StackVM))
	assert.False(t, codegen.Enabled("rocm"))

	// Sorted target identifiers.
	assert.Equal(t, []codegen.Target{codegen.CUDA, codegen.LLVM, codegen.StackVM}, codegen.Targets())

	_, err := codegen.New("rocm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"rocm"`)

	backend, err := codegen.New(codegen.LLVM)
	require.NoError(t, err)
	assert.Equal(t, codegen.LLVM, backend.Name())
	assert.NotEmpty(t, backend.Description())
}

func TestLLVMBackend(t *testing.T) {
	m, err := codegen.BuildModule([]*ir.LoweredFunc{loweredFunc("main", ir.FuncHost)}, codegen.LLVM)
	require.NoError(t, err)
	assert.Equal(t, string(codegen.LLVM), m.Target())
	code, found := m.FuncSource("main")
	require.True(t, found)
	assert.Contains(t, code, "define void @main")

	// Device kernels are rejected by the host backend.
	_, err = codegen.BuildModule([]*ir.LoweredFunc{loweredFunc("k", ir.FuncDevice)}, codegen.LLVM)
	require.Error(t, err)
}

func TestCUDABackend(t *testing.T) {
	m, err := codegen.BuildModule([]*ir.LoweredFunc{loweredFunc("main_kernel0", ir.FuncDevice)}, codegen.CUDA)
	require.NoError(t, err)
	code, found := m.FuncSource("main_kernel0")
	require.True(t, found)
	assert.Contains(t, code, ".visible .entry main_kernel0")

	// Host code must go through a host backend.
	_, err = codegen.BuildModule([]*ir.LoweredFunc{loweredFunc("main", ir.FuncHost)}, codegen.CUDA)
	require.Error(t, err)
}

func TestStackVMBackend(t *testing.T) {
	funcs := []*ir.LoweredFunc{
		loweredFunc("main", ir.FuncHost),
		loweredFunc("k", ir.FuncDevice),
	}
	m, err := codegen.BuildModule(funcs, codegen.StackVM)
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "k"}, m.FuncNames())
}

func TestRegisterPanics(t *testing.T) {
	require.Panics(t, func() { codegen.Register("broken", nil) })
	require.Panics(t, func() {
		codegen.Register(codegen.LLVM, func() codegen.Backend { return nil })
	})
}
