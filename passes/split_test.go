// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/types/shapes"
)

// mixedFunc builds a host function with one device_scope region that reads
// in and writes out.
func mixedFunc() (f *ir.LoweredFunc, in, out *ir.Buffer) {
	in = ir.DeclBuffer(shapes.Make(dtypes.Float32, 8), "in")
	out = ir.DeclBuffer(shapes.Make(dtypes.Float32, 8), "out")
	i := ir.NewVar("i", dtypes.Int32)
	region := &ir.AttrStmt{
		Key:   ir.AttrDeviceScope,
		Value: ir.Str("stage"),
		Body: &ir.AttrStmt{
			Key:   ir.AttrThreadExtent,
			Value: ir.Int(8),
			Body: &ir.For{
				LoopVar: i, Min: ir.Int(0), Extent: ir.Int(8),
				Body: &ir.Store{Buffer: out, Index: i, Value: &ir.Load{Buffer: in, Index: i}},
			},
		},
	}
	f = &ir.LoweredFunc{
		Name: "veccopy",
		Args: []ir.Argument{in, out},
		Body: region,
		Kind: ir.FuncMixed,
	}
	return
}

func TestSplitHostDevice(t *testing.T) {
	f, in, out := mixedFunc()
	fragments := SplitHostDevice(f)
	require.Len(t, fragments, 2)

	host, kernel := fragments[0], fragments[1]
	require.Equal(t, ir.FuncHost, host.Kind)
	require.Equal(t, "veccopy", host.Name)
	require.Equal(t, f.Args, host.Args)

	require.Equal(t, ir.FuncDevice, kernel.Kind)
	require.Equal(t, "veccopy_kernel0", kernel.Name)
	// Written buffers come first in the kernel signature.
	require.Equal(t, []ir.Argument{out, in}, kernel.Args)

	// The region is replaced by a packed call naming the kernel and its
	// buffers.
	eval, ok := host.Body.(*ir.Evaluate)
	require.True(t, ok)
	call, ok := eval.Value.(*ir.Call)
	require.True(t, ok)
	require.Equal(t, ir.IntrinCallPacked, call.Name)
	require.Equal(t, `"veccopy_kernel0"`, call.Args[0].String())
	require.Equal(t, `"out"`, call.Args[1].String())
	require.Equal(t, `"in"`, call.Args[2].String())
}

func TestSplitHostDeviceNoRegions(t *testing.T) {
	buf := ir.DeclBuffer(shapes.Make(dtypes.Float32, 4), "b")
	f := &ir.LoweredFunc{
		Name: "hostonly",
		Args: []ir.Argument{buf},
		Body: &ir.Store{Buffer: buf, Index: ir.Int(0), Value: ir.Int(1)},
		Kind: ir.FuncMixed,
	}
	fragments := SplitHostDevice(f)
	require.Len(t, fragments, 1)
	require.Equal(t, ir.FuncHost, fragments[0].Kind)
}

func TestSplitHostDeviceInternalAllocation(t *testing.T) {
	in := ir.DeclBuffer(shapes.Make(dtypes.Float32, 8), "in")
	tmp := &ir.Buffer{Name: "tmp", Shape: shapes.Make(dtypes.Float32, 8), Scope: ir.ScopeShared}
	i := ir.NewVar("i", dtypes.Int32)
	region := &ir.AttrStmt{
		Key:   ir.AttrDeviceScope,
		Value: ir.Str("stage"),
		Body: &ir.Allocate{
			Buffer: tmp,
			Body:   &ir.Store{Buffer: tmp, Index: i, Value: &ir.Load{Buffer: in, Index: i}},
		},
	}
	f := &ir.LoweredFunc{Name: "f", Args: []ir.Argument{in}, Body: region, Kind: ir.FuncMixed}

	fragments := SplitHostDevice(f)
	require.Len(t, fragments, 2)
	// The shared-memory scratch buffer stays internal to the kernel.
	require.Equal(t, []ir.Argument{in}, fragments[1].Args)
}

func TestLowerPackedCall(t *testing.T) {
	f, _, _ := mixedFunc()
	host := SplitHostDevice(f)[0]

	lowered := LowerPackedCall(host)
	call := lowered.Body.(*ir.Evaluate).Value.(*ir.Call)
	require.Equal(t, ir.IntrinCallPackedLowered, call.Name)
	require.Len(t, call.Args, 3)

	// Functions without packed calls pass through unchanged.
	buf := ir.DeclBuffer(shapes.Make(dtypes.Float32, 4), "b")
	plain := &ir.LoweredFunc{
		Name: "plain",
		Body: &ir.Store{Buffer: buf, Index: ir.Int(0), Value: ir.Int(1)},
	}
	require.Equal(t, ir.Format(plain.Body), ir.Format(LowerPackedCall(plain).Body))
}
