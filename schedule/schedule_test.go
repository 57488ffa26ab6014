// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/types/shapes"
)

func copyStage(name string, src *ir.Tensor) *Stage {
	return Compute(name, src.Shape, func(axes []ir.Expr) ir.Expr {
		return &ir.TensorLoad{Tensor: src, Indices: axes}
	})
}

func TestComputePanicsOnNilFn(t *testing.T) {
	require.Panics(t, func() { Compute("c", shapes.Make(dtypes.Float32, 4), nil) })
}

func TestCreatePanics(t *testing.T) {
	a := ir.Placeholder("a", shapes.Make(dtypes.Float32, 4))
	st := copyStage("c", a)
	require.Panics(t, func() { Create(st, nil) })
	require.Panics(t, func() { Create(st, st) })
}

func TestNormalizeIdempotent(t *testing.T) {
	a := ir.Placeholder("a", shapes.Make(dtypes.Float32, 4))
	s := Create(copyStage("c", a))

	n := s.Normalize()
	require.NotSame(t, s, n)
	require.Equal(t, s.Stages(), n.Stages())
	require.Same(t, n, n.Normalize())
}

func TestInferBound(t *testing.T) {
	a := ir.Placeholder("a", shapes.Make(dtypes.Float32, 2, 3))
	st := copyStage("c", a)
	s := Create(st).Normalize()

	bounds := InferBound(s)
	ranges := bounds[st]
	require.Len(t, ranges, 2)
	require.Equal(t, "0", ranges[0].Min.String())
	require.Equal(t, "2", ranges[0].Extent.String())
	require.Equal(t, "3", ranges[1].Extent.String())
}

func TestScheduleOps(t *testing.T) {
	a := ir.Placeholder("a", shapes.Make(dtypes.Float32, 2, 3))
	st := copyStage("c", a)
	s := Create(st).Normalize()

	stmt, err := ScheduleOps(s, InferBound(s))
	require.NoError(t, err)

	outer, ok := stmt.(*ir.For)
	require.True(t, ok)
	require.Equal(t, "c.v0", outer.LoopVar.Name)
	require.Equal(t, "2", outer.Extent.String())

	inner, ok := outer.Body.(*ir.For)
	require.True(t, ok)
	require.Equal(t, "c.v1", inner.LoopVar.Name)
	require.Equal(t, "3", inner.Extent.String())

	provide, ok := inner.Body.(*ir.Provide)
	require.True(t, ok)
	require.Same(t, st.Output(), provide.Tensor)
	require.Equal(t, []ir.Expr{ir.Expr(outer.LoopVar), ir.Expr(inner.LoopVar)}, provide.Indices)
}

func TestScheduleOpsDeviceStage(t *testing.T) {
	a := ir.Placeholder("a", shapes.Make(dtypes.Float32, 8))
	st := copyStage("d", a).SetDeviceScope()
	require.True(t, st.IsDeviceScope())
	s := Create(st).Normalize()

	stmt, err := ScheduleOps(s, InferBound(s))
	require.NoError(t, err)

	scope, ok := stmt.(*ir.AttrStmt)
	require.True(t, ok)
	require.Equal(t, ir.AttrDeviceScope, scope.Key)
	require.Equal(t, `"d"`, scope.Value.String())

	launch, ok := scope.Body.(*ir.AttrStmt)
	require.True(t, ok)
	require.Equal(t, ir.AttrThreadExtent, launch.Key)
	require.Equal(t, "8", launch.Value.String())
	require.IsType(t, &ir.For{}, launch.Body)
}

func TestScheduleOpsMissingBounds(t *testing.T) {
	a := ir.Placeholder("a", shapes.Make(dtypes.Float32, 4))
	st := copyStage("c", a)
	s := Create(st).Normalize()

	_, err := ScheduleOps(s, Bounds{})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"c"`)
}

func TestScheduleOpsMultiStageOrder(t *testing.T) {
	a := ir.Placeholder("a", shapes.Make(dtypes.Float32, 4))
	first := copyStage("t", a)
	second := copyStage("c", first.Output())
	s := Create(first, second).Normalize()

	stmt, err := ScheduleOps(s, InferBound(s))
	require.NoError(t, err)

	seq, ok := stmt.(*ir.Seq)
	require.True(t, ok)
	require.Len(t, seq.Stmts, 2)
	require.Same(t, first.Output(), seq.Stmts[0].(*ir.For).Body.(*ir.Provide).Tensor)
	require.Same(t, second.Output(), seq.Stmts[1].(*ir.For).Body.(*ir.Provide).Tensor)
}
