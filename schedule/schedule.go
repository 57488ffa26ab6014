// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package schedule declares computation schedules: what each stage computes
// and where it runs, before any lowering happens.
//
// A Schedule is an ordered collection of stages. Each computed stage produces
// one output tensor from a compute expression over its iteration axes. The
// lowering pipeline (package build) turns a schedule into loop nests by
// calling Normalize, InferBound and ScheduleOps, in that order.
package schedule

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"

	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/types/shapes"
)

// ComputeFn builds the value stored at the given iteration axes. Axes are
// scalar index expressions, one per output dimension.
type ComputeFn func(axes []ir.Expr) ir.Expr

// Stage computes one output tensor.
type Stage struct {
	output  *ir.Tensor
	compute ComputeFn
	device  bool
}

// Compute declares a stage producing a tensor of the given name and shape,
// with fn building the element value.
func Compute(name string, shape shapes.Shape, fn ComputeFn) *Stage {
	if fn == nil {
		exceptions.Panicf("schedule.Compute(%q): compute function must not be nil", name)
	}
	return &Stage{
		output:  &ir.Tensor{Name: name, Shape: shape},
		compute: fn,
	}
}

// Output returns the tensor this stage produces.
func (st *Stage) Output() *ir.Tensor { return st.output }

// SetDeviceScope marks the stage to run on the accelerator device. Its loop
// nest is wrapped in a device_scope region, which the host/device split later
// extracts into a kernel.
func (st *Stage) SetDeviceScope() *Stage {
	st.device = true
	return st
}

// IsDeviceScope reports whether the stage was mapped to the device.
func (st *Stage) IsDeviceScope() bool { return st.device }

// Schedule is an ordered collection of stages.
type Schedule struct {
	stages     []*Stage
	normalized bool
}

// Create returns a schedule over the given stages. It panics if a stage is
// repeated or nil.
func Create(stages ...*Stage) *Schedule {
	seen := make(map[*Stage]bool, len(stages))
	for _, st := range stages {
		if st == nil {
			exceptions.Panicf("schedule.Create: nil stage")
		}
		if seen[st] {
			exceptions.Panicf("schedule.Create: stage %q given twice", st.output.Name)
		}
		seen[st] = true
	}
	return &Schedule{stages: stages}
}

// Stages returns the stages in order.
func (s *Schedule) Stages() []*Stage { return s.stages }

// Normalize returns a canonical copy of the schedule, ready for bounds
// inference. A normalized schedule normalizes to itself.
func (s *Schedule) Normalize() *Schedule {
	if s.normalized {
		return s
	}
	stages := make([]*Stage, len(s.stages))
	copy(stages, s.stages)
	return &Schedule{stages: stages, normalized: true}
}

// Range is one iteration axis: [Min, Min+Extent).
type Range struct {
	Min, Extent ir.Expr
}

// Bounds holds the inferred iteration ranges per stage.
type Bounds map[*Stage][]Range

// InferBound infers the iteration range of every stage from its output
// shape: one full-extent axis per output dimension.
func InferBound(s *Schedule) Bounds {
	bounds := make(Bounds, len(s.stages))
	for _, st := range s.stages {
		ranges := make([]Range, st.output.Shape.Rank())
		for axis, dim := range st.output.Shape.Dimensions {
			ranges[axis] = Range{Min: ir.Int(0), Extent: ir.Int(int64(dim))}
		}
		bounds[st] = ranges
	}
	return bounds
}

// ScheduleOps materializes the schedule into a statement tree using the
// inferred bounds: one loop nest per stage, a Provide at the innermost level,
// device stages wrapped in a device_scope region carrying the launch extent.
func ScheduleOps(s *Schedule, bounds Bounds) (ir.Stmt, error) {
	stmts := make([]ir.Stmt, 0, len(s.stages))
	for _, st := range s.stages {
		ranges, found := bounds[st]
		if !found {
			return nil, errors.Errorf("schedule.ScheduleOps: no bounds inferred for stage %q", st.output.Name)
		}
		axes := make([]ir.Expr, len(ranges))
		loopVars := make([]*ir.Var, len(ranges))
		for axis := range ranges {
			loopVars[axis] = ir.NewVar(fmt.Sprintf("%s.v%d", st.output.Name, axis), dtypes.Int32)
			axes[axis] = loopVars[axis]
		}
		var body ir.Stmt = &ir.Provide{
			Tensor:  st.output,
			Indices: axes,
			Value:   st.compute(axes),
		}
		for axis := len(ranges) - 1; axis >= 0; axis-- {
			body = &ir.For{
				LoopVar: loopVars[axis],
				Min:     ranges[axis].Min,
				Extent:  ranges[axis].Extent,
				Body:    body,
			}
		}
		if st.device {
			launchExtent := ir.Expr(ir.Int(1))
			if len(ranges) > 0 {
				launchExtent = ranges[0].Extent
			}
			body = &ir.AttrStmt{
				Key:   ir.AttrThreadExtent,
				Value: launchExtent,
				Body:  body,
			}
			body = &ir.AttrStmt{
				Key:   ir.AttrDeviceScope,
				Value: ir.Str(st.output.Name),
				Body:  body,
			}
		}
		stmts = append(stmts, body)
	}
	return ir.SeqOf(stmts...), nil
}
