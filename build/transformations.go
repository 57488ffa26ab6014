// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package build

import (
	"github.com/gomlx/tensorc/codegen"
	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/module"
	"github.com/gomlx/tensorc/passes"
	"github.com/gomlx/tensorc/schedule"
)

// Transformations is the set of collaborators the orchestration pipeline
// drives. The ordering policy lives in Lower and Build; each field is one
// independent, swappable transformation, so tests can substitute recorders
// to check call order and arguments.
//
// Use DefaultTransformations for the real implementations.
type Transformations struct {
	// Schedule collaborators.
	Normalize   func(sch *schedule.Schedule) *schedule.Schedule
	InferBound  func(sch *schedule.Schedule) schedule.Bounds
	ScheduleOps func(sch *schedule.Schedule, bounds schedule.Bounds) (ir.Stmt, error)

	// Statement passes, in the order the pipeline applies them.
	StorageFlatten      func(stmt ir.Stmt, binds ir.BindingTable) (ir.Stmt, error)
	CanonicalSimplify   func(stmt ir.Stmt) ir.Stmt
	LoopPartition       func(stmt ir.Stmt) ir.Stmt
	VectorizeLoop       func(stmt ir.Stmt) ir.Stmt
	InjectVirtualThread func(stmt ir.Stmt) ir.Stmt
	StorageRewrite      func(stmt ir.Stmt) ir.Stmt
	UnrollLoop          func(stmt ir.Stmt, autoMaxStep, autoMinDepth int, explicit bool) ir.Stmt
	Simplify            func(stmt ir.Stmt) ir.Stmt
	MakeAPI             func(stmt ir.Stmt, name string, args []ir.Argument, reservedArgs int) (*ir.LoweredFunc, error)

	// Function-level passes driven by Build.
	StorageSync          func(f *ir.LoweredFunc, scope string) *ir.LoweredFunc
	LowerThreadAllreduce func(f *ir.LoweredFunc, warpSize int) *ir.LoweredFunc
	SplitHostDevice      func(f *ir.LoweredFunc) []*ir.LoweredFunc
	LowerPackedCall      func(f *ir.LoweredFunc) *ir.LoweredFunc

	// Codegen collaborators.
	TargetEnabled func(target codegen.Target) bool
	BuildModule   func(funcs []*ir.LoweredFunc, target codegen.Target) (*module.Module, error)
}

// DefaultTransformations returns the real collaborators: package schedule,
// package passes and package codegen.
func DefaultTransformations() *Transformations {
	return &Transformations{
		Normalize:   (*schedule.Schedule).Normalize,
		InferBound:  schedule.InferBound,
		ScheduleOps: schedule.ScheduleOps,

		StorageFlatten:      passes.StorageFlatten,
		CanonicalSimplify:   passes.CanonicalSimplify,
		LoopPartition:       passes.LoopPartition,
		VectorizeLoop:       passes.VectorizeLoop,
		InjectVirtualThread: passes.InjectVirtualThread,
		StorageRewrite:      passes.StorageRewrite,
		UnrollLoop:          passes.UnrollLoop,
		Simplify:            passes.Simplify,
		MakeAPI:             passes.MakeAPI,

		StorageSync:          passes.StorageSync,
		LowerThreadAllreduce: passes.LowerThreadAllreduce,
		SplitHostDevice:      passes.SplitHostDevice,
		LowerPackedCall:      passes.LowerPackedCall,

		TargetEnabled: codegen.Enabled,
		BuildModule:   codegen.BuildModule,
	}
}
