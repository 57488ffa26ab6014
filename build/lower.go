// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package build

import (
	"k8s.io/klog/v2"

	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/schedule"
)

// DefaultFunctionName is used when no function name is given to Lower or
// Build.
const DefaultFunctionName = "default_function"

// Lower drives a schedule through the full lowering pipeline and wraps the
// result into a callable function descriptor with the given name.
//
// args is the function signature, in calling-convention order; binds
// optionally pre-seeds tensor-to-buffer bindings and is never mutated. The
// unrolling step reads the configuration current at the time of the call, so
// a config scope entered around Lower governs it.
func Lower(sch *schedule.Schedule, args []ir.Argument, name string, binds ir.BindingTable) (*ir.LoweredFunc, error) {
	return DefaultTransformations().Lower(sch, args, name, binds)
}

// LowerSimple is Lower stopping at the simplified statement tree: no loop
// partitioning (which would restructure loops) and no ABI wrapping. It is
// the "simple mode" view meant for inspection and debugging.
func LowerSimple(sch *schedule.Schedule, args []ir.Argument, binds ir.BindingTable) (ir.Stmt, error) {
	return DefaultTransformations().LowerSimple(sch, args, binds)
}

// Lower: see the package-level Lower.
func (t *Transformations) Lower(sch *schedule.Schedule, args []ir.Argument, name string, binds ir.BindingTable) (*ir.LoweredFunc, error) {
	if name == "" {
		name = DefaultFunctionName
	}
	stmt, argList, err := t.lower(sch, args, binds, false)
	if err != nil {
		return nil, err
	}
	return t.MakeAPI(stmt, name, argList, 0)
}

// LowerSimple: see the package-level LowerSimple.
func (t *Transformations) LowerSimple(sch *schedule.Schedule, args []ir.Argument, binds ir.BindingTable) (ir.Stmt, error) {
	stmt, _, err := t.lower(sch, args, binds, true)
	return stmt, err
}

// lower is the fixed pipeline shared by Lower and LowerSimple. Each step's
// output is the next step's sole input; the order is not reorderable.
func (t *Transformations) lower(sch *schedule.Schedule, args []ir.Argument, binds ir.BindingTable, simpleMode bool) (ir.Stmt, []ir.Argument, error) {
	outBinds, argList, err := GetBinds(args, binds)
	if err != nil {
		return nil, nil, err
	}
	sch = t.Normalize(sch)
	bounds := t.InferBound(sch)
	stmt, err := t.ScheduleOps(sch, bounds)
	if err != nil {
		return nil, nil, err
	}
	stmt, err = t.StorageFlatten(stmt, outBinds)
	if err != nil {
		return nil, nil, err
	}
	stmt = t.CanonicalSimplify(stmt)
	if !simpleMode {
		stmt = t.LoopPartition(stmt)
	}
	stmt = t.VectorizeLoop(stmt)
	stmt = t.InjectVirtualThread(stmt)
	stmt = t.StorageRewrite(stmt)
	// The configuration is read here, not at pipeline entry: a config
	// scope wrapping the Lower call governs unrolling.
	cfg := Current()
	stmt = t.UnrollLoop(stmt, cfg.AutoUnrollMaxStep(), cfg.AutoUnrollMinDepth(), cfg.UnrollExplicit())
	stmt = t.Simplify(stmt)
	if klog.V(2).Enabled() {
		klog.Infof("build.lower(simpleMode=%v) produced:\n%s", simpleMode, ir.Format(stmt))
	}
	return stmt, argList, nil
}
