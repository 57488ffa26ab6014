// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package build

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/tensorc/codegen"
	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/module"
	"github.com/gomlx/tensorc/schedule"
)

var (
	// ErrMissingArguments is returned when building from a schedule
	// without an argument list.
	ErrMissingArguments = errors.New("args must be given when building from a schedule")

	// ErrUnexpectedArguments is returned when building from an
	// already-lowered function with an argument list -- the function
	// already carries its own.
	ErrUnexpectedArguments = errors.New("args must not be given when building from a lowered function")

	// ErrInvalidBuildInput is returned when the build input is neither a
	// schedule nor a lowered function (or is both).
	ErrInvalidBuildInput = errors.New("build input must be either a schedule or a lowered function")
)

// Options configures one Build call. Exactly one of Schedule or Func must be
// set: a schedule is lowered first (and requires Args), a lowered function
// is used as-is (and must not come with Args).
type Options struct {
	Schedule *schedule.Schedule
	Func     *ir.LoweredFunc

	// Args is the function signature when building from a schedule.
	Args []ir.Argument

	// Target is the device (or single) codegen target. Defaults to the
	// primary native backend.
	Target codegen.Target

	// TargetHost is the host-side codegen target when the build splits
	// off device code. When empty, the primary native backend is used if
	// available, with the portable interpreter as fallback.
	TargetHost codegen.Target

	// Name of the compiled function, DefaultFunctionName when empty.
	Name string

	// Binds optionally pre-seeds tensor-to-buffer bindings.
	Binds ir.BindingTable
}

// Build compiles a schedule (or an already-lowered function) into a
// deployable module: target-independent synchronization and reduction
// lowering, host/device split, native code generation per fragment, and
// linking of device modules into the host module.
func Build(opts Options) (*module.Module, error) {
	return DefaultTransformations().Build(opts)
}

// Build: see the package-level Build.
func (t *Transformations) Build(opts Options) (*module.Module, error) {
	if opts.Target == "" {
		opts.Target = codegen.LLVM
	}
	f, err := t.buildInput(opts)
	if err != nil {
		return nil, err
	}

	// Device-related lowering, unconditional on the lowered function.
	if Current().DetectGlobalBarrier() {
		f = t.StorageSync(f, ir.ScopeGlobal)
	}
	f = t.StorageSync(f, ir.ScopeShared)
	warpSize := 1
	if opts.Target == codegen.CUDA {
		warpSize = 32
	}
	f = t.LowerThreadAllreduce(f, warpSize)

	fragments := t.SplitHostDevice(f)
	fragments[0] = t.LowerPackedCall(fragments[0])
	klog.V(1).Infof("build %q for target=%q: %d fragment(s)", f.Name, opts.Target, len(fragments))

	if len(fragments) == 1 {
		// No device fragments: a single native module for the target.
		return t.BuildModule(fragments[:1], opts.Target)
	}

	targetHost := opts.TargetHost
	if targetHost == "" {
		targetHost = codegen.StackVM
		if t.TargetEnabled(codegen.LLVM) {
			targetHost = codegen.LLVM
		}
	}
	host, err := t.BuildModule(fragments[:1], targetHost)
	if err != nil {
		return nil, err
	}
	if opts.Target != "" {
		dev, err := t.BuildModule(fragments[1:], opts.Target)
		if err != nil {
			return nil, err
		}
		host.ImportModule(dev)
	}
	return host, nil
}

// buildInput dispatches on the input variant: schedule (lowered here) or
// already-lowered function (used as-is).
func (t *Transformations) buildInput(opts Options) (*ir.LoweredFunc, error) {
	switch {
	case opts.Schedule != nil && opts.Func != nil:
		return nil, errors.WithStack(ErrInvalidBuildInput)
	case opts.Schedule != nil:
		if opts.Args == nil {
			return nil, errors.WithStack(ErrMissingArguments)
		}
		return t.Lower(opts.Schedule, opts.Args, opts.Name, opts.Binds)
	case opts.Func != nil:
		if len(opts.Args) > 0 {
			return nil, errors.WithStack(ErrUnexpectedArguments)
		}
		return opts.Func, nil
	default:
		return nil, errors.WithStack(ErrInvalidBuildInput)
	}
}
