// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package build

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/tensorc/codegen"
	_ "github.com/gomlx/tensorc/codegen/default"
	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/module"
)

func TestBuildInputValidation(t *testing.T) {
	sch, args := testSchedule()
	f := &ir.LoweredFunc{Name: "f", Body: &ir.Seq{}}

	_, err := Build(Options{Schedule: sch})
	require.ErrorIs(t, err, ErrMissingArguments)

	_, err = Build(Options{Func: f, Args: args})
	require.ErrorIs(t, err, ErrUnexpectedArguments)

	_, err = Build(Options{})
	require.ErrorIs(t, err, ErrInvalidBuildInput)

	_, err = Build(Options{Schedule: sch, Func: f, Args: args})
	require.ErrorIs(t, err, ErrInvalidBuildInput)
}

func TestBuildHostOnly(t *testing.T) {
	sch, args := testSchedule()
	m, err := Build(Options{Schedule: sch, Args: args, Target: codegen.LLVM})
	require.NoError(t, err)
	require.Equal(t, string(codegen.LLVM), m.Target())
	require.Empty(t, m.Imported())
	require.Equal(t, []string{DefaultFunctionName}, m.FuncNames())
}

func TestBuildCUDASplitsAndImports(t *testing.T) {
	sch, args := deviceSchedule()

	var calls []string
	var fragments []*ir.LoweredFunc
	var warpSizes []int
	tr := recordedTransformations(&calls)
	splitHostDevice := tr.SplitHostDevice
	tr.SplitHostDevice = func(f *ir.LoweredFunc) []*ir.LoweredFunc {
		fragments = splitHostDevice(f)
		return fragments
	}
	lowerAllreduce := tr.LowerThreadAllreduce
	tr.LowerThreadAllreduce = func(f *ir.LoweredFunc, warpSize int) *ir.LoweredFunc {
		warpSizes = append(warpSizes, warpSize)
		return lowerAllreduce(f, warpSize)
	}

	m, err := tr.Build(Options{Schedule: sch, Args: args, Target: codegen.CUDA, Name: "veccopy"})
	require.NoError(t, err)

	// Host fragment plus one device fragment, warp size 32 for cuda.
	require.Len(t, fragments, 2)
	require.Equal(t, ir.FuncHost, fragments[0].Kind)
	require.Equal(t, ir.FuncDevice, fragments[1].Kind)
	require.Equal(t, "veccopy_kernel0", fragments[1].Name)
	require.Equal(t, []int{32}, warpSizes)

	// The host module owns the imported device module.
	require.Equal(t, string(codegen.LLVM), m.Target())
	imported := m.Imported()
	require.Len(t, imported, 1)
	require.Equal(t, string(codegen.CUDA), imported[0].Target())
	require.Equal(t, []string{"veccopy_kernel0"}, imported[0].FuncNames())
}

func TestBuildWarpSizeOneForNonCUDA(t *testing.T) {
	sch, args := testSchedule()
	var warpSizes []int
	tr := DefaultTransformations()
	lowerAllreduce := tr.LowerThreadAllreduce
	tr.LowerThreadAllreduce = func(f *ir.LoweredFunc, warpSize int) *ir.LoweredFunc {
		warpSizes = append(warpSizes, warpSize)
		return lowerAllreduce(f, warpSize)
	}
	_, err := tr.Build(Options{Schedule: sch, Args: args, Target: codegen.LLVM})
	require.NoError(t, err)
	require.Equal(t, []int{1}, warpSizes)
}

func TestBuildFromLoweredFunc(t *testing.T) {
	sch, args := testSchedule()
	f, err := Lower(sch, args, "prelowered", nil)
	require.NoError(t, err)

	m, err := Build(Options{Func: f, Target: codegen.LLVM})
	require.NoError(t, err)
	require.Equal(t, []string{"prelowered"}, m.FuncNames())
}

func TestBuildGlobalBarrierConfig(t *testing.T) {
	sch, args := testSchedule()

	syncScopes := func() []string {
		var scopes []string
		tr := DefaultTransformations()
		storageSync := tr.StorageSync
		tr.StorageSync = func(f *ir.LoweredFunc, scope string) *ir.LoweredFunc {
			scopes = append(scopes, scope)
			return storageSync(f, scope)
		}
		_, err := tr.Build(Options{Schedule: sch, Args: args, Target: codegen.LLVM})
		require.NoError(t, err)
		return scopes
	}

	// Default: global barrier detection on, shared sync always.
	require.Equal(t, []string{ir.ScopeGlobal, ir.ScopeShared}, syncScopes())

	// detect_global_barrier=false suppresses only the global sync.
	cfg, err := NewConfig(map[string]any{OptDetectGlobalBarrier: false})
	require.NoError(t, err)
	require.NoError(t, WithConfig(cfg, func() error {
		require.Equal(t, []string{ir.ScopeShared}, syncScopes())
		return nil
	}))
}

func TestBuildHostTargetFallback(t *testing.T) {
	sch, args := deviceSchedule()

	var hostTargets []codegen.Target
	tr := DefaultTransformations()
	tr.BuildModule = func(funcs []*ir.LoweredFunc, target codegen.Target) (*module.Module, error) {
		if funcs[0].Kind != ir.FuncDevice {
			hostTargets = append(hostTargets, target)
		}
		return module.New(string(target)), nil
	}

	// With llvm enabled, the host side defaults to llvm.
	_, err := tr.Build(Options{Schedule: sch, Args: args, Target: codegen.CUDA})
	require.NoError(t, err)
	require.Equal(t, []codegen.Target{codegen.LLVM}, hostTargets)

	// Without llvm, the portable interpreter is the fallback.
	hostTargets = nil
	tr.TargetEnabled = func(target codegen.Target) bool { return false }
	_, err = tr.Build(Options{Schedule: sch, Args: args, Target: codegen.CUDA})
	require.NoError(t, err)
	require.Equal(t, []codegen.Target{codegen.StackVM}, hostTargets)

	// An explicit host target is used untouched.
	hostTargets = nil
	_, err = tr.Build(Options{Schedule: sch, Args: args, Target: codegen.CUDA, TargetHost: codegen.StackVM})
	require.NoError(t, err)
	require.Equal(t, []codegen.Target{codegen.StackVM}, hostTargets)
}
