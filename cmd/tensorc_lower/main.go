// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// tensorc_lower lowers a demo element-wise schedule and prints the resulting
// function, or the emitted module when a target is given. It exposes the
// compilation options as flags, handy to see how each one changes the
// generated loops.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"github.com/gomlx/tensorc/build"
	"github.com/gomlx/tensorc/codegen"
	_ "github.com/gomlx/tensorc/codegen/default"
	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/schedule"
	"github.com/gomlx/tensorc/types/shapes"
)

var (
	flagName   = flag.String("name", build.DefaultFunctionName, "Name of the lowered function.")
	flagSize   = flag.Int("size", 16, "Number of elements of the demo vector-add.")
	flagSimple = flag.Bool("simple", false,
		"Lower in simple mode: skip loop partitioning and the function wrapping, print the bare statement tree.")
	flagDevice = flag.Bool("device", false, "Map the compute stage to the device.")
	flagTarget = flag.String("target", "",
		"Build a module for this target after lowering and print its source. Empty prints only the lowered function.")

	flagUnrollMaxStep = flag.Int("auto_unroll_max_step", 0,
		"Maximum loop extent automatic unrolling still unrolls. 0 disables automatic unrolling.")
	flagUnrollMinDepth = flag.Int("auto_unroll_min_depth", 1,
		"Minimum loop nesting depth considered for automatic unrolling.")
	flagUnrollExplicit = flag.Bool("unroll_explicit", true,
		"Replicate unrolled loop bodies explicitly instead of only marking the loop for the codegen.")
	flagGlobalBarrier = flag.Bool("detect_global_barrier", true,
		"Insert a global memory barrier when the function writes global buffers.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if flag.NArg() > 0 {
		klog.Errorf("Unexpected arguments %v. See 'tensorc_lower -help'.", flag.Args())
		os.Exit(1)
	}

	cfg := must.M1(build.NewConfig(map[string]any{
		build.OptAutoUnrollMaxStep:   *flagUnrollMaxStep,
		build.OptAutoUnrollMinDepth:  *flagUnrollMinDepth,
		build.OptUnrollExplicit:      *flagUnrollExplicit,
		build.OptDetectGlobalBarrier: *flagGlobalBarrier,
	}))
	must.M(build.WithConfig(cfg, run))
}

// demoSchedule is an element-wise c = a+b over a vector of -size elements.
func demoSchedule() (*schedule.Schedule, []ir.Argument) {
	shape := shapes.Make(dtypes.Float32, *flagSize)
	a := ir.Placeholder("a", shape)
	b := ir.Placeholder("b", shape)
	stage := schedule.Compute("c", shape, func(axes []ir.Expr) ir.Expr {
		return ir.Add(
			&ir.TensorLoad{Tensor: a, Indices: axes},
			&ir.TensorLoad{Tensor: b, Indices: axes})
	})
	if *flagDevice {
		stage.SetDeviceScope()
	}
	return schedule.Create(stage), []ir.Argument{a, b, stage.Output()}
}

func run() error {
	sch, args := demoSchedule()

	if *flagSimple {
		stmt, err := build.LowerSimple(sch, args, nil)
		if err != nil {
			return err
		}
		fmt.Print(ir.Format(stmt))
		return nil
	}

	f, err := build.Lower(sch, args, *flagName, nil)
	if err != nil {
		return err
	}
	fmt.Print(ir.FormatFunc(f))

	if *flagTarget == "" {
		return nil
	}
	m, err := build.Build(build.Options{Func: f, Target: codegen.Target(*flagTarget)})
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(m.Source())
	return nil
}
