// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// tensorc_targets lists the registered code generation targets and optionally
// compiles a small demo function with each of them, reporting the emitted
// module sizes.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
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

var flagDemo = flag.Bool("demo", false,
	"Compile a small vector-copy function with every registered target and report the emitted module sizes.")

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)
)

func newTable() *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == 0:
				return headerRowStyle
			case row%2 == 0:
				return oddRowStyle
			default:
				return evenRowStyle
			}
		})
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if flag.NArg() > 0 {
		klog.Errorf("Unexpected arguments %v. See 'tensorc_targets -help'.", flag.Args())
		os.Exit(1)
	}

	listTargets()
	if *flagDemo {
		demoBuilds()
	}
}

func listTargets() {
	table := newTable()
	table.Row("Target", "Enabled", "Description")
	for _, target := range codegen.Targets() {
		backend := must.M1(codegen.New(target))
		table.Row(string(target), fmt.Sprintf("%v", codegen.Enabled(target)), backend.Description())
	}
	fmt.Println(table.Render())
}

// demoSchedule is a vector copy. Device targets get the compute stage on
// the device, so they exercise the host/device split; host-only targets keep
// it on the host.
func demoSchedule(device bool) (*schedule.Schedule, []ir.Argument) {
	a := ir.Placeholder("a", shapes.Make(dtypes.Float32, 1024))
	stage := schedule.Compute("c", a.Shape, func(axes []ir.Expr) ir.Expr {
		return &ir.TensorLoad{Tensor: a, Indices: axes}
	})
	if device {
		stage.SetDeviceScope()
	}
	return schedule.Create(stage), []ir.Argument{a, stage.Output()}
}

func demoBuilds() {
	table := newTable()
	table.Row("Target", "Host", "Functions", "Module Size")
	for _, target := range codegen.Targets() {
		sch, args := demoSchedule(target == codegen.CUDA)
		m, err := build.Build(build.Options{Schedule: sch, Args: args, Target: target})
		if err != nil {
			klog.Errorf("Build for target %q failed: %+v", target, err)
			continue
		}
		funcs := m.FuncNames()
		for _, sub := range m.Imported() {
			funcs = append(funcs, sub.FuncNames()...)
		}
		table.Row(string(target), m.Target(),
			fmt.Sprintf("%v", funcs), humanize.Bytes(uint64(m.MemoryUsage())))
	}
	fmt.Println(table.Render())
}
