// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package cuda implements the warp-based accelerator backend. It only
// accepts device kernels -- host code must go through a host backend that
// imports the resulting device module.
package cuda

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/gomlx/tensorc/codegen"
	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/module"
)

func init() {
	codegen.Register(codegen.CUDA, func() codegen.Backend { return &backend{} })
}

type backend struct{}

func (*backend) Name() codegen.Target { return codegen.CUDA }

func (*backend) Description() string {
	return "Accelerator device code generation (warp size 32)"
}

func (*backend) Build(funcs []*ir.LoweredFunc) (*module.Module, error) {
	m := module.New(string(codegen.CUDA))
	for _, f := range funcs {
		if f.Kind != ir.FuncDevice {
			return nil, errors.Errorf("cuda: function %q is not a device kernel", f.Name)
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, ".visible .entry %s\n", f.Name)
		for _, line := range strings.Split(strings.TrimRight(ir.Format(f.Body), "\n"), "\n") {
			fmt.Fprintf(&sb, "  // %s\n", line)
		}
		sb.WriteString("  ret;\n")
		m.AddFunc(f, sb.String())
	}
	return m, nil
}
