// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package llvm implements the primary native CPU backend. It emits a
// textual, LLVM-flavored rendering of each host function.
package llvm

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/gomlx/tensorc/codegen"
	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/module"
)

func init() {
	codegen.Register(codegen.LLVM, func() codegen.Backend { return &backend{} })
}

type backend struct{}

func (*backend) Name() codegen.Target { return codegen.LLVM }

func (*backend) Description() string {
	return "Native CPU code generation (LLVM-flavored host backend)"
}

func (*backend) Build(funcs []*ir.LoweredFunc) (*module.Module, error) {
	m := module.New(string(codegen.LLVM))
	for _, f := range funcs {
		if f.Kind == ir.FuncDevice {
			return nil, errors.Errorf("llvm: device kernel %q cannot be compiled by the host backend", f.Name)
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "define void @%s(...) ; reserved_args=%d\n", f.Name, f.ReservedArgs)
		for _, line := range strings.Split(strings.TrimRight(ir.Format(f.Body), "\n"), "\n") {
			fmt.Fprintf(&sb, "  ; %s\n", line)
		}
		sb.WriteString("  ret void\n}\n")
		m.AddFunc(f, sb.String())
	}
	return m, nil
}
