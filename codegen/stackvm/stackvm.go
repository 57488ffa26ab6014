// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package stackvm implements the portable interpreter backend, used as the
// host fallback when the native backend is not available. It accepts any
// function kind.
package stackvm

import (
	"fmt"
	"strings"

	"github.com/gomlx/tensorc/codegen"
	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/module"
)

func init() {
	codegen.Register(codegen.StackVM, func() codegen.Backend { return &backend{} })
}

type backend struct{}

func (*backend) Name() codegen.Target { return codegen.StackVM }

func (*backend) Description() string {
	return "Portable stack interpreter (host fallback backend)"
}

func (*backend) Build(funcs []*ir.LoweredFunc) (*module.Module, error) {
	m := module.New(string(codegen.StackVM))
	for _, f := range funcs {
		var sb strings.Builder
		fmt.Fprintf(&sb, "func %s: # %s, %d args\n", f.Name, f.Kind, len(f.Args))
		for ii, line := range strings.Split(strings.TrimRight(ir.Format(f.Body), "\n"), "\n") {
			fmt.Fprintf(&sb, "  %04d %s\n", ii, line)
		}
		m.AddFunc(f, sb.String())
	}
	return m, nil
}
