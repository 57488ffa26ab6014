// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package passes

import (
	"github.com/pkg/errors"

	"github.com/gomlx/tensorc/ir"
)

// MakeAPI wraps a lowered statement tree into a callable function
// descriptor: the given name, the resolved argument list in calling
// convention order, and the number of leading arguments reserved for the
// runtime ABI wrapper.
func MakeAPI(stmt ir.Stmt, name string, args []ir.Argument, reservedArgs int) (*ir.LoweredFunc, error) {
	if stmt == nil {
		return nil, errors.Errorf("MakeAPI(%q): nil function body", name)
	}
	if name == "" {
		return nil, errors.Errorf("MakeAPI: function name must not be empty")
	}
	return &ir.LoweredFunc{
		Name:         name,
		Args:         args,
		Body:         stmt,
		ReservedArgs: reservedArgs,
		Kind:         ir.FuncMixed,
	}, nil
}
