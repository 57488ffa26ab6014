// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package build

import (
	"github.com/pkg/errors"

	"github.com/gomlx/tensorc/ir"
)

var (
	// ErrDuplicateBinding is returned when the same tensor appears twice
	// in an argument list (or is already bound in the seed table).
	ErrDuplicateBinding = errors.New("duplicate tensor binding")

	// ErrUnsupportedArgumentKind is returned for an argument that is not a
	// tensor, a buffer or a scalar variable.
	ErrUnsupportedArgumentKind = errors.New("argument must be a Tensor, Buffer or Var")
)

// GetBinds resolves a function signature into concrete bindings: each tensor
// argument gets a fresh buffer matching its shape, dtype and name, recorded
// in the binding table; buffers and scalar variables pass through unchanged.
// The returned argument list mirrors the input order exactly.
//
// binds optionally seeds the table; it is copied, never mutated, so the
// caller's table is untouched. The function is purely functional with
// respect to its inputs.
func GetBinds(args []ir.Argument, binds ir.BindingTable) (ir.BindingTable, []ir.Argument, error) {
	outBinds := binds.Clone()
	argList := make([]ir.Argument, 0, len(args))
	for _, arg := range args {
		switch a := arg.(type) {
		case *ir.Tensor:
			if _, bound := outBinds[a]; bound {
				return nil, nil, errors.Wrapf(ErrDuplicateBinding, "tensor %q", a.Name)
			}
			buffer := ir.DeclBuffer(a.Shape, a.Name)
			outBinds[a] = buffer
			argList = append(argList, buffer)
		case *ir.Buffer:
			argList = append(argList, a)
		case *ir.Var:
			argList = append(argList, a)
		default:
			return nil, nil, errors.Wrapf(ErrUnsupportedArgumentKind, "got %T", arg)
		}
	}
	return outBinds, argList, nil
}
