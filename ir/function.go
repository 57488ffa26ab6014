// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ir

// FuncKind tells which side of the host/device split a function belongs to.
type FuncKind int

const (
	// FuncMixed is a function before the host/device split: it may still
	// contain device_scope regions.
	FuncMixed FuncKind = iota
	// FuncHost runs on the controlling processor and launches kernels.
	FuncHost
	// FuncDevice is a kernel extracted by the host/device split.
	FuncDevice
)

func (k FuncKind) String() string {
	switch k {
	case FuncHost:
		return "host"
	case FuncDevice:
		return "device"
	default:
		return "mixed"
	}
}

// LoweredFunc is the callable function descriptor produced by the lowering
// pipeline: a name, the resolved argument list in calling-convention order,
// the lowered body, and the number of leading arguments reserved for the
// runtime ABI wrapper.
type LoweredFunc struct {
	Name         string
	Args         []Argument
	Body         Stmt
	ReservedArgs int
	Kind         FuncKind
}

// WithBody returns a copy of the function with a new body. Function-level
// passes use it so the input function is never mutated.
func (f *LoweredFunc) WithBody(body Stmt) *LoweredFunc {
	clone := *f
	clone.Body = body
	return &clone
}
