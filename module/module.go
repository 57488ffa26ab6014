// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package module defines the deployable artifact produced by a build: the
// code a backend emitted for one target, plus any device submodules the host
// module imports and owns.
package module

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gomlx/tensorc/ir"
)

// Module is a compiled module for a single target. A host module may import
// device modules; imported modules are exclusively owned by the importer and
// are not independently reachable.
type Module struct {
	id       string
	target   string
	source   map[string]string // function name -> emitted code
	order    []string          // function names in definition order
	imported []*Module
}

// New returns an empty module for the given target identifier. Backends fill
// it in with AddFunc.
func New(target string) *Module {
	return &Module{
		id:     uuid.NewString(),
		target: target,
		source: make(map[string]string),
	}
}

// ID returns the unique id of this module.
func (m *Module) ID() string { return m.id }

// Target returns the target identifier this module was compiled for.
func (m *Module) Target() string { return m.target }

// AddFunc records the emitted code of one compiled function.
func (m *Module) AddFunc(f *ir.LoweredFunc, code string) {
	if _, found := m.source[f.Name]; !found {
		m.order = append(m.order, f.Name)
	}
	m.source[f.Name] = code
}

// FuncNames returns the compiled function names in definition order.
func (m *Module) FuncNames() []string {
	return append([]string{}, m.order...)
}

// FuncSource returns the emitted code for one function.
func (m *Module) FuncSource(name string) (code string, found bool) {
	code, found = m.source[name]
	return
}

// ImportModule attaches sub as an owned dependency of this module. This is
// how a host module carries the device code it launches.
func (m *Module) ImportModule(sub *Module) {
	m.imported = append(m.imported, sub)
}

// Imported returns the imported submodules, in import order.
func (m *Module) Imported() []*Module {
	return append([]*Module{}, m.imported...)
}

// Source returns the full emitted source of the module, functions in
// definition order, imported modules appended after a separator.
func (m *Module) Source() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; module %s target=%s\n", m.id, m.target)
	for _, name := range m.order {
		sb.WriteString(m.source[name])
	}
	for _, sub := range m.imported {
		fmt.Fprintf(&sb, "; imported %s\n", sub.target)
		sb.WriteString(sub.Source())
	}
	return sb.String()
}

// MemoryUsage returns the size in bytes of the emitted source, imports
// included. Used by the command line tools for reporting.
func (m *Module) MemoryUsage() int {
	total := 0
	for _, code := range m.source {
		total += len(code)
	}
	for _, sub := range m.imported {
		total += sub.MemoryUsage()
	}
	return total
}

// String implements fmt.Stringer with a one-line summary.
func (m *Module) String() string {
	return fmt.Sprintf("Module(target=%s, funcs=[%s], imported=%d)",
		m.target, strings.Join(m.order, ", "), len(m.imported))
}
