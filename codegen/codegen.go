// Package codegen defines the native code generation interface and the
// registry of target backends.
//
// A backend takes lowered functions and emits a module.Module for one target
// identifier. Backends register themselves during package initialization; to
// get all built-in backends simply include:
//
//	import _ "github.com/gomlx/tensorc/codegen/default"
package codegen

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/gomlx/tensorc/ir"
	"github.com/gomlx/tensorc/module"
	"github.com/gomlx/tensorc/types/xslices"
)

// Target is an opaque identifier understood by a registered backend.
type Target string

// Built-in target identifiers.
const (
	// LLVM is the primary native CPU backend.
	LLVM Target = "llvm"
	// CUDA is the warp-based accelerator backend.
	CUDA Target = "cuda"
	// StackVM is the portable interpreter backend, the ultimate fallback
	// when no native host backend is available.
	StackVM Target = "stackvm"
)

// Backend emits native code for one target.
type Backend interface {
	// Name returns the target identifier the backend serves.
	Name() Target

	// Description is a longer description that can be used to pretty-print.
	Description() string

	// Build emits a module from the given lowered functions. It fails if a
	// function kind is not supported by the target (e.g. a device kernel
	// given to a host-only backend).
	Build(funcs []*ir.LoweredFunc) (*module.Module, error)
}

// Constructor returns a new Backend instance.
type Constructor func() Backend

var registeredConstructors = make(map[Target]Constructor)

// Register a backend constructor for a target identifier.
//
// To be safe, call Register during initialization of a package.
func Register(target Target, constructor Constructor) {
	if constructor == nil {
		exceptions.Panicf("codegen.Register(%q): nil constructor", target)
	}
	if _, found := registeredConstructors[target]; found {
		exceptions.Panicf("codegen.Register(%q): target already registered", target)
	}
	registeredConstructors[target] = constructor
}

// Enabled reports whether a backend is registered for the target. It is a
// pure availability query with no side effects.
func Enabled(target Target) bool {
	_, found := registeredConstructors[target]
	return found
}

// Targets returns the registered target identifiers, sorted.
func Targets() []Target {
	return xslices.SortedKeys(registeredConstructors)
}

// New returns a backend for the target, or an error if none is registered.
func New(target Target) (Backend, error) {
	constructor, found := registeredConstructors[target]
	if !found {
		return nil, errors.Errorf("codegen: no backend registered for target %q (registered: %v)", target, Targets())
	}
	return constructor(), nil
}

// BuildModule emits a module for the given lowered functions and target.
func BuildModule(funcs []*ir.LoweredFunc, target Target) (*module.Module, error) {
	backend, err := New(target)
	if err != nil {
		return nil, err
	}
	return backend.Build(funcs)
}
