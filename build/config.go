// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package build is the orchestration layer of the compiler: it drives a
// schedule through the fixed sequence of lowering passes (Lower), and turns
// the lowered function into a deployable module, splitting host and device
// code and invoking the codegen backends (Build).
//
// Behavior is tuned through a process-wide build configuration with nested,
// error-safe scopes: enter a Config to override options for every Lower and
// Build call underneath it, exit to restore the enclosing configuration. The
// current-configuration pointer is process-wide state with strict LIFO scope
// discipline; it is not designed for concurrent mutation from independent
// goroutines -- callers running builds concurrently must serialize scope
// entry/exit.
package build

import (
	"maps"

	"github.com/pkg/errors"

	"github.com/gomlx/tensorc/types/xslices"
)

// Recognized build configuration options.
const (
	// OptAutoUnrollMaxStep is the threshold of loop extent to be
	// automatically unrolled. 0 disables automatic unrolling.
	OptAutoUnrollMaxStep = "auto_unroll_max_step"
	// OptAutoUnrollMinDepth is the minimum loop nest level before a loop
	// can be automatically unrolled.
	OptAutoUnrollMinDepth = "auto_unroll_min_depth"
	// OptUnrollExplicit selects explicit body replication when unrolling.
	// If false, the unroll hint is passed on to the codegen phase, which
	// may emit a pragma instead -- more readable when supported.
	OptUnrollExplicit = "unroll_explicit"
	// OptDetectGlobalBarrier enables global memory barrier detection
	// during Build.
	OptDetectGlobalBarrier = "detect_global_barrier"
)

var configDefaults = map[string]any{
	OptAutoUnrollMaxStep:   0,
	OptAutoUnrollMinDepth:  1,
	OptUnrollExplicit:      true,
	OptDetectGlobalBarrier: true,
}

var (
	// ErrInvalidConfigOption is returned by NewConfig for an option name
	// outside the recognized set, or a value of the wrong type.
	ErrInvalidConfigOption = errors.New("invalid build config option")

	// ErrUnbalancedScope is returned by Config.Exit when the scope was
	// never entered, was already exited, or is exited out of LIFO order.
	ErrUnbalancedScope = errors.New("unbalanced build config scope")
)

// Config is a set of build options that can be installed as the current
// configuration for a scope. Create it with NewConfig, install it with Enter
// or WithConfig.
//
// Options not explicitly set read through to the enclosing scope's value at
// entry time, and ultimately to the system defaults -- every recognized
// option always has a defined value.
type Config struct {
	attrs     map[string]any // explicit overrides
	effective map[string]any // full option set, computed at Enter
	prev      *Config        // configuration to restore at Exit
}

// The root configuration holds the defaults, is installed at process start
// and is never popped.
var current = &Config{effective: maps.Clone(configDefaults)}

// Current returns the configuration installed by the innermost active scope,
// or the default configuration if none. Never nil.
func Current() *Config { return current }

// NewConfig returns a Config with the given explicit option overrides. The
// config is not installed; see Enter and WithConfig.
func NewConfig(options map[string]any) (*Config, error) {
	for name, value := range options {
		def, recognized := configDefaults[name]
		if !recognized {
			return nil, errors.Wrapf(ErrInvalidConfigOption,
				"%q, candidates are %v", name, xslices.SortedKeys(configDefaults))
		}
		switch def.(type) {
		case int:
			if _, ok := value.(int); !ok {
				return nil, errors.Wrapf(ErrInvalidConfigOption, "%q must be an int, got %T", name, value)
			}
		case bool:
			if _, ok := value.(bool); !ok {
				return nil, errors.Wrapf(ErrInvalidConfigOption, "%q must be a bool, got %T", name, value)
			}
		}
	}
	return &Config{attrs: maps.Clone(options)}, nil
}

// Enter installs the config as current until the matching Exit. The
// effective option set is the enclosing scope's full set overlaid with this
// config's explicit overrides. Returns the config itself, for chaining.
func (c *Config) Enter() *Config {
	c.prev = current
	merged := maps.Clone(current.effective)
	for name, value := range c.attrs {
		merged[name] = value
	}
	c.effective = merged
	current = c
	return c
}

// Exit restores the configuration that was current when Enter was called.
// Scopes must exit in strict LIFO order; Exit of a scope that is not the
// innermost active one, was never entered, or was already exited returns
// ErrUnbalancedScope.
func (c *Config) Exit() error {
	if c.prev == nil {
		return errors.Wrap(ErrUnbalancedScope, "config scope was never entered (or already exited)")
	}
	if current != c {
		return errors.Wrap(ErrUnbalancedScope, "config scope exited out of LIFO order")
	}
	current = c.prev
	c.prev = nil
	return nil
}

// WithConfig runs fn with cfg installed as the current configuration,
// restoring the previous configuration on every exit path -- normal return,
// error or panic.
func WithConfig(cfg *Config, fn func() error) (err error) {
	cfg.Enter()
	defer func() {
		exitErr := cfg.Exit()
		if err == nil {
			err = exitErr
		}
	}()
	err = fn()
	return
}

func (c *Config) get(name string) any {
	if c.effective != nil {
		return c.effective[name]
	}
	if value, found := c.attrs[name]; found {
		return value
	}
	return configDefaults[name]
}

// AutoUnrollMaxStep returns the effective auto_unroll_max_step.
func (c *Config) AutoUnrollMaxStep() int { return c.get(OptAutoUnrollMaxStep).(int) }

// AutoUnrollMinDepth returns the effective auto_unroll_min_depth.
func (c *Config) AutoUnrollMinDepth() int { return c.get(OptAutoUnrollMinDepth).(int) }

// UnrollExplicit returns the effective unroll_explicit.
func (c *Config) UnrollExplicit() bool { return c.get(OptUnrollExplicit).(bool) }

// DetectGlobalBarrier returns the effective detect_global_barrier.
func (c *Config) DetectGlobalBarrier() bool { return c.get(OptDetectGlobalBarrier).(bool) }
