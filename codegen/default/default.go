// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package _default registers all built-in codegen backends.
//
// To use it simply include:
//
//	import _ "github.com/gomlx/tensorc/codegen/default"
package _default

import (
	_ "github.com/gomlx/tensorc/codegen/cuda"
	_ "github.com/gomlx/tensorc/codegen/llvm"
	_ "github.com/gomlx/tensorc/codegen/stackvm"
)
