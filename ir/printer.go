// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ir

import (
	"fmt"
	"strings"
)

// Format pretty-prints a statement tree, one statement per line, two-space
// indentation. Used by the codegen backends and the command line tools.
func Format(stmt Stmt) string {
	var sb strings.Builder
	formatStmt(&sb, stmt, 0)
	return sb.String()
}

// FormatFunc pretty-prints a lowered function: signature line then body.
func FormatFunc(f *LoweredFunc) string {
	var sb strings.Builder
	args := make([]string, len(f.Args))
	for ii, arg := range f.Args {
		switch a := arg.(type) {
		case *Tensor:
			args[ii] = fmt.Sprintf("tensor %s%s", a.Name, a.Shape)
		case *Buffer:
			args[ii] = fmt.Sprintf("buffer %s%s", a.Name, a.Shape)
		case *Var:
			args[ii] = fmt.Sprintf("var %s", a.Name)
		}
	}
	fmt.Fprintf(&sb, "%s func %s(%s):\n", f.Kind, f.Name, strings.Join(args, ", "))
	formatStmt(&sb, f.Body, 1)
	return sb.String()
}

func formatStmt(sb *strings.Builder, stmt Stmt, indent int) {
	pad := strings.Repeat("  ", indent)
	switch s := stmt.(type) {
	case nil:
	case *For:
		kind := ""
		switch s.Kind {
		case ForVectorized:
			kind = "vectorized "
		case ForUnrolled:
			kind = "unrolled "
		}
		fmt.Fprintf(sb, "%s%sfor %s in [%s, %s+%s):\n", pad, kind, s.LoopVar, s.Min, s.Min, s.Extent)
		formatStmt(sb, s.Body, indent+1)
	case *Seq:
		for _, sub := range s.Stmts {
			formatStmt(sb, sub, indent)
		}
	case *Provide:
		fmt.Fprintf(sb, "%s%s(%s) = %s\n", pad, s.Tensor.Name, joinExprs(s.Indices), s.Value)
	case *Store:
		fmt.Fprintf(sb, "%s%s[%s] = %s\n", pad, s.Buffer.Name, s.Index, s.Value)
	case *Allocate:
		fmt.Fprintf(sb, "%sallocate %s%s scope=%s:\n", pad, s.Buffer.Name, s.Buffer.Shape, s.Buffer.Scope)
		formatStmt(sb, s.Body, indent+1)
	case *AttrStmt:
		fmt.Fprintf(sb, "%sattr %s = %s:\n", pad, s.Key, s.Value)
		formatStmt(sb, s.Body, indent+1)
	case *IfThenElse:
		fmt.Fprintf(sb, "%sif %s:\n", pad, s.Cond)
		formatStmt(sb, s.Then, indent+1)
		if s.Else != nil {
			fmt.Fprintf(sb, "%selse:\n", pad)
			formatStmt(sb, s.Else, indent+1)
		}
	case *Evaluate:
		fmt.Fprintf(sb, "%s%s\n", pad, s.Value)
	default:
		fmt.Fprintf(sb, "%s<unknown %T>\n", pad, stmt)
	}
}
