// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ir

// Stmt is a node of a statement tree.
type Stmt interface {
	stmtNode()
}

// ForKind annotates how a loop should be emitted.
type ForKind int

const (
	// ForSerial is a plain sequential loop.
	ForSerial ForKind = iota
	// ForVectorized marks a loop to be turned into vector lanes by the
	// vectorization pass.
	ForVectorized
	// ForUnrolled marks a loop the codegen should unroll (pragma form,
	// produced when unroll_explicit is false).
	ForUnrolled
)

// For is a loop over [Min, Min+Extent).
type For struct {
	LoopVar     *Var
	Min, Extent Expr
	Kind        ForKind
	Body        Stmt
}

func (*For) stmtNode() {}

// Seq runs its statements in order.
type Seq struct {
	Stmts []Stmt
}

func (*Seq) stmtNode() {}

// SeqOf returns stmts as a single statement, collapsing the trivial cases.
func SeqOf(stmts ...Stmt) Stmt {
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &Seq{Stmts: stmts}
}

// Provide writes Value into Tensor at a multidimensional index. It only
// exists before storage flattening, which rewrites it into a Store on the
// bound buffer.
type Provide struct {
	Tensor  *Tensor
	Indices []Expr
	Value   Expr
}

func (*Provide) stmtNode() {}

// Store writes Value into Buffer at the flat Index.
type Store struct {
	Buffer *Buffer
	Index  Expr
	Value  Expr
}

func (*Store) stmtNode() {}

// Allocate scopes the lifetime of Buffer to Body.
type Allocate struct {
	Buffer *Buffer
	Body   Stmt
}

func (*Allocate) stmtNode() {}

// AttrStmt attaches a named attribute to Body. The orchestrator and its
// passes use the Attr* keys below.
type AttrStmt struct {
	Key   string
	Value Expr
	Body  Stmt
}

func (*AttrStmt) stmtNode() {}

// IfThenElse branches on Cond. Else may be nil.
type IfThenElse struct {
	Cond       Expr
	Then, Else Stmt
}

func (*IfThenElse) stmtNode() {}

// Evaluate evaluates Value for its side effects (intrinsic calls).
type Evaluate struct {
	Value Expr
}

func (*Evaluate) stmtNode() {}

// Attribute keys understood by the lowering passes.
const (
	// AttrDeviceScope wraps a region that must execute on the device; the
	// host/device split extracts these regions into device kernels.
	AttrDeviceScope = "device_scope"
	// AttrVirtualThread wraps a region replicated per virtual thread.
	AttrVirtualThread = "virtual_thread"
	// AttrThreadExtent records the launch extent of a device kernel.
	AttrThreadExtent = "thread_extent"
)

// Memory scopes used by storage synchronization.
const (
	ScopeGlobal = "global"
	ScopeShared = "shared"
)

// Intrinsic call names produced by the lowering passes.
const (
	// IntrinStorageSync is a memory barrier for the scope in its argument.
	IntrinStorageSync = "tir.storage_sync"
	// IntrinAllReduce is a cross-thread reduction, lowered by the
	// thread-allreduce pass into one of the two strategies below.
	IntrinAllReduce    = "tir.all_reduce"
	IntrinWarpReduce   = "tir.warp_reduce"
	IntrinSharedReduce = "tir.shared_reduce"
	// IntrinCallPacked invokes a split-off device kernel by name; the
	// packed-call lowering rewrites it into IntrinCallPackedLowered, the
	// runtime ABI form.
	IntrinCallPacked        = "tir.call_packed"
	IntrinCallPackedLowered = "tir.call_packed_lowered"
)
