package diff

import (
	"fmt"
	"strconv"
	"strings"

	"notion-sync/core/block"
)

// OpKind identifies one edit instruction.
type OpKind string

const (
	// OpKeep leaves the remote block untouched.
	OpKeep OpKind = "KEEP"
	// OpUpdate patches the remote block's payload in place.
	OpUpdate OpKind = "UPDATE"
	// OpReplace deletes the remote block (with descendants) and recreates the
	// desired block in its position.
	OpReplace OpKind = "REPLACE"
	// OpInsert creates the desired block after the preceding resolved block.
	OpInsert OpKind = "INSERT"
	// OpDelete archives the remote block and its descendants.
	OpDelete OpKind = "DELETE"
)

// Op is one edit instruction. Ops are created by a differ, consumed exactly
// once by the executor, and never mutated after creation.
//
// Exactly one of TargetID/Desired is absent only at the extremes: INSERT has
// no TargetID and DELETE has no Desired; every other kind carries both sides.
type Op struct {
	// Kind is the instruction type.
	Kind OpKind

	// TargetID is the remote block the op acts on. Empty for INSERT.
	TargetID string

	// Current is the remote block, kept for archived checks and diagnostics.
	// Nil for INSERT.
	Current *block.Block

	// Desired is the local block to write. Nil for DELETE and KEEP.
	Desired *block.Block

	// AfterID anchors an INSERT after an existing remote block. Empty when
	// the diff-time anchor is itself a block yet to be created, or when the
	// insert leads the sequence; the executor resolves those at run time.
	AfterID string

	// Index is the op's position in the final desired sequence. Deletes do
	// not occupy a final position and reuse the index of the op before them.
	Index int

	// Path locates the block in the tree for structural diffs, as a sequence
	// of child indices from the root.
	Path []int
}

// PathString renders the structural path as "0.children.2" for diagnostics.
func (o Op) PathString() string {
	if len(o.Path) == 0 {
		return ""
	}
	parts := make([]string, len(o.Path))
	for i, idx := range o.Path {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".children.")
}

// Script is the ordered sequence of edit instructions transforming the
// current sequence into the desired one. Op order is load-bearing: insertion
// anchors depend on the preceding ops having been applied.
type Script []Op

// HasLeadingInserts reports whether the script creates blocks before any
// existing block survives to anchor them: an INSERT or REPLACE before the
// first KEEP or UPDATE. A leading REPLACE counts because its recreated block
// needs a left anchor exactly like an insert does. Deletes do not anchor
// anything, so a run of deletes first does not help.
func (s Script) HasLeadingInserts() bool {
	for _, op := range s {
		switch op.Kind {
		case OpKeep, OpUpdate:
			return false
		case OpInsert, OpReplace:
			return true
		}
	}
	return false
}

// ChangeCount returns the number of ops that require remote calls.
func (s Script) ChangeCount() int {
	n := 0
	for _, op := range s {
		if op.Kind != OpKeep {
			n++
		}
	}
	return n
}

// validateCurrent checks the invariants of a current-tree block list: every
// entry non-nil, kinded, and carrying a remote ID.
func validateCurrent(blocks []*block.Block) error {
	for i, b := range blocks {
		if b == nil {
			return fmt.Errorf("%w: current block %d is nil", ErrValidation, i)
		}
		if b.Kind == "" {
			return fmt.Errorf("%w: current block %d has no kind", ErrValidation, i)
		}
		if b.ID == "" {
			return fmt.Errorf("%w: current block %d has no remote id", ErrValidation, i)
		}
	}
	return nil
}

// validateDesired checks the invariants of a desired-tree block list.
func validateDesired(blocks []*block.Block) error {
	for i, b := range blocks {
		if b == nil {
			return fmt.Errorf("%w: desired block %d is nil", ErrValidation, i)
		}
		if b.Kind == "" {
			return fmt.Errorf("%w: desired block %d has no kind", ErrValidation, i)
		}
	}
	return nil
}
