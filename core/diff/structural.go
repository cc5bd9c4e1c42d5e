package diff

import (
	"fmt"

	"notion-sync/core/block"
)

// Structural produces an UPDATE-only edit script by walking two trees that
// share an identical shape: same length, kinds and remote IDs at every level.
// The desired tree carries the IDs of the current blocks it replaces, by
// construction of the caller (content-only propagation over a cloned tree).
//
// Any shape divergence is a contract violation and fails with
// ErrStructureMismatch; silence here would present real divergence as a
// completed sync. Callers that cannot guarantee the shape use Flat instead.
func Structural(current, desired []*block.Block) (Script, error) {
	var script Script
	if err := structuralWalk(current, desired, nil, &script); err != nil {
		return nil, err
	}
	return script, nil
}

func structuralWalk(current, desired []*block.Block, path []int, script *Script) error {
	if len(current) != len(desired) {
		return fmt.Errorf("%w: %d current vs %d desired blocks at %s",
			ErrStructureMismatch, len(current), len(desired), pathLabel(path))
	}
	if err := validateCurrent(current); err != nil {
		return err
	}
	if err := validateDesired(desired); err != nil {
		return err
	}

	for i := range current {
		cur, des := current[i], desired[i]
		childPath := append(append([]int(nil), path...), i)

		if cur.Kind != des.Kind {
			return fmt.Errorf("%w: kind %q vs %q at %s",
				ErrStructureMismatch, cur.Kind, des.Kind, pathLabel(childPath))
		}
		if des.ID != "" && des.ID != cur.ID {
			return fmt.Errorf("%w: id %s vs %s at %s",
				ErrStructureMismatch, cur.ID, des.ID, pathLabel(childPath))
		}

		if !block.ContentEqual(cur, des) {
			*script = append(*script, Op{
				Kind:     OpUpdate,
				TargetID: cur.ID,
				Current:  cur,
				Desired:  des,
				Path:     childPath,
			})
		}

		// Recurse unconditionally: a descendant may differ even when the
		// parent's own fingerprint is equal.
		if len(cur.Children) > 0 || len(des.Children) > 0 {
			if err := structuralWalk(cur.Children, des.Children, childPath, script); err != nil {
				return err
			}
		}
	}

	return nil
}

func pathLabel(path []int) string {
	if len(path) == 0 {
		return "root"
	}
	return Op{Path: path}.PathString()
}
