package diff

import (
	"notion-sync/core/block"

	"go.uber.org/zap"
)

// Flat produces an edit script transforming the current block list into the
// desired one, using content-based matching so that blocks inserted or
// removed at any position cost exactly one op instead of cascading positional
// re-pairs.
//
// Classification inside a mismatched region follows the cheapest remote call:
// same kind with differing content becomes UPDATE (one call), differing kind
// becomes REPLACE (delete + recreate, still one logical op). Tables are the
// exception: row content cannot be patched through the update endpoint, so a
// changed table is always REPLACE.
func Flat(current, desired []*block.Block) (Script, error) {
	if err := validateCurrent(current); err != nil {
		return nil, err
	}
	if err := validateDesired(desired); err != nil {
		return nil, err
	}

	segments := Align(block.Fingerprints(current), block.Fingerprints(desired))

	var script Script
	index := 0
	// lastAnchor is the id of the most recent current-tree block that
	// survives execution (kept or updated). It is the only anchor knowable at
	// diff time; anchors pointing at not-yet-created blocks stay empty and
	// are resolved by the executor.
	lastAnchor := ""

	for _, seg := range segments {
		switch seg.Tag {
		case SegEqual:
			for i, j := seg.I1, seg.J1; i < seg.I2 && j < seg.J2; i, j = i+1, j+1 {
				script = append(script, Op{
					Kind:     OpKeep,
					TargetID: current[i].ID,
					Current:  current[i],
					Index:    index,
				})
				lastAnchor = current[i].ID
				index++
			}

		case SegReplace:
			oldN := seg.I2 - seg.I1
			newN := seg.J2 - seg.J1
			pairs := oldN
			if newN < pairs {
				pairs = newN
			}

			for k := 0; k < pairs; k++ {
				cur := current[seg.I1+k]
				des := desired[seg.J1+k]
				op := Op{
					TargetID: cur.ID,
					Current:  cur,
					Desired:  des,
					Index:    index,
				}
				switch {
				case cur.Kind != des.Kind:
					op.Kind = OpReplace
					lastAnchor = ""
				case cur.Kind == block.KindTable:
					op.Kind = OpReplace
					lastAnchor = ""
				default:
					op.Kind = OpUpdate
					lastAnchor = cur.ID
				}
				script = append(script, op)
				index++
			}

			// Unpaired current blocks are removed.
			for i := seg.I1 + pairs; i < seg.I2; i++ {
				script = append(script, Op{
					Kind:     OpDelete,
					TargetID: current[i].ID,
					Current:  current[i],
					Index:    index,
				})
			}

			// Unpaired desired blocks are created after the region.
			for j := seg.J1 + pairs; j < seg.J2; j++ {
				script = append(script, Op{
					Kind:    OpInsert,
					Desired: desired[j],
					AfterID: lastAnchor,
					Index:   index,
				})
				lastAnchor = ""
				index++
			}

		case SegDelete:
			for i := seg.I1; i < seg.I2; i++ {
				script = append(script, Op{
					Kind:     OpDelete,
					TargetID: current[i].ID,
					Current:  current[i],
					Index:    index,
				})
			}

		case SegInsert:
			for j := seg.J1; j < seg.J2; j++ {
				script = append(script, Op{
					Kind:    OpInsert,
					Desired: desired[j],
					AfterID: lastAnchor,
					Index:   index,
				})
				lastAnchor = ""
				index++
			}
		}
	}

	return script, nil
}

// LogScript emits a debug summary of a script's op mix.
func LogScript(l *zap.Logger, script Script) {
	counts := map[OpKind]int{}
	for _, op := range script {
		counts[op.Kind]++
	}
	l.Debug("Edit script generated",
		zap.Int("ops", len(script)),
		zap.Int("keep", counts[OpKeep]),
		zap.Int("update", counts[OpUpdate]),
		zap.Int("replace", counts[OpReplace]),
		zap.Int("insert", counts[OpInsert]),
		zap.Int("delete", counts[OpDelete]),
	)
}
