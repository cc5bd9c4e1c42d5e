// Package diff generates minimal edit scripts between a current (remote) and
// a desired (local) block sequence.
//
// Two strategies are provided:
//
//  1. Flat: content-based matching over fingerprints using a longest common
//     subsequence alignment. Tolerant of inserts, deletes and reorders at any
//     position; used when the two trees may differ structurally.
//
//  2. Structural: a recursive walk over two trees known to share an identical
//     shape, producing UPDATE ops only. Used for fast content-only
//     propagation (e.g. injecting translated text into a cloned tree). Shape
//     divergence fails loudly with ErrStructureMismatch.
//
// The resulting Script is an ordered list of KEEP/UPDATE/REPLACE/INSERT/DELETE
// ops with positional anchoring metadata. Execution against the remote store
// lives in the sync package; this package performs no I/O.
package diff
