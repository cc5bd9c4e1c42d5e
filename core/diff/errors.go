package diff

import "errors"

// ErrValidation indicates malformed input to a differ: a nil block, a block
// without a kind, or a current-tree block without a remote ID. Validation
// failures are never retried.
var ErrValidation = errors.New("invalid diff input")

// ErrStructureMismatch indicates that the two trees handed to the structural
// differ do not share an identical shape. This is a contract violation, not a
// recoverable state: the caller is expected to fall back to a flat diff
// explicitly. Returning an empty script instead would make real divergence
// look like a completed no-op sync.
var ErrStructureMismatch = errors.New("tree structure mismatch")
