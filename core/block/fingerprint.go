package block

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint returns a stable content digest for the block.
//
// The digest covers the kind and the semantically meaningful payload (the
// extracted text plus kind-specific identity fields: checked state for to_do,
// language for code). Server-assigned metadata (id, timestamps, user info) is
// excluded, so a fetched block and a locally built block with the same content
// fingerprint equal.
//
// Fingerprints are shallow: a container's digest reflects only its own payload,
// never the fingerprints of its children. Structural changes that matter at a
// given level must surface in that level's comparable text (tables fold row
// content into their own text for exactly this reason).
func (b *Block) Fingerprint() string {
	kind := b.Kind
	if kind == "" {
		kind = "unknown"
	}

	extras := ""
	switch kind {
	case KindToDo:
		checked, _ := b.Payload["checked"].(bool)
		extras = fmt.Sprintf(":checked=%t", checked)
	case KindCode:
		extras = ":lang=" + stringOr(b.Payload["language"], "plain text")
	}

	normalized := kind + ":" + b.Text() + extras
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}

// Fingerprints maps a block list to its fingerprint sequence.
func Fingerprints(blocks []*Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Fingerprint()
	}
	return out
}

// ContentEqual reports whether two blocks are content-equal regardless of
// identity.
func ContentEqual(a, b *Block) bool {
	return a.Fingerprint() == b.Fingerprint()
}
