package block

import (
	"fmt"
)

// updatePolicy describes which payload fields survive an UPDATE call for one
// kind. Adding a new kind is a one-row change here.
type updatePolicy struct {
	// allowedFields, when non-empty, keeps only these fields.
	allowedFields []string
	// stripFields removes fields that the remote fixes at creation time.
	stripFields []string
}

// Kinds whose payload is a server-managed file reference. The remote rejects
// updates to anything but the caption.
var fileBearingKinds = map[string]struct{}{
	KindImage: {},
	KindVideo: {},
	KindAudio: {},
	KindFile:  {},
	KindPDF:   {},
}

var updatePolicies = map[string]updatePolicy{
	// Table geometry and header flags are fixed at creation; only row content
	// (a child sub-resource) can change, and that goes through REPLACE.
	KindTable: {stripFields: []string{"table_width", "has_column_header", "has_row_header"}},
	// The starting index is fixed at creation.
	KindNumberedListItem: {stripFields: []string{"start"}},
	// The callout icon needs a dedicated endpoint; updates touch text only.
	KindCallout: {allowedFields: []string{"rich_text"}},
}

// FromWire converts a fetched wire object into a Block. The wire shape is
// {"id", "type", <type>: payload, "has_children", "archived"}; nested children
// arrive separately (the list endpoint is per-level) and are attached to the
// sidecar by the fetcher.
func FromWire(wire map[string]any) (*Block, error) {
	kind, _ := wire["type"].(string)
	if kind == "" {
		return nil, ErrMissingKind
	}

	b := &Block{
		Kind: kind,
	}
	b.ID, _ = wire["id"].(string)
	b.HasChildren, _ = wire["has_children"].(bool)
	b.Archived, _ = wire["archived"].(bool)

	if payload, ok := wire[kind].(map[string]any); ok {
		b.Payload = clonePayload(payload)
	} else {
		b.Payload = map[string]any{}
	}

	// Blocks built from a create payload carry children embedded in the
	// payload; hoist them into the sidecar so both origins look the same.
	if embedded := asSlice(b.Payload["children"]); len(embedded) > 0 {
		delete(b.Payload, "children")
		for _, raw := range embedded {
			m, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("child of %s block is not an object", kind)
			}
			child, err := FromWire(m)
			if err != nil {
				return nil, err
			}
			b.Children = append(b.Children, child)
		}
	}

	return b, nil
}

// ToWire converts a block into the shape the create endpoint requires: the
// kind-keyed payload with every descendant embedded under the payload's
// children key. Server-assigned fields (id, archived) are never included.
func ToWire(b *Block) (map[string]any, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	payload := clonePayload(b.Payload)
	if payload == nil {
		payload = map[string]any{}
	}
	delete(payload, "children")

	if len(b.Children) > 0 {
		children := make([]any, len(b.Children))
		for i, child := range b.Children {
			wireChild, err := ToWire(child)
			if err != nil {
				return nil, err
			}
			children[i] = wireChild
		}
		payload["children"] = children
	}

	return map[string]any{
		"type": b.Kind,
		b.Kind: payload,
	}, nil
}

// ToWireList converts a block list for a create call.
func ToWireList(blocks []*Block) ([]map[string]any, error) {
	out := make([]map[string]any, len(blocks))
	for i, b := range blocks {
		wire, err := ToWire(b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		out[i] = wire
	}
	return out, nil
}

// IsSyncedCopy reports whether the block is a read-only mirror of another
// block. Copies carry a non-null synced_from reference and cannot be updated
// in place; the executor records a skip instead of attempting the call.
func (b *Block) IsSyncedCopy() bool {
	if b.Kind != KindSyncedBlock {
		return false
	}
	from, ok := b.Payload["synced_from"]
	return ok && from != nil
}

// UpdatePayload builds the payload for an UPDATE call, applying the per-kind
// mutability policy:
//
//   - file-bearing kinds keep only their caption
//   - creation-fixed fields (table geometry, list start index) are stripped
//   - synced originals send synced_from as an explicit null, because the
//     remote treats omission and null differently
//   - the children list is always stripped; children are a separate
//     sub-resource and never part of an update
//
// Unknown kinds pass through unmodified apart from the children strip, since
// the remote schema evolves independently of this engine.
func UpdatePayload(b *Block) (map[string]any, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.IsSyncedCopy() {
		return nil, fmt.Errorf("synced copy %s is not updatable", b.ID)
	}

	payload := clonePayload(b.Payload)
	if payload == nil {
		payload = map[string]any{}
	}
	delete(payload, "children")

	if _, ok := fileBearingKinds[b.Kind]; ok {
		trimmed := map[string]any{}
		if caption, ok := payload["caption"]; ok {
			trimmed["caption"] = caption
		}
		payload = trimmed
	} else if policy, ok := updatePolicies[b.Kind]; ok {
		if len(policy.allowedFields) > 0 {
			trimmed := make(map[string]any, len(policy.allowedFields))
			for _, field := range policy.allowedFields {
				if v, ok := payload[field]; ok {
					trimmed[field] = v
				}
			}
			payload = trimmed
		}
		for _, field := range policy.stripFields {
			delete(payload, field)
		}
	}

	if b.Kind == KindSyncedBlock {
		// Synced original. A map entry holding nil marshals to JSON null.
		payload["synced_from"] = nil
	}

	return map[string]any{b.Kind: payload}, nil
}
