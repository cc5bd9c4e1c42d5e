package block

import (
	"errors"
	"fmt"
)

// ErrMissingKind is returned when a block without a kind reaches a wire
// conversion or diff entry point.
var ErrMissingKind = errors.New("block kind is required")

// Known block kinds. The remote schema evolves independently, so these are
// not exhaustive; unknown kinds flow through the engine untouched.
const (
	KindParagraph        = "paragraph"
	KindHeading1         = "heading_1"
	KindHeading2         = "heading_2"
	KindHeading3         = "heading_3"
	KindBulletedListItem = "bulleted_list_item"
	KindNumberedListItem = "numbered_list_item"
	KindToDo             = "to_do"
	KindToggle           = "toggle"
	KindQuote            = "quote"
	KindCallout          = "callout"
	KindCode             = "code"
	KindDivider          = "divider"
	KindTable            = "table"
	KindTableRow         = "table_row"
	KindColumnList       = "column_list"
	KindColumn           = "column"
	KindImage            = "image"
	KindVideo            = "video"
	KindAudio            = "audio"
	KindFile             = "file"
	KindPDF              = "pdf"
	KindBookmark         = "bookmark"
	KindEmbed            = "embed"
	KindEquation         = "equation"
	KindSyncedBlock      = "synced_block"
)

// Block is one content unit in either the remote (current) or local (desired)
// tree. Remote blocks carry an ID assigned by the API; local blocks never do.
// Children are held as a sidecar list regardless of origin; the wire adapter
// moves them in and out of the kind-specific payload as the API requires.
type Block struct {
	// ID is the remote block identifier. Empty for blocks that do not exist
	// remotely yet.
	ID string

	// Kind is the block type tag (e.g. "paragraph", "table", "code").
	Kind string

	// Payload holds the kind-specific content exactly as it appears under the
	// kind key on the wire (rich_text, checked, language, table_width, ...).
	Payload map[string]any

	// Children is the ordered list of nested blocks.
	Children []*Block

	// HasChildren mirrors the remote has_children flag for fetched blocks.
	HasChildren bool

	// Archived is set for remote blocks that have been archived (deleted).
	Archived bool
}

// Clone returns a deep copy of the block, including payload and children.
// The engine never mutates caller-supplied trees; anything it needs to reshape
// is cloned first.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	clone := &Block{
		ID:          b.ID,
		Kind:        b.Kind,
		Payload:     clonePayload(b.Payload),
		HasChildren: b.HasChildren,
		Archived:    b.Archived,
	}
	if len(b.Children) > 0 {
		clone.Children = make([]*Block, len(b.Children))
		for i, child := range b.Children {
			clone.Children[i] = child.Clone()
		}
	}
	return clone
}

// Validate checks that the block can be sent to or diffed against the remote.
func (b *Block) Validate() error {
	if b == nil {
		return fmt.Errorf("block is nil")
	}
	if b.Kind == "" {
		return ErrMissingKind
	}
	return nil
}

// CountBlocks returns the total number of blocks in the forest, including all
// descendants.
func CountBlocks(blocks []*Block) int {
	total := 0
	// Worklist traversal; document trees can be arbitrarily deep.
	stack := make([]*Block, 0, len(blocks))
	stack = append(stack, blocks...)
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		stack = append(stack, b.Children...)
	}
	return total
}

func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	clone := make(map[string]any, len(payload))
	for k, v := range payload {
		clone[k] = cloneValue(v)
	}
	return clone
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return clonePayload(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
