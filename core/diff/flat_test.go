package diff

import (
	"fmt"
	"testing"

	"notion-sync/core/block"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fetched simulates a remote block: a built block with a server-assigned id.
func fetched(id string, b *block.Block) *block.Block {
	b.ID = id
	return b
}

// kinds extracts the op kind sequence for compact assertions.
func kinds(script Script) []OpKind {
	out := make([]OpKind, len(script))
	for i, op := range script {
		out[i] = op.Kind
	}
	return out
}

// TestFlat_Idempotent tests that diffing identical content yields only KEEPs.
func TestFlat_Idempotent(t *testing.T) {
	current := []*block.Block{
		fetched("id-1", block.NewHeading(1, "Title")),
		fetched("id-2", block.NewParagraph("Body")),
	}
	desired := []*block.Block{
		block.NewHeading(1, "Title"),
		block.NewParagraph("Body"),
	}

	script, err := Flat(current, desired)
	require.NoError(t, err)

	assert.Equal(t, []OpKind{OpKeep, OpKeep}, kinds(script))
	assert.Equal(t, 0, script.ChangeCount())
}

func TestFlat_EmptyToEmpty(t *testing.T) {
	script, err := Flat(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, script)
}

// TestFlat_InsertAnchors tests minimality and anchoring for
// [A,B,C] -> [A,X,B,C,Y]: exactly two inserts, anchored after A and C.
func TestFlat_InsertAnchors(t *testing.T) {
	current := []*block.Block{
		fetched("id-a", block.NewParagraph("A")),
		fetched("id-b", block.NewParagraph("B")),
		fetched("id-c", block.NewParagraph("C")),
	}
	desired := []*block.Block{
		block.NewParagraph("A"),
		block.NewParagraph("X"),
		block.NewParagraph("B"),
		block.NewParagraph("C"),
		block.NewParagraph("Y"),
	}

	script, err := Flat(current, desired)
	require.NoError(t, err)

	assert.Equal(t, []OpKind{OpKeep, OpInsert, OpKeep, OpKeep, OpInsert}, kinds(script))
	assert.Equal(t, 2, script.ChangeCount())
	assert.Equal(t, "id-a", script[1].AfterID)
	assert.Equal(t, "id-c", script[4].AfterID)
}

// TestFlat_SameKindChangeIsUpdate tests that a text edit stays an UPDATE.
func TestFlat_SameKindChangeIsUpdate(t *testing.T) {
	current := []*block.Block{fetched("id-1", block.NewParagraph("old text"))}
	desired := []*block.Block{block.NewParagraph("new text")}

	script, err := Flat(current, desired)
	require.NoError(t, err)

	require.Len(t, script, 1)
	assert.Equal(t, OpUpdate, script[0].Kind)
	assert.Equal(t, "id-1", script[0].TargetID)
}

// TestFlat_KindChangeIsReplace tests that changing the kind forces REPLACE.
func TestFlat_KindChangeIsReplace(t *testing.T) {
	current := []*block.Block{fetched("id-1", block.NewParagraph("same text"))}
	desired := []*block.Block{block.NewQuote("same text")}

	script, err := Flat(current, desired)
	require.NoError(t, err)

	require.Len(t, script, 1)
	assert.Equal(t, OpReplace, script[0].Kind)
}

// TestFlat_TableChangeIsReplace tests the table exception: rows cannot be
// patched, so a changed table is recreated even with matching kinds.
func TestFlat_TableChangeIsReplace(t *testing.T) {
	current := []*block.Block{
		fetched("id-t", block.NewTable(false, block.NewTableRow("a"))),
	}
	desired := []*block.Block{
		block.NewTable(false, block.NewTableRow("b")),
	}

	script, err := Flat(current, desired)
	require.NoError(t, err)

	require.Len(t, script, 1)
	assert.Equal(t, OpReplace, script[0].Kind)
}

// TestFlat_RemovedBlocksAreDeleted tests surplus current blocks.
func TestFlat_RemovedBlocksAreDeleted(t *testing.T) {
	current := []*block.Block{
		fetched("id-1", block.NewParagraph("keep me")),
		fetched("id-2", block.NewParagraph("drop me")),
		fetched("id-3", block.NewParagraph("drop me too")),
	}
	desired := []*block.Block{block.NewParagraph("keep me")}

	script, err := Flat(current, desired)
	require.NoError(t, err)

	assert.Equal(t, []OpKind{OpKeep, OpDelete, OpDelete}, kinds(script))
	assert.Equal(t, "id-2", script[1].TargetID)
	assert.Equal(t, "id-3", script[2].TargetID)
}

// TestFlat_LeadingInsert tests the unanchorable prefix case.
func TestFlat_LeadingInsert(t *testing.T) {
	current := []*block.Block{fetched("id-b", block.NewParagraph("B"))}
	desired := []*block.Block{
		block.NewParagraph("X"),
		block.NewParagraph("B"),
	}

	script, err := Flat(current, desired)
	require.NoError(t, err)

	assert.Equal(t, []OpKind{OpInsert, OpKeep}, kinds(script))
	assert.Empty(t, script[0].AfterID)
	assert.True(t, script.HasLeadingInserts())
}

// TestFlat_InsertAfterCreatedBlockHasNoAnchor tests that consecutive inserts
// leave the runtime-resolved anchor empty after the first.
func TestFlat_InsertAfterCreatedBlockHasNoAnchor(t *testing.T) {
	current := []*block.Block{fetched("id-a", block.NewParagraph("A"))}
	desired := []*block.Block{
		block.NewParagraph("A"),
		block.NewParagraph("X"),
		block.NewParagraph("Y"),
	}

	script, err := Flat(current, desired)
	require.NoError(t, err)

	assert.Equal(t, []OpKind{OpKeep, OpInsert, OpInsert}, kinds(script))
	assert.Equal(t, "id-a", script[1].AfterID)
	// Y follows a block that does not exist yet; the executor resolves it.
	assert.Empty(t, script[2].AfterID)
}

// TestFlat_MixedRegion tests pairing inside one mismatched region: updates
// for paired entries, deletes for unpaired current ones.
func TestFlat_MixedRegion(t *testing.T) {
	current := []*block.Block{
		fetched("id-1", block.NewParagraph("one")),
		fetched("id-2", block.NewParagraph("two")),
		fetched("id-3", block.NewParagraph("three")),
	}
	desired := []*block.Block{
		block.NewParagraph("uno"),
		block.NewParagraph("dos"),
	}

	script, err := Flat(current, desired)
	require.NoError(t, err)

	assert.Equal(t, []OpKind{OpUpdate, OpUpdate, OpDelete}, kinds(script))
	assert.Equal(t, "id-1", script[0].TargetID)
	assert.Equal(t, "id-2", script[1].TargetID)
	assert.Equal(t, "id-3", script[2].TargetID)
}

// TestFlat_ValidatesCurrentIDs tests that fetched blocks must carry ids.
func TestFlat_ValidatesCurrentIDs(t *testing.T) {
	current := []*block.Block{block.NewParagraph("no id")}
	desired := []*block.Block{block.NewParagraph("whatever")}

	_, err := Flat(current, desired)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestFlat_ValidatesNilDesired(t *testing.T) {
	current := []*block.Block{fetched("id-1", block.NewParagraph("a"))}

	_, err := Flat(current, []*block.Block{nil})

	assert.ErrorIs(t, err, ErrValidation)
}

// TestFlat_LargeSequence tests alignment minimality at a larger scale: one
// insertion into a long document costs exactly one op.
func TestFlat_LargeSequence(t *testing.T) {
	var current, desired []*block.Block
	for i := 0; i < 500; i++ {
		text := fmt.Sprintf("paragraph %d", i)
		current = append(current, fetched(fmt.Sprintf("id-%d", i), block.NewParagraph(text)))
		desired = append(desired, block.NewParagraph(text))
		if i == 250 {
			desired = append(desired, block.NewParagraph("the new one"))
		}
	}

	script, err := Flat(current, desired)
	require.NoError(t, err)

	assert.Equal(t, 1, script.ChangeCount())
	assert.Len(t, script, 501)
}

func TestHasLeadingInserts(t *testing.T) {
	tests := []struct {
		name   string
		script Script
		want   bool
	}{
		{"empty", Script{}, false},
		{"keep first", Script{{Kind: OpKeep}, {Kind: OpInsert}}, false},
		{"insert first", Script{{Kind: OpInsert}}, true},
		{"delete then insert", Script{{Kind: OpDelete}, {Kind: OpInsert}}, true},
		{"replace first", Script{{Kind: OpReplace}, {Kind: OpKeep}}, true},
		{"delete then replace", Script{{Kind: OpDelete}, {Kind: OpReplace}}, true},
		{"update first", Script{{Kind: OpUpdate}, {Kind: OpInsert}}, false},
		{"deletes only", Script{{Kind: OpDelete}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.script.HasLeadingInserts())
		})
	}
}
