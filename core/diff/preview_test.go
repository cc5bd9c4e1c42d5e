package diff

import (
	"strings"
	"testing"
	"unicode/utf8"

	"notion-sync/core/block"

	"github.com/stretchr/testify/assert"
)

func TestFormatPreview(t *testing.T) {
	script := Script{
		{Kind: OpKeep, TargetID: "id-1", Current: fetched("id-1", block.NewParagraph("same"))},
		{Kind: OpInsert, Index: 1, Desired: block.NewParagraph("fresh")},
		{Kind: OpUpdate, TargetID: "id-2", Current: fetched("id-2", block.NewParagraph("old")), Desired: block.NewParagraph("new")},
		{Kind: OpReplace, TargetID: "id-3", Current: fetched("id-3", block.NewParagraph("gone")), Desired: block.NewQuote("gone")},
		{Kind: OpDelete, TargetID: "id-4", Current: fetched("id-4", block.NewParagraph("dropped"))},
	}

	out := FormatPreview(script)

	assert.Contains(t, out, "Summary: 1 new, 1 modified, 1 replaced, 1 deleted, 1 unchanged")
	assert.Contains(t, out, "+ [NEW] paragraph")
	assert.Contains(t, out, "~ [MODIFIED] paragraph")
	assert.Contains(t, out, "<-> [REPLACED] paragraph -> quote")
	assert.Contains(t, out, "- [DELETED] paragraph")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short stays whole", "hello", 10, "hello"},
		{"exact fits", "hello", 5, "hello"},
		{"long gets ellipsis", "hello world", 8, "hello..."},
		{"tiny max cuts hard", "hello", 3, "hel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.text, tt.max))
		})
	}
}

// TestTruncate_MultiByteRunes tests that cuts land on rune boundaries; a
// byte-indexed slice would split a character and emit invalid UTF-8.
func TestTruncate_MultiByteRunes(t *testing.T) {
	text := strings.Repeat("语", 30)

	got := truncate(text, 25)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 25, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("语", 22)+"...", got)
}
