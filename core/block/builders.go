package block

// Builder helpers for constructing local block trees programmatically.
// Local blocks never carry an ID; the remote assigns one on creation.

// textSegments builds the local rich_text array for a plain string.
func textSegments(text string) []any {
	return []any{
		map[string]any{
			"type": "text",
			"text": map[string]any{"content": text},
		},
	}
}

// NewParagraph creates a paragraph block.
func NewParagraph(text string) *Block {
	return &Block{
		Kind:    KindParagraph,
		Payload: map[string]any{"rich_text": textSegments(text)},
	}
}

// NewHeading creates a heading block. Levels outside 1..3 are clamped.
func NewHeading(level int, text string) *Block {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	kinds := []string{KindHeading1, KindHeading2, KindHeading3}
	return &Block{
		Kind:    kinds[level-1],
		Payload: map[string]any{"rich_text": textSegments(text)},
	}
}

// NewToggle creates a toggle block with optional children.
func NewToggle(text string, children ...*Block) *Block {
	return &Block{
		Kind:     KindToggle,
		Payload:  map[string]any{"rich_text": textSegments(text)},
		Children: children,
	}
}

// NewBulletedListItem creates a bulleted list item with optional nesting.
func NewBulletedListItem(text string, children ...*Block) *Block {
	return &Block{
		Kind:     KindBulletedListItem,
		Payload:  map[string]any{"rich_text": textSegments(text)},
		Children: children,
	}
}

// NewNumberedListItem creates a numbered list item with optional nesting.
func NewNumberedListItem(text string, children ...*Block) *Block {
	return &Block{
		Kind:     KindNumberedListItem,
		Payload:  map[string]any{"rich_text": textSegments(text)},
		Children: children,
	}
}

// NewToDo creates a checkbox block.
func NewToDo(text string, checked bool) *Block {
	return &Block{
		Kind: KindToDo,
		Payload: map[string]any{
			"rich_text": textSegments(text),
			"checked":   checked,
		},
	}
}

// NewCode creates a code block.
func NewCode(code, language string) *Block {
	if language == "" {
		language = "plain text"
	}
	return &Block{
		Kind: KindCode,
		Payload: map[string]any{
			"rich_text": textSegments(code),
			"language":  language,
		},
	}
}

// NewCallout creates a callout block with an emoji icon.
func NewCallout(text, emoji string) *Block {
	return &Block{
		Kind: KindCallout,
		Payload: map[string]any{
			"rich_text": textSegments(text),
			"icon":      map[string]any{"type": "emoji", "emoji": emoji},
		},
	}
}

// NewQuote creates a quote block.
func NewQuote(text string) *Block {
	return &Block{
		Kind:    KindQuote,
		Payload: map[string]any{"rich_text": textSegments(text)},
	}
}

// NewDivider creates a divider block.
func NewDivider() *Block {
	return &Block{
		Kind:    KindDivider,
		Payload: map[string]any{},
	}
}

// NewTableRow creates a table row from plain-text cell values.
func NewTableRow(cells ...string) *Block {
	wireCells := make([]any, len(cells))
	for i, cell := range cells {
		wireCells[i] = any(textSegments(cell))
	}
	return &Block{
		Kind:    KindTableRow,
		Payload: map[string]any{"cells": wireCells},
	}
}

// NewTable creates a table block with the given rows. The width is taken from
// the widest row.
func NewTable(columnHeader bool, rows ...*Block) *Block {
	width := 0
	for _, row := range rows {
		if n := len(asSlice(row.Payload["cells"])); n > width {
			width = n
		}
	}
	return &Block{
		Kind: KindTable,
		Payload: map[string]any{
			"table_width":       float64(width),
			"has_column_header": columnHeader,
			"has_row_header":    false,
		},
		Children: rows,
	}
}

// Column pairs content blocks with an optional width ratio for layout
// construction.
type Column struct {
	Children   []*Block
	WidthRatio float64
}

// NewColumnList builds a column_list block from the given columns. A zero
// width ratio leaves the column at the remote's default width.
func NewColumnList(columns ...Column) *Block {
	children := make([]*Block, len(columns))
	for i, col := range columns {
		payload := map[string]any{}
		if col.WidthRatio != 0 {
			payload["width_ratio"] = col.WidthRatio
		}
		children[i] = &Block{
			Kind:     KindColumn,
			Payload:  payload,
			Children: col.Children,
		}
	}
	return &Block{
		Kind:     KindColumnList,
		Payload:  map[string]any{},
		Children: children,
	}
}
