package block

import (
	"fmt"
	"strings"
)

// kinds whose payload carries a rich_text array as primary content.
var richTextKinds = map[string]struct{}{
	KindParagraph:        {},
	KindHeading1:         {},
	KindHeading2:         {},
	KindHeading3:         {},
	KindBulletedListItem: {},
	KindNumberedListItem: {},
	KindQuote:            {},
	KindCallout:          {},
	KindToggle:           {},
	KindToDo:             {},
}

// RichText extracts plain text from a rich_text array. It accepts both the
// fetched form (plain_text populated by the server) and the local form
// (text.content as supplied by builders).
func RichText(segments []any) string {
	if len(segments) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, seg := range segments {
		m, ok := seg.(map[string]any)
		if !ok {
			continue
		}
		if plain, ok := m["plain_text"].(string); ok {
			sb.WriteString(plain)
			continue
		}
		if text, ok := m["text"].(map[string]any); ok {
			if content, ok := text["content"].(string); ok {
				sb.WriteString(content)
			}
		}
	}
	return sb.String()
}

// Text extracts the plain-text content of a block for comparison and display.
//
// Every kind gets a deterministic textual form: rich-text kinds return their
// concatenated text (callout prefixed with its emoji icon, to_do with a
// checkbox marker), code returns a fenced snippet with language, tables fold
// their width and row contents in so row edits surface in the parent's
// comparable form, media kinds return caption or URL, and structural kinds
// return an identifying tag. Unknown kinds return the empty string.
func (b *Block) Text() string {
	if b == nil || b.Kind == "" {
		return ""
	}
	payload := b.Payload

	if _, ok := richTextKinds[b.Kind]; ok {
		text := RichText(asSlice(payload["rich_text"]))

		if b.Kind == KindCallout {
			if icon, ok := payload["icon"].(map[string]any); ok && icon["type"] == "emoji" {
				emoji, _ := icon["emoji"].(string)
				if text != "" {
					text = emoji + " " + text
				} else {
					text = emoji
				}
			}
		}

		if b.Kind == KindToDo {
			prefix := "[ ]"
			if checked, _ := payload["checked"].(bool); checked {
				prefix = "[x]"
			}
			text = prefix + " " + text
		}

		return text
	}

	switch b.Kind {
	case KindCode:
		language := stringOr(payload["language"], "plain text")
		code := RichText(asSlice(payload["rich_text"]))
		return fmt.Sprintf("```%s\n%s\n```", language, code)

	case KindDivider:
		return "---"

	case KindTable:
		width := intValue(payload["table_width"])
		rows := b.tableRowTexts()
		if len(rows) > 0 {
			return fmt.Sprintf("table:%d:%s", width, strings.Join(rows, ";"))
		}
		return fmt.Sprintf("table:%d", width)

	case KindTableRow:
		cells := asSlice(payload["cells"])
		texts := make([]string, 0, len(cells))
		for _, cell := range cells {
			texts = append(texts, RichText(asSlice(cell)))
		}
		return strings.Join(texts, " | ")

	case KindImage, KindVideo, KindAudio, KindFile, KindPDF:
		if caption := RichText(asSlice(payload["caption"])); caption != "" {
			return b.Kind + ":" + caption
		}
		if url := mediaURL(payload); url != "" {
			return b.Kind + ":" + url
		}
		return b.Kind

	case KindBookmark:
		if caption := RichText(asSlice(payload["caption"])); caption != "" {
			return "bookmark:" + caption
		}
		return "bookmark:" + stringOr(payload["url"], "")

	case KindEmbed:
		return "embed:" + stringOr(payload["url"], "")

	case KindEquation:
		return "equation:" + stringOr(payload["expression"], "")

	case "link_preview":
		return "link:" + stringOr(payload["url"], "")

	case "table_of_contents", "breadcrumb", KindColumnList:
		return b.Kind

	case KindColumn:
		// width_ratio participates in content identity so layout changes are
		// visible to the aligner.
		if ratio, ok := payload["width_ratio"].(float64); ok {
			return fmt.Sprintf("column:%g", ratio)
		}
		return "column"

	case "child_page", "child_database":
		return b.Kind + ":" + stringOr(payload["title"], "")

	case KindSyncedBlock:
		if from, ok := payload["synced_from"].(map[string]any); ok && from != nil {
			return "synced_block:" + stringOr(from["block_id"], "")
		}
		return "synced_block:original"

	case "template":
		return "template:" + RichText(asSlice(payload["rich_text"]))

	case "link_to_page":
		id := stringOr(payload["page_id"], "")
		if id == "" {
			id = stringOr(payload["database_id"], "")
		}
		return "link_to_page:" + id
	}

	return ""
}

// tableRowTexts renders each table_row child as pipe-joined cell text. Local
// trees hold rows in the Children sidecar; trees built straight from a create
// payload may still carry them embedded under the payload children key.
func (b *Block) tableRowTexts() []string {
	rows := b.Children
	if len(rows) == 0 {
		for _, raw := range asSlice(b.Payload["children"]) {
			if m, ok := raw.(map[string]any); ok {
				if child, err := FromWire(m); err == nil {
					rows = append(rows, child)
				}
			}
		}
	}

	texts := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Kind != KindTableRow {
			continue
		}
		cells := asSlice(row.Payload["cells"])
		cellTexts := make([]string, 0, len(cells))
		for _, cell := range cells {
			cellTexts = append(cellTexts, RichText(asSlice(cell)))
		}
		texts = append(texts, strings.Join(cellTexts, "|"))
	}
	return texts
}

func mediaURL(payload map[string]any) string {
	switch payload["type"] {
	case "external":
		if ext, ok := payload["external"].(map[string]any); ok {
			return stringOr(ext["url"], "")
		}
	case "file":
		if f, ok := payload["file"].(map[string]any); ok {
			return stringOr(f["url"], "")
		}
	}
	return ""
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
