package diff

import (
	"fmt"
	"strings"
)

// FormatPreview renders a human-readable summary of an edit script without
// executing anything. Symbols: + new, ~ modified, <-> replaced, - deleted.
func FormatPreview(script Script) string {
	var inserted, updated, replaced, deleted, kept int
	for _, op := range script {
		switch op.Kind {
		case OpInsert:
			inserted++
		case OpUpdate:
			updated++
		case OpReplace:
			replaced++
		case OpDelete:
			deleted++
		case OpKeep:
			kept++
		}
	}

	rule := strings.Repeat("=", 60)
	lines := []string{
		rule,
		"Diff Preview",
		rule,
		fmt.Sprintf("Summary: %d new, %d modified, %d replaced, %d deleted, %d unchanged",
			inserted, updated, replaced, deleted, kept),
		strings.Repeat("-", 60),
		"",
		"Changes:",
		"",
	}

	for _, op := range script {
		switch op.Kind {
		case OpInsert:
			lines = append(lines, fmt.Sprintf("+ [NEW] %s", op.Desired.Kind))
			if text := truncate(op.Desired.Text(), 50); text != "" {
				lines = append(lines, fmt.Sprintf("  %q", text))
			}
			lines = append(lines, fmt.Sprintf("  -> Will be inserted at position %d", op.Index), "")

		case OpUpdate:
			lines = append(lines, fmt.Sprintf("~ [MODIFIED] %s", op.Desired.Kind))
			lines = append(lines, fmt.Sprintf("  %q -> %q",
				truncate(op.Current.Text(), 25), truncate(op.Desired.Text(), 25)))
			lines = append(lines, fmt.Sprintf("  -> Will update block %s...", shortID(op.TargetID)), "")

		case OpReplace:
			lines = append(lines, fmt.Sprintf("<-> [REPLACED] %s -> %s", op.Current.Kind, op.Desired.Kind))
			lines = append(lines, fmt.Sprintf("  -> Will delete and recreate block %s...", shortID(op.TargetID)), "")

		case OpDelete:
			lines = append(lines, fmt.Sprintf("- [DELETED] %s", op.Current.Kind))
			if text := truncate(op.Current.Text(), 50); text != "" {
				lines = append(lines, fmt.Sprintf("  %q", text))
			}
			lines = append(lines, fmt.Sprintf("  -> Will delete block %s...", shortID(op.TargetID)), "")
		}
	}

	if kept > 0 {
		lines = append(lines, fmt.Sprintf("  ... (%d unchanged blocks)", kept), "")
	}

	lines = append(lines, strings.Repeat("-", 60))
	lines = append(lines, "Run without --dry-run to apply these changes.")

	return strings.Join(lines, "\n")
}

// truncate shortens text to max runes, cutting on rune boundaries so
// multi-byte characters never get split.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
