package core

import "strings"

// Part represents a polymorphic segment of prompt content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text     string         // Plain UTF-8 text
	Metadata map[string]any // Optional producer-provided metadata
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// DataPart is a structured data segment (e.g., JSON object map).
type DataPart struct {
	Data     map[string]any // Structured key/value payload
	Metadata map[string]any
}

// isPart implements the Part interface for DataPart.
func (DataPart) isPart() {}

// TextParts wraps one or more strings as a part slice, skipping empties.
func TextParts(texts ...string) []Part {
	parts := make([]Part, 0, len(texts))
	for _, t := range texts {
		if t == "" {
			continue
		}
		parts = append(parts, TextPart{Text: t})
	}
	return parts
}

// JoinText concatenates the text segments of the given parts, newline
// separated, preserving order. Non-text parts are skipped.
func JoinText(parts []Part) string {
	var sb strings.Builder
	for _, p := range parts {
		tp, ok := p.(TextPart)
		if !ok || tp.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(tp.Text)
	}
	return sb.String()
}
