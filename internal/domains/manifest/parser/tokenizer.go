package parser

import "strings"

// TokenizeLine splits one logical CSV line into fields.
//
// Single left-to-right scan with a quote flag. A doubled quote inside a
// quoted field ("") emits a literal quote. A comma outside quotes closes the
// current field. Unterminated quotes are tolerated: the rest of the line is
// treated as still quoted instead of failing, so a malformed row degrades to
// one long field rather than aborting the file.
//
// The final field is always emitted, even when empty, so
// TokenizeLine("a,b,") yields three fields.
func TokenizeLine(line string) []string {
	fields := make([]string, 0, 8)
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]

		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				// Escaped internal quote
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// NormalizeContent strips a UTF-8 BOM and canonicalizes line endings to \n.
// Must run before any line splitting so CRLF/CR files parse identically.
func NormalizeContent(content string) string {
	content = strings.TrimPrefix(content, "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return content
}

// SplitLines returns the non-empty logical lines of normalized content
func SplitLines(content string) []string {
	raw := strings.Split(NormalizeContent(content), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
