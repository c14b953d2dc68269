package cli

import "strings"

// maxLineLength keeps option listings readable in a standard terminal.
const maxLineLength = 80

// FormatOptions lays out option entries as tab-separated columns, wrapping
// so no line exceeds the terminal width.
func FormatOptions(entries []string) string {
	var b strings.Builder
	line := "\t"
	for _, text := range entries {
		item := "\t" + text
		if line != "\t" && len(line)+len(item) > maxLineLength {
			b.WriteString(line)
			b.WriteString("\n")
			line = "\t"
		}
		line += item
	}
	b.WriteString(line)
	return b.String()
}
