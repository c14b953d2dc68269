package roster

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.BritishEnglish)

// CleanNames turns a raw signup list into an ordered, de-duplicated roster.
// Each line loses any leading ordinal prefix (everything up to the first
// dot), is trimmed and title-cased; blank lines are dropped. When a cleaned
// name collides with one already seen it gets a _1, _2, ... suffix in order
// of collision; the first occurrence keeps the bare name.
func CleanNames(lines []string) []string {
	var names []string
	counts := make(map[string]int)
	taken := make(map[string]bool)
	for _, line := range lines {
		base := cleanName(line)
		if base == "" {
			continue
		}
		counts[base]++
		name := base
		if counts[base] > 1 {
			name = fmt.Sprintf("%s_%d", base, counts[base]-1)
		}
		// A raw line can itself collide with a generated suffix.
		for taken[name] {
			counts[base]++
			name = fmt.Sprintf("%s_%d", base, counts[base]-1)
		}
		taken[name] = true
		names = append(names, name)
	}
	return names
}

func cleanName(line string) string {
	if i := strings.Index(line, "."); i >= 0 {
		line = line[i+1:]
	}
	return titleCaser.String(strings.TrimSpace(line))
}
