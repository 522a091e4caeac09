package u

import (
	"strings"
)

// ToTrimmedLines splits d into lines, trims them and removes empty lines
func ToTrimmedLines(d []byte) []string {
	lines := strings.Split(string(d), "\n")
	i := 0
	for _, l := range lines {
		l = strings.TrimSpace(l)
		// remove empty lines
		if len(l) > 0 {
			lines[i] = l
			i++
		}
	}
	return lines[:i]
}

// ToFields splits d on any whitespace (spaces, tabs, newlines)
// e.g. a list of tags piped on stdin
func ToFields(d []byte) []string {
	var res []string
	for _, l := range ToTrimmedLines(d) {
		res = append(res, strings.Fields(l)...)
	}
	return res
}

// TrimExt removes extension from s
func TrimExt(s string) string {
	idx := strings.LastIndex(s, ".")
	if idx == -1 {
		return s
	}
	return s[:idx]
}
