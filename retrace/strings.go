package retrace

import (
	"strings"
	"unicode/utf8"
)

// FieldsFuncWithDelims splits s like strings.FieldsFunc but keeps every
// delimiter rune as a token of its own, so joining the result gives s back.
func FieldsFuncWithDelims(s string, isDelim func(rune) bool) []string {
	var tokens []string
	start := 0
	for i, r := range s {
		if !isDelim(r) {
			continue
		}
		if start < i {
			tokens = append(tokens, s[start:i])
		}
		end := i + utf8.RuneLen(r)
		tokens = append(tokens, s[i:end])
		start = end
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// sourceFileName guesses the source file of an external class name: the
// outermost class plus ".java".
func sourceFileName(className string) string {
	if className == "" {
		return ""
	}
	name := className[strings.LastIndexByte(className, '.')+1:]
	if i := strings.IndexByte(name, '$'); i > 0 {
		name = name[:i]
	}
	return name + ".java"
}

// firstNonCommonIndex returns the length of the common prefix of a and b.
func firstNonCommonIndex(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}

// trim blanks out the leading characters line shares with previous.
func trim(line, previous string) string {
	n := firstNonCommonIndex(line, previous)
	return strings.Repeat(" ", n) + line[n:]
}
