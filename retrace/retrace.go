// Package retrace deobfuscates stack traces with the names held by a
// mapping.EntryRemapper.
package retrace

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Stack frame expressions. Only placeholders may capture.
const (
	// "com.example.Foo.bar"
	ExpressionClassMethod = `%c\.%m`

	// "(Foo.java:123:0) ~[0]", "()(Foo.java:123:0)" or nothing at all
	ExpressionSourceLine = `(?:\(\))?(?:\((?:%s)?(?::?%l)?(?::\d+)?\))?\s*(?:~\[.*\])?`

	// "at o.afc.b + 45(:45)"
	ExpressionOptionalSourceLineInfo = `(?:\+\s+[0-9]+)?`

	// "    at com.example.Foo.bar(Foo.java:123:0) ~[0]"
	ExpressionAt = `.*?\bat\s+` + ExpressionClassMethod + `\s*` + ExpressionOptionalSourceLineInfo + ExpressionSourceLine

	// "java.lang.ClassCastException: com.example.Foo cannot be cast to com.example.Bar"
	// A line matches a single class, so prefer the one that is more likely obfuscated.
	ExpressionCast1 = `.*?\bjava\.lang\.ClassCastException: %c cannot be cast to .{5,}`
	ExpressionCast2 = `.*?\bjava\.lang\.ClassCastException: .* cannot be cast to %c`

	// "java.lang.NullPointerException: Attempt to read from field 'java.lang.String com.example.Foo.bar' on a null object reference"
	ExpressionNullFieldRead  = `.*?\bjava\.lang\.NullPointerException: Attempt to read from field '%t %c\.%f' on a null object reference`
	ExpressionNullFieldWrite = `.*?\bjava\.lang\.NullPointerException: Attempt to write to field '%t %c\.%f' on a null object reference`

	// "java.lang.NullPointerException: Attempt to invoke virtual method 'void com.example.Foo.bar(int,boolean)' on a null object reference"
	ExpressionNullMethod = `.*?\bjava\.lang\.NullPointerException: Attempt to invoke (?:virtual|interface) method '%t %c\.%m\(%a\)' on a null object reference`

	// "Something: com.example.FooException: something"
	ExpressionThrow = `(?:.*?[:"]\s+)?%c(?::.*)?`

	// `java.lang.NullPointerException: Cannot invoke "a.b.c(int)" because the return value of "a.b.d()" is null`
	ExpressionReturnValueNull1 = `.*?\bjava\.lang\.NullPointerException: Cannot invoke \".*\" because the return value of \"%c\.%m\(%a\)\" is null`
	ExpressionReturnValueNull2 = `.*?\bjava\.lang\.NullPointerException: Cannot invoke \"%c\.%m\(%a\)\" because the return value of \".*\" is null`

	// `Cannot invoke "java.net.ServerSocket.close()" because "com.example.Foo.bar" is null`
	ExpressionBecauseIsNull = `.*?\bbecause \"%c\.%f\" is null`
)

// Expression matches any line of a stack trace.
const Expression = "(?:" + ExpressionAt + ")|" +
	"(?:" + ExpressionCast1 + ")|" +
	"(?:" + ExpressionCast2 + ")|" +
	"(?:" + ExpressionNullFieldRead + ")|" +
	"(?:" + ExpressionNullFieldWrite + ")|" +
	"(?:" + ExpressionNullMethod + ")|" +
	"(?:" + ExpressionReturnValueNull1 + ")|" +
	"(?:" + ExpressionBecauseIsNull + ")|" +
	"(?:" + ExpressionThrow + ")"

// SecondExpression is applied after Expression: helpful NullPointerException
// messages name two methods on one line.
const SecondExpression = "(?:" + ExpressionReturnValueNull2 + ")"

type Retrace struct {
	// Expressions are applied to every line in turn.
	Expressions []string
	// AllClassNames also deobfuscates class names outside of frames.
	AllClassNames bool
	// Verbose prints member types and arguments in method frames.
	Verbose bool

	remapper *FrameRemapper
}

func NewRetrace(remapper *FrameRemapper) *Retrace {
	return &Retrace{
		Expressions: []string{Expression, SecondExpression},
		remapper:    remapper,
	}
}

// Retrace copies the stack trace in r to w with its frames deobfuscated.
func (rt *Retrace) Retrace(r io.Reader, w io.Writer) error {
	patterns := make([]*FramePattern, len(rt.Expressions))
	for i, expression := range rt.Expressions {
		p, err := CompileFramePattern(expression, rt.Verbose)
		if err != nil {
			return err
		}
		patterns[i] = p
	}

	out := bufio.NewWriter(w)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines := []string{scanner.Text()}
		for _, p := range patterns {
			var next []string
			for _, line := range lines {
				next = append(next, rt.handle(p, line)...)
			}
			lines = next
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stack trace: %w", err)
	}
	return out.Flush()
}

// handle retraces one line with one pattern. Ambiguous frames give one line
// per alternative, each but the first with the common prefix blanked out.
func (rt *Retrace) handle(p *FramePattern, line string) []string {
	frame, ok := p.Parse(line)
	if !ok {
		if rt.AllClassNames {
			return []string{rt.Deobfuscate(line)}
		}
		return []string{line}
	}

	var (
		out      []string
		previous string
	)
	for i, retraced := range rt.remapper.Transform(frame) {
		formatted := p.Format(line, retraced)
		trimmed := formatted
		if i > 0 && frame.LineNumber == 0 {
			trimmed = trim(formatted, previous)
		}
		previous = formatted
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		if rt.AllClassNames {
			trimmed = rt.Deobfuscate(trimmed)
		}
		out = append(out, trimmed)
	}
	return out
}

func isTokenDelim(c rune) bool {
	return unicode.IsSpace(c) ||
		c == '(' || c == ')' ||
		c == '<' || c == '>' ||
		c == '[' || c == ']' ||
		c == '{' || c == '}' ||
		c == ';' || c == ':' || c == ',' ||
		c == '\'' || c == '"' ||
		c == '/' || c == '\\'
}

// Deobfuscate replaces every token of line that names a class.
func (rt *Retrace) Deobfuscate(line string) string {
	var b strings.Builder
	for _, token := range FieldsFuncWithDelims(line, isTokenDelim) {
		if r := []rune(token); len(r) == 1 && isTokenDelim(r[0]) {
			b.WriteString(token)
			continue
		}
		b.WriteString(rt.remapper.OriginalClassName(token))
	}
	return b.String()
}
