package retrace

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Building blocks substituted for the %x placeholders of a frame expression.
const (
	regexClass      = `(?:[^\s":./()]+\.)*[^\s":./()]+`
	regexClassSlash = `(?:[^\s":./()]+/)*[^\s":./()]+`
	regexSourceFile = `(?:[^:()\d][^:()]*)?`
	regexLineNumber = `-?\b\d+\b`
	regexMember     = `<?[^\s":./()]+>?`
	regexType       = regexClass + `(?:\[\])*`
	regexArguments  = `(?:` + regexType + `(?:\s*,\s*` + regexType + `)*)?`
)

var placeholders = map[byte]string{
	'c': regexClass,
	'C': regexClassSlash,
	's': regexSourceFile,
	'l': regexLineNumber,
	't': regexType,
	'f': regexMember,
	'm': regexMember,
	'a': regexArguments,
}

// FramePattern parses and formats lines that represent stack frames. The
// expression is a regular expression with placeholders:
//
//	%c class name          %C class name with slashes
//	%s source file         %l line number
//	%t type                %a argument types
//	%f field name          %m method name
//
// Placeholders become the only capturing groups, so the expression itself
// must use (?:...) for grouping.
type FramePattern struct {
	expression *regexp.Regexp
	// kinds[i] is the placeholder of capturing group i; kinds[0] is unused.
	kinds   []byte
	verbose bool
}

func CompileFramePattern(expression string, verbose bool) (*FramePattern, error) {
	var b strings.Builder
	kinds := []byte{0}
	for i := 0; i < len(expression); i++ {
		c := expression[i]
		if c != '%' || i == len(expression)-1 {
			b.WriteByte(c)
			continue
		}
		kind := expression[i+1]
		sub, ok := placeholders[kind]
		if !ok {
			return nil, fmt.Errorf("unknown placeholder %%%c in frame expression", kind)
		}
		b.WriteString("(")
		b.WriteString(sub)
		b.WriteString(")")
		kinds = append(kinds, kind)
		i++
	}
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compile frame expression: %w", err)
	}
	return &FramePattern{expression: re, kinds: kinds, verbose: verbose}, nil
}

func MustCompileFramePattern(expression string, verbose bool) *FramePattern {
	p, err := CompileFramePattern(expression, verbose)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse extracts the frame information of line. It reports false when the
// line is not a stack frame.
func (p *FramePattern) Parse(line string) (FrameInfo, bool) {
	groups := p.expression.FindStringSubmatchIndex(line)
	if groups == nil {
		return FrameInfo{}, false
	}

	var frame FrameInfo
	for i := 1; i < len(p.kinds); i++ {
		start, end := groups[2*i], groups[2*i+1]
		if start < 0 || start == end {
			continue
		}
		value := line[start:end]
		switch p.kinds[i] {
		case 'c':
			frame.ClassName = value
		case 'C':
			frame.ClassName = strings.ReplaceAll(value, "/", ".")
		case 's':
			frame.SourceFile = value
		case 'l':
			n, err := strconv.Atoi(value)
			if err != nil {
				n = -1
			}
			frame.LineNumber = n
		case 't':
			frame.Type = value
		case 'f':
			frame.FieldName = value
		case 'm':
			frame.MethodName = value
		case 'a':
			frame.Arguments = value
		}
	}
	return frame, true
}

// Format is the reverse of Parse: it writes frame into the places of line
// the placeholders matched. Lines that do not match are returned as is.
func (p *FramePattern) Format(line string, frame FrameInfo) string {
	groups := p.expression.FindStringSubmatchIndex(line)
	if groups == nil {
		return line
	}

	var b strings.Builder
	pos := 0
	for i := 1; i < len(p.kinds); i++ {
		start, end := groups[2*i], groups[2*i+1]
		if start < 0 {
			continue
		}
		b.WriteString(line[pos:start])
		switch p.kinds[i] {
		case 'c':
			b.WriteString(frame.ClassName)
		case 'C':
			b.WriteString(strings.ReplaceAll(frame.ClassName, ".", "/"))
		case 's':
			b.WriteString(frame.SourceFile)
		case 'l':
			b.WriteString(strconv.Itoa(frame.LineNumber))
		case 't':
			b.WriteString(frame.Type)
		case 'f':
			if p.verbose {
				b.WriteString(frame.Type)
				b.WriteString(" ")
			}
			b.WriteString(frame.FieldName)
		case 'm':
			if p.verbose {
				b.WriteString(frame.Type)
				b.WriteString(" ")
			}
			b.WriteString(frame.MethodName)
			if p.verbose {
				b.WriteString("(")
				b.WriteString(frame.Arguments)
				b.WriteString(")")
			}
		case 'a':
			b.WriteString(frame.Arguments)
		}
		pos = end
	}
	b.WriteString(line[pos:])
	return b.String()
}
