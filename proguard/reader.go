// Package proguard reads ProGuard and R8 mapping files.
package proguard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrMalformedLine = errors.New("malformed mapping line")

// ClassMapping is a "original -> obfuscated:" line. Names are external,
// e.g. "com.example.Foo$Bar".
type ClassMapping struct {
	Original   string
	Obfuscated string
}

type FieldMapping struct {
	Class      ClassMapping
	Type       string
	Original   string
	Obfuscated string
}

// LineRange is an inclusive range of source lines; zero when unknown.
type LineRange struct {
	First, Last int
}

type MethodMapping struct {
	Class ClassMapping
	// DeclaringClass is the original class of a method inlined from
	// another class, otherwise Class.Original.
	DeclaringClass  string
	ReturnType      string
	Original        string
	Arguments       string
	OriginalLines   LineRange
	ObfuscatedLines LineRange
	Obfuscated      string
}

// Inlined reports whether the line describes code inlined from another
// class rather than a method of the enclosing class.
func (m MethodMapping) Inlined() bool {
	return m.DeclaringClass != m.Class.Original
}

// Processor receives the mappings of a file in order.
type Processor interface {
	// ProcessClass reports whether the members of the class are wanted.
	ProcessClass(m ClassMapping) bool
	ProcessField(m FieldMapping)
	ProcessMethod(m MethodMapping)
}

type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Pump parses every line and hands the mappings to p.
func (r *Reader) Pump(p Processor) error {
	var (
		current ClassMapping
		wanted  bool
		lineNo  int
	)

	scanner := bufio.NewScanner(r.r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") {
			class, err := parseClassLine(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			current = class
			wanted = p.ProcessClass(class)
			continue
		}
		if current.Original == "" {
			return fmt.Errorf("line %d: %w: member outside of a class", lineNo, ErrMalformedLine)
		}
		if !wanted {
			continue
		}
		if err := parseMemberLine(current, line, p); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func indexFrom(s, substr string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], substr)
	if i < 0 {
		return -1
	}
	return from + i
}

// parseClassLine parses "original -> obfuscated:".
func parseClassLine(line string) (ClassMapping, error) {
	arrow := strings.Index(line, "->")
	if arrow < 0 {
		return ClassMapping{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	colon := indexFrom(line, ":", arrow+2)
	m := ClassMapping{
		Original:   strings.TrimSpace(line[:arrow]),
		Obfuscated: strings.TrimSpace(line[arrow+2 : colon]),
	}
	if m.Original == "" || m.Obfuscated == "" {
		return ClassMapping{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	return m, nil
}

// parseMemberLine parses one of
//
//	type name -> obf
//	a:b:type name(args) -> obf
//	a:b:type name(args):c -> obf
//	a:b:type name(args):c:d -> obf
//
// where the leading pair is the obfuscated line range, the trailing one the
// original range, and name may be qualified by the class it was inlined
// from.
func parseMemberLine(class ClassMapping, line string, p Processor) error {
	colon1, colon2, colon3, colon4 := -1, -1, -1, -1
	args1, args2 := -1, -1

	colon1 = strings.Index(line, ":")
	if colon1 >= 0 {
		colon2 = indexFrom(line, ":", colon1+1)
	}
	// a field line has no line numbers; its type may not contain ':'
	if colon2 < 0 {
		colon1 = -1
	}

	space := indexFrom(line, " ", colon2+1)
	cursor := space
	if space >= 0 {
		args1 = indexFrom(line, "(", space+1)
	}
	if args1 >= 0 {
		args2 = indexFrom(line, ")", args1+1)
	}
	if args2 >= 0 {
		cursor = args2
		colon3 = indexFrom(line, ":", args2+1)
	}
	arrow := indexFrom(line, "->", cursor+1)
	if colon3 >= 0 && (arrow < 0 || colon3 < arrow) {
		colon4 = indexFrom(line, ":", colon3+1)
		if arrow >= 0 && colon4 > arrow {
			colon4 = -1
		}
	} else {
		colon3 = -1
	}
	if space < 0 || arrow < 0 || (args1 >= 0 && args2 < 0) {
		return fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	memberType := strings.TrimSpace(line[colon2+1 : space])
	nameEnd := arrow
	if args1 >= 0 {
		nameEnd = args1
	}
	name := strings.TrimSpace(line[space+1 : nameEnd])
	obfuscated := strings.TrimSpace(line[arrow+2:])
	if memberType == "" || name == "" || obfuscated == "" {
		return fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	declaring := class.Original
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		declaring = name[:dot]
		name = name[dot+1:]
	}

	if args1 < 0 {
		p.ProcessField(FieldMapping{Class: class, Type: memberType, Original: name, Obfuscated: obfuscated})
		return nil
	}

	m := MethodMapping{
		Class:          class,
		DeclaringClass: declaring,
		ReturnType:     memberType,
		Original:       name,
		Arguments:      strings.TrimSpace(line[args1+1 : args2]),
		Obfuscated:     obfuscated,
	}
	if colon2 >= 0 {
		first, err := lineNumber(line[:colon1])
		if err != nil {
			return err
		}
		last, err := lineNumber(line[colon1+1 : colon2])
		if err != nil {
			return err
		}
		m.ObfuscatedLines = LineRange{First: first, Last: last}
		m.OriginalLines = m.ObfuscatedLines
	}
	if colon3 >= 0 {
		end := arrow
		if colon4 >= 0 {
			end = colon4
		}
		first, err := lineNumber(line[colon3+1 : end])
		if err != nil {
			return err
		}
		m.OriginalLines = LineRange{First: first, Last: first}
		if colon4 >= 0 {
			if m.OriginalLines.Last, err = lineNumber(line[colon4+1 : arrow]); err != nil {
				return err
			}
		}
	}
	p.ProcessMethod(m)
	return nil
}

func lineNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: bad line number %q", ErrMalformedLine, s)
	}
	return n, nil
}
